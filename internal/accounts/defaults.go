package accounts

// DefaultAccount is one row of the seed chart.
type DefaultAccount struct {
	Code         string
	Name         string
	Reconcilable bool
}

// DefaultChart returns the default chart of accounts, an OHADA-style plan
// keyed by class digit: 1 capital, 2 fixed assets, 3 stocks, 4 third
// parties, 5 treasury, 6 charges, 7 revenue.
func DefaultChart() []DefaultAccount {
	return []DefaultAccount{
		{Code: "101000", Name: "Capital social"},
		{Code: "106000", Name: "Réserves"},
		{Code: "120000", Name: "Résultat de l'exercice"},
		{Code: "161000", Name: "Emprunts"},
		{Code: "211000", Name: "Terrains"},
		{Code: "231000", Name: "Bâtiments"},
		{Code: "244000", Name: "Matériel et mobilier"},
		{Code: "245000", Name: "Matériel de transport"},
		{Code: "311000", Name: "Marchandises"},
		{Code: "401000", Name: "Fournisseurs", Reconcilable: true},
		{Code: "411000", Name: "Clients", Reconcilable: true},
		{Code: "421000", Name: "Personnel"},
		{Code: "444000", Name: "État, impôts sur les bénéfices"},
		{Code: "445000", Name: "État, TVA"},
		{Code: "521000", Name: "Banque", Reconcilable: true},
		{Code: "571000", Name: "Caisse", Reconcilable: true},
		{Code: "601000", Name: "Achats de marchandises"},
		{Code: "605000", Name: "Autres achats"},
		{Code: "622000", Name: "Locations"},
		{Code: "627000", Name: "Services bancaires"},
		{Code: "661000", Name: "Rémunérations du personnel"},
		{Code: "681000", Name: "Dotations aux amortissements"},
		{Code: "701000", Name: "Ventes de marchandises"},
		{Code: "706000", Name: "Prestations de services"},
		{Code: "771000", Name: "Revenus financiers"},
	}
}
