package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptaflow/comptaflow/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func sampleLines() []Line {
	return []Line{
		{AccountCode: "521000", AccountName: "Banque", Date: date(2025, 1, 5), Debit: dec("1000.00")},
		{AccountCode: "701000", AccountName: "Ventes", Date: date(2025, 1, 5), Credit: dec("1000.00")},
		{AccountCode: "605000", AccountName: "Achats", Date: date(2025, 2, 10), Debit: dec("300.00")},
		{AccountCode: "521000", AccountName: "Banque", Date: date(2025, 2, 10), Credit: dec("300.00")},
		{AccountCode: "521000", AccountName: "Banque", Date: date(2025, 3, 1), Debit: dec("50.00")},
		{AccountCode: "771000", AccountName: "Revenus financiers", Date: date(2025, 3, 1), Credit: dec("50.00")},
	}
}

func TestBalances_All(t *testing.T) {
	balances := Balances(sampleLines(), nil, model.DateRange{})
	require.Len(t, balances, 4)

	// Ordered by account code ascending.
	codes := make([]string, len(balances))
	for i, b := range balances {
		codes[i] = b.AccountCode
	}
	assert.Equal(t, []string{"521000", "605000", "701000", "771000"}, codes)

	bank := balances[0]
	assert.True(t, bank.Debit.Equal(dec("1050.00")), bank.Debit.String())
	assert.True(t, bank.Credit.Equal(dec("300.00")))
	assert.True(t, bank.Solde.Equal(dec("750.00")))
	assert.Equal(t, 3, bank.LineCount)
}

func TestBalances_PrefixFilter(t *testing.T) {
	balances := Balances(sampleLines(), []string{"52"}, model.DateRange{})
	require.Len(t, balances, 1)
	assert.Equal(t, "521000", balances[0].AccountCode)

	balances = Balances(sampleLines(), []string{"7"}, model.DateRange{})
	require.Len(t, balances, 2)
}

func TestBalances_DateRange(t *testing.T) {
	r := model.DateRange{From: date(2025, 2, 1), To: date(2025, 2, 28)}
	balances := Balances(sampleLines(), nil, r)
	require.Len(t, balances, 2)
	assert.Equal(t, "521000", balances[0].AccountCode)
	assert.True(t, balances[0].Credit.Equal(dec("300.00")))
	assert.Equal(t, "605000", balances[1].AccountCode)
}

func TestBalances_DebitsEqualCredits(t *testing.T) {
	balances := Balances(sampleLines(), nil, model.DateRange{})
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, b := range balances {
		totalDebit = totalDebit.Add(b.Debit)
		totalCredit = totalCredit.Add(b.Credit)
	}
	assert.True(t, totalDebit.Equal(totalCredit))
}

func TestByAccount(t *testing.T) {
	byCode := ByAccount(sampleLines(), model.DateRange{})
	require.Contains(t, byCode, "521000")
	assert.True(t, byCode["521000"].Solde.Equal(dec("750.00")))
}

func TestTrialBalance_OpeningSolde(t *testing.T) {
	r := model.DateRange{From: date(2025, 2, 1)}
	rows := TrialBalance(sampleLines(), r)

	byCode := make(map[string]model.TrialBalanceRow)
	for _, row := range rows {
		byCode[row.AccountCode] = row
	}

	bank, ok := byCode["521000"]
	require.True(t, ok)
	assert.True(t, bank.OpeningSolde.Equal(dec("1000.00")), bank.OpeningSolde.String())
	assert.True(t, bank.Debit.Equal(dec("50.00")))
	assert.True(t, bank.Credit.Equal(dec("300.00")))
	assert.True(t, bank.ClosingSolde.Equal(dec("750.00")))

	// Opening-only account still appears with zero movement.
	sales, ok := byCode["701000"]
	require.True(t, ok)
	assert.True(t, sales.OpeningSolde.Equal(dec("-1000.00")))
	assert.True(t, sales.Debit.IsZero())
	assert.True(t, sales.Credit.IsZero())
}

func TestTrialBalance_Order(t *testing.T) {
	rows := TrialBalance(sampleLines(), model.DateRange{})
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].AccountCode, rows[i].AccountCode)
	}
}

func TestFlatten(t *testing.T) {
	entries := []*model.JournalEntry{
		{
			Date: date(2025, 1, 5),
			Lines: []model.JournalLine{
				{AccountCode: "521000", Debit: dec("10.00")},
				{AccountCode: "701000", Credit: dec("10.00")},
			},
		},
	}
	lines := Flatten(entries)
	require.Len(t, lines, 2)
	assert.Equal(t, date(2025, 1, 5), lines[0].Date)
	assert.Equal(t, "521000", lines[0].AccountCode)
}
