package model

// AccountType classifies an account by the statement it rolls up to.
type AccountType string

const (
	AccountTypeBalanceSheet    AccountType = "balance-sheet"
	AccountTypeIncomeStatement AccountType = "income-statement"
)

// NormalBalance is the side on which an account normally carries its balance.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "debit"
	NormalCredit NormalBalance = "credit"
)

// Account is a row in the chart of accounts. Codes are numeric strings whose
// leading digit is the account class (1-9).
type Account struct {
	Meta
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	Class        int           `json:"class"`
	Type         AccountType   `json:"type"`
	Normal       NormalBalance `json:"normal"`
	Reconcilable bool          `json:"reconcilable"`
	Active       bool          `json:"active"`
}

// NewAccount builds a validated account from a code and a name. Class, type
// and normal balance are derived from the leading digit of the code.
func NewAccount(code, name string) (*Account, error) {
	if len(code) < 2 {
		return nil, &ValidationError{
			EntityID:    code,
			Description: "account code must be at least 2 characters",
		}
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return nil, &ValidationError{
				EntityID:    code,
				Description: "account code must contain only digits",
			}
		}
	}
	class := int(code[0] - '0')
	if class == 0 {
		return nil, &ValidationError{
			EntityID:    code,
			Description: "account class must be 1-9, got 0",
		}
	}

	return &Account{
		Code:         code,
		Name:         name,
		Class:        class,
		Type:         classType(class),
		Normal:       classNormal(class),
		Reconcilable: class == 4 || class == 5,
		Active:       true,
	}, nil
}

func classType(class int) AccountType {
	if class <= 5 {
		return AccountTypeBalanceSheet
	}
	return AccountTypeIncomeStatement
}

func classNormal(class int) NormalBalance {
	switch class {
	case 2, 3, 5, 6, 8:
		return NormalDebit
	default:
		return NormalCredit
	}
}
