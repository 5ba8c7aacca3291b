package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange restricts an aggregation to entries dated within [From, To].
// A zero bound leaves that side open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// AccountBalance is the derived movement of a single account over a period.
// Solde is signed: debit minus credit.
type AccountBalance struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Solde       decimal.Decimal `json:"solde"`
	LineCount   int             `json:"lineCount"`
}

// TrialBalanceRow is one account's row in a trial balance: opening solde
// before the period, movement within it, and the resulting closing solde.
type TrialBalanceRow struct {
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	OpeningSolde decimal.Decimal `json:"openingSolde"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	ClosingSolde decimal.Decimal `json:"closingSolde"`
}
