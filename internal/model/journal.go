package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	StatusDraft     EntryStatus = "draft"
	StatusValidated EntryStatus = "validated"
	StatusPosted    EntryStatus = "posted"
)

// JournalLine is one side of a double-entry. By convention exactly one of
// Debit and Credit is non-zero.
type JournalLine struct {
	ID          string          `json:"id"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Label       string          `json:"label"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntry is a balanced set of journal lines posted on a single date.
type JournalEntry struct {
	Meta
	EntryNumber string          `json:"entryNumber"`
	JournalCode string          `json:"journalCode"`
	Date        time.Time       `json:"date"`
	Reference   string          `json:"reference"`
	Label       string          `json:"label"`
	Status      EntryStatus     `json:"status"`
	Lines       []JournalLine   `json:"lines"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// ComputeTotals recalculates TotalDebit and TotalCredit from the lines.
func (e *JournalEntry) ComputeTotals() {
	e.TotalDebit = decimal.Zero
	e.TotalCredit = decimal.Zero
	for _, l := range e.Lines {
		e.TotalDebit = e.TotalDebit.Add(l.Debit)
		e.TotalCredit = e.TotalCredit.Add(l.Credit)
	}
}

// Balanced reports whether total debits equal total credits.
func (e *JournalEntry) Balanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit)
}

// Validate enforces the entry-level invariants. Totals are recomputed first so
// a stale TotalDebit/TotalCredit can never mask an unbalanced entry.
func (e *JournalEntry) Validate() []ValidationError {
	var errs []ValidationError
	e.ComputeTotals()

	if len(e.Lines) == 0 {
		errs = append(errs, ValidationError{
			EntityID:    e.ID,
			Description: "journal entry has no lines",
		})
		return errs
	}

	if !e.Balanced() {
		errs = append(errs, ValidationError{
			EntityID: e.ID,
			Description: fmt.Sprintf("debits (%s) != credits (%s)",
				e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2)),
		})
	}

	hundred := decimal.NewFromInt(100)
	for _, l := range e.Lines {
		if l.AccountCode == "" {
			errs = append(errs, ValidationError{
				EntityID:    e.ID,
				Description: "line is missing an account code",
			})
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				EntityID:    e.ID,
				Description: fmt.Sprintf("line %s has a negative amount", l.AccountCode),
			})
		}
		hasDebit := !l.Debit.IsZero()
		hasCredit := !l.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				EntityID:    e.ID,
				Description: fmt.Sprintf("line %s must have exactly one of debit or credit", l.AccountCode),
			})
		}
		for _, amt := range []decimal.Decimal{l.Debit, l.Credit} {
			if !amt.IsZero() && !amt.Mul(hundred).Equal(amt.Mul(hundred).Floor()) {
				errs = append(errs, ValidationError{
					EntityID:    e.ID,
					Description: fmt.Sprintf("amount %s has more than 2 decimal places", amt),
				})
			}
		}
	}

	return errs
}
