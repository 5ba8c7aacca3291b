package model

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func balancedEntry(amount string) *JournalEntry {
	return &JournalEntry{
		JournalCode: "BNK",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Label:       "Achat fournitures",
		Lines: []JournalLine{
			{AccountCode: "605000", AccountName: "Autres achats", Debit: dec(amount)},
			{AccountCode: "521000", AccountName: "Banque", Credit: dec(amount)},
		},
	}
}

func TestJournalEntry_ComputeTotals(t *testing.T) {
	e := balancedEntry("150.00")
	e.ComputeTotals()
	assert.True(t, e.TotalDebit.Equal(dec("150.00")))
	assert.True(t, e.TotalCredit.Equal(dec("150.00")))
	assert.True(t, e.Balanced())
}

func TestJournalEntry_Validate_Balanced(t *testing.T) {
	assert.Empty(t, balancedEntry("99.99").Validate())
}

func TestJournalEntry_Validate_Unbalanced(t *testing.T) {
	e := balancedEntry("100.00")
	e.Lines[1].Credit = dec("99.00")
	errs := e.Validate()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Description, "debits (100.00) != credits (99.00)")
}

func TestJournalEntry_Validate_StaleTotalsRecomputed(t *testing.T) {
	e := balancedEntry("100.00")
	e.TotalDebit = dec("100.00")
	e.TotalCredit = dec("100.00")
	e.Lines[0].Debit = dec("250.00")
	errs := e.Validate()
	require.NotEmpty(t, errs)
}

func TestJournalEntry_Validate_NoLines(t *testing.T) {
	e := &JournalEntry{JournalCode: "OD"}
	errs := e.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Description, "no lines")
}

func TestJournalEntry_Validate_BothSides(t *testing.T) {
	e := balancedEntry("50.00")
	e.Lines[0].Credit = dec("50.00")
	e.Lines[1].Debit = dec("50.00")
	found := false
	for _, ve := range e.Validate() {
		if strings.Contains(ve.Description, "exactly one of debit or credit") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestJournalEntry_Validate_TooManyDecimals(t *testing.T) {
	e := balancedEntry("10.555")
	errs := e.Validate()
	require.NotEmpty(t, errs)
	found := false
	for _, ve := range errs {
		if strings.Contains(ve.Description, "more than 2 decimal places") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestJournalEntry_Validate_NegativeAmount(t *testing.T) {
	e := balancedEntry("10.00")
	e.Lines[0].Debit = dec("-10.00")
	e.Lines[1].Credit = dec("-10.00")
	errs := e.Validate()
	require.NotEmpty(t, errs)
}
