package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row types for the remaining persisted tables. Each table crosses the
// backend boundary as its own type so the camelCase/snake_case translation
// stays checked at compile time instead of flowing through untyped maps.

// ThirdParty is a customer, supplier or other counterparty.
type ThirdParty struct {
	Meta
	Code        string `json:"code"`
	Name        string `json:"name"`
	Kind        string `json:"kind"` // customer, supplier, other
	AccountCode string `json:"accountCode"`
	Active      bool   `json:"active"`
}

// Asset is a fixed asset subject to depreciation.
type Asset struct {
	Meta
	Label             string          `json:"label"`
	AccountCode       string          `json:"accountCode"`
	AcquisitionDate   time.Time       `json:"acquisitionDate"`
	AcquisitionCost   decimal.Decimal `json:"acquisitionCost"`
	DepreciationYears int             `json:"depreciationYears"`
}

// FiscalYear bounds an accounting exercise.
type FiscalYear struct {
	Meta
	Label  string    `json:"label"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Closed bool      `json:"closed"`
}

// FiscalPeriod is a sub-division of a fiscal year.
type FiscalPeriod struct {
	Meta
	FiscalYearID string    `json:"fiscalYearId"`
	Label        string    `json:"label"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Locked       bool      `json:"locked"`
}

// BudgetLine is a budgeted amount for an account over a period.
type BudgetLine struct {
	Meta
	AccountCode string          `json:"accountCode"`
	PeriodID    string          `json:"periodId"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
}

// Setting is a single key/value configuration row.
type Setting struct {
	Meta
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ClosureSession tracks a period-end closure run.
type ClosureSession struct {
	Meta
	FiscalYearID string    `json:"fiscalYearId"`
	StartedAt    time.Time `json:"startedAt"`
	Step         string    `json:"step"`
	Completed    bool      `json:"completed"`
}

// Provision is a provision for risks and charges.
type Provision struct {
	Meta
	Label       string          `json:"label"`
	AccountCode string          `json:"accountCode"`
	Amount      decimal.Decimal `json:"amount"`
	Reversed    bool            `json:"reversed"`
}

// ExchangeRate is a dated currency quotation against the base currency.
type ExchangeRate struct {
	Meta
	Currency string          `json:"currency"`
	Date     time.Time       `json:"date"`
	Rate     decimal.Decimal `json:"rate"`
}

// HedgingPosition records a forward cover on a currency exposure.
type HedgingPosition struct {
	Meta
	Currency  string          `json:"currency"`
	Notional  decimal.Decimal `json:"notional"`
	Rate      decimal.Decimal `json:"rate"`
	Maturity  time.Time       `json:"maturity"`
	Reference string          `json:"reference"`
}

// RevisionItem is a checklist item in an account revision file.
type RevisionItem struct {
	Meta
	AccountCode string `json:"accountCode"`
	Label       string `json:"label"`
	Status      string `json:"status"`
	Reviewer    string `json:"reviewer"`
}

// InventoryItem is a stocked article.
type InventoryItem struct {
	Meta
	SKU      string          `json:"sku"`
	Label    string          `json:"label"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unitCost"`
}

// StockMovement is an inventory in/out movement.
type StockMovement struct {
	Meta
	ItemID    string          `json:"itemId"`
	Date      time.Time       `json:"date"`
	Quantity  decimal.Decimal `json:"quantity"` // negative = issue
	Reference string          `json:"reference"`
}

// AliasTier maps a counterparty alias to a ledger tier.
type AliasTier struct {
	Meta
	Alias       string `json:"alias"`
	AccountCode string `json:"accountCode"`
	Priority    int    `json:"priority"`
}

// AliasPrefixConfig configures automatic alias generation per account prefix.
type AliasPrefixConfig struct {
	Meta
	Prefix     string `json:"prefix"`
	NextNumber int    `json:"nextNumber"`
	Enabled    bool   `json:"enabled"`
}

// RecoveryCase tracks collection of an overdue receivable.
type RecoveryCase struct {
	Meta
	ThirdPartyID string          `json:"thirdPartyId"`
	Amount       decimal.Decimal `json:"amount"`
	Stage        string          `json:"stage"`
	OpenedAt     time.Time       `json:"openedAt"`
	ClosedAt     *time.Time      `json:"closedAt,omitempty"`
}
