package storage

import (
	"fmt"

	"github.com/comptaflow/comptaflow/internal/model"
)

// Table names a logical table in the application's own (camelCase) naming
// convention. The set is a fixed enumeration; backends reject unknown names.
type Table string

const (
	TableJournalEntries    Table = "journalEntries"
	TableAccounts          Table = "accounts"
	TableThirdParties      Table = "thirdParties"
	TableAssets            Table = "assets"
	TableFiscalYears       Table = "fiscalYears"
	TableBudgetLines       Table = "budgetLines"
	TableAuditLogs         Table = "auditLogs"
	TableSettings          Table = "settings"
	TableClosureSessions   Table = "closureSessions"
	TableProvisions        Table = "provisions"
	TableExchangeRates     Table = "exchangeRates"
	TableHedgingPositions  Table = "hedgingPositions"
	TableRevisionItems     Table = "revisionItems"
	TableInventoryItems    Table = "inventoryItems"
	TableStockMovements    Table = "stockMovements"
	TableAliasTiers        Table = "aliasTiers"
	TableAliasPrefixConfig Table = "aliasPrefixConfig"
	TableFiscalPeriods     Table = "fiscalPeriods"
	TableRecoveryCases     Table = "recoveryCases"
)

// AllTables is the full table enumeration, in the order tables are pulled
// during sync.
var AllTables = []Table{
	TableAccounts,
	TableJournalEntries,
	TableThirdParties,
	TableAssets,
	TableFiscalYears,
	TableFiscalPeriods,
	TableBudgetLines,
	TableSettings,
	TableClosureSessions,
	TableProvisions,
	TableExchangeRates,
	TableHedgingPositions,
	TableRevisionItems,
	TableInventoryItems,
	TableStockMovements,
	TableAliasTiers,
	TableAliasPrefixConfig,
	TableRecoveryCases,
	TableAuditLogs,
}

// remoteNames maps application table names to the cloud schema's snake_case
// names. The map is a static bijection kept exhaustive over AllTables; a
// test guards both properties.
var remoteNames = map[Table]string{
	TableJournalEntries:    "journal_entries",
	TableAccounts:          "accounts",
	TableThirdParties:      "third_parties",
	TableAssets:            "assets",
	TableFiscalYears:       "fiscal_years",
	TableBudgetLines:       "budget_lines",
	TableAuditLogs:         "audit_logs",
	TableSettings:          "settings",
	TableClosureSessions:   "closure_sessions",
	TableProvisions:        "provisions",
	TableExchangeRates:     "exchange_rates",
	TableHedgingPositions:  "hedging_positions",
	TableRevisionItems:     "revision_items",
	TableInventoryItems:    "inventory_items",
	TableStockMovements:    "stock_movements",
	TableAliasTiers:        "alias_tiers",
	TableAliasPrefixConfig: "alias_prefix_config",
	TableFiscalPeriods:     "fiscal_periods",
	TableRecoveryCases:     "recovery_cases",
}

// records maps each table to a constructor for its row type, so payloads
// cross the backend boundary as typed values rather than raw maps.
var records = map[Table]func() Record{
	TableJournalEntries:    func() Record { return &model.JournalEntry{} },
	TableAccounts:          func() Record { return &model.Account{} },
	TableThirdParties:      func() Record { return &model.ThirdParty{} },
	TableAssets:            func() Record { return &model.Asset{} },
	TableFiscalYears:       func() Record { return &model.FiscalYear{} },
	TableBudgetLines:       func() Record { return &model.BudgetLine{} },
	TableAuditLogs:         func() Record { return &model.AuditEntry{} },
	TableSettings:          func() Record { return &model.Setting{} },
	TableClosureSessions:   func() Record { return &model.ClosureSession{} },
	TableProvisions:        func() Record { return &model.Provision{} },
	TableExchangeRates:     func() Record { return &model.ExchangeRate{} },
	TableHedgingPositions:  func() Record { return &model.HedgingPosition{} },
	TableRevisionItems:     func() Record { return &model.RevisionItem{} },
	TableInventoryItems:    func() Record { return &model.InventoryItem{} },
	TableStockMovements:    func() Record { return &model.StockMovement{} },
	TableAliasTiers:        func() Record { return &model.AliasTier{} },
	TableAliasPrefixConfig: func() Record { return &model.AliasPrefixConfig{} },
	TableFiscalPeriods:     func() Record { return &model.FiscalPeriod{} },
	TableRecoveryCases:     func() Record { return &model.RecoveryCase{} },
}

// Valid reports whether t is part of the table enumeration.
func (t Table) Valid() bool {
	_, ok := records[t]
	return ok
}

// RemoteName translates t to the cloud schema's table name.
func (t Table) RemoteName() (string, error) {
	name, ok := remoteNames[t]
	if !ok {
		return "", fmt.Errorf("unknown table %q", string(t))
	}
	return name, nil
}

// NewRecord returns an empty row value for t, ready for JSON decoding.
func (t Table) NewRecord() (Record, error) {
	ctor, ok := records[t]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", string(t))
	}
	return ctor(), nil
}
