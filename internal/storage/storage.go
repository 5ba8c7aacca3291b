// Package storage defines the contract every ledger backend implements: a
// uniform table-oriented CRUD surface plus the accounting operations that
// must behave identically whether the data lives in the embedded local
// store, the multi-tenant cloud store, or both.
package storage

import (
	"context"
	"time"

	"github.com/comptaflow/comptaflow/internal/model"
)

// Record is implemented by every persisted row type (via model.Meta).
type Record interface {
	RecordID() string
	SetRecordID(id string)
	UpdatedTime() time.Time
	Touch(now time.Time)
}

// Ordering selects a single field to sort on.
type Ordering struct {
	Field string
	Desc  bool
}

// InFilter keeps records whose Field value is one of Values.
type InFilter struct {
	Field  string
	Values []any
}

// PrefixFilter keeps records whose Field value starts with Prefix.
type PrefixFilter struct {
	Field  string
	Prefix string
}

// QueryFilters is the filter object accepted by GetAll and Count. Zero value
// means "everything".
type QueryFilters struct {
	Where      map[string]any
	WhereIn    *InFilter
	StartsWith *PrefixFilter
	OrderBy    *Ordering
	Limit      int
	Offset     int
}

// Store is the storage contract. The rest of the application consumes the
// core exclusively through this interface; which backend sits behind it is a
// deployment decision.
//
// Create, Update and Delete append an audit-chain entry when actor is
// non-empty. SaveJournalEntry enforces the double-entry invariant before any
// write and rejects violations with a *model.ValidationError.
type Store interface {
	GetByID(ctx context.Context, table Table, id string) (Record, error)
	GetAll(ctx context.Context, table Table, f QueryFilters) ([]Record, error)
	Count(ctx context.Context, table Table, f QueryFilters) (int, error)
	Create(ctx context.Context, table Table, rec Record, actor string) (Record, error)
	Update(ctx context.Context, table Table, rec Record, actor string) (Record, error)
	Delete(ctx context.Context, table Table, id, actor string) error

	SaveJournalEntry(ctx context.Context, e *model.JournalEntry, actor string) (*model.JournalEntry, error)
	JournalEntries(ctx context.Context, f QueryFilters) ([]*model.JournalEntry, error)
	AccountBalance(ctx context.Context, prefixes []string, r model.DateRange) ([]model.AccountBalance, error)
	TrialBalance(ctx context.Context, r model.DateRange) ([]model.TrialBalanceRow, error)
	BalanceByAccount(ctx context.Context, r model.DateRange) (map[string]model.AccountBalance, error)

	// Transaction runs fn against a store scoped to the named tables. Only
	// the local backend provides real atomicity; see the backend docs.
	Transaction(ctx context.Context, tables []Table, fn func(Store) error) error

	LogAudit(ctx context.Context, action model.AuditAction, table Table, entityID string, details, actor string) error
	AuditTrail(ctx context.Context, f QueryFilters) ([]model.AuditEntry, error)

	Close() error
}
