// Package remote implements the storage contract on a multi-tenant cloud
// Postgres database. Every statement is scoped by tenant id; the scoping is
// appended by this package and can never be bypassed by caller-supplied
// filters. Heavy aggregations are delegated to server-side SQL functions
// because the full ledger is not available client-side.
package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is the Postgres-backed remote store for a single tenant.
type Store struct {
	db       *sql.DB
	tenantID string
	log      *zap.Logger
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open connects to the cloud database and pins the store to one tenant.
func Open(dsn, tenantID string, opts ...Option) (*Store, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("remote store requires a tenant id")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening remote store: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{
		db:       db,
		tenantID: tenantID,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Online reports whether the cloud database is currently reachable.
func (s *Store) Online(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

// GetByID returns the record with the given id within the tenant.
func (s *Store) GetByID(ctx context.Context, table storage.Table, id string) (storage.Record, error) {
	name, err := table.RemoteName()
	if err != nil {
		return nil, err
	}
	var doc []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE tenant_id = $1 AND id = $2`, name)
	err = s.db.QueryRowContext(ctx, query, s.tenantID, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Table: table, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", table, id, err)
	}
	return storage.DecodeRecord(table, doc)
}

// GetAll returns the tenant's records matching f. Filters compile to SQL over
// the JSON document columns; see buildSelect.
func (s *Store) GetAll(ctx context.Context, table storage.Table, f storage.QueryFilters) ([]storage.Record, error) {
	name, err := table.RemoteName()
	if err != nil {
		return nil, err
	}
	query, args := buildSelect(name, s.tenantID, f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var out []storage.Record
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		rec, err := storage.DecodeRecord(table, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of the tenant's records matching f.
func (s *Store) Count(ctx context.Context, table storage.Table, f storage.QueryFilters) (int, error) {
	name, err := table.RemoteName()
	if err != nil {
		return 0, err
	}
	query, args := buildCount(name, s.tenantID, f)
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// Create inserts a record for the tenant. A non-empty actor appends an
// audit-chain entry.
func (s *Store) Create(ctx context.Context, table storage.Table, rec storage.Record, actor string) (storage.Record, error) {
	name, err := table.RemoteName()
	if err != nil {
		return nil, err
	}
	if rec.RecordID() == "" {
		rec.SetRecordID(uuid.NewString())
	}
	now := s.now()
	rec.Touch(now)

	doc, err := storage.EncodeRecord(rec)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`INSERT INTO %s (tenant_id, id, doc, updated_at) VALUES ($1, $2, $3, $4)`, name)
	if _, err := s.db.ExecContext(ctx, query, s.tenantID, rec.RecordID(), doc, now.UTC()); err != nil {
		if isUniqueViolation(err) {
			return nil, &storage.ConflictError{Table: table, Key: rec.RecordID()}
		}
		return nil, fmt.Errorf("inserting %s/%s: %w", table, rec.RecordID(), err)
	}

	if actor != "" && table != storage.TableAuditLogs {
		if err := s.LogAudit(ctx, model.AuditCreate, table, rec.RecordID(), string(doc), actor); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Update overwrites the tenant's record. A non-empty actor appends an
// audit-chain entry.
func (s *Store) Update(ctx context.Context, table storage.Table, rec storage.Record, actor string) (storage.Record, error) {
	name, err := table.RemoteName()
	if err != nil {
		return nil, err
	}
	now := s.now()
	rec.Touch(now)

	doc, err := storage.EncodeRecord(rec)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = $1, updated_at = $2 WHERE tenant_id = $3 AND id = $4`, name)
	res, err := s.db.ExecContext(ctx, query, doc, now.UTC(), s.tenantID, rec.RecordID())
	if err != nil {
		return nil, fmt.Errorf("updating %s/%s: %w", table, rec.RecordID(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &storage.NotFoundError{Table: table, ID: rec.RecordID()}
	}

	if actor != "" && table != storage.TableAuditLogs {
		if err := s.LogAudit(ctx, model.AuditUpdate, table, rec.RecordID(), string(doc), actor); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Delete removes the tenant's record. A non-empty actor appends an
// audit-chain entry.
func (s *Store) Delete(ctx context.Context, table storage.Table, id, actor string) error {
	name, err := table.RemoteName()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND id = $2`, name)
	res, err := s.db.ExecContext(ctx, query, s.tenantID, id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", table, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &storage.NotFoundError{Table: table, ID: id}
	}

	if actor != "" && table != storage.TableAuditLogs {
		details := fmt.Sprintf(`{"id":%q}`, id)
		if err := s.LogAudit(ctx, model.AuditDelete, table, id, details, actor); err != nil {
			return err
		}
	}
	return nil
}

// Transaction is NOT atomic here: it merely invokes fn against the same
// store. True multi-table atomicity requires server-side procedures. This is
// a documented limitation of the cloud backend, not something this package
// papers over.
func (s *Store) Transaction(_ context.Context, _ []storage.Table, fn func(storage.Store) error) error {
	return fn(s)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
