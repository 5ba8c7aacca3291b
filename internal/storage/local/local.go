// Package local implements the storage contract on an embedded SQLite
// database. It is the source of truth whenever connectivity is unavailable:
// reads are low-latency table scans with client-side filtering, and all
// accounting aggregation is computed here from the journal lines.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

// querier is satisfied by *sql.DB and *sql.Tx so the same statements run
// inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// chain holds the audit chain tip, shared between a store and its
// transaction-scoped clones.
type chain struct {
	mu     sync.Mutex
	tip    string
	loaded bool
}

// reset discards the cached tip so the next append re-reads it from the
// table.
func (c *chain) reset() {
	c.mu.Lock()
	c.tip = ""
	c.loaded = false
	c.mu.Unlock()
}

var _ storage.Store = (*Store)(nil)

// Store is the SQLite-backed local store. One physical table per logical
// table, each row a JSON document keyed by id.
type Store struct {
	db    *sql.DB
	q     querier
	log   *zap.Logger
	now   func() time.Time
	chain *chain
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

// Open opens (creating if needed) the local database at path. WAL mode keeps
// readers from blocking behind the single writer.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	s := &Store{
		db:    db,
		q:     db,
		log:   zap.NewNop(),
		now:   time.Now,
		chain: &chain{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, t := range storage.AllTables {
		stmts := []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
				id TEXT PRIMARY KEY,
				doc TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`, string(t)),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (updated_at)`,
				"idx_"+string(t)+"_updated_at", string(t)),
		}
		for _, stmt := range stmts {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating table %s: %w", t, err)
			}
		}
	}
	return nil
}

// DB exposes the underlying handle so the sync orchestrator can persist its
// queue in the same database file.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// GetByID returns the record with the given id.
func (s *Store) GetByID(ctx context.Context, table storage.Table, id string) (storage.Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("unknown table %q", string(table))
	}
	var doc []byte
	query := fmt.Sprintf(`SELECT doc FROM %q WHERE id = ?`, string(table))
	err := s.q.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Table: table, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", table, id, err)
	}
	return storage.DecodeRecord(table, doc)
}

// GetAll scans the table and filters client-side. There is no query planner
// here; the table sizes of a single-tenant ledger keep scans cheap.
func (s *Store) GetAll(ctx context.Context, table storage.Table, f storage.QueryFilters) ([]storage.Record, error) {
	pairs, err := s.scan(ctx, table, f)
	if err != nil {
		return nil, err
	}

	if f.OrderBy != nil {
		field, desc := f.OrderBy.Field, f.OrderBy.Desc
		sort.SliceStable(pairs, func(i, j int) bool {
			if desc {
				return storage.Less(pairs[j].doc[field], pairs[i].doc[field])
			}
			return storage.Less(pairs[i].doc[field], pairs[j].doc[field])
		})
	}

	if f.Offset > 0 {
		if f.Offset >= len(pairs) {
			pairs = nil
		} else {
			pairs = pairs[f.Offset:]
		}
	}
	if f.Limit > 0 && f.Limit < len(pairs) {
		pairs = pairs[:f.Limit]
	}

	out := make([]storage.Record, 0, len(pairs))
	for _, p := range pairs {
		rec, err := storage.DecodeRecord(table, p.raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Count returns the number of records matching f, ignoring limit and offset.
func (s *Store) Count(ctx context.Context, table storage.Table, f storage.QueryFilters) (int, error) {
	pairs, err := s.scan(ctx, table, f)
	if err != nil {
		return 0, err
	}
	return len(pairs), nil
}

type pair struct {
	doc storage.Doc
	raw []byte
}

func (s *Store) scan(ctx context.Context, table storage.Table, f storage.QueryFilters) ([]pair, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("unknown table %q", string(table))
	}
	query := fmt.Sprintf(`SELECT doc FROM %q ORDER BY rowid`, string(table))
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", table, err)
	}
	defer rows.Close()

	var pairs []pair
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		doc, err := storage.DecodeDoc(raw)
		if err != nil {
			return nil, err
		}
		if f.Matches(doc) {
			pairs = append(pairs, pair{doc: doc, raw: raw})
		}
	}
	return pairs, rows.Err()
}

// Create inserts a new record, assigning an id if none is set. A non-empty
// actor appends an audit-chain entry.
func (s *Store) Create(ctx context.Context, table storage.Table, rec storage.Record, actor string) (storage.Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("unknown table %q", string(table))
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

	query := fmt.Sprintf(`INSERT INTO %q (id, doc, updated_at) VALUES (?, ?, ?)`, string(table))
	if _, err := s.q.ExecContext(ctx, query, rec.RecordID(), doc, now.UTC().Format(time.RFC3339Nano)); err != nil {
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

// Put writes a record verbatim, inserting or overwriting, without
// re-stamping its timestamps. The sync orchestrator uses it to merge remote
// changes so their cloud-assigned update times survive the merge.
func (s *Store) Put(ctx context.Context, table storage.Table, rec storage.Record) error {
	if !table.Valid() {
		return fmt.Errorf("unknown table %q", string(table))
	}
	doc, err := storage.EncodeRecord(rec)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %q (id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`, string(table))
	if _, err := s.q.ExecContext(ctx, query, rec.RecordID(), doc, rec.UpdatedTime().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("merging %s/%s: %w", table, rec.RecordID(), err)
	}
	return nil
}

// Update overwrites an existing record. A non-empty actor appends an
// audit-chain entry.
func (s *Store) Update(ctx context.Context, table storage.Table, rec storage.Record, actor string) (storage.Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("unknown table %q", string(table))
	}
	now := s.now()
	rec.Touch(now)

	doc, err := storage.EncodeRecord(rec)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE %q SET doc = ?, updated_at = ? WHERE id = ?`, string(table))
	res, err := s.q.ExecContext(ctx, query, doc, now.UTC().Format(time.RFC3339Nano), rec.RecordID())
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

// Delete removes a record. A non-empty actor appends an audit-chain entry.
func (s *Store) Delete(ctx context.Context, table storage.Table, id, actor string) error {
	if !table.Valid() {
		return fmt.Errorf("unknown table %q", string(table))
	}
	query := fmt.Sprintf(`DELETE FROM %q WHERE id = ?`, string(table))
	res, err := s.q.ExecContext(ctx, query, id)
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

// Transaction runs fn against a clone of the store bound to a single SQLite
// transaction. The tables argument is accepted for contract compatibility;
// SQLite locks the whole database regardless.
func (s *Store) Transaction(ctx context.Context, _ []storage.Table, fn func(storage.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	clone := *s
	clone.q = tx
	if err := fn(&clone); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Warn("rollback failed", zap.Error(rbErr))
		}
		// Audit entries appended inside the transaction rolled back with
		// it; the cached tip may now name an unpersisted entry.
		s.chain.reset()
		return err
	}
	if err := tx.Commit(); err != nil {
		s.chain.reset()
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// isUniqueViolation matches on the driver's error message so the driver's
// error types stay out of this package's surface.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
