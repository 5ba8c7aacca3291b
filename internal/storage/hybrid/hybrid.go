// Package hybrid composes the local and remote stores into an offline-first
// backend. The local store serves every read and takes every write
// synchronously; writes are also queued and delivered to the cloud
// asynchronously by an explicit push, while pulls merge newer cloud records
// back in. Local operations never block on network state.
package hybrid

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
	"github.com/comptaflow/comptaflow/internal/storage/local"
)

// Remote is the slice of the cloud store the orchestrator needs: a liveness
// probe, change replay, and watermark-ordered fetches.
type Remote interface {
	Online(ctx context.Context) bool
	Apply(ctx context.Context, change model.ChangeRecord) error
	FetchSince(ctx context.Context, table storage.Table, since time.Time) ([]storage.Record, error)
	Close() error
}

// watermarkID is the fixed settings record holding the last-sync timestamp,
// giving the persist step create-or-update semantics.
const watermarkID = "sync.lastSyncAt"

var _ storage.Store = (*Store)(nil)

// Store is the sync orchestrator. It owns the outbound queue and the
// last-sync watermark; while an instance is active for a tenant no other
// component may write to either underlying store.
type Store struct {
	local  *local.Store
	remote Remote
	queue  *Queue
	log    *zap.Logger
	now    func() time.Time

	// syncing makes concurrent push cycles mutually exclusive on this
	// instance. There is no cross-process lock; two orchestrators on the
	// same tenant can still race, an accepted limitation.
	syncing atomic.Bool

	retryCeiling int
	backoff      Backoff
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the orchestrator's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the orchestrator's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRetryCeiling sets how many delivery failures demote a queued item to a
// dropped conflict.
func WithRetryCeiling(n int) Option {
	return func(s *Store) { s.retryCeiling = n }
}

// WithBackoff sets the delay policy between delivery retries.
func WithBackoff(b Backoff) Option {
	return func(s *Store) { s.backoff = b }
}

// New wires a local store and a remote replica into an orchestrator. The
// queue persists in the local store's database file.
func New(l *local.Store, r Remote, opts ...Option) (*Store, error) {
	queue, err := OpenQueue(l.DB())
	if err != nil {
		return nil, err
	}

	s := &Store{
		local:        l,
		remote:       r,
		queue:        queue,
		log:          zap.NewNop(),
		now:          time.Now,
		retryCeiling: 3,
		backoff:      DefaultBackoff(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes both underlying stores.
func (s *Store) Close() error {
	rErr := s.remote.Close()
	if err := s.local.Close(); err != nil {
		return err
	}
	return rErr
}

// QueueLen returns the number of changes awaiting delivery.
func (s *Store) QueueLen() int { return s.queue.Len() }

// GetByID reads from the local store.
func (s *Store) GetByID(ctx context.Context, table storage.Table, id string) (storage.Record, error) {
	return s.local.GetByID(ctx, table, id)
}

// GetAll reads from the local store.
func (s *Store) GetAll(ctx context.Context, table storage.Table, f storage.QueryFilters) ([]storage.Record, error) {
	return s.local.GetAll(ctx, table, f)
}

// Count reads from the local store.
func (s *Store) Count(ctx context.Context, table storage.Table, f storage.QueryFilters) (int, error) {
	return s.local.Count(ctx, table, f)
}

// Create writes to the local store synchronously and queues the change for
// asynchronous delivery to the cloud.
func (s *Store) Create(ctx context.Context, table storage.Table, rec storage.Record, actor string) (storage.Record, error) {
	created, err := s.local.Create(ctx, table, rec, "")
	if err != nil {
		return nil, err
	}
	if err := s.enqueueRecord(ctx, model.AuditCreate, table, created); err != nil {
		return nil, err
	}
	if actor != "" && table != storage.TableAuditLogs {
		doc, err := storage.EncodeRecord(created)
		if err != nil {
			return nil, err
		}
		if err := s.LogAudit(ctx, model.AuditCreate, table, created.RecordID(), string(doc), actor); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// Update writes to the local store synchronously and queues the change.
func (s *Store) Update(ctx context.Context, table storage.Table, rec storage.Record, actor string) (storage.Record, error) {
	updated, err := s.local.Update(ctx, table, rec, "")
	if err != nil {
		return nil, err
	}
	if err := s.enqueueRecord(ctx, model.AuditUpdate, table, updated); err != nil {
		return nil, err
	}
	if actor != "" && table != storage.TableAuditLogs {
		doc, err := storage.EncodeRecord(updated)
		if err != nil {
			return nil, err
		}
		if err := s.LogAudit(ctx, model.AuditUpdate, table, updated.RecordID(), string(doc), actor); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// Delete removes from the local store synchronously and queues the change.
func (s *Store) Delete(ctx context.Context, table storage.Table, id, actor string) error {
	if err := s.local.Delete(ctx, table, id, ""); err != nil {
		return err
	}
	change := model.ChangeRecord{
		Table:     string(table),
		EntityID:  id,
		Action:    model.AuditDelete,
		Timestamp: s.now(),
	}
	if err := s.queue.Enqueue(ctx, change); err != nil {
		return err
	}
	if actor != "" && table != storage.TableAuditLogs {
		details := fmt.Sprintf(`{"id":%q}`, id)
		if err := s.LogAudit(ctx, model.AuditDelete, table, id, details, actor); err != nil {
			return err
		}
	}
	return nil
}

// SaveJournalEntry validates and saves locally, then queues the entry.
func (s *Store) SaveJournalEntry(ctx context.Context, e *model.JournalEntry, actor string) (*model.JournalEntry, error) {
	action := model.AuditCreate
	if e.ID != "" {
		if _, err := s.local.GetByID(ctx, storage.TableJournalEntries, e.ID); err == nil {
			action = model.AuditUpdate
		}
	}

	saved, err := s.local.SaveJournalEntry(ctx, e, "")
	if err != nil {
		return nil, err
	}
	if err := s.enqueueRecord(ctx, action, storage.TableJournalEntries, saved); err != nil {
		return nil, err
	}
	if actor != "" {
		doc, err := storage.EncodeRecord(saved)
		if err != nil {
			return nil, err
		}
		if err := s.LogAudit(ctx, action, storage.TableJournalEntries, saved.ID, string(doc), actor); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

// JournalEntries reads from the local store.
func (s *Store) JournalEntries(ctx context.Context, f storage.QueryFilters) ([]*model.JournalEntry, error) {
	return s.local.JournalEntries(ctx, f)
}

// AccountBalance aggregates over the local ledger.
func (s *Store) AccountBalance(ctx context.Context, prefixes []string, r model.DateRange) ([]model.AccountBalance, error) {
	return s.local.AccountBalance(ctx, prefixes, r)
}

// TrialBalance aggregates over the local ledger.
func (s *Store) TrialBalance(ctx context.Context, r model.DateRange) ([]model.TrialBalanceRow, error) {
	return s.local.TrialBalance(ctx, r)
}

// BalanceByAccount aggregates over the local ledger.
func (s *Store) BalanceByAccount(ctx context.Context, r model.DateRange) (map[string]model.AccountBalance, error) {
	return s.local.BalanceByAccount(ctx, r)
}

// Transaction invokes fn against this store so every write inside it is
// queued. Like the cloud backend's, it is not atomic across tables.
func (s *Store) Transaction(_ context.Context, _ []storage.Table, fn func(storage.Store) error) error {
	return fn(s)
}

// LogAudit appends to the local audit chain and queues the entry so the
// cloud copy carries the identical chain.
func (s *Store) LogAudit(ctx context.Context, action model.AuditAction, table storage.Table, entityID string, details, actor string) error {
	entry, err := s.local.AppendAudit(ctx, action, table, entityID, details, actor)
	if err != nil {
		return err
	}
	return s.enqueueRecord(ctx, model.AuditCreate, storage.TableAuditLogs, &entry)
}

// AuditTrail reads from the local store.
func (s *Store) AuditTrail(ctx context.Context, f storage.QueryFilters) ([]model.AuditEntry, error) {
	return s.local.AuditTrail(ctx, f)
}

func (s *Store) enqueueRecord(ctx context.Context, action model.AuditAction, table storage.Table, rec storage.Record) error {
	payload, err := storage.EncodeRecord(rec)
	if err != nil {
		return err
	}
	return s.queue.Enqueue(ctx, model.ChangeRecord{
		Table:     string(table),
		EntityID:  rec.RecordID(),
		Action:    action,
		Payload:   payload,
		Timestamp: s.now(),
	})
}

// watermark returns the persisted last-sync timestamp, zero if none.
func (s *Store) watermark(ctx context.Context) time.Time {
	rec, err := s.local.GetByID(ctx, storage.TableSettings, watermarkID)
	if err != nil {
		return time.Time{}
	}
	setting, ok := rec.(*model.Setting)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, setting.Value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// setWatermark persists the last-sync timestamp with create-or-update
// semantics.
func (s *Store) setWatermark(ctx context.Context, t time.Time) error {
	value := t.UTC().Format(time.RFC3339Nano)
	rec, err := s.local.GetByID(ctx, storage.TableSettings, watermarkID)
	if storage.IsNotFound(err) {
		setting := &model.Setting{Key: "lastSyncAt", Value: value}
		setting.ID = watermarkID
		_, err := s.local.Create(ctx, storage.TableSettings, setting, "")
		return err
	}
	if err != nil {
		return err
	}
	setting := rec.(*model.Setting)
	setting.Value = value
	_, err = s.local.Update(ctx, storage.TableSettings, setting, "")
	return err
}
