package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comptaflow/comptaflow/internal/audit"
	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

// LogAudit appends the next link of the tamper-evident chain. The hash is
// computed client-side with the shared algorithm so trails exported from this
// store verify identically to cloud-produced ones.
func (s *Store) LogAudit(ctx context.Context, action model.AuditAction, table storage.Table, entityID string, details, actor string) error {
	_, err := s.AppendAudit(ctx, action, table, entityID, details, actor)
	return err
}

// AppendAudit is LogAudit returning the appended entry, for callers that
// replicate the chain elsewhere.
func (s *Store) AppendAudit(ctx context.Context, action model.AuditAction, table storage.Table, entityID string, details, actor string) (model.AuditEntry, error) {
	s.chain.mu.Lock()
	defer s.chain.mu.Unlock()

	if !s.chain.loaded {
		tip, err := s.loadChainTip(ctx)
		if err != nil {
			return model.AuditEntry{}, err
		}
		s.chain.tip = tip
		s.chain.loaded = true
	}

	entry := audit.NewEntry(s.chain.tip, action, string(table), entityID, details, actor, s.now())
	doc, err := storage.EncodeRecord(&entry)
	if err != nil {
		return model.AuditEntry{}, err
	}

	query := fmt.Sprintf(`INSERT INTO %q (id, doc, updated_at) VALUES (?, ?, ?)`, string(storage.TableAuditLogs))
	if _, err := s.q.ExecContext(ctx, query, entry.ID, doc, entry.UpdatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return model.AuditEntry{}, fmt.Errorf("appending audit entry: %w", err)
	}

	s.chain.tip = entry.Hash
	return entry, nil
}

// loadChainTip reads the hash of the most recently appended audit entry.
// Insertion order (rowid) is the chain order.
func (s *Store) loadChainTip(ctx context.Context) (string, error) {
	query := fmt.Sprintf(`SELECT doc FROM %q ORDER BY rowid DESC LIMIT 1`, string(storage.TableAuditLogs))
	var raw []byte
	err := s.q.QueryRowContext(ctx, query).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading audit chain tip: %w", err)
	}
	rec, err := storage.DecodeRecord(storage.TableAuditLogs, raw)
	if err != nil {
		return "", err
	}
	return rec.(*model.AuditEntry).Hash, nil
}

// AuditTrail returns audit entries matching f, in chain order unless f
// orders otherwise.
func (s *Store) AuditTrail(ctx context.Context, f storage.QueryFilters) ([]model.AuditEntry, error) {
	recs, err := s.GetAll(ctx, storage.TableAuditLogs, f)
	if err != nil {
		return nil, err
	}
	out := make([]model.AuditEntry, len(recs))
	for i, r := range recs {
		out[i] = *r.(*model.AuditEntry)
	}
	return out, nil
}
