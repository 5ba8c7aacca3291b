package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comptaflow/comptaflow/internal/audit"
	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

// LogAudit appends the next link of the tenant's audit chain. The hash is
// computed client-side with the same algorithm the local backend uses, so a
// trail exported from either backend verifies identically. A server-side
// trigger could compute it instead, as long as it implements the same
// function.
func (s *Store) LogAudit(ctx context.Context, action model.AuditAction, table storage.Table, entityID string, details, actor string) error {
	tip, err := s.chainTip(ctx)
	if err != nil {
		return err
	}

	entry := audit.NewEntry(tip, action, string(table), entityID, details, actor, s.now())
	doc, err := storage.EncodeRecord(&entry)
	if err != nil {
		return err
	}

	name, err := storage.TableAuditLogs.RemoteName()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (tenant_id, id, doc, updated_at) VALUES ($1, $2, $3, $4)`, name)
	if _, err := s.db.ExecContext(ctx, query, s.tenantID, entry.ID, doc, entry.UpdatedAt.UTC()); err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

func (s *Store) chainTip(ctx context.Context) (string, error) {
	name, err := storage.TableAuditLogs.RemoteName()
	if err != nil {
		return "", err
	}
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE tenant_id = $1 ORDER BY updated_at DESC, id DESC LIMIT 1`, name)
	var raw []byte
	err = s.db.QueryRowContext(ctx, query, s.tenantID).Scan(&raw)
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

// AuditTrail returns the tenant's audit entries matching f.
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
