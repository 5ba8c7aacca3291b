package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

// Apply replays one queued change against the cloud store. Creates and
// updates are applied as upserts so a retried delivery whose first attempt
// partially succeeded stays idempotent; deletes of already-gone records are
// not errors. Replayed changes do not re-enter the audit chain here: the
// originating store audited them.
func (s *Store) Apply(ctx context.Context, change model.ChangeRecord) error {
	table := storage.Table(change.Table)
	name, err := table.RemoteName()
	if err != nil {
		return err
	}

	switch change.Action {
	case model.AuditCreate, model.AuditUpdate:
		rec, err := storage.DecodeRecord(table, change.Payload)
		if err != nil {
			return err
		}
		query := fmt.Sprintf(`INSERT INTO %s (tenant_id, id, doc, updated_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (tenant_id, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`, name)
		if _, err := s.db.ExecContext(ctx, query, s.tenantID, rec.RecordID(), []byte(change.Payload), rec.UpdatedTime().UTC()); err != nil {
			return fmt.Errorf("replicating %s %s/%s: %w", change.Action, table, rec.RecordID(), err)
		}
		return nil
	case model.AuditDelete:
		query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND id = $2`, name)
		if _, err := s.db.ExecContext(ctx, query, s.tenantID, change.EntityID); err != nil {
			return fmt.Errorf("replicating DELETE %s/%s: %w", table, change.EntityID, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown change action %q", change.Action)
	}
}

// FetchSince returns the tenant's records for a table ordered by updated_at
// descending. The watermark is advisory: the orchestrator filters to records
// strictly newer than it client-side, and the descending order lets it stop
// early.
func (s *Store) FetchSince(ctx context.Context, table storage.Table, _ time.Time) ([]storage.Record, error) {
	return s.GetAll(ctx, table, storage.QueryFilters{
		OrderBy: &storage.Ordering{Field: "updatedAt", Desc: true},
	})
}
