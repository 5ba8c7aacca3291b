package hybrid

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/comptaflow/comptaflow/internal/model"
)

// Queue is the outbound change queue. Items are persisted in the local
// database so queued changes survive a process restart; the in-memory slice
// is only a read cache over that durable log. Delivery order is FIFO.
type Queue struct {
	db *sql.DB

	mu    sync.Mutex
	items []model.ChangeRecord
}

// OpenQueue creates the queue table if needed and loads any surviving items.
func OpenQueue(db *sql.DB) (*Queue, error) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sync_queue (
			id TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("creating sync queue: %w", err)
		}
	}

	q := &Queue{db: db}
	if err := q.load(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Queue) load() error {
	rows, err := q.db.Query(`SELECT doc FROM sync_queue ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("loading sync queue: %w", err)
	}
	defer rows.Close()

	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scanning sync queue row: %w", err)
		}
		var item model.ChangeRecord
		if err := json.Unmarshal(raw, &item); err != nil {
			return fmt.Errorf("decoding sync queue item: %w", err)
		}
		q.items = append(q.items, item)
	}
	return rows.Err()
}

// Enqueue appends an item to the durable log and the cache.
func (q *Queue) Enqueue(ctx context.Context, item model.ChangeRecord) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding sync queue item: %w", err)
	}
	if _, err := q.db.ExecContext(ctx, `INSERT INTO sync_queue (id, doc) VALUES (?, ?)`, item.ID, raw); err != nil {
		return fmt.Errorf("persisting sync queue item: %w", err)
	}

	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the queued items in FIFO order. A push cycle
// iterates the snapshot while removals mutate the live queue.
func (q *Queue) Snapshot() []model.ChangeRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.ChangeRecord, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Remove deletes an item from the durable log and the cache.
func (q *Queue) Remove(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id); err != nil {
		return fmt.Errorf("removing sync queue item: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for i, item := range q.items {
		if item.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	return nil
}

// Update persists an item's retry bookkeeping after a failed delivery.
func (q *Queue) Update(ctx context.Context, item model.ChangeRecord) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding sync queue item: %w", err)
	}
	if _, err := q.db.ExecContext(ctx, `UPDATE sync_queue SET doc = ? WHERE id = ?`, raw, item.ID); err != nil {
		return fmt.Errorf("updating sync queue item: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ID == item.ID {
			q.items[i] = item
			break
		}
	}
	return nil
}
