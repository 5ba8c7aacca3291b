// Package audit builds and verifies the tamper-evident audit chain. Every
// mutation appends one entry whose hash covers the previous entry's hash, so
// a trail exported from any backend can be verified independently.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comptaflow/comptaflow/internal/model"
)

// Hash computes the chain hash for an entry: sha256 over the previous hash
// and the entry payload, hex encoded. The field order is fixed; changing it
// would invalidate every existing trail.
func Hash(previousHash string, action model.AuditAction, entityType, entityID, details string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s", previousHash, action, entityType, entityID, details)
	return hex.EncodeToString(h.Sum(nil))
}

// NewEntry builds the next link of a chain whose tip is previousHash.
// An empty previousHash starts a new chain.
func NewEntry(previousHash string, action model.AuditAction, entityType, entityID, details, actor string, now time.Time) model.AuditEntry {
	e := model.AuditEntry{
		Timestamp:    now,
		Actor:        actor,
		Action:       action,
		EntityType:   entityType,
		EntityID:     entityID,
		Details:      details,
		PreviousHash: previousHash,
		Hash:         Hash(previousHash, action, entityType, entityID, details),
	}
	e.ID = uuid.NewString()
	e.Touch(now)
	return e
}

// Verify walks a trail in chain order and recomputes every link. It returns
// nil for an intact chain and a descriptive error naming the first broken
// link otherwise.
func Verify(entries []model.AuditEntry) error {
	prev := ""
	for i, e := range entries {
		if e.PreviousHash != prev {
			return fmt.Errorf("entry %d (%s/%s): previous hash mismatch", i, e.EntityType, e.EntityID)
		}
		want := Hash(e.PreviousHash, e.Action, e.EntityType, e.EntityID, e.Details)
		if e.Hash != want {
			return fmt.Errorf("entry %d (%s/%s): hash mismatch", i, e.EntityType, e.EntityID)
		}
		prev = e.Hash
	}
	return nil
}
