package model

import (
	"encoding/json"
	"time"
)

// ChangeRecord is one queued outbound write in hybrid mode, and one merged
// inbound change after a pull. It is destroyed on successful delivery or once
// the retry ceiling is reached.
type ChangeRecord struct {
	ID          string          `json:"id"`
	Table       string          `json:"table"`
	EntityID    string          `json:"entityId"`
	Action      AuditAction     `json:"action"`
	Payload     json.RawMessage `json:"payload"`
	Timestamp   time.Time       `json:"timestamp"`
	Retries     int             `json:"retries"`
	NextAttempt time.Time       `json:"nextAttempt"`
	LastError   string          `json:"lastError,omitempty"`
}

// SyncResult summarizes one push attempt. Network failures land in Errors
// rather than aborting the push, so a single unreachable write does not
// interrupt the surrounding workflow.
type SyncResult struct {
	Pushed    int      `json:"pushed"`
	Conflicts int      `json:"conflicts"`
	Errors    []string `json:"errors"`
}

// ChangeSet is the outcome of one pull attempt: the changes merged into the
// local store, and the watermark they were fetched against.
type ChangeSet struct {
	Changes []ChangeRecord `json:"changes"`
	Since   time.Time      `json:"since"`
}
