package model

import "time"

// AuditAction names the mutation an audit entry records.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// AuditEntry is one link in the tamper-evident audit chain. Hash is a
// deterministic function of PreviousHash plus the entry payload, so a trail
// exported from any backend verifies with the same algorithm.
type AuditEntry struct {
	Meta
	Timestamp    time.Time   `json:"timestamp"`
	Actor        string      `json:"actor"`
	Action       AuditAction `json:"action"`
	EntityType   string      `json:"entityType"`
	EntityID     string      `json:"entityId"`
	Details      string      `json:"details"`
	PreviousHash string      `json:"previousHash"`
	Hash         string      `json:"hash"`
}
