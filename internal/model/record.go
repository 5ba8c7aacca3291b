package model

import "time"

// Meta carries the fields shared by every persisted record. Embed it in a
// table's row type to satisfy the storage Record interface.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordID returns the record's primary key.
func (m *Meta) RecordID() string { return m.ID }

// SetRecordID assigns the record's primary key.
func (m *Meta) SetRecordID(id string) { m.ID = id }

// UpdatedTime returns the last modification time, used as the sync ordering key.
func (m *Meta) UpdatedTime() time.Time { return m.UpdatedAt }

// Touch stamps the record for a write at the given time.
func (m *Meta) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
