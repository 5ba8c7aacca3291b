package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptaflow/comptaflow/internal/model"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestHash_Deterministic(t *testing.T) {
	h1 := Hash("", model.AuditCreate, "accounts", "a1", `{"code":"521000"}`)
	h2 := Hash("", model.AuditCreate, "accounts", "a1", `{"code":"521000"}`)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestHash_DependsOnEveryField(t *testing.T) {
	base := Hash("prev", model.AuditCreate, "accounts", "a1", "d")
	assert.NotEqual(t, base, Hash("other", model.AuditCreate, "accounts", "a1", "d"))
	assert.NotEqual(t, base, Hash("prev", model.AuditUpdate, "accounts", "a1", "d"))
	assert.NotEqual(t, base, Hash("prev", model.AuditCreate, "assets", "a1", "d"))
	assert.NotEqual(t, base, Hash("prev", model.AuditCreate, "accounts", "a2", "d"))
	assert.NotEqual(t, base, Hash("prev", model.AuditCreate, "accounts", "a1", "x"))
}

func chain(n int) []model.AuditEntry {
	var entries []model.AuditEntry
	prev := ""
	for i := 0; i < n; i++ {
		e := NewEntry(prev, model.AuditCreate, "accounts", "a1", "details", "tester", now)
		entries = append(entries, e)
		prev = e.Hash
	}
	return entries
}

func TestVerify_Intact(t *testing.T) {
	require.NoError(t, Verify(chain(5)))
	require.NoError(t, Verify(nil))
}

func TestVerify_TamperedDetails(t *testing.T) {
	entries := chain(5)
	entries[2].Details = "edited"
	err := Verify(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 2")
	assert.Contains(t, err.Error(), "hash mismatch")
}

func TestVerify_BrokenLink(t *testing.T) {
	entries := chain(4)
	entries[3].PreviousHash = "bogus"
	err := Verify(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "previous hash mismatch")
}

func TestVerify_RemovedEntry(t *testing.T) {
	entries := chain(4)
	entries = append(entries[:1], entries[2:]...)
	require.Error(t, Verify(entries))
}

func TestNewEntry_LinksToPrevious(t *testing.T) {
	first := NewEntry("", model.AuditCreate, "accounts", "a1", "d", "tester", now)
	second := NewEntry(first.Hash, model.AuditUpdate, "accounts", "a1", "d2", "tester", now)
	assert.Equal(t, first.Hash, second.PreviousHash)
	assert.NotEmpty(t, second.ID)
	assert.Equal(t, now, second.Timestamp)
}
