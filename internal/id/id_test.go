package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEntryNumber(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "BNK-202501-003", FormatEntryNumber("bnk", date, 3))
}

func TestParseEntryNumber(t *testing.T) {
	journal, year, month, seq, err := ParseEntryNumber("BNK-202501-003")
	require.NoError(t, err)
	assert.Equal(t, "BNK", journal)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 1, month)
	assert.Equal(t, 3, seq)
}

func TestParseEntryNumber_Invalid(t *testing.T) {
	for _, bad := range []string{"", "BNK", "BNK-2025-003", "BNK-2025xx-003", "BNK-202501-abc"} {
		_, _, _, _, err := ParseEntryNumber(bad)
		assert.Error(t, err, bad)
	}
}

func TestRoundTrip(t *testing.T) {
	date := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	n := FormatEntryNumber("VTE", date, 42)
	journal, year, month, seq, err := ParseEntryNumber(n)
	require.NoError(t, err)
	assert.Equal(t, "VTE", journal)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 12, month)
	assert.Equal(t, 42, seq)
}
