// Package id formats and parses journal entry numbers.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatEntryNumber returns an entry number like "BNK-202501-003": journal
// code, posting month, then a per-month sequence.
func FormatEntryNumber(journalCode string, date time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d%02d-%03d", strings.ToUpper(journalCode), date.Year(), int(date.Month()), seq)
}

// ParseEntryNumber splits an entry number into journal code, year, month and
// sequence.
func ParseEntryNumber(n string) (journalCode string, year, month, seq int, err error) {
	parts := strings.Split(n, "-")
	if len(parts) != 3 || len(parts[1]) != 6 {
		return "", 0, 0, 0, fmt.Errorf("invalid entry number format: %q", n)
	}

	year, err = strconv.Atoi(parts[1][:4])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid year in entry number %q: %w", n, err)
	}
	month, err = strconv.Atoi(parts[1][4:])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid month in entry number %q: %w", n, err)
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid sequence in entry number %q: %w", n, err)
	}

	return parts[0], year, month, seq, nil
}
