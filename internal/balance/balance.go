// Package balance computes account balances and trial balances from journal
// lines. It performs no I/O; every backend feeds it the same way and must get
// the same numbers back.
package balance

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/comptaflow/comptaflow/internal/model"
)

// Line is a journal line flattened with its entry date, the unit every
// aggregation works from.
type Line struct {
	AccountCode string
	AccountName string
	Date        time.Time
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Flatten expands journal entries into dated lines.
func Flatten(entries []*model.JournalEntry) []Line {
	var lines []Line
	for _, e := range entries {
		for _, l := range e.Lines {
			lines = append(lines, Line{
				AccountCode: l.AccountCode,
				AccountName: l.AccountName,
				Date:        e.Date,
				Debit:       l.Debit,
				Credit:      l.Credit,
			})
		}
	}
	return lines
}

// Balances aggregates lines into per-account movement, restricted to account
// codes matching any of the given prefixes (none = all accounts) and to the
// date range. Results are ordered by account code ascending; codes are unique
// per entity so ties do not occur.
func Balances(lines []Line, prefixes []string, r model.DateRange) []model.AccountBalance {
	byCode := make(map[string]*model.AccountBalance)
	for _, l := range lines {
		if !matchesPrefix(l.AccountCode, prefixes) || !r.Contains(l.Date) {
			continue
		}
		b, ok := byCode[l.AccountCode]
		if !ok {
			b = &model.AccountBalance{
				AccountCode: l.AccountCode,
				AccountName: l.AccountName,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			byCode[l.AccountCode] = b
		}
		b.Debit = b.Debit.Add(l.Debit)
		b.Credit = b.Credit.Add(l.Credit)
		b.LineCount++
	}

	out := make([]model.AccountBalance, 0, len(byCode))
	for _, b := range byCode {
		b.Solde = b.Debit.Sub(b.Credit)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out
}

// ByAccount returns the same aggregation as Balances keyed by account code.
func ByAccount(lines []Line, r model.DateRange) map[string]model.AccountBalance {
	out := make(map[string]model.AccountBalance)
	for _, b := range Balances(lines, nil, r) {
		out[b.AccountCode] = b
	}
	return out
}

// TrialBalance produces one row per account over the period: the solde
// carried in from lines dated before the period, the movement within it, and
// the resulting closing solde. Rows are ordered by account code ascending.
func TrialBalance(lines []Line, r model.DateRange) []model.TrialBalanceRow {
	period := ByAccount(lines, r)

	opening := make(map[string]model.AccountBalance)
	if !r.From.IsZero() {
		before := model.DateRange{To: r.From.Add(-time.Nanosecond)}
		opening = ByAccount(lines, before)
	}

	codes := make(map[string]bool)
	for code := range period {
		codes[code] = true
	}
	for code := range opening {
		codes[code] = true
	}

	rows := make([]model.TrialBalanceRow, 0, len(codes))
	for code := range codes {
		open := opening[code].Solde
		if open.IsZero() {
			open = decimal.Zero
		}
		b := period[code]
		name := b.AccountName
		if name == "" {
			name = opening[code].AccountName
		}
		mv := b.Debit.Sub(b.Credit)
		if b.Debit.IsZero() {
			b.Debit = decimal.Zero
		}
		if b.Credit.IsZero() {
			b.Credit = decimal.Zero
		}
		rows = append(rows, model.TrialBalanceRow{
			AccountCode:  code,
			AccountName:  name,
			OpeningSolde: open,
			Debit:        b.Debit,
			Credit:       b.Credit,
			ClosingSolde: open.Add(mv),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })
	return rows
}

func matchesPrefix(code string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
