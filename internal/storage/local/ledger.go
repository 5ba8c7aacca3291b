package local

import (
	"context"
	"fmt"

	"github.com/comptaflow/comptaflow/internal/balance"
	"github.com/comptaflow/comptaflow/internal/id"
	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

// SaveJournalEntry validates the double-entry invariant and every account
// reference before any write, then creates or updates the entry. Violations
// come back as *model.ValidationError; nothing is silently corrected.
func (s *Store) SaveJournalEntry(ctx context.Context, e *model.JournalEntry, actor string) (*model.JournalEntry, error) {
	verrs := e.Validate()

	seen := make(map[string]bool)
	for _, l := range e.Lines {
		if l.AccountCode == "" || seen[l.AccountCode] {
			continue
		}
		seen[l.AccountCode] = true
		n, err := s.Count(ctx, storage.TableAccounts, storage.QueryFilters{
			Where: map[string]any{"code": l.AccountCode},
		})
		if err != nil {
			return nil, err
		}
		if n == 0 {
			verrs = append(verrs, model.ValidationError{
				EntityID:    e.ID,
				Description: fmt.Sprintf("unknown account %s", l.AccountCode),
			})
		}
	}

	if err := storage.JoinValidationErrors(verrs); err != nil {
		return nil, err
	}

	if e.Status == "" {
		e.Status = model.StatusDraft
	}
	if e.EntryNumber == "" {
		seq, err := s.nextEntrySeq(ctx, e)
		if err != nil {
			return nil, err
		}
		e.EntryNumber = id.FormatEntryNumber(e.JournalCode, e.Date, seq)
	}

	var (
		rec storage.Record
		err error
	)
	if e.ID != "" {
		if _, getErr := s.GetByID(ctx, storage.TableJournalEntries, e.ID); getErr == nil {
			rec, err = s.Update(ctx, storage.TableJournalEntries, e, actor)
		} else if storage.IsNotFound(getErr) {
			rec, err = s.Create(ctx, storage.TableJournalEntries, e, actor)
		} else {
			return nil, getErr
		}
	} else {
		rec, err = s.Create(ctx, storage.TableJournalEntries, e, actor)
	}
	if err != nil {
		return nil, err
	}
	return rec.(*model.JournalEntry), nil
}

// nextEntrySeq returns the next free sequence for the entry's journal code
// and posting month.
func (s *Store) nextEntrySeq(ctx context.Context, e *model.JournalEntry) (int, error) {
	entries, err := s.JournalEntries(ctx, storage.QueryFilters{
		Where: map[string]any{"journalCode": e.JournalCode},
	})
	if err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, existing := range entries {
		_, year, month, seq, err := id.ParseEntryNumber(existing.EntryNumber)
		if err != nil {
			continue
		}
		if year == e.Date.Year() && month == int(e.Date.Month()) && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

// JournalEntries returns journal entries matching f.
func (s *Store) JournalEntries(ctx context.Context, f storage.QueryFilters) ([]*model.JournalEntry, error) {
	recs, err := s.GetAll(ctx, storage.TableJournalEntries, f)
	if err != nil {
		return nil, err
	}
	out := make([]*model.JournalEntry, len(recs))
	for i, r := range recs {
		out[i] = r.(*model.JournalEntry)
	}
	return out, nil
}

func (s *Store) lines(ctx context.Context) ([]balance.Line, error) {
	entries, err := s.JournalEntries(ctx, storage.QueryFilters{})
	if err != nil {
		return nil, err
	}
	return balance.Flatten(entries), nil
}

// AccountBalance aggregates movement for accounts matching the given code
// prefixes over the date range.
func (s *Store) AccountBalance(ctx context.Context, prefixes []string, r model.DateRange) ([]model.AccountBalance, error) {
	lines, err := s.lines(ctx)
	if err != nil {
		return nil, err
	}
	return balance.Balances(lines, prefixes, r), nil
}

// TrialBalance produces the trial balance over the date range.
func (s *Store) TrialBalance(ctx context.Context, r model.DateRange) ([]model.TrialBalanceRow, error) {
	lines, err := s.lines(ctx)
	if err != nil {
		return nil, err
	}
	return balance.TrialBalance(lines, r), nil
}

// BalanceByAccount returns per-account movement keyed by account code.
func (s *Store) BalanceByAccount(ctx context.Context, r model.DateRange) (map[string]model.AccountBalance, error) {
	lines, err := s.lines(ctx)
	if err != nil {
		return nil, err
	}
	return balance.ByAccount(lines, r), nil
}
