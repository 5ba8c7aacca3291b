package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/comptaflow/comptaflow/internal/id"
	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

// SaveJournalEntry validates the double-entry invariant and every account
// reference before any write, then creates or updates the entry within the
// tenant.
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

// JournalEntries returns the tenant's journal entries matching f.
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

// AccountBalance delegates the aggregation to the ledger_account_balance
// server-side function; the full ledger never leaves the server.
func (s *Store) AccountBalance(ctx context.Context, prefixes []string, r model.DateRange) ([]model.AccountBalance, error) {
	query := `SELECT account_code, account_name, debit, credit, solde, line_count
		FROM ledger_account_balance($1, $2, $3, $4)`
	rows, err := s.db.QueryContext(ctx, query, s.tenantID, pq.Array(prefixes), nullTime(r.From), nullTime(r.To))
	if err != nil {
		return nil, fmt.Errorf("calling ledger_account_balance: %w", err)
	}
	defer rows.Close()

	var out []model.AccountBalance
	for rows.Next() {
		var b model.AccountBalance
		if err := rows.Scan(&b.AccountCode, &b.AccountName, &b.Debit, &b.Credit, &b.Solde, &b.LineCount); err != nil {
			return nil, fmt.Errorf("scanning account balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// TrialBalance delegates to the ledger_trial_balance server-side function.
func (s *Store) TrialBalance(ctx context.Context, r model.DateRange) ([]model.TrialBalanceRow, error) {
	query := `SELECT account_code, account_name, opening_solde, debit, credit, closing_solde
		FROM ledger_trial_balance($1, $2, $3)`
	rows, err := s.db.QueryContext(ctx, query, s.tenantID, nullTime(r.From), nullTime(r.To))
	if err != nil {
		return nil, fmt.Errorf("calling ledger_trial_balance: %w", err)
	}
	defer rows.Close()

	var out []model.TrialBalanceRow
	for rows.Next() {
		var row model.TrialBalanceRow
		if err := rows.Scan(&row.AccountCode, &row.AccountName, &row.OpeningSolde, &row.Debit, &row.Credit, &row.ClosingSolde); err != nil {
			return nil, fmt.Errorf("scanning trial balance row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// BalanceByAccount returns the server-computed movement keyed by account code.
func (s *Store) BalanceByAccount(ctx context.Context, r model.DateRange) (map[string]model.AccountBalance, error) {
	balances, err := s.AccountBalance(ctx, nil, r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.AccountBalance, len(balances))
	for _, b := range balances {
		out[b.AccountCode] = b
	}
	return out, nil
}

// nullTime maps a zero time to SQL NULL so open-ended ranges reach the
// server-side functions as NULL bounds.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
