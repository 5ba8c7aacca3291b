// Package accounts manages the chart of accounts on top of the storage
// contract.
package accounts

import (
	"context"
	"fmt"

	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

// Service provides chart-of-accounts operations against any backend.
type Service struct {
	store storage.Store
}

// NewService creates an accounts Service.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Create validates and inserts a new account. A duplicate code is a
// ConflictError; invariant violations are ValidationErrors.
func (s *Service) Create(ctx context.Context, code, name, actor string) (*model.Account, error) {
	acct, err := model.NewAccount(code, name)
	if err != nil {
		return nil, err
	}

	n, err := s.store.Count(ctx, storage.TableAccounts, storage.QueryFilters{
		Where: map[string]any{"code": code},
	})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, &storage.ConflictError{Table: storage.TableAccounts, Key: code}
	}

	rec, err := s.store.Create(ctx, storage.TableAccounts, acct, actor)
	if err != nil {
		return nil, err
	}
	return rec.(*model.Account), nil
}

// Get returns the account with the given code.
func (s *Service) Get(ctx context.Context, code string) (*model.Account, error) {
	recs, err := s.store.GetAll(ctx, storage.TableAccounts, storage.QueryFilters{
		Where: map[string]any{"code": code},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &storage.NotFoundError{Table: storage.TableAccounts, ID: code}
	}
	return recs[0].(*model.Account), nil
}

// All returns the chart ordered by account code.
func (s *Service) All(ctx context.Context) ([]*model.Account, error) {
	recs, err := s.store.GetAll(ctx, storage.TableAccounts, storage.QueryFilters{
		OrderBy: &storage.Ordering{Field: "code"},
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Account, len(recs))
	for i, r := range recs {
		out[i] = r.(*model.Account)
	}
	return out, nil
}

// Deactivate flags an account inactive. Accounts are never deleted once
// used; an account still referenced by journal lines cannot be deactivated
// either, because its balance history is live.
func (s *Service) Deactivate(ctx context.Context, code, actor string) error {
	acct, err := s.Get(ctx, code)
	if err != nil {
		return err
	}

	balances, err := s.store.AccountBalance(ctx, []string{code}, model.DateRange{})
	if err != nil {
		return err
	}
	for _, b := range balances {
		if b.AccountCode == code && b.LineCount > 0 {
			return &model.ValidationError{
				EntityID:    code,
				Description: fmt.Sprintf("account is referenced by %d journal lines", b.LineCount),
			}
		}
	}

	acct.Active = false
	_, err = s.store.Update(ctx, storage.TableAccounts, acct, actor)
	return err
}

// SeedDefaultChart inserts every default account whose code is not already
// present and returns how many were inserted. Seeding twice is a no-op the
// second time.
func (s *Service) SeedDefaultChart(ctx context.Context, actor string) (int, error) {
	inserted := 0
	for _, def := range DefaultChart() {
		n, err := s.store.Count(ctx, storage.TableAccounts, storage.QueryFilters{
			Where: map[string]any{"code": def.Code},
		})
		if err != nil {
			return inserted, err
		}
		if n > 0 {
			continue
		}
		acct, err := model.NewAccount(def.Code, def.Name)
		if err != nil {
			return inserted, err
		}
		acct.Reconcilable = def.Reconcilable
		if _, err := s.store.Create(ctx, storage.TableAccounts, acct, actor); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
