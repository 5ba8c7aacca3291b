package accounts

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
	"github.com/comptaflow/comptaflow/internal/storage/local"
)

func newService(t *testing.T) (*Service, *local.Store) {
	t.Helper()
	store, err := local.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store), store
}

func TestCreate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	acct, err := svc.Create(ctx, "521000", "Banque", "tester")
	require.NoError(t, err)
	assert.Equal(t, 5, acct.Class)
	assert.Equal(t, model.AccountTypeBalanceSheet, acct.Type)
	assert.Equal(t, model.NormalDebit, acct.Normal)
	assert.True(t, acct.Active)
}

func TestCreate_Rejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		code string
	}{
		{"class zero", "011000"},
		{"too short", "4"},
		{"non-digit", "41A000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.code, "Invalide", "tester")
			var verr *model.ValidationError
			assert.ErrorAs(t, err, &verr, tc.code)
		})
	}
}

func TestCreate_DuplicateCode(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "521000", "Banque", "tester")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "521000", "Banque bis", "tester")
	assert.True(t, storage.IsConflict(err))
}

func TestGetAll(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, code := range []string{"701000", "521000", "601000"} {
		_, err := svc.Create(ctx, code, "Compte "+code, "")
		require.NoError(t, err)
	}

	got, err := svc.Get(ctx, "521000")
	require.NoError(t, err)
	assert.Equal(t, "Compte 521000", got.Name)

	_, err = svc.Get(ctx, "999999")
	assert.True(t, storage.IsNotFound(err))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "521000", all[0].Code)
	assert.Equal(t, "701000", all[2].Code)
}

func TestDeactivate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "521000", "Banque", "tester")
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, "521000", "tester"))
	got, err := svc.Get(ctx, "521000")
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestDeactivate_Referenced(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "521000", "Banque", "tester")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "601000", "Achats", "tester")
	require.NoError(t, err)

	amt := decimal.RequireFromString("50.00")
	_, err = store.SaveJournalEntry(ctx, &model.JournalEntry{
		JournalCode: "BNK",
		Date:        time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Label:       "Achat fournitures",
		Lines: []model.JournalLine{
			{AccountCode: "601000", Debit: amt},
			{AccountCode: "521000", Credit: amt},
		},
	}, "tester")
	require.NoError(t, err)

	err = svc.Deactivate(ctx, "521000", "tester")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Description, "referenced by 1 journal lines")

	got, err := svc.Get(ctx, "521000")
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestSeedDefaultChart_Idempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.SeedDefaultChart(ctx, "init")
	require.NoError(t, err)
	assert.Equal(t, len(DefaultChart()), first)

	second, err := svc.SeedDefaultChart(ctx, "init")
	require.NoError(t, err)
	assert.Zero(t, second)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultChart()))

	bank, err := svc.Get(ctx, "521000")
	require.NoError(t, err)
	assert.True(t, bank.Reconcilable)
}
