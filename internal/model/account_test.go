package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount_Valid(t *testing.T) {
	a, err := NewAccount("521000", "Banque")
	require.NoError(t, err)
	assert.Equal(t, "521000", a.Code)
	assert.Equal(t, 5, a.Class)
	assert.Equal(t, AccountTypeBalanceSheet, a.Type)
	assert.Equal(t, NormalDebit, a.Normal)
	assert.True(t, a.Active)
}

func TestNewAccount_ClassZero(t *testing.T) {
	_, err := NewAccount("012345", "Invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class must be 1-9")
}

func TestNewAccount_TooShort(t *testing.T) {
	_, err := NewAccount("4", "Too short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 characters")
}

func TestNewAccount_NonNumeric(t *testing.T) {
	_, err := NewAccount("41A000", "Mixed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only digits")
}

func TestNewAccount_DerivedFields(t *testing.T) {
	cases := []struct {
		code   string
		class  int
		typ    AccountType
		normal NormalBalance
	}{
		{"101000", 1, AccountTypeBalanceSheet, NormalCredit},
		{"244000", 2, AccountTypeBalanceSheet, NormalDebit},
		{"311000", 3, AccountTypeBalanceSheet, NormalDebit},
		{"411000", 4, AccountTypeBalanceSheet, NormalCredit},
		{"601000", 6, AccountTypeIncomeStatement, NormalDebit},
		{"701000", 7, AccountTypeIncomeStatement, NormalCredit},
	}
	for _, tc := range cases {
		a, err := NewAccount(tc.code, "x")
		require.NoError(t, err, tc.code)
		assert.Equal(t, tc.class, a.Class, tc.code)
		assert.Equal(t, tc.typ, a.Type, tc.code)
		assert.Equal(t, tc.normal, a.Normal, tc.code)
	}
}
