package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/alnahda/institute-ledger/internal/core/domain"
)

func TestTransaction_SignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name            string
		transactionType domain.TransactionType
		accountType     domain.AccountType
		want            decimal.Decimal
	}{
		{
			name:            "debit increases an asset",
			transactionType: domain.Debit,
			accountType:     domain.Asset,
			want:            amount,
		},
		{
			name:            "credit decreases an asset",
			transactionType: domain.Credit,
			accountType:     domain.Asset,
			want:            amount.Neg(),
		},
		{
			name:            "debit increases an expense",
			transactionType: domain.Debit,
			accountType:     domain.Expense,
			want:            amount,
		},
		{
			name:            "debit decreases a liability",
			transactionType: domain.Debit,
			accountType:     domain.Liability,
			want:            amount.Neg(),
		},
		{
			name:            "credit increases a liability",
			transactionType: domain.Credit,
			accountType:     domain.Liability,
			want:            amount,
		},
		{
			name:            "credit increases revenue",
			transactionType: domain.Credit,
			accountType:     domain.Revenue,
			want:            amount,
		},
		{
			name:            "debit decreases equity",
			transactionType: domain.Debit,
			accountType:     domain.Equity,
			want:            amount.Neg(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Amount: amount, TransactionType: tt.transactionType}
			got := txn.SignedAmount(tt.accountType)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestTransactionType_Opposite(t *testing.T) {
	assert.Equal(t, domain.Credit, domain.Debit.Opposite())
	assert.Equal(t, domain.Debit, domain.Credit.Opposite())
}

func TestAccount_NetBalanceFromTotals(t *testing.T) {
	debit := decimal.NewFromInt(700)
	credit := decimal.NewFromInt(300)

	asset := domain.Account{AccountType: domain.Asset}
	assert.True(t, decimal.NewFromInt(400).Equal(asset.NetBalanceFromTotals(debit, credit)))

	liability := domain.Account{AccountType: domain.Liability}
	assert.True(t, decimal.NewFromInt(-400).Equal(liability.NetBalanceFromTotals(debit, credit)))

	revenue := domain.Account{AccountType: domain.Revenue}
	assert.True(t, decimal.NewFromInt(-400).Equal(revenue.NetBalanceFromTotals(debit, credit)))
}
