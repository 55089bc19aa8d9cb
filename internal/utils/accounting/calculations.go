package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
)

// CalculateSignedAmount applies the correct sign to a transaction amount based
// on account type and transaction type. Used by both the posting engine and
// the repositories so the convention lives in one place.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(txn domain.Transaction, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense, domain.Liability, domain.Equity, domain.Revenue:
		return txn.SignedAmount(accountType), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown account type %q for account %s", apperrors.ErrValidation, accountType, txn.AccountID)
	}
}

// ValidateEntryBalance checks that an entry's legs are well formed and that
// debit and credit totals agree within the rounding tolerance.
func ValidateEntryBalance(transactions []domain.Transaction) error {
	if len(transactions) < 2 {
		return fmt.Errorf("%w: entry must have at least two transaction legs", apperrors.ErrUnbalanced)
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, txn := range transactions {
		if !txn.Amount.IsPositive() {
			return fmt.Errorf("%w: transaction amount must be positive for account %s", apperrors.ErrInvalidAmount, txn.AccountID)
		}
		switch txn.TransactionType {
		case domain.Debit:
			debits = debits.Add(txn.Amount)
		case domain.Credit:
			credits = credits.Add(txn.Amount)
		default:
			return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txn.TransactionType)
		}
	}

	if diff := debits.Sub(credits).Abs(); !diff.LessThan(domain.BalanceTolerance) {
		return fmt.Errorf("%w: debits %s vs credits %s", apperrors.ErrUnbalanced, debits, credits)
	}
	return nil
}

// SumSignedAmounts folds a transaction list into a net balance for one
// account type. The caller guarantees every leg belongs to that account.
func SumSignedAmounts(transactions []domain.Transaction, accountType domain.AccountType) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, txn := range transactions {
		signed, err := CalculateSignedAmount(txn, accountType)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(signed)
	}
	return sum, nil
}
