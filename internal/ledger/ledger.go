// Package ledger persists transactions together with the rows they imply:
// the two 50% halves of a joint transaction and the debt between the
// members when one of them paid a joint expense alone.
//
// Every step is an independent store call. A failure stops the procedure
// and leaves earlier steps in place; saving the same transaction again
// brings the derived rows back in line.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/casal/internal/calculator"
	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
)

var (
	// ErrInvalidPayment is returned for payment amounts that are not positive.
	ErrInvalidPayment = errors.New("payment amount must be positive")

	// ErrDebtSettled is returned when paying a debt that is already paid.
	ErrDebtSettled = errors.New("debt is already settled")

	// ErrDerivedTransaction is returned when a split half is reassigned,
	// either to the other member or to the couple.
	ErrDerivedTransaction = errors.New("a split transaction cannot change responsibility")
)

// Store is the subset of storage the ledger needs.
type Store interface {
	storage.TransactionStore
	storage.DebtStore
}

// SaveResult is the state of a transaction and its derived rows after Save.
type SaveResult struct {
	Transaction *models.Transaction
	// Splits holds the franklin and michele halves of a joint transaction.
	Splits []*models.Transaction
	// Debt is nil when the transaction implies no debt.
	Debt *models.Debt
}

// Ledger coordinates writes across transactions and debts.
type Ledger struct {
	store Store
	now   func() time.Time
}

// New creates a Ledger backed by store.
func New(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Save creates txn, or updates the transaction at existingID, and then
// reconciles its split halves and debt. txn.UserID scopes every lookup.
func (l *Ledger) Save(ctx context.Context, txn *models.Transaction, existingID string) (*SaveResult, error) {
	isUpdate := existingID != ""
	if isUpdate {
		existing, err := l.store.GetTransaction(ctx, txn.UserID, existingID)
		if err != nil {
			return nil, err
		}
		if existing.IsDerived() && txn.Responsibility != existing.Responsibility {
			return nil, ErrDerivedTransaction
		}
		txn.ID = existingID
		txn.ParentTransactionID = existing.ParentTransactionID
		txn.RecurringSourceID = existing.RecurringSourceID
		txn.CreatedAt = existing.CreatedAt
	}

	txn.Normalize()
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if isUpdate {
		if err := l.store.UpdateTransaction(ctx, txn); err != nil {
			return nil, fmt.Errorf("failed to update transaction: %w", err)
		}
	} else {
		if err := l.store.CreateTransaction(ctx, txn); err != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}
	}

	result := &SaveResult{Transaction: txn}

	// Halves are plain rows; nothing hangs off them.
	if txn.IsDerived() {
		return result, nil
	}

	if !txn.IsJoint() {
		if isUpdate {
			if err := l.dissolve(ctx, txn); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	splits, err := l.syncSplits(ctx, txn)
	if err != nil {
		return nil, err
	}
	result.Splits = splits

	debt, err := l.reconcileDebt(ctx, txn)
	if err != nil {
		return nil, err
	}
	result.Debt = debt

	slog.Debug("Saved transaction",
		"transaction_id", txn.ID,
		"responsibility", txn.Responsibility,
		"splits", len(splits),
		"has_debt", debt != nil,
	)
	return result, nil
}

// dissolve removes the halves and debt of a transaction that is no longer joint.
func (l *Ledger) dissolve(ctx context.Context, txn *models.Transaction) error {
	children, err := l.store.DeleteTransactionsByParent(ctx, txn.UserID, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to delete split transactions: %w", err)
	}
	debts, err := l.store.DeleteDebtByTransaction(ctx, txn.UserID, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	if children > 0 || debts > 0 {
		slog.Info("Dissolved split",
			"transaction_id", txn.ID,
			"deleted_splits", children,
			"deleted_debts", debts,
		)
	}
	return nil
}

// syncSplits updates existing halves in place and creates missing ones.
func (l *Ledger) syncSplits(ctx context.Context, parent *models.Transaction) ([]*models.Transaction, error) {
	children, err := l.store.ListTransactionsByParent(ctx, parent.UserID, parent.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list split transactions: %w", err)
	}

	byPerson := make(map[models.Person]*models.Transaction, len(children))
	var surplus []*models.Transaction
	for _, child := range children {
		p, ok := child.Responsibility.Person()
		if _, seen := byPerson[p]; !ok || seen {
			surplus = append(surplus, child)
			continue
		}
		byPerson[p] = child
	}

	// Keep exactly one half per person.
	for _, child := range surplus {
		if err := l.store.DeleteTransaction(ctx, parent.UserID, child.ID); err != nil {
			return nil, fmt.Errorf("failed to delete surplus split %s: %w", child.ID, err)
		}
		slog.Warn("Deleted surplus split", "transaction_id", parent.ID, "split_id", child.ID)
	}

	splits := make([]*models.Transaction, 0, len(models.Persons))
	for _, p := range models.Persons {
		child, ok := byPerson[p]
		if ok {
			calculator.SyncSplitChild(child, parent)
			if err := l.store.UpdateTransaction(ctx, child); err != nil {
				return nil, fmt.Errorf("failed to update %s split: %w", p, err)
			}
		} else {
			child = calculator.NewSplitChild(parent, p)
			if err := l.store.CreateTransaction(ctx, child); err != nil {
				return nil, fmt.Errorf("failed to create %s split: %w", p, err)
			}
		}
		splits = append(splits, child)
	}
	return splits, nil
}

// reconcileDebt makes the stored debt match what txn implies.
func (l *Ledger) reconcileDebt(ctx context.Context, txn *models.Transaction) (*models.Debt, error) {
	terms, ok := calculator.DebtFor(txn)
	if !ok {
		if _, err := l.store.DeleteDebtByTransaction(ctx, txn.UserID, txn.ID); err != nil {
			return nil, fmt.Errorf("failed to delete debt: %w", err)
		}
		return nil, nil
	}

	debt, err := l.store.GetDebtByTransaction(ctx, txn.UserID, txn.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		debt = &models.Debt{
			UserID:        txn.UserID,
			TransactionID: txn.ID,
		}
		applyTerms(debt, terms)
		if err := l.store.CreateDebt(ctx, debt); err != nil {
			return nil, fmt.Errorf("failed to create debt: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to get debt: %w", err)
	default:
		applyTerms(debt, terms)
		if err := l.store.UpdateDebt(ctx, debt); err != nil {
			return nil, fmt.Errorf("failed to update debt: %w", err)
		}
	}
	debt.Description = txn.Description
	return debt, nil
}

// applyTerms resets a debt to an unpaid obligation with the given terms.
func applyTerms(d *models.Debt, terms calculator.DebtTerms) {
	d.OwedBy = terms.OwedBy
	d.OwedTo = terms.OwedTo
	d.Amount = terms.Amount
	d.PaidAmount = decimal.Zero
	d.IsPaid = false
	d.PaymentDate = 0
}

// PayDebt records a payment against a debt. A nil amount, or one that
// covers what is left, settles the debt in full.
// On failure the stored debt is unchanged and should be re-read.
func (l *Ledger) PayDebt(ctx context.Context, userID, debtID string, amount *decimal.Decimal) (*models.Debt, error) {
	var payment decimal.Decimal
	if amount != nil {
		payment = amount.Round(2)
		if !payment.IsPositive() {
			return nil, ErrInvalidPayment
		}
	}

	debt, err := l.store.GetDebt(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	if debt.IsPaid {
		return nil, ErrDebtSettled
	}

	updated := *debt
	remaining := debt.Amount.Sub(debt.PaidAmount)
	if amount == nil || payment.GreaterThanOrEqual(remaining) {
		updated.PaidAmount = debt.Amount
		updated.IsPaid = true
	} else {
		updated.PaidAmount = debt.PaidAmount.Add(payment)
	}
	updated.PaymentDate = l.now().Unix()

	if err := l.store.UpdateDebt(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	slog.Info("Recorded debt payment",
		"debt_id", debtID,
		"paid_amount", updated.PaidAmount.StringFixed(2),
		"is_paid", updated.IsPaid,
	)
	return &updated, nil
}

// Get returns a transaction with its halves and debt.
func (l *Ledger) Get(ctx context.Context, userID, id string) (*SaveResult, error) {
	txn, err := l.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	result := &SaveResult{Transaction: txn}
	if !txn.IsJoint() {
		return result, nil
	}

	if result.Splits, err = l.store.ListTransactionsByParent(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("failed to list split transactions: %w", err)
	}
	debt, err := l.store.GetDebtByTransaction(ctx, userID, id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	result.Debt = debt
	return result, nil
}

// Delete removes a transaction after its debt and split halves.
func (l *Ledger) Delete(ctx context.Context, userID, id string) error {
	if _, err := l.store.GetTransaction(ctx, userID, id); err != nil {
		return err
	}
	if _, err := l.store.DeleteDebtByTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	if _, err := l.store.DeleteTransactionsByParent(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete split transactions: %w", err)
	}
	if err := l.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	slog.Info("Deleted transaction", "transaction_id", id)
	return nil
}
