package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
)

// Description is joined from the source transaction so listings don't need a second lookup.
const debtSelect = `SELECT d.id, d.user_id, d.transaction_id, d.owed_by, d.owed_to, d.amount, d.paid_amount,
	d.is_paid, d.payment_date, COALESCE(t.description, ''), d.created_at, d.updated_at
	FROM debts d LEFT JOIN transactions t ON t.id = d.transaction_id`

func scanDebt(scanner rowScanner) (*models.Debt, error) {
	d := &models.Debt{}
	var paymentDate sql.NullInt64
	err := scanner.Scan(
		&d.ID, &d.UserID, &d.TransactionID, &d.OwedBy, &d.OwedTo, &d.Amount, &d.PaidAmount,
		&d.IsPaid, &paymentDate, &d.Description, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.PaymentDate = paymentDate.Int64
	return d, nil
}

func nullUnix(ts int64) any {
	if ts == 0 {
		return nil
	}
	return ts
}

// CreateDebt persists a new debt to the database.
func (s *SQLiteStore) CreateDebt(ctx context.Context, d *models.Debt) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debts (id, user_id, transaction_id, owed_by, owed_to, amount, paid_amount,
			is_paid, payment_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.TransactionID, string(d.OwedBy), string(d.OwedTo),
		d.Amount.StringFixed(2), d.PaidAmount.StringFixed(2),
		d.IsPaid, nullUnix(d.PaymentDate), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}
	return nil
}

// GetDebt retrieves a debt by ID.
func (s *SQLiteStore) GetDebt(ctx context.Context, userID, id string) (*models.Debt, error) {
	d, err := scanDebt(s.db.QueryRowContext(ctx, debtSelect+` WHERE d.id = ? AND d.user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("debt %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return d, nil
}

// GetDebtByTransaction retrieves the debt produced by a transaction.
func (s *SQLiteStore) GetDebtByTransaction(ctx context.Context, userID, transactionID string) (*models.Debt, error) {
	d, err := scanDebt(s.db.QueryRowContext(ctx,
		debtSelect+` WHERE d.transaction_id = ? AND d.user_id = ?`, transactionID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("debt for transaction %s: %w", transactionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt by transaction: %w", err)
	}
	return d, nil
}

// UpdateDebt overwrites the parties, amounts and payment state of a debt.
func (s *SQLiteStore) UpdateDebt(ctx context.Context, d *models.Debt) error {
	d.UpdatedAt = time.Now().Unix()
	result, err := s.db.ExecContext(ctx,
		`UPDATE debts SET owed_by = ?, owed_to = ?, amount = ?, paid_amount = ?, is_paid = ?,
			payment_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		string(d.OwedBy), string(d.OwedTo), d.Amount.StringFixed(2), d.PaidAmount.StringFixed(2), d.IsPaid,
		nullUnix(d.PaymentDate), d.UpdatedAt, d.ID, d.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}
	return expectAffected(result, "debt", d.ID)
}

// DeleteDebtByTransaction removes the debt of a transaction, if present.
func (s *SQLiteStore) DeleteDebtByTransaction(ctx context.Context, userID, transactionID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM debts WHERE transaction_id = ? AND user_id = ?", transactionID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete debt: %w", err)
	}
	return result.RowsAffected()
}

// ListDebts retrieves the user's debts, optionally including settled ones.
func (s *SQLiteStore) ListDebts(ctx context.Context, userID string, includePaid bool) ([]*models.Debt, error) {
	query := debtSelect + ` WHERE d.user_id = ?`
	if !includePaid {
		query += ` AND d.is_paid = 0`
	}
	query += ` ORDER BY d.created_at DESC, d.id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []*models.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}
