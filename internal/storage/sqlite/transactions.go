package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
)

const transactionColumns = `id, user_id, description, amount, date, type, responsibility, category_id,
	payment_method, installments, due_date, status, is_recurring, split_expense, paid_by,
	parent_transaction_id, recurring_source_id, created_at, updated_at`

// scanTransaction reads one row selected with transactionColumns.
func scanTransaction(scanner rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var (
		date                                  string
		dueDate, categoryID, paidBy, parentID sql.NullString
		recurringSourceID                     sql.NullString
	)

	err := scanner.Scan(
		&t.ID, &t.UserID, &t.Description, &t.Amount, &date, &t.Type, &t.Responsibility, &categoryID,
		&t.PaymentMethod, &t.Installments, &dueDate, &t.Status, &t.IsRecurring, &t.SplitExpense, &paidBy,
		&parentID, &recurringSourceID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.Date, err = models.ParseDate(date); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	if dueDate.Valid && dueDate.String != "" {
		d, err := models.ParseDate(dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("transaction %s due date: %w", t.ID, err)
		}
		t.DueDate = &d
	}
	t.CategoryID = categoryID.String
	t.PaidBy = models.Person(paidBy.String)
	t.ParentTransactionID = parentID.String
	t.RecurringSourceID = recurringSourceID.String

	return t, nil
}

func formatDueDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(models.DateLayout)
}

// CreateTransaction persists a new transaction to the database.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Description, t.Amount.StringFixed(2), t.Date.Format(models.DateLayout),
		string(t.Type), string(t.Responsibility), nullString(t.CategoryID),
		string(t.PaymentMethod), t.Installments, formatDueDate(t.DueDate), string(t.Status),
		t.IsRecurring, t.SplitExpense, nullString(string(t.PaidBy)),
		nullString(t.ParentTransactionID), nullString(t.RecurringSourceID), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// UpdateTransaction overwrites an existing transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	t.UpdatedAt = time.Now().Unix()

	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET
			description = ?, amount = ?, date = ?, type = ?, responsibility = ?, category_id = ?,
			payment_method = ?, installments = ?, due_date = ?, status = ?, is_recurring = ?,
			split_expense = ?, paid_by = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		t.Description, t.Amount.StringFixed(2), t.Date.Format(models.DateLayout), string(t.Type), string(t.Responsibility),
		nullString(t.CategoryID), string(t.PaymentMethod), t.Installments, formatDueDate(t.DueDate), string(t.Status),
		t.IsRecurring, t.SplitExpense, nullString(string(t.PaidBy)), t.UpdatedAt,
		t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return expectAffected(result, "transaction", t.ID)
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectAffected(result, "transaction", id)
}

// ListTransactions retrieves the user's transactions matching filter.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Responsibility != "" {
		conditions = append(conditions, "responsibility = ?")
		args = append(args, string(filter.Responsibility))
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From.Format(models.DateLayout))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.To.Format(models.DateLayout))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date DESC, created_at DESC`

	return s.queryTransactions(ctx, query, args...)
}

// ListTransactionsByParent retrieves the derived halves of a joint transaction.
func (s *SQLiteStore) ListTransactionsByParent(ctx context.Context, userID, parentID string) ([]*models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE parent_transaction_id = ? AND user_id = ? ORDER BY responsibility`,
		parentID, userID,
	)
}

// DeleteTransactionsByParent removes the derived halves of a joint transaction.
func (s *SQLiteStore) DeleteTransactionsByParent(ctx context.Context, userID, parentID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE parent_transaction_id = ? AND user_id = ?", parentID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete split transactions: %w", err)
	}
	return result.RowsAffected()
}

// ListRecurringTransactions retrieves recurring joint or individual sources across all users.
func (s *SQLiteStore) ListRecurringTransactions(ctx context.Context, from, to time.Time) ([]*models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE is_recurring = 1 AND parent_transaction_id IS NULL AND date >= ? AND date <= ?
		 ORDER BY date, created_at`,
		from.Format(models.DateLayout), to.Format(models.DateLayout),
	)
}

// HasRecurringCopy checks whether a recurring source was already re-issued in a date range.
func (s *SQLiteStore) HasRecurringCopy(ctx context.Context, sourceID string, from, to time.Time) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM transactions WHERE recurring_source_id = ? AND date >= ? AND date <= ? LIMIT 1`,
		sourceID, from.Format(models.DateLayout), to.Format(models.DateLayout),
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check recurring copy: %w", err)
	}
	return true, nil
}

// MarkOverdue flips pending expenses whose due date has passed.
func (s *SQLiteStore) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET status = ?, updated_at = ?
		 WHERE type = ? AND status = ? AND due_date IS NOT NULL AND due_date < ?`,
		string(models.StatusOverdue), time.Now().Unix(),
		string(models.TypeExpense), string(models.StatusPending), asOf.Format(models.DateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue transactions: %w", err)
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) queryTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// expectAffected turns a zero-row write into storage.ErrNotFound.
func expectAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
