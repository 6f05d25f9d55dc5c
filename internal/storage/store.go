// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/casal/internal/models"
)

// ErrNotFound is returned when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("not found")

// TransactionFilter narrows ListTransactions. Zero values mean "any".
type TransactionFilter struct {
	Responsibility models.Responsibility
	Type           models.TransactionType
	// From and To bound the transaction date, inclusive.
	From time.Time
	To   time.Time
}

// TransactionStore persists transactions.
type TransactionStore interface {
	// CreateTransaction inserts a transaction. ID, CreatedAt and UpdatedAt
	// are populated by the store.
	CreateTransaction(ctx context.Context, t *models.Transaction) error

	// GetTransaction returns ErrNotFound if the row does not exist for userID.
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)

	// UpdateTransaction overwrites every mutable field of t.
	// Returns ErrNotFound if no row matches t.ID and t.UserID.
	UpdateTransaction(ctx context.Context, t *models.Transaction) error

	// DeleteTransaction returns ErrNotFound if the row does not exist for userID.
	DeleteTransaction(ctx context.Context, userID, id string) error

	// ListTransactions returns matching rows ordered by date, newest first.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]*models.Transaction, error)

	// ListTransactionsByParent returns the derived rows of a joint transaction.
	ListTransactionsByParent(ctx context.Context, userID, parentID string) ([]*models.Transaction, error)

	// DeleteTransactionsByParent removes the derived rows of a joint transaction.
	DeleteTransactionsByParent(ctx context.Context, userID, parentID string) (int64, error)

	// ListRecurringTransactions returns recurring, non-derived transactions of
	// every user dated within [from, to].
	ListRecurringTransactions(ctx context.Context, from, to time.Time) ([]*models.Transaction, error)

	// HasRecurringCopy reports whether sourceID was already re-issued within [from, to].
	HasRecurringCopy(ctx context.Context, sourceID string, from, to time.Time) (bool, error)

	// MarkOverdue flips pending expenses due before asOf to overdue.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// DebtStore persists debts.
type DebtStore interface {
	// CreateDebt inserts a debt. ID and timestamps are populated by the store.
	CreateDebt(ctx context.Context, d *models.Debt) error

	// GetDebt returns ErrNotFound if the debt does not exist for userID.
	GetDebt(ctx context.Context, userID, id string) (*models.Debt, error)

	// GetDebtByTransaction returns ErrNotFound if the transaction has no debt.
	GetDebtByTransaction(ctx context.Context, userID, transactionID string) (*models.Debt, error)

	// UpdateDebt overwrites the parties, amounts and payment state of d.
	UpdateDebt(ctx context.Context, d *models.Debt) error

	// DeleteDebtByTransaction removes the debt of a transaction, if any.
	DeleteDebtByTransaction(ctx context.Context, userID, transactionID string) (int64, error)

	// ListDebts returns the user's debts, newest first.
	ListDebts(ctx context.Context, userID string, includePaid bool) ([]*models.Debt, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail and GetUserByID return ErrNotFound for unknown users.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the full storage backend.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	TransactionStore
	DebtStore
	CategoryStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
