package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for storage and on the wire.
const DateLayout = "2006-01-02"

// ErrInvalidTransaction is wrapped by every validation failure.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Transaction represents a single income or expense.
//
// A transaction with Responsibility == casal is a joint obligation. The
// ledger materializes it as two derived rows, one per person, each holding
// half of the amount and pointing back via ParentTransactionID.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID is the account that owns this transaction.
	UserID string

	Description string

	// Amount is always positive; Type carries the direction.
	Amount decimal.Decimal

	// Date is the calendar date of the transaction (no time component).
	Date time.Time

	Type           TransactionType
	Responsibility Responsibility

	// CategoryID is empty when the transaction is uncategorized.
	CategoryID string

	PaymentMethod PaymentMethod

	// Installments is only meaningful for credit purchases.
	Installments int

	// DueDate is nil when the transaction has no due date.
	DueDate *time.Time

	Status      Status
	IsRecurring bool

	// SplitExpense is only meaningful for casal transactions: one person
	// paid the whole amount and the other owes half of it.
	SplitExpense bool

	// PaidBy is set iff SplitExpense is true.
	PaidBy Person

	// ParentTransactionID is set on derived 50% rows.
	ParentTransactionID string

	// RecurringSourceID is set on rows re-issued by the monthly recurring job
	// and names the first transaction of the series.
	RecurringSourceID string

	CreatedAt int64
	UpdatedAt int64
}

// IsDerived reports whether t is one of the two halves of a casal transaction.
func (t *Transaction) IsDerived() bool {
	return t.ParentTransactionID != ""
}

// IsJoint reports whether t is attributed to the couple.
func (t *Transaction) IsJoint() bool {
	return t.Responsibility == ResponsibilityCasal
}

// Normalize fills defaults and clears fields that are meaningless for the
// transaction's responsibility. It must run before Validate.
func (t *Transaction) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
	t.Amount = t.Amount.Round(2)
	if t.PaymentMethod == "" {
		t.PaymentMethod = PaymentCash
	}
	if t.Installments < 1 {
		t.Installments = 1
	}
	if t.Status == "" {
		t.Status = DefaultStatus(t.Type)
	}
	if !t.IsJoint() {
		t.SplitExpense = false
	}
	if !t.SplitExpense {
		t.PaidBy = ""
	}
}

// Validate checks the invariants of a transaction payload.
func (t *Transaction) Validate() error {
	if t.UserID == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidTransaction)
	}
	if t.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidTransaction)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, t.Type)
	}
	if !t.Responsibility.Valid() {
		return fmt.Errorf("%w: unknown responsibility %q", ErrInvalidTransaction, t.Responsibility)
	}
	if !t.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidTransaction, t.PaymentMethod)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransaction, t.Status)
	}
	if t.PaymentMethod == PaymentCredit && t.DueDate == nil {
		return fmt.Errorf("%w: credit purchases need a due date", ErrInvalidTransaction)
	}
	if t.SplitExpense && !t.PaidBy.Valid() {
		return fmt.Errorf("%w: split expenses need paid_by", ErrInvalidTransaction)
	}
	if t.IsDerived() && t.IsJoint() {
		return fmt.Errorf("%w: a split row cannot be split again", ErrInvalidTransaction)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders a calendar date; the zero time renders as "".
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}
