package models

import "github.com/shopspring/decimal"

// Debt tracks what one member owes the other for a single joint expense
// that was paid in full by one of them.
//
// Amount is fixed when the debt is created (half of the source transaction).
// PaidAmount accumulates partial payments and never exceeds Amount.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string

	// UserID is the account that owns the source transaction.
	UserID string

	// TransactionID is the casal transaction that produced this debt.
	// At most one debt exists per transaction.
	TransactionID string

	// OwedBy is the debtor; OwedTo is the member who paid.
	OwedBy Person
	OwedTo Person

	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	IsPaid     bool

	// PaymentDate is the Unix timestamp of the last payment, 0 if none.
	PaymentDate int64

	// Description is read-only, joined from the source transaction.
	Description string

	CreatedAt int64
	UpdatedAt int64
}

// Remaining is the part of the debt still outstanding.
func (d *Debt) Remaining() decimal.Decimal {
	if d.IsPaid {
		return decimal.Zero
	}
	r := d.Amount.Sub(d.PaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
