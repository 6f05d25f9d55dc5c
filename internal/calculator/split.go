package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/casal/internal/models"
)

// SplitSuffix is appended to the description of each derived half.
const SplitSuffix = " (50%)"

var two = decimal.NewFromInt(2)

// SplitAmount is the share of a joint amount held by each person:
// amount / 2 rounded to cents, half away from zero.
// For odd cents the two halves sum to one cent more than amount
// (10.01 -> 5.01 + 5.01).
func SplitAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(two).Round(2)
}

// SplitDescription is the description carried by a derived half.
func SplitDescription(description string) string {
	return description + SplitSuffix
}

// NewSplitChild builds the derived row held by person for a joint parent.
// Children are never splittable themselves.
func NewSplitChild(parent *models.Transaction, person models.Person) *models.Transaction {
	child := &models.Transaction{
		UserID:              parent.UserID,
		Responsibility:      models.ResponsibilityOf(person),
		ParentTransactionID: parent.ID,
	}
	SyncSplitChild(child, parent)
	return child
}

// SyncSplitChild copies the parent's shared fields onto an existing child.
// The child's ID and Responsibility are left untouched.
func SyncSplitChild(child, parent *models.Transaction) {
	child.Description = SplitDescription(parent.Description)
	child.Amount = SplitAmount(parent.Amount)
	child.CategoryID = parent.CategoryID
	child.Date = parent.Date
	child.Type = parent.Type
	child.PaymentMethod = parent.PaymentMethod
	child.Installments = parent.Installments
	child.DueDate = parent.DueDate
	child.Status = parent.Status
	child.IsRecurring = parent.IsRecurring
	child.SplitExpense = false
	child.PaidBy = ""
}

// DebtTerms describes the debt a joint transaction implies.
type DebtTerms struct {
	OwedBy models.Person
	OwedTo models.Person
	Amount decimal.Decimal
}

// DebtFor returns the debt implied by a joint expense paid by one person.
// ok is false when the transaction implies no debt.
func DebtFor(t *models.Transaction) (terms DebtTerms, ok bool) {
	if !t.IsJoint() || t.Type != models.TypeExpense || !t.SplitExpense || !t.PaidBy.Valid() {
		return DebtTerms{}, false
	}
	return DebtTerms{
		OwedBy: t.PaidBy.Other(),
		OwedTo: t.PaidBy,
		Amount: SplitAmount(t.Amount),
	}, true
}
