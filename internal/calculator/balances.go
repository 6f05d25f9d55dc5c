package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/casal/internal/models"
)

// DebtPosition summarizes one member's open debts with the other.
type DebtPosition struct {
	Person models.Person
	OwedBy decimal.Decimal // what this person still owes
	OwedTo decimal.Decimal // what this person is still owed
	Net    decimal.Decimal // Positive = net receivable, Negative = net payable
}

// TotalOwedBy sums what person still owes across unpaid debts.
func TotalOwedBy(debts []*models.Debt, person models.Person) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if d.IsPaid || d.OwedBy != person {
			continue
		}
		total = total.Add(d.Remaining())
	}
	return total
}

// TotalOwedTo sums what person is still owed across unpaid debts.
func TotalOwedTo(debts []*models.Debt, person models.Person) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if d.IsPaid || d.OwedTo != person {
			continue
		}
		total = total.Add(d.Remaining())
	}
	return total
}

// NetPosition is TotalOwedTo - TotalOwedBy.
func NetPosition(debts []*models.Debt, person models.Person) decimal.Decimal {
	return TotalOwedTo(debts, person).Sub(TotalOwedBy(debts, person))
}

// Positions computes the debt position of every household member.
func Positions(debts []*models.Debt) []DebtPosition {
	positions := make([]DebtPosition, 0, len(models.Persons))
	for _, p := range models.Persons {
		owedBy := TotalOwedBy(debts, p)
		owedTo := TotalOwedTo(debts, p)
		positions = append(positions, DebtPosition{
			Person: p,
			OwedBy: owedBy,
			OwedTo: owedTo,
			Net:    owedTo.Sub(owedBy),
		})
	}
	return positions
}
