package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/casal/internal/models"
)

// UncategorizedName labels spending without a known category.
const UncategorizedName = "Other"

// CategorySpending is the expense total for one category.
type CategorySpending struct {
	CategoryID string
	Name       string
	Amount     decimal.Decimal
}

// Bill is an open expense of the wallet owner.
type Bill struct {
	TransactionID string
	Description   string
	Amount        decimal.Decimal
	DueDate       time.Time
	Status        models.Status
}

// Wallet is the per-person summary shown on the wallet screen.
type Wallet struct {
	Owner      models.Person
	Income     decimal.Decimal
	Expenses   decimal.Decimal
	Balance    decimal.Decimal
	Categories []CategorySpending
	Bills      []Bill
	Debt       DebtPosition
}

// BuildWallet summarizes the transactions attributed to owner.
//
// Only rows whose responsibility is the owner are counted. Joint parents are
// skipped because their halves are already present as derived rows.
func BuildWallet(owner models.Person, txns []*models.Transaction, categoryNames map[string]string, debts []*models.Debt) Wallet {
	w := Wallet{
		Owner:    owner,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}

	spending := make(map[string]decimal.Decimal)
	var order []string

	for _, t := range txns {
		if t.Responsibility != models.ResponsibilityOf(owner) {
			continue
		}
		switch t.Type {
		case models.TypeIncome:
			w.Income = w.Income.Add(t.Amount)
		case models.TypeExpense:
			w.Expenses = w.Expenses.Add(t.Amount)

			if _, seen := spending[t.CategoryID]; !seen {
				order = append(order, t.CategoryID)
			}
			spending[t.CategoryID] = spending[t.CategoryID].Add(t.Amount)

			if t.Status.IsOpen() {
				due := t.Date
				if t.DueDate != nil {
					due = *t.DueDate
				}
				w.Bills = append(w.Bills, Bill{
					TransactionID: t.ID,
					Description:   t.Description,
					Amount:        t.Amount,
					DueDate:       due,
					Status:        t.Status,
				})
			}
		}
	}
	w.Balance = w.Income.Sub(w.Expenses)

	for _, id := range order {
		name, ok := categoryNames[id]
		if !ok || id == "" {
			name = UncategorizedName
		}
		w.Categories = append(w.Categories, CategorySpending{
			CategoryID: id,
			Name:       name,
			Amount:     spending[id],
		})
	}
	sort.SliceStable(w.Categories, func(i, j int) bool {
		return w.Categories[i].Amount.GreaterThan(w.Categories[j].Amount)
	})
	sort.SliceStable(w.Bills, func(i, j int) bool {
		return w.Bills[i].DueDate.Before(w.Bills[j].DueDate)
	})

	owedBy := TotalOwedBy(debts, owner)
	owedTo := TotalOwedTo(debts, owner)
	w.Debt = DebtPosition{
		Person: owner,
		OwedBy: owedBy,
		OwedTo: owedTo,
		Net:    owedTo.Sub(owedBy),
	}
	return w
}
