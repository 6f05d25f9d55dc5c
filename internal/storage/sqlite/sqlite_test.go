package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
)

func newTestStore(t *testing.T) (*SQLiteStore, *models.User) {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	user := models.NewUser("casal@example.com", "Casal", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return store, user
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newExpense(t *testing.T, userID, description, amount, date string) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		UserID:         userID,
		Description:    description,
		Amount:         decimal.RequireFromString(amount),
		Date:           mustDate(t, date),
		Type:           models.TypeExpense,
		Responsibility: models.ResponsibilityFranklin,
	}
	txn.Normalize()
	return txn
}

func TestTransactions(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTransaction round trips every field", func(t *testing.T) {
		category := &models.Category{UserID: user.ID, Name: "Home"}
		if err := store.CreateCategory(ctx, category); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}

		due := mustDate(t, "2025-02-10")
		original := &models.Transaction{
			UserID:         user.ID,
			Description:    "Sofa",
			Amount:         decimal.RequireFromString("1200.50"),
			Date:           mustDate(t, "2025-01-15"),
			Type:           models.TypeExpense,
			Responsibility: models.ResponsibilityCasal,
			CategoryID:     category.ID,
			PaymentMethod:  models.PaymentCredit,
			Installments:   10,
			DueDate:        &due,
			Status:         models.StatusPending,
			IsRecurring:    true,
			SplitExpense:   true,
			PaidBy:         models.PersonMichele,
		}
		if err := store.CreateTransaction(ctx, original); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if original.ID == "" || original.CreatedAt == 0 {
			t.Fatal("Expected ID and CreatedAt to be set")
		}

		got, err := store.GetTransaction(ctx, user.ID, original.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if !got.Amount.Equal(original.Amount) {
			t.Errorf("Amount = %s, want %s", got.Amount, original.Amount)
		}
		if !got.Date.Equal(original.Date) {
			t.Errorf("Date = %v, want %v", got.Date, original.Date)
		}
		if got.DueDate == nil || !got.DueDate.Equal(due) {
			t.Errorf("DueDate = %v, want %v", got.DueDate, due)
		}
		if got.CategoryID != category.ID {
			t.Errorf("CategoryID = %q, want %q", got.CategoryID, category.ID)
		}
		if got.PaidBy != models.PersonMichele || !got.SplitExpense || !got.IsRecurring {
			t.Errorf("split flags not preserved: %+v", got)
		}
		if got.Installments != 10 || got.PaymentMethod != models.PaymentCredit {
			t.Errorf("payment fields not preserved: %+v", got)
		}
	})

	t.Run("GetTransaction is scoped to the owner", func(t *testing.T) {
		txn := newExpense(t, user.ID, "Coffee", "4.50", "2025-01-02")
		if err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatal(err)
		}
		_, err := store.GetTransaction(ctx, "someone-else", txn.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateTransaction of a missing row returns ErrNotFound", func(t *testing.T) {
		txn := newExpense(t, user.ID, "Ghost", "1", "2025-01-02")
		txn.ID = "missing"
		if err := store.UpdateTransaction(ctx, txn); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Deleting a parent cascades to its children", func(t *testing.T) {
		parent := newExpense(t, user.ID, "Groceries", "200", "2025-01-03")
		parent.Responsibility = models.ResponsibilityCasal
		if err := store.CreateTransaction(ctx, parent); err != nil {
			t.Fatal(err)
		}
		child := newExpense(t, user.ID, "Groceries (50%)", "100", "2025-01-03")
		child.ParentTransactionID = parent.ID
		if err := store.CreateTransaction(ctx, child); err != nil {
			t.Fatal(err)
		}

		children, err := store.ListTransactionsByParent(ctx, user.ID, parent.ID)
		if err != nil || len(children) != 1 {
			t.Fatalf("ListTransactionsByParent = %d, %v; want 1 child", len(children), err)
		}

		if err := store.DeleteTransaction(ctx, user.ID, parent.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if _, err := store.GetTransaction(ctx, user.ID, child.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected child to be deleted, got %v", err)
		}
	})
}

func TestListTransactionsFilter(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	fixtures := []struct {
		desc           string
		date           string
		typ            models.TransactionType
		responsibility models.Responsibility
	}{
		{"Rent", "2025-01-05", models.TypeExpense, models.ResponsibilityCasal},
		{"Salary", "2025-01-01", models.TypeIncome, models.ResponsibilityFranklin},
		{"Gym", "2025-02-01", models.TypeExpense, models.ResponsibilityMichele},
		{"Books", "2025-01-20", models.TypeExpense, models.ResponsibilityFranklin},
	}
	for _, f := range fixtures {
		txn := newExpense(t, user.ID, f.desc, "10", f.date)
		txn.Type = f.typ
		txn.Responsibility = f.responsibility
		txn.Status = models.DefaultStatus(f.typ)
		if err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter storage.TransactionFilter
		want   []string
	}{
		{"no filter orders newest first", storage.TransactionFilter{}, []string{"Gym", "Books", "Rent", "Salary"}},
		{"by responsibility", storage.TransactionFilter{Responsibility: models.ResponsibilityFranklin}, []string{"Books", "Salary"}},
		{"by type", storage.TransactionFilter{Type: models.TypeIncome}, []string{"Salary"}},
		{
			"by inclusive date range",
			storage.TransactionFilter{From: mustDate(t, "2025-01-05"), To: mustDate(t, "2025-01-20")},
			[]string{"Books", "Rent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListTransactions(ctx, user.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transactions, want %d", len(got), len(tt.want))
			}
			for i, txn := range got {
				if txn.Description != tt.want[i] {
					t.Errorf("position %d = %q, want %q", i, txn.Description, tt.want[i])
				}
			}
		})
	}
}

func TestMarkOverdue(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	past := mustDate(t, "2025-01-10")
	future := mustDate(t, "2025-03-10")

	late := newExpense(t, user.ID, "Power bill", "80", "2025-01-01")
	late.DueDate = &past
	onTime := newExpense(t, user.ID, "Water bill", "30", "2025-01-01")
	onTime.DueDate = &future
	settled := newExpense(t, user.ID, "Internet", "50", "2025-01-01")
	settled.DueDate = &past
	settled.Status = models.StatusPaid

	for _, txn := range []*models.Transaction{late, onTime, settled} {
		if err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatal(err)
		}
	}

	n, err := store.MarkOverdue(ctx, mustDate(t, "2025-02-01"))
	if err != nil {
		t.Fatalf("MarkOverdue failed: %v", err)
	}
	if n != 1 {
		t.Errorf("MarkOverdue updated %d rows, want 1", n)
	}

	got, _ := store.GetTransaction(ctx, user.ID, late.ID)
	if got.Status != models.StatusOverdue {
		t.Errorf("late bill status = %s, want overdue", got.Status)
	}
	got, _ = store.GetTransaction(ctx, user.ID, settled.ID)
	if got.Status != models.StatusPaid {
		t.Errorf("paid bill status = %s, want paid", got.Status)
	}
}

func TestRecurringQueries(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	source := newExpense(t, user.ID, "Streaming", "40", "2025-01-15")
	source.IsRecurring = true
	if err := store.CreateTransaction(ctx, source); err != nil {
		t.Fatal(err)
	}
	oneOff := newExpense(t, user.ID, "Dinner", "90", "2025-01-16")
	if err := store.CreateTransaction(ctx, oneOff); err != nil {
		t.Fatal(err)
	}

	got, err := store.ListRecurringTransactions(ctx, mustDate(t, "2025-01-01"), mustDate(t, "2025-01-31"))
	if err != nil {
		t.Fatalf("ListRecurringTransactions failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != source.ID {
		t.Fatalf("ListRecurringTransactions = %v, want only the recurring source", got)
	}

	febFrom, febTo := mustDate(t, "2025-02-01"), mustDate(t, "2025-02-28")
	exists, err := store.HasRecurringCopy(ctx, source.ID, febFrom, febTo)
	if err != nil || exists {
		t.Fatalf("HasRecurringCopy before copy = %v, %v; want false", exists, err)
	}

	copied := newExpense(t, user.ID, "Streaming", "40", "2025-02-15")
	copied.RecurringSourceID = source.ID
	if err := store.CreateTransaction(ctx, copied); err != nil {
		t.Fatal(err)
	}
	exists, err = store.HasRecurringCopy(ctx, source.ID, febFrom, febTo)
	if err != nil || !exists {
		t.Errorf("HasRecurringCopy after copy = %v, %v; want true", exists, err)
	}
}

func TestDebts(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	txn := newExpense(t, user.ID, "Groceries", "200", "2025-01-03")
	txn.Responsibility = models.ResponsibilityCasal
	txn.SplitExpense = true
	txn.PaidBy = models.PersonFranklin
	if err := store.CreateTransaction(ctx, txn); err != nil {
		t.Fatal(err)
	}

	debt := &models.Debt{
		UserID:        user.ID,
		TransactionID: txn.ID,
		OwedBy:        models.PersonMichele,
		OwedTo:        models.PersonFranklin,
		Amount:        decimal.NewFromInt(100),
	}
	if err := store.CreateDebt(ctx, debt); err != nil {
		t.Fatalf("CreateDebt failed: %v", err)
	}

	t.Run("GetDebtByTransaction joins the description", func(t *testing.T) {
		got, err := store.GetDebtByTransaction(ctx, user.ID, txn.ID)
		if err != nil {
			t.Fatalf("GetDebtByTransaction failed: %v", err)
		}
		if got.ID != debt.ID || got.Description != "Groceries" {
			t.Errorf("got %+v", got)
		}
		if !got.PaidAmount.IsZero() || got.PaymentDate != 0 {
			t.Errorf("expected an unpaid debt, got %+v", got)
		}
	})

	t.Run("UpdateDebt records payments", func(t *testing.T) {
		debt.PaidAmount = decimal.NewFromInt(100)
		debt.IsPaid = true
		debt.PaymentDate = time.Now().Unix()
		if err := store.UpdateDebt(ctx, debt); err != nil {
			t.Fatalf("UpdateDebt failed: %v", err)
		}

		open, err := store.ListDebts(ctx, user.ID, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(open) != 0 {
			t.Errorf("expected no open debts, got %d", len(open))
		}
		all, err := store.ListDebts(ctx, user.ID, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 1 || !all[0].IsPaid || all[0].PaymentDate == 0 {
			t.Errorf("expected one settled debt, got %+v", all)
		}
	})

	t.Run("DeleteDebtByTransaction", func(t *testing.T) {
		n, err := store.DeleteDebtByTransaction(ctx, user.ID, txn.ID)
		if err != nil || n != 1 {
			t.Fatalf("DeleteDebtByTransaction = %d, %v; want 1", n, err)
		}
		if _, err := store.GetDebtByTransaction(ctx, user.ID, txn.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestCategoriesAndUsers(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Transport", "Food"} {
		if err := store.CreateCategory(ctx, &models.Category{UserID: user.ID, Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	categories, err := store.ListCategories(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 2 || categories[0].Name != "Food" {
		t.Errorf("ListCategories = %+v, want Food first", categories)
	}

	if err := store.DeleteCategory(ctx, user.ID, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	got, err := store.GetUserByEmail(ctx, user.Email)
	if err != nil || got.ID != user.ID {
		t.Errorf("GetUserByEmail = %v, %v", got, err)
	}
	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
