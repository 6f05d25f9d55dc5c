package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/casal/pkg/api"
)

func TestSaveJointExpenseAndSettle(t *testing.T) {
	c := setupClients(t)
	ctx := context.Background()

	saved := saveTxn(t, c, "", groceries("200", "franklin"))

	if saved.Transaction.ID == "" {
		t.Fatal("expected transaction ID")
	}
	if saved.Transaction.Amount != "200.00" {
		t.Errorf("amount: expected 200.00, got %s", saved.Transaction.Amount)
	}
	if len(saved.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(saved.Splits))
	}
	for _, split := range saved.Splits {
		if split.Amount != "100.00" {
			t.Errorf("%s split: expected 100.00, got %s", split.Responsibility, split.Amount)
		}
		if split.ParentTransactionID != saved.Transaction.ID {
			t.Errorf("%s split: wrong parent %q", split.Responsibility, split.ParentTransactionID)
		}
		if split.Description != "Groceries (50%)" {
			t.Errorf("%s split: description %q", split.Responsibility, split.Description)
		}
	}

	debt := saved.Debt
	if debt == nil {
		t.Fatal("expected a debt")
	}
	if debt.OwedBy != "michele" || debt.OwedTo != "franklin" || debt.Amount != "100.00" {
		t.Errorf("unexpected debt %+v", debt)
	}

	listed, err := c.debts.ListDebts(ctx, connect.NewRequest(&api.ListDebtsRequest{}))
	if err != nil {
		t.Fatalf("ListDebts failed: %v", err)
	}
	if len(listed.Msg.Debts) != 1 || listed.Msg.Debts[0].Description != "Groceries" {
		t.Fatalf("unexpected debts %+v", listed.Msg.Debts)
	}
	nets := map[string]string{}
	for _, p := range listed.Msg.Positions {
		nets[p.Person] = p.Net
	}
	if nets["franklin"] != "100.00" || nets["michele"] != "-100.00" {
		t.Errorf("positions: got %v", nets)
	}

	forty := "40"
	paid, err := c.debts.PayDebt(ctx, connect.NewRequest(&api.PayDebtRequest{DebtID: debt.ID, Amount: &forty}))
	if err != nil {
		t.Fatalf("PayDebt failed: %v", err)
	}
	if paid.Msg.Debt.PaidAmount != "40.00" || paid.Msg.Debt.Remaining != "60.00" || paid.Msg.Debt.IsPaid {
		t.Errorf("after partial payment: %+v", paid.Msg.Debt)
	}

	zero := "0"
	_, err = c.debts.PayDebt(ctx, connect.NewRequest(&api.PayDebtRequest{DebtID: debt.ID, Amount: &zero}))
	expectCode(t, err, connect.CodeInvalidArgument)

	settled, err := c.debts.PayDebt(ctx, connect.NewRequest(&api.PayDebtRequest{DebtID: debt.ID}))
	if err != nil {
		t.Fatalf("PayDebt failed: %v", err)
	}
	if !settled.Msg.Debt.IsPaid || settled.Msg.Debt.PaidAmount != "100.00" {
		t.Errorf("after full payment: %+v", settled.Msg.Debt)
	}

	_, err = c.debts.PayDebt(ctx, connect.NewRequest(&api.PayDebtRequest{DebtID: debt.ID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	open, err := c.debts.ListDebts(ctx, connect.NewRequest(&api.ListDebtsRequest{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(open.Msg.Debts) != 0 {
		t.Errorf("expected no open debts, got %d", len(open.Msg.Debts))
	}
	all, err := c.debts.ListDebts(ctx, connect.NewRequest(&api.ListDebtsRequest{IncludePaid: true}))
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Msg.Debts) != 1 {
		t.Errorf("expected 1 debt including paid, got %d", len(all.Msg.Debts))
	}
}

func TestUpdateDissolvesSplit(t *testing.T) {
	c := setupClients(t)
	ctx := context.Background()

	saved := saveTxn(t, c, "", groceries("90", "michele"))
	id := saved.Transaction.ID

	individual := groceries("90", "michele")
	individual.Responsibility = "franklin"
	updated := saveTxn(t, c, id, individual)

	if len(updated.Splits) != 0 || updated.Debt != nil {
		t.Errorf("expected no splits or debt, got %+v", updated)
	}
	if updated.Transaction.SplitExpense || updated.Transaction.PaidBy != "" {
		t.Errorf("split fields should be cleared: %+v", updated.Transaction)
	}

	got, err := c.transactions.GetTransaction(ctx, connect.NewRequest(&api.GetTransactionRequest{TransactionID: id}))
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if len(got.Msg.Splits) != 0 || got.Msg.Debt != nil {
		t.Errorf("split rows survived dissolution: %+v", got.Msg)
	}

	for _, split := range saved.Splits {
		_, err := c.transactions.GetTransaction(ctx, connect.NewRequest(&api.GetTransactionRequest{TransactionID: split.ID}))
		expectCode(t, err, connect.CodeNotFound)
	}
}

func TestSaveTransactionValidation(t *testing.T) {
	c := setupClients(t)

	valid := func() *api.Transaction {
		return &api.Transaction{
			Description:    "Lunch",
			Amount:         "25.50",
			Date:           "2025-03-01",
			Type:           "expense",
			Responsibility: "michele",
		}
	}

	tests := []struct {
		name   string
		mutate func(*api.Transaction)
	}{
		{"missing description", func(tx *api.Transaction) { tx.Description = "  " }},
		{"zero amount", func(tx *api.Transaction) { tx.Amount = "0" }},
		{"negative amount", func(tx *api.Transaction) { tx.Amount = "-3" }},
		{"malformed amount", func(tx *api.Transaction) { tx.Amount = "ten" }},
		{"malformed date", func(tx *api.Transaction) { tx.Date = "01/03/2025" }},
		{"unknown type", func(tx *api.Transaction) { tx.Type = "transfer" }},
		{"unknown responsibility", func(tx *api.Transaction) { tx.Responsibility = "both" }},
		{"credit without due date", func(tx *api.Transaction) { tx.PaymentMethod = "credit" }},
		{"unknown status", func(tx *api.Transaction) { tx.Status = "lost" }},
		{"unknown category", func(tx *api.Transaction) { tx.CategoryID = "nope" }},
		{"split without payer", func(tx *api.Transaction) {
			tx.Responsibility = "casal"
			tx.SplitExpense = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := valid()
			tt.mutate(txn)
			_, err := c.transactions.SaveTransaction(context.Background(), connect.NewRequest(&api.SaveTransactionRequest{Transaction: txn}))
			expectCode(t, err, connect.CodeInvalidArgument)
		})
	}

	t.Run("missing payload", func(t *testing.T) {
		_, err := c.transactions.SaveTransaction(context.Background(), connect.NewRequest(&api.SaveTransactionRequest{}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("update of unknown id", func(t *testing.T) {
		_, err := c.transactions.SaveTransaction(context.Background(), connect.NewRequest(&api.SaveTransactionRequest{
			TransactionID: "missing",
			Transaction:   valid(),
		}))
		expectCode(t, err, connect.CodeNotFound)
	})
}

func TestDerivedRowCannotBeSplit(t *testing.T) {
	c := setupClients(t)

	saved := saveTxn(t, c, "", groceries("50", ""))
	_, err := c.transactions.SaveTransaction(context.Background(), connect.NewRequest(&api.SaveTransactionRequest{
		TransactionID: saved.Splits[0].ID,
		Transaction:   groceries("50", ""),
	}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestListTransactions(t *testing.T) {
	c := setupClients(t)
	ctx := context.Background()

	saveTxn(t, c, "", groceries("200", ""))
	saveTxn(t, c, "", &api.Transaction{
		Description:    "Salary",
		Amount:         "3000",
		Date:           "2025-02-28",
		Type:           "income",
		Responsibility: "franklin",
	})

	tests := []struct {
		name string
		req  *api.ListTransactionsRequest
		want int
	}{
		// Parent plus both halves plus the salary.
		{"all", &api.ListTransactionsRequest{}, 4},
		{"joint only", &api.ListTransactionsRequest{Responsibility: "casal"}, 1},
		{"franklin", &api.ListTransactionsRequest{Responsibility: "franklin"}, 2},
		{"income", &api.ListTransactionsRequest{Type: "income"}, 1},
		{"march", &api.ListTransactionsRequest{From: "2025-03-01", To: "2025-03-31"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.transactions.ListTransactions(ctx, connect.NewRequest(tt.req))
			if err != nil {
				t.Fatalf("ListTransactions failed: %v", err)
			}
			if len(resp.Msg.Transactions) != tt.want {
				t.Errorf("expected %d transactions, got %d", tt.want, len(resp.Msg.Transactions))
			}
		})
	}

	t.Run("bad filter", func(t *testing.T) {
		_, err := c.transactions.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{Responsibility: "nobody"}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := c.transactions.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{From: "2025-04-01", To: "2025-03-01"}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestDeleteTransaction(t *testing.T) {
	c := setupClients(t)
	ctx := context.Background()

	saved := saveTxn(t, c, "", groceries("120", "franklin"))
	id := saved.Transaction.ID

	if _, err := c.transactions.DeleteTransaction(ctx, connect.NewRequest(&api.DeleteTransactionRequest{TransactionID: id})); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	_, err := c.transactions.GetTransaction(ctx, connect.NewRequest(&api.GetTransactionRequest{TransactionID: id}))
	expectCode(t, err, connect.CodeNotFound)

	debts, err := c.debts.ListDebts(ctx, connect.NewRequest(&api.ListDebtsRequest{IncludePaid: true}))
	if err != nil {
		t.Fatal(err)
	}
	if len(debts.Msg.Debts) != 0 {
		t.Errorf("expected debt to be deleted, got %d", len(debts.Msg.Debts))
	}

	_, err = c.transactions.DeleteTransaction(ctx, connect.NewRequest(&api.DeleteTransactionRequest{TransactionID: id}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestTransactionsAreScopedToTheirOwner(t *testing.T) {
	srv := setupTestServer(t)
	owner := srv.register(t, "owner@example.com")
	other := srv.register(t, "other@example.com")
	ctx := context.Background()

	saved := saveTxn(t, owner, "", groceries("80", "franklin"))

	_, err := other.transactions.GetTransaction(ctx, connect.NewRequest(&api.GetTransactionRequest{TransactionID: saved.Transaction.ID}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = other.debts.PayDebt(ctx, connect.NewRequest(&api.PayDebtRequest{DebtID: saved.Debt.ID}))
	expectCode(t, err, connect.CodeNotFound)

	list, err := other.transactions.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Msg.Transactions) != 0 {
		t.Errorf("other user sees %d transactions", len(list.Msg.Transactions))
	}
}

func TestRequiresAuthentication(t *testing.T) {
	srv := setupTestServer(t)
	anonymous := srv.clients("")

	_, err := anonymous.transactions.ListTransactions(context.Background(), connect.NewRequest(&api.ListTransactionsRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = srv.clients("forged").wallets.GetWallet(context.Background(), connect.NewRequest(&api.GetWalletRequest{Person: "franklin"}))
	expectCode(t, err, connect.CodeUnauthenticated)
}
