package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/casal/internal/auth"
	"github.com/mmynk/casal/internal/calculator"
	"github.com/mmynk/casal/internal/ledger"
	"github.com/mmynk/casal/internal/middleware"
	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
	"github.com/mmynk/casal/pkg/api"
)

// errBadRequest marks malformed request fields.
var errBadRequest = errors.New("bad request")

// requireUser returns the authenticated user ID set by middleware.RequireAuth.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// toConnectError maps domain errors onto Connect codes. Unexpected errors
// are logged and reported as internal without their details.
func toConnectError(op string, err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, models.ErrInvalidTransaction),
		errors.Is(err, ledger.ErrInvalidPayment),
		errors.Is(err, ledger.ErrDerivedTransaction):
		code = connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrDebtSettled):
		code = connect.CodeFailedPrecondition
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, fmt.Errorf("%s failed", op))
	}
	slog.Debug(op+" rejected", "code", code, "error", err)
	return connect.NewError(code, err)
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, badRequest("%s: invalid amount %q", field, s)
	}
	return d, nil
}

func parseOptionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, badRequest("%s: %v", field, err)
	}
	return d, nil
}

// transactionFromAPI builds a model from a request payload. Server-owned
// fields (ids, parent, timestamps) are ignored.
func transactionFromAPI(userID string, in *api.Transaction) (*models.Transaction, error) {
	if in == nil {
		return nil, badRequest("transaction is required")
	}
	amount, err := parseMoney("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, badRequest("date: %v", err)
	}
	due, err := parseOptionalDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		UserID:         userID,
		Description:    in.Description,
		Amount:         amount,
		Date:           date,
		Type:           models.TransactionType(in.Type),
		Responsibility: models.Responsibility(in.Responsibility),
		CategoryID:     in.CategoryID,
		PaymentMethod:  models.PaymentMethod(in.PaymentMethod),
		Installments:   int(in.Installments),
		Status:         models.Status(in.Status),
		IsRecurring:    in.IsRecurring,
		SplitExpense:   in.SplitExpense,
		PaidBy:         models.Person(in.PaidBy),
	}
	if !due.IsZero() {
		t.DueDate = &due
	}
	return t, nil
}

func transactionToAPI(t *models.Transaction) *api.Transaction {
	if t == nil {
		return nil
	}
	out := &api.Transaction{
		ID:                  t.ID,
		Description:         t.Description,
		Amount:              formatMoney(t.Amount),
		Date:                models.FormatDate(t.Date),
		Type:                string(t.Type),
		Responsibility:      string(t.Responsibility),
		CategoryID:          t.CategoryID,
		PaymentMethod:       string(t.PaymentMethod),
		Installments:        int32(t.Installments),
		Status:              string(t.Status),
		IsRecurring:         t.IsRecurring,
		SplitExpense:        t.SplitExpense,
		PaidBy:              string(t.PaidBy),
		ParentTransactionID: t.ParentTransactionID,
		RecurringSourceID:   t.RecurringSourceID,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
	if t.DueDate != nil {
		out.DueDate = models.FormatDate(*t.DueDate)
	}
	return out
}

func transactionsToAPI(txns []*models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txns))
	for i, t := range txns {
		out[i] = transactionToAPI(t)
	}
	return out
}

func debtToAPI(d *models.Debt) *api.Debt {
	if d == nil {
		return nil
	}
	return &api.Debt{
		ID:            d.ID,
		TransactionID: d.TransactionID,
		Description:   d.Description,
		OwedBy:        string(d.OwedBy),
		OwedTo:        string(d.OwedTo),
		Amount:        formatMoney(d.Amount),
		PaidAmount:    formatMoney(d.PaidAmount),
		Remaining:     formatMoney(d.Remaining()),
		IsPaid:        d.IsPaid,
		PaymentDate:   d.PaymentDate,
		CreatedAt:     d.CreatedAt,
	}
}

func positionToAPI(p calculator.DebtPosition) api.DebtPosition {
	return api.DebtPosition{
		Person: string(p.Person),
		OwedBy: formatMoney(p.OwedBy),
		OwedTo: formatMoney(p.OwedTo),
		Net:    formatMoney(p.Net),
	}
}

func categoryToAPI(c *models.Category) *api.Category {
	return &api.Category{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func walletToAPI(w calculator.Wallet, month string) *api.Wallet {
	out := &api.Wallet{
		Person:     string(w.Owner),
		Month:      month,
		Income:     formatMoney(w.Income),
		Expenses:   formatMoney(w.Expenses),
		Balance:    formatMoney(w.Balance),
		Categories: make([]api.CategorySpending, len(w.Categories)),
		Bills:      make([]api.Bill, len(w.Bills)),
		Debt:       positionToAPI(w.Debt),
	}
	for i, c := range w.Categories {
		out.Categories[i] = api.CategorySpending{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Amount:     formatMoney(c.Amount),
		}
	}
	for i, b := range w.Bills {
		out.Bills[i] = api.Bill{
			TransactionID: b.TransactionID,
			Description:   b.Description,
			Amount:        formatMoney(b.Amount),
			DueDate:       models.FormatDate(b.DueDate),
			Status:        string(b.Status),
		}
	}
	return out
}
