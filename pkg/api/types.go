// Package api defines the request and response messages of the casal RPC
// services. Money travels as decimal strings with two fractional digits and
// calendar dates as YYYY-MM-DD.
package api

// Transaction is an income or expense.
type Transaction struct {
	ID                  string `json:"id,omitempty"`
	Description         string `json:"description"`
	Amount              string `json:"amount"`
	Date                string `json:"date"`
	Type                string `json:"type"`
	Responsibility      string `json:"responsibility"`
	CategoryID          string `json:"category_id,omitempty"`
	PaymentMethod       string `json:"payment_method,omitempty"`
	Installments        int32  `json:"installments,omitempty"`
	DueDate             string `json:"due_date,omitempty"`
	Status              string `json:"status,omitempty"`
	IsRecurring         bool   `json:"is_recurring"`
	SplitExpense        bool   `json:"split_expense"`
	PaidBy              string `json:"paid_by,omitempty"`
	ParentTransactionID string `json:"parent_transaction_id,omitempty"`
	RecurringSourceID   string `json:"recurring_source_id,omitempty"`
	CreatedAt           int64  `json:"created_at,omitempty"`
	UpdatedAt           int64  `json:"updated_at,omitempty"`
}

// Debt is what one member owes the other for a joint expense.
type Debt struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Description   string `json:"description,omitempty"`
	OwedBy        string `json:"owed_by"`
	OwedTo        string `json:"owed_to"`
	Amount        string `json:"amount"`
	PaidAmount    string `json:"paid_amount"`
	Remaining     string `json:"remaining"`
	IsPaid        bool   `json:"is_paid"`
	// PaymentDate is the Unix time of the last payment, 0 if none.
	PaymentDate int64 `json:"payment_date,omitempty"`
	CreatedAt   int64 `json:"created_at,omitempty"`
}

// DebtPosition is one member's open balance with the other.
type DebtPosition struct {
	Person string `json:"person"`
	OwedBy string `json:"owed_by"`
	OwedTo string `json:"owed_to"`
	Net    string `json:"net"`
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

type CategorySpending struct {
	CategoryID string `json:"category_id,omitempty"`
	Name       string `json:"name"`
	Amount     string `json:"amount"`
}

// Bill is an open expense in a wallet.
type Bill struct {
	TransactionID string `json:"transaction_id"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	DueDate       string `json:"due_date"`
	Status        string `json:"status"`
}

// Wallet is a per-person summary.
type Wallet struct {
	Person     string             `json:"person"`
	Month      string             `json:"month,omitempty"`
	Income     string             `json:"income"`
	Expenses   string             `json:"expenses"`
	Balance    string             `json:"balance"`
	Categories []CategorySpending `json:"categories"`
	Bills      []Bill             `json:"bills"`
	Debt       DebtPosition       `json:"debt"`
}

// SaveTransactionRequest creates a transaction, or updates the one at
// TransactionID when set.
type SaveTransactionRequest struct {
	TransactionID string       `json:"transaction_id,omitempty"`
	Transaction   *Transaction `json:"transaction"`
}

type SaveTransactionResponse struct {
	Transaction *Transaction   `json:"transaction"`
	Splits      []*Transaction `json:"splits,omitempty"`
	Debt        *Debt          `json:"debt,omitempty"`
}

type GetTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type GetTransactionResponse struct {
	Transaction *Transaction   `json:"transaction"`
	Splits      []*Transaction `json:"splits,omitempty"`
	Debt        *Debt          `json:"debt,omitempty"`
}

// ListTransactionsRequest filters are all optional.
type ListTransactionsRequest struct {
	Responsibility string `json:"responsibility,omitempty"`
	Type           string `json:"type,omitempty"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type ListDebtsRequest struct {
	IncludePaid bool `json:"include_paid,omitempty"`
}

type ListDebtsResponse struct {
	Debts     []*Debt        `json:"debts"`
	Positions []DebtPosition `json:"positions"`
}

// PayDebtRequest settles the debt in full when Amount is omitted.
type PayDebtRequest struct {
	DebtID string  `json:"debt_id"`
	Amount *string `json:"amount,omitempty"`
}

type PayDebtResponse struct {
	Debt *Debt `json:"debt"`
}

// GetWalletRequest optionally restricts the summary to a YYYY-MM month.
type GetWalletRequest struct {
	Person string `json:"person"`
	Month  string `json:"month,omitempty"`
}

type GetWalletResponse struct {
	Wallet *Wallet `json:"wallet"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

type DeleteCategoryRequest struct {
	CategoryID string `json:"category_id"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
