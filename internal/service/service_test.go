package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/casal/internal/auth"
	"github.com/mmynk/casal/internal/ledger"
	"github.com/mmynk/casal/internal/middleware"
	"github.com/mmynk/casal/internal/storage/sqlite"
	"github.com/mmynk/casal/pkg/api"
	"github.com/mmynk/casal/pkg/api/apiconnect"
)

type testClients struct {
	transactions apiconnect.TransactionServiceClient
	debts        apiconnect.DebtServiceClient
	wallets      apiconnect.WalletServiceClient
	categories   apiconnect.CategoryServiceClient
}

type testServer struct {
	url   string
	auth  apiconnect.AuthServiceClient
	store *sqlite.SQLiteStore
}

// setupTestServer wires every service the way cmd/server does, on a
// temporary database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	l := ledger.New(store)
	wallets := NewWalletCache(time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	protected := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor())
	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewTransactionServiceHandler(NewTransactionService(l, store, wallets), protected))
	mux.Handle(apiconnect.NewDebtServiceHandler(NewDebtService(l, store, wallets), protected))
	mux.Handle(apiconnect.NewWalletServiceHandler(NewWalletService(store, wallets), protected))
	mux.Handle(apiconnect.NewCategoryServiceHandler(NewCategoryService(store, wallets), protected))
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger), optional))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		url:   server.URL,
		auth:  apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		store: store,
	}
}

// clients returns service clients that send token on every call.
func (s *testServer) clients(token string) testClients {
	opts := connect.WithInterceptors(connect.UnaryInterceptorFunc(
		func(next connect.UnaryFunc) connect.UnaryFunc {
			return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				if token != "" {
					req.Header().Set("Authorization", "Bearer "+token)
				}
				return next(ctx, req)
			}
		},
	))
	return testClients{
		transactions: apiconnect.NewTransactionServiceClient(http.DefaultClient, s.url, opts),
		debts:        apiconnect.NewDebtServiceClient(http.DefaultClient, s.url, opts),
		wallets:      apiconnect.NewWalletServiceClient(http.DefaultClient, s.url, opts),
		categories:   apiconnect.NewCategoryServiceClient(http.DefaultClient, s.url, opts),
	}
}

// register creates an account and returns clients signed in as it.
func (s *testServer) register(t *testing.T, email string) testClients {
	t.Helper()
	resp, err := s.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: "Household",
		Password:    "long enough password",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return s.clients(resp.Msg.Token)
}

func setupClients(t *testing.T) testClients {
	t.Helper()
	return setupTestServer(t).register(t, "casal@example.com")
}

func saveTxn(t *testing.T, c testClients, id string, txn *api.Transaction) *api.SaveTransactionResponse {
	t.Helper()
	resp, err := c.transactions.SaveTransaction(context.Background(), connect.NewRequest(&api.SaveTransactionRequest{
		TransactionID: id,
		Transaction:   txn,
	}))
	if err != nil {
		t.Fatalf("SaveTransaction failed: %v", err)
	}
	return resp.Msg
}

func groceries(amount, paidBy string) *api.Transaction {
	return &api.Transaction{
		Description:    "Groceries",
		Amount:         amount,
		Date:           "2025-03-10",
		Type:           "expense",
		Responsibility: "casal",
		SplitExpense:   paidBy != "",
		PaidBy:         paidBy,
	}
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got success", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
