package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/casal/internal/ledger"
	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
	"github.com/mmynk/casal/pkg/api"
	"github.com/mmynk/casal/pkg/api/apiconnect"
)

// TransactionService implements the Connect TransactionService.
type TransactionService struct {
	apiconnect.UnimplementedTransactionServiceHandler
	ledger  *ledger.Ledger
	store   storage.Store
	wallets *WalletCache
}

// NewTransactionService creates a TransactionService. wallets may be nil.
func NewTransactionService(l *ledger.Ledger, store storage.Store, wallets *WalletCache) *TransactionService {
	return &TransactionService{ledger: l, store: store, wallets: wallets}
}

// SaveTransaction creates or updates a transaction and reconciles its
// split halves and debt.
func (s *TransactionService) SaveTransaction(ctx context.Context, req *connect.Request[api.SaveTransactionRequest]) (*connect.Response[api.SaveTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := transactionFromAPI(userID, req.Msg.Transaction)
	if err != nil {
		return nil, toConnectError("SaveTransaction", err)
	}
	if err := s.checkCategory(ctx, userID, txn.CategoryID); err != nil {
		return nil, toConnectError("SaveTransaction", err)
	}

	result, err := s.ledger.Save(ctx, txn, req.Msg.TransactionID)
	// A failed step may still have written rows.
	s.wallets.InvalidateUser(userID)
	if err != nil {
		return nil, toConnectError("SaveTransaction", err)
	}

	slog.Info("Transaction saved",
		"transaction_id", result.Transaction.ID,
		"update", req.Msg.TransactionID != "",
		"responsibility", result.Transaction.Responsibility,
	)
	return connect.NewResponse(&api.SaveTransactionResponse{
		Transaction: transactionToAPI(result.Transaction),
		Splits:      transactionsToAPI(result.Splits),
		Debt:        debtToAPI(result.Debt),
	}), nil
}

// GetTransaction returns a transaction with its halves and debt.
func (s *TransactionService) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.TransactionID == "" {
		return nil, toConnectError("GetTransaction", badRequest("transaction_id is required"))
	}

	result, err := s.ledger.Get(ctx, userID, req.Msg.TransactionID)
	if err != nil {
		return nil, toConnectError("GetTransaction", err)
	}
	return connect.NewResponse(&api.GetTransactionResponse{
		Transaction: transactionToAPI(result.Transaction),
		Splits:      transactionsToAPI(result.Splits),
		Debt:        debtToAPI(result.Debt),
	}), nil
}

// ListTransactions returns the caller's transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := listFilter(req.Msg)
	if err != nil {
		return nil, toConnectError("ListTransactions", err)
	}

	txns, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, toConnectError("ListTransactions", err)
	}

	slog.Debug("Listed transactions", "user_id", userID, "count", len(txns))
	return connect.NewResponse(&api.ListTransactionsResponse{
		Transactions: transactionsToAPI(txns),
	}), nil
}

// checkCategory rejects category ids the caller does not own.
func (s *TransactionService) checkCategory(ctx context.Context, userID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return nil
		}
	}
	return badRequest("unknown category %q", categoryID)
}

func listFilter(msg *api.ListTransactionsRequest) (storage.TransactionFilter, error) {
	filter := storage.TransactionFilter{
		Responsibility: models.Responsibility(msg.Responsibility),
		Type:           models.TransactionType(msg.Type),
	}
	if filter.Responsibility != "" && !filter.Responsibility.Valid() {
		return filter, badRequest("unknown responsibility %q", msg.Responsibility)
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return filter, badRequest("unknown type %q", msg.Type)
	}

	var err error
	if filter.From, err = parseOptionalDate("from", msg.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseOptionalDate("to", msg.To); err != nil {
		return filter, err
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, badRequest("to is before from")
	}
	return filter, nil
}

// DeleteTransaction removes a transaction with its debt and halves.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[emptypb.Empty], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.TransactionID == "" {
		return nil, toConnectError("DeleteTransaction", badRequest("transaction_id is required"))
	}

	err = s.ledger.Delete(ctx, userID, req.Msg.TransactionID)
	s.wallets.InvalidateUser(userID)
	if err != nil {
		return nil, toConnectError("DeleteTransaction", err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}
