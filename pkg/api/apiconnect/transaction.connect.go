package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/casal/pkg/api"
)

// TransactionServiceName is the fully-qualified name of the TransactionService.
const TransactionServiceName = "casal.v1.TransactionService"

// Procedure paths of the TransactionService.
const (
	TransactionServiceSaveTransactionProcedure   = "/casal.v1.TransactionService/SaveTransaction"
	TransactionServiceGetTransactionProcedure    = "/casal.v1.TransactionService/GetTransaction"
	TransactionServiceListTransactionsProcedure  = "/casal.v1.TransactionService/ListTransactions"
	TransactionServiceDeleteTransactionProcedure = "/casal.v1.TransactionService/DeleteTransaction"
)

// TransactionServiceHandler is implemented by the server side of the service.
// TransactionService handles income and expense records with their split halves and debts.
type TransactionServiceHandler interface {
	SaveTransaction(context.Context, *connect.Request[api.SaveTransactionRequest]) (*connect.Response[api.SaveTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[emptypb.Empty], error)
}

// NewTransactionServiceHandler builds an HTTP handler for svc. It returns the path to
// mount the handler on.
func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withHandlerCodec(opts)
	saveTransactionHandler := connect.NewUnaryHandler(TransactionServiceSaveTransactionProcedure, svc.SaveTransaction, opts...)
	getTransactionHandler := connect.NewUnaryHandler(TransactionServiceGetTransactionProcedure, svc.GetTransaction, opts...)
	listTransactionsHandler := connect.NewUnaryHandler(TransactionServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	deleteTransactionHandler := connect.NewUnaryHandler(TransactionServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	return "/" + TransactionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TransactionServiceSaveTransactionProcedure:
			saveTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceGetTransactionProcedure:
			getTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceListTransactionsProcedure:
			listTransactionsHandler.ServeHTTP(w, r)
		case TransactionServiceDeleteTransactionProcedure:
			deleteTransactionHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedTransactionServiceHandler returns CodeUnimplemented from every method.
type UnimplementedTransactionServiceHandler struct{}

func (UnimplementedTransactionServiceHandler) SaveTransaction(context.Context, *connect.Request[api.SaveTransactionRequest]) (*connect.Response[api.SaveTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casal.v1.TransactionService.SaveTransaction is not implemented"))
}

func (UnimplementedTransactionServiceHandler) GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casal.v1.TransactionService.GetTransaction is not implemented"))
}

func (UnimplementedTransactionServiceHandler) ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casal.v1.TransactionService.ListTransactions is not implemented"))
}

func (UnimplementedTransactionServiceHandler) DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[emptypb.Empty], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casal.v1.TransactionService.DeleteTransaction is not implemented"))
}

// TransactionServiceClient is a client for the TransactionService.
type TransactionServiceClient interface {
	SaveTransaction(context.Context, *connect.Request[api.SaveTransactionRequest]) (*connect.Response[api.SaveTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[emptypb.Empty], error)
}

// NewTransactionServiceClient creates a client for the service at baseURL,
// e.g. http://localhost:8080.
func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TransactionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &transactionServiceClient{
		saveTransaction:   connect.NewClient[api.SaveTransactionRequest, api.SaveTransactionResponse](httpClient, baseURL+TransactionServiceSaveTransactionProcedure, opts...),
		getTransaction:    connect.NewClient[api.GetTransactionRequest, api.GetTransactionResponse](httpClient, baseURL+TransactionServiceGetTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+TransactionServiceListTransactionsProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, emptypb.Empty](httpClient, baseURL+TransactionServiceDeleteTransactionProcedure, opts...),
	}
}

type transactionServiceClient struct {
	saveTransaction   *connect.Client[api.SaveTransactionRequest, api.SaveTransactionResponse]
	getTransaction    *connect.Client[api.GetTransactionRequest, api.GetTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, emptypb.Empty]
}

func (c *transactionServiceClient) SaveTransaction(ctx context.Context, req *connect.Request[api.SaveTransactionRequest]) (*connect.Response[api.SaveTransactionResponse], error) {
	return c.saveTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *transactionServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}
