package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/casal/pkg/api"
)

// DebtServiceName is the fully-qualified name of the DebtService.
const DebtServiceName = "casal.v1.DebtService"

// Procedure paths of the DebtService.
const (
	DebtServiceListDebtsProcedure = "/casal.v1.DebtService/ListDebts"
	DebtServicePayDebtProcedure   = "/casal.v1.DebtService/PayDebt"
)

// DebtServiceHandler is implemented by the server side of the service.
// DebtService lists debts between the members and records payments.
type DebtServiceHandler interface {
	ListDebts(context.Context, *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error)
	PayDebt(context.Context, *connect.Request[api.PayDebtRequest]) (*connect.Response[api.PayDebtResponse], error)
}

// NewDebtServiceHandler builds an HTTP handler for svc. It returns the path to
// mount the handler on.
func NewDebtServiceHandler(svc DebtServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withHandlerCodec(opts)
	listDebtsHandler := connect.NewUnaryHandler(DebtServiceListDebtsProcedure, svc.ListDebts, opts...)
	payDebtHandler := connect.NewUnaryHandler(DebtServicePayDebtProcedure, svc.PayDebt, opts...)
	return "/" + DebtServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DebtServiceListDebtsProcedure:
			listDebtsHandler.ServeHTTP(w, r)
		case DebtServicePayDebtProcedure:
			payDebtHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedDebtServiceHandler returns CodeUnimplemented from every method.
type UnimplementedDebtServiceHandler struct{}

func (UnimplementedDebtServiceHandler) ListDebts(context.Context, *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casal.v1.DebtService.ListDebts is not implemented"))
}

func (UnimplementedDebtServiceHandler) PayDebt(context.Context, *connect.Request[api.PayDebtRequest]) (*connect.Response[api.PayDebtResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casal.v1.DebtService.PayDebt is not implemented"))
}

// DebtServiceClient is a client for the DebtService.
type DebtServiceClient interface {
	ListDebts(context.Context, *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error)
	PayDebt(context.Context, *connect.Request[api.PayDebtRequest]) (*connect.Response[api.PayDebtResponse], error)
}

// NewDebtServiceClient creates a client for the service at baseURL,
// e.g. http://localhost:8080.
func NewDebtServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DebtServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &debtServiceClient{
		listDebts: connect.NewClient[api.ListDebtsRequest, api.ListDebtsResponse](httpClient, baseURL+DebtServiceListDebtsProcedure, opts...),
		payDebt:   connect.NewClient[api.PayDebtRequest, api.PayDebtResponse](httpClient, baseURL+DebtServicePayDebtProcedure, opts...),
	}
}

type debtServiceClient struct {
	listDebts *connect.Client[api.ListDebtsRequest, api.ListDebtsResponse]
	payDebt   *connect.Client[api.PayDebtRequest, api.PayDebtResponse]
}

func (c *debtServiceClient) ListDebts(ctx context.Context, req *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error) {
	return c.listDebts.CallUnary(ctx, req)
}

func (c *debtServiceClient) PayDebt(ctx context.Context, req *connect.Request[api.PayDebtRequest]) (*connect.Response[api.PayDebtResponse], error) {
	return c.payDebt.CallUnary(ctx, req)
}
