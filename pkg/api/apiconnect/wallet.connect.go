package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/casal/pkg/api"
)

// WalletServiceName is the fully-qualified name of the WalletService.
const WalletServiceName = "casal.v1.WalletService"

// Procedure paths of the WalletService.
const (
	WalletServiceGetWalletProcedure = "/casal.v1.WalletService/GetWallet"
)

// WalletServiceHandler is implemented by the server side of the service.
// WalletService serves per-person wallet summaries.
type WalletServiceHandler interface {
	GetWallet(context.Context, *connect.Request[api.GetWalletRequest]) (*connect.Response[api.GetWalletResponse], error)
}

// NewWalletServiceHandler builds an HTTP handler for svc. It returns the path to
// mount the handler on.
func NewWalletServiceHandler(svc WalletServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withHandlerCodec(opts)
	getWalletHandler := connect.NewUnaryHandler(WalletServiceGetWalletProcedure, svc.GetWallet, opts...)
	return "/" + WalletServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case WalletServiceGetWalletProcedure:
			getWalletHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedWalletServiceHandler returns CodeUnimplemented from every method.
type UnimplementedWalletServiceHandler struct{}

func (UnimplementedWalletServiceHandler) GetWallet(context.Context, *connect.Request[api.GetWalletRequest]) (*connect.Response[api.GetWalletResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casal.v1.WalletService.GetWallet is not implemented"))
}

// WalletServiceClient is a client for the WalletService.
type WalletServiceClient interface {
	GetWallet(context.Context, *connect.Request[api.GetWalletRequest]) (*connect.Response[api.GetWalletResponse], error)
}

// NewWalletServiceClient creates a client for the service at baseURL,
// e.g. http://localhost:8080.
func NewWalletServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) WalletServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &walletServiceClient{
		getWallet: connect.NewClient[api.GetWalletRequest, api.GetWalletResponse](httpClient, baseURL+WalletServiceGetWalletProcedure, opts...),
	}
}

type walletServiceClient struct {
	getWallet *connect.Client[api.GetWalletRequest, api.GetWalletResponse]
}

func (c *walletServiceClient) GetWallet(ctx context.Context, req *connect.Request[api.GetWalletRequest]) (*connect.Response[api.GetWalletResponse], error) {
	return c.getWallet.CallUnary(ctx, req)
}
