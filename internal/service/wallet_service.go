package service

import (
	"context"
	"fmt"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/casal/internal/cache"
	"github.com/mmynk/casal/internal/calculator"
	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
	"github.com/mmynk/casal/pkg/api"
	"github.com/mmynk/casal/pkg/api/apiconnect"
)

const monthLayout = "2006-01"

// WalletCache holds computed wallets keyed by user, person and month.
type WalletCache struct {
	*cache.ReadThrough[*api.Wallet]
}

// NewWalletCache creates a wallet cache. A ttl <= 0 disables caching.
func NewWalletCache(ttl time.Duration) *WalletCache {
	return &WalletCache{cache.NewReadThrough[*api.Wallet](ttl)}
}

// InvalidateUser drops every cached wallet of userID. Safe on a nil cache.
func (c *WalletCache) InvalidateUser(userID string) {
	if c == nil {
		return
	}
	c.InvalidatePrefix(userID + "/")
}

// WalletService implements the Connect WalletService.
type WalletService struct {
	apiconnect.UnimplementedWalletServiceHandler
	store   storage.Store
	wallets *WalletCache
}

// NewWalletService creates a WalletService reading through wallets.
func NewWalletService(store storage.Store, wallets *WalletCache) *WalletService {
	if wallets == nil {
		wallets = NewWalletCache(0)
	}
	return &WalletService{store: store, wallets: wallets}
}

// GetWallet returns the summary for one member, optionally for one month.
func (s *WalletService) GetWallet(ctx context.Context, req *connect.Request[api.GetWalletRequest]) (*connect.Response[api.GetWalletResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	person, err := models.ParsePerson(req.Msg.Person)
	if err != nil {
		return nil, toConnectError("GetWallet", badRequest("%v", err))
	}
	from, to, err := monthRange(req.Msg.Month)
	if err != nil {
		return nil, toConnectError("GetWallet", err)
	}

	key := fmt.Sprintf("%s/%s/%s", userID, person, req.Msg.Month)
	wallet, err := s.wallets.Get(ctx, key, func(ctx context.Context) (*api.Wallet, error) {
		return s.buildWallet(ctx, userID, person, from, to, req.Msg.Month)
	})
	if err != nil {
		return nil, toConnectError("GetWallet", err)
	}
	return connect.NewResponse(&api.GetWalletResponse{Wallet: wallet}), nil
}

func (s *WalletService) buildWallet(ctx context.Context, userID string, person models.Person, from, to time.Time, month string) (*api.Wallet, error) {
	txns, err := s.store.ListTransactions(ctx, userID, storage.TransactionFilter{
		Responsibility: models.ResponsibilityOf(person),
		From:           from,
		To:             to,
	})
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	debts, err := s.store.ListDebts(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	return walletToAPI(calculator.BuildWallet(person, txns, names, debts), month), nil
}

// monthRange parses an optional YYYY-MM month into inclusive date bounds.
func monthRange(month string) (from, to time.Time, err error) {
	if month == "" {
		return time.Time{}, time.Time{}, nil
	}
	from, err = time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("month: expected YYYY-MM, got %q", month)
	}
	return from, from.AddDate(0, 1, -1), nil
}
