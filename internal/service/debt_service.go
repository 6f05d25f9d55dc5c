package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/casal/internal/calculator"
	"github.com/mmynk/casal/internal/ledger"
	"github.com/mmynk/casal/internal/storage"
	"github.com/mmynk/casal/pkg/api"
	"github.com/mmynk/casal/pkg/api/apiconnect"
)

// DebtService implements the Connect DebtService.
type DebtService struct {
	apiconnect.UnimplementedDebtServiceHandler
	ledger  *ledger.Ledger
	store   storage.DebtStore
	wallets *WalletCache
}

// NewDebtService creates a DebtService. wallets may be nil.
func NewDebtService(l *ledger.Ledger, store storage.DebtStore, wallets *WalletCache) *DebtService {
	return &DebtService{ledger: l, store: store, wallets: wallets}
}

// ListDebts returns the caller's debts and each member's open position.
func (s *DebtService) ListDebts(ctx context.Context, req *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	debts, err := s.store.ListDebts(ctx, userID, req.Msg.IncludePaid)
	if err != nil {
		return nil, toConnectError("ListDebts", err)
	}

	resp := &api.ListDebtsResponse{
		Debts:     make([]*api.Debt, len(debts)),
		Positions: []api.DebtPosition{},
	}
	for i, d := range debts {
		resp.Debts[i] = debtToAPI(d)
	}
	for _, p := range calculator.Positions(debts) {
		resp.Positions = append(resp.Positions, positionToAPI(p))
	}
	return connect.NewResponse(resp), nil
}

// PayDebt records a partial or full payment.
func (s *DebtService) PayDebt(ctx context.Context, req *connect.Request[api.PayDebtRequest]) (*connect.Response[api.PayDebtResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.DebtID == "" {
		return nil, toConnectError("PayDebt", badRequest("debt_id is required"))
	}

	var amount *decimal.Decimal
	if req.Msg.Amount != nil {
		d, err := parseMoney("amount", *req.Msg.Amount)
		if err != nil {
			return nil, toConnectError("PayDebt", err)
		}
		amount = &d
	}

	debt, err := s.ledger.PayDebt(ctx, userID, req.Msg.DebtID, amount)
	if err != nil {
		return nil, toConnectError("PayDebt", err)
	}
	s.wallets.InvalidateUser(userID)

	return connect.NewResponse(&api.PayDebtResponse{Debt: debtToAPI(debt)}), nil
}
