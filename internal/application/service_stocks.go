package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

func (s *Service) BuyStock(ctx context.Context, userID uuid.UUID, req BuyStockRequest, idempotencyKey string) (StockPurchaseView, error) {
	if err := domain.ValidateStockSymbol(req.Symbol); err != nil {
		return StockPurchaseView{}, err
	}
	if err := domain.ValidatePositiveAmount(req.AmountUSD); err != nil {
		return StockPurchaseView{}, err
	}
	if err := s.reserveIdempotency(ctx, idempotencyKey, req); err != nil {
		return StockPurchaseView{}, err
	}
	created, err := s.stocks.Create(ctx, ports.CreateStockPurchaseParams{
		UserID:      userID,
		Symbol:      strings.ToUpper(strings.TrimSpace(req.Symbol)),
		AmountUSD:   req.AmountUSD,
		PurchasedAt: s.nowFn(),
	})
	if err != nil {
		return StockPurchaseView{}, err
	}
	view := toStockPurchaseView(created)
	s.completeIdempotency(ctx, idempotencyKey, view)
	return view, nil
}

func (s *Service) ListStockPurchases(ctx context.Context, userID uuid.UUID) ([]StockPurchaseView, error) {
	rows, err := s.stocks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]StockPurchaseView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toStockPurchaseView(row))
	}
	return out, nil
}

// ClaimProfit sums accrual across every purchase the user holds and, when
// the rounded total is positive, records exactly one aggregate DEPOSIT and
// advances last_profit_claim_at on each contributing purchase in the same
// transaction. Claiming again immediately therefore yields zero: the
// operation is idempotent over an empty interval and never writes a
// zero-amount ledger row. Racing claims over the same interval cannot both
// land either; the store rejects any claim whose watermark has moved.
func (s *Service) ClaimProfit(ctx context.Context, userID uuid.UUID) (ClaimProfitResponse, error) {
	purchases, err := s.stocks.ListByUser(ctx, userID)
	if err != nil {
		return ClaimProfitResponse{}, err
	}

	now := s.nowFn()
	total := decimal.Zero
	contributing := make([]ports.ProfitClaim, 0, len(purchases))
	for _, p := range purchases {
		accrued := domain.AccruedProfit(p, s.cfg.ProfitRatePerHour, now)
		if accrued.IsPositive() {
			total = total.Add(accrued)
			contributing = append(contributing, ports.ProfitClaim{
				PurchaseID:    p.PurchaseID,
				LastClaimedAt: p.LastProfitClaimAt,
			})
		}
	}
	total = total.Round(2)
	if !total.IsPositive() {
		return ClaimProfitResponse{ClaimedAmount: decimal.Zero}, nil
	}

	deposit, err := s.stocks.ClaimProfitTx(ctx, userID, contributing, domain.Transaction{
		UserID:    userID,
		Type:      domain.TransactionDeposit,
		Amount:    total,
		CreatedAt: now,
	}, now)
	if err != nil {
		return ClaimProfitResponse{}, err
	}
	view := toTransactionView(deposit)
	return ClaimProfitResponse{ClaimedAmount: total, Transaction: &view}, nil
}

func toStockPurchaseView(p domain.StockPurchase) StockPurchaseView {
	return StockPurchaseView{
		PurchaseID:        p.PurchaseID.String(),
		Symbol:            p.Symbol,
		AmountUSD:         p.AmountUSD,
		PurchasedAt:       p.PurchasedAt,
		LastProfitClaimAt: p.LastProfitClaimAt,
	}
}
