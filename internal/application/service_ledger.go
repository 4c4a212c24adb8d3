package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

// ComputeBalance projects a user's spendable balance from the transaction
// ledger: deposits minus withdrawals minus mint fees. It is computed fresh
// on every call; no denormalized counter exists to drift. When the
// aggregation fails the error propagates so debit paths fail closed rather
// than treating the balance as zero.
func (s *Service) ComputeBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	sums, err := s.transactions.SumByType(ctx, userID)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: balance aggregation failed: %v", domain.ErrStorageUnavailable, err)
	}
	balance := sums[domain.TransactionDeposit].
		Sub(sums[domain.TransactionWithdrawal]).
		Sub(sums[domain.TransactionMint])
	return balance, nil
}

func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (BalanceResponse, error) {
	balance, err := s.ComputeBalance(ctx, userID)
	if err != nil {
		return BalanceResponse{}, err
	}
	return BalanceResponse{UserID: userID.String(), Balance: balance}, nil
}

// Deposit records funds arriving from the external payment collaborator.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, req DepositRequest, idempotencyKey string) (TransactionView, error) {
	if err := domain.ValidatePositiveAmount(req.Amount); err != nil {
		return TransactionView{}, err
	}
	if err := s.reserveIdempotency(ctx, idempotencyKey, req); err != nil {
		return TransactionView{}, err
	}
	tx, err := s.transactions.Create(ctx, ports.CreateTransactionParams{
		UserID:    userID,
		Type:      domain.TransactionDeposit,
		Amount:    req.Amount,
		CreatedAt: s.nowFn(),
	})
	if err != nil {
		return TransactionView{}, err
	}
	view := toTransactionView(tx)
	s.completeIdempotency(ctx, idempotencyKey, view)
	return view, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]TransactionView, error) {
	limit, offset = s.pageBounds(limit, offset)
	rows, err := s.transactions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTransactionView(row))
	}
	return out, nil
}
