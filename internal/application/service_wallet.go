package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

// RequestWithdrawal records a PENDING request. It carries no ledger effect:
// the WITHDRAWAL transaction is only written on approval, keeping the
// request and the ledger entry deliberately decoupled. The balance check
// here is a courtesy gate; approval re-checks against the live ledger.
func (s *Service) RequestWithdrawal(ctx context.Context, userID uuid.UUID, req WithdrawalRequestInput, idempotencyKey string) (WithdrawalView, error) {
	if err := domain.ValidatePositiveAmount(req.Amount); err != nil {
		return WithdrawalView{}, err
	}
	balance, err := s.ComputeBalance(ctx, userID)
	if err != nil {
		return WithdrawalView{}, err
	}
	if balance.LessThan(req.Amount) {
		return WithdrawalView{}, fmt.Errorf("%w: requested %s, balance %s", domain.ErrInsufficientBalance, req.Amount, balance)
	}
	if err := s.reserveIdempotency(ctx, idempotencyKey, req); err != nil {
		return WithdrawalView{}, err
	}
	created, err := s.withdrawals.Create(ctx, userID, req.Amount, s.nowFn())
	if err != nil {
		return WithdrawalView{}, err
	}
	view := toWithdrawalView(created)
	s.completeIdempotency(ctx, idempotencyKey, view)
	return view, nil
}

func (s *Service) ListWithdrawals(ctx context.Context, status *domain.WithdrawalStatus, limit, offset int) ([]WithdrawalView, error) {
	limit, offset = s.pageBounds(limit, offset)
	rows, err := s.withdrawals.List(ctx, ports.WithdrawalFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	out := make([]WithdrawalView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toWithdrawalView(row))
	}
	return out, nil
}

// ApproveWithdrawal flips a PENDING request to APPROVED and appends the
// WITHDRAWAL ledger row in one atomic unit. The balance is recomputed from
// the ledger immediately before the unit; a balance that fell below the
// requested amount since the request denies nothing silently — the approval
// fails with insufficient balance and the request stays pending.
func (s *Service) ApproveWithdrawal(ctx context.Context, adminID, requestID uuid.UUID) (WithdrawalView, error) {
	request, err := s.withdrawals.GetByID(ctx, requestID)
	if err != nil {
		return WithdrawalView{}, err
	}
	if request.Status != domain.WithdrawalPending {
		return WithdrawalView{}, fmt.Errorf("%w: request already %s", domain.ErrConflict, request.Status)
	}
	balance, err := s.ComputeBalance(ctx, request.UserID)
	if err != nil {
		return WithdrawalView{}, err
	}
	if balance.LessThan(request.Amount) {
		return WithdrawalView{}, fmt.Errorf("%w: requested %s, balance %s", domain.ErrInsufficientBalance, request.Amount, balance)
	}

	now := s.nowFn()
	approved, err := s.withdrawals.ApproveTx(ctx, requestID, adminID, domain.Transaction{
		UserID:    request.UserID,
		Type:      domain.TransactionWithdrawal,
		Amount:    request.Amount,
		CreatedAt: now,
	}, now)
	if err != nil {
		return WithdrawalView{}, err
	}
	s.notifyWithdrawalDecided(ctx, approved)
	return toWithdrawalView(approved), nil
}

func (s *Service) DenyWithdrawal(ctx context.Context, adminID, requestID uuid.UUID) (WithdrawalView, error) {
	request, err := s.withdrawals.GetByID(ctx, requestID)
	if err != nil {
		return WithdrawalView{}, err
	}
	if request.Status != domain.WithdrawalPending {
		return WithdrawalView{}, fmt.Errorf("%w: request already %s", domain.ErrConflict, request.Status)
	}
	denied, err := s.withdrawals.Deny(ctx, requestID, adminID, s.nowFn())
	if err != nil {
		return WithdrawalView{}, err
	}
	s.notifyWithdrawalDecided(ctx, denied)
	return toWithdrawalView(denied), nil
}

func (s *Service) notifyWithdrawalDecided(ctx context.Context, w domain.WithdrawalRequest) {
	if err := s.enqueueEvent(ctx, "marketplace.withdrawal_decided", w.UserID.String(), map[string]any{
		"request_id": w.RequestID.String(),
		"user_id":    w.UserID.String(),
		"amount":     w.Amount.String(),
		"status":     string(w.Status),
	}); err != nil {
		slog.Default().WarnContext(ctx, "withdrawal notification enqueue failed",
			"service", s.cfg.ServiceName,
			"operation", "withdrawal_decided",
			"request_id", w.RequestID.String(),
			"error", err,
		)
	}
}
