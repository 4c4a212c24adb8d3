package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

func hashRequest(v any) string {
	raw, _ := json.Marshal(v)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (s *Service) reserveIdempotency(ctx context.Context, key string, request any) error {
	if key == "" {
		return nil
	}
	err := s.idempotency.Reserve(ctx, key, hashRequest(request), s.nowFn().Add(s.cfg.IdempotencyTTL))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIdempotencyConflict, err)
	}
	return nil
}

// completeIdempotency records the canonical response for a reserved key.
// Recording is best-effort: the operation already committed, so a failure
// here only downgrades a future replay from a cached response to a conflict.
func (s *Service) completeIdempotency(ctx context.Context, key string, response any) {
	if key == "" {
		return
	}
	body, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.idempotency.Complete(ctx, key, 200, body, s.nowFn()); err != nil {
		slog.Default().WarnContext(ctx, "idempotency completion failed",
			"service", s.cfg.ServiceName,
			"key", key,
			"error", err,
		)
	}
}

// enforceRateLimit applies a shared-store fixed-window counter. The window
// expires through the key TTL, so restarts and multiple processes share the
// same count.
func (s *Service) enforceRateLimit(ctx context.Context, key string, threshold int) error {
	if s.cache == nil || threshold <= 0 {
		return nil
	}
	count, err := s.cache.IncrWithTTL(ctx, "ratelimit:"+key, s.cfg.RateLimitWindow)
	if err != nil {
		// Counter failures must not take request handling down with them.
		return nil
	}
	if count > int64(threshold) {
		return domain.ErrRateLimitExceeded
	}
	return nil
}

// enqueueEvent writes a notification/integration event through the outbox.
// Delivery is fire-and-forget from the caller's perspective: enqueue
// failures are swallowed by callers, and the worker drains the table.
func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, data map[string]any) error {
	occurredAt := s.nowFn()
	eventID := uuid.New()
	envelope := map[string]any{
		"event_id":       eventID.String(),
		"event_type":     eventType,
		"occurred_at":    occurredAt.Format(time.RFC3339),
		"source_service": s.cfg.ServiceName,
		"schema_version": "1.0",
		"data":           data,
	}
	payload, _ := json.Marshal(envelope)
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:       eventID,
		EventType:     eventType,
		PartitionKey:  partitionKey,
		Payload:       payload,
		OccurredAt:    occurredAt,
		SchemaVersion: "1.0",
	})
}

func (s *Service) pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func uuidPtrString(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func toNFTView(n domain.NFT) NFTView {
	return NFTView{
		NFTID:        n.NFTID.String(),
		CreatorID:    n.CreatorID.String(),
		OwnerID:      uuidPtrString(n.OwnerID),
		CollectionID: uuidPtrString(n.CollectionID),
		Name:         n.Name,
		Description:  n.Description,
		ImageURL:     n.ImageURL,
		Price:        n.Price,
		IsListed:     n.IsListed,
		IsSold:       n.IsSold,
		CreatedAt:    n.CreatedAt,
	}
}

func toTransactionView(t domain.Transaction) TransactionView {
	return TransactionView{
		TransactionID: t.TransactionID.String(),
		Type:          string(t.Type),
		Amount:        t.Amount,
		NFTID:         uuidPtrString(t.NFTID),
		CreatedAt:     t.CreatedAt,
	}
}

func toBidView(b domain.Bid) BidView {
	return BidView{
		BidID:     b.BidID.String(),
		AuctionID: b.AuctionID.String(),
		NFTID:     b.NFTID.String(),
		BidderID:  b.BidderID.String(),
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}

func (s *Service) toAuctionView(a domain.Auction, highest *domain.Bid) AuctionView {
	now := s.nowFn()
	return AuctionView{
		AuctionID:    a.AuctionID.String(),
		NFTID:        a.NFTID.String(),
		SellerID:     a.SellerID.String(),
		StartPrice:   a.StartPrice,
		ReservePrice: a.ReservePrice,
		CurrentPrice: a.CurrentPrice,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		IsActive:     a.IsActive,
		Open:         a.OpenForBids(now),
		MinimumBid:   domain.MinimumNextBid(a.StartPrice, highest),
	}
}

func toWithdrawalView(w domain.WithdrawalRequest) WithdrawalView {
	return WithdrawalView{
		RequestID:   w.RequestID.String(),
		UserID:      w.UserID.String(),
		Amount:      w.Amount,
		Status:      string(w.Status),
		RequestedAt: w.RequestedAt,
		DecidedAt:   w.DecidedAt,
	}
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UserID:            u.UserID.String(),
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		Role:              string(u.Role),
		PreferredCurrency: u.PreferredCurrency,
		CreatedAt:         u.CreatedAt,
	}
}
