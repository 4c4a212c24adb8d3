package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

// MintWithDebit creates an NFT and charges the fixed mint fee as one atomic
// unit. The balance check runs first and fails closed: if the ledger
// aggregation errors, no mint is attempted. On insufficient funds nothing
// is written at all.
func (s *Service) MintWithDebit(ctx context.Context, creatorID uuid.UUID, req MintNFTRequest, idempotencyKey string) (MintNFTResponse, error) {
	if err := domain.ValidateNFTName(req.Name); err != nil {
		return MintNFTResponse{}, err
	}
	if err := domain.ValidateImageURL(req.ImageURL); err != nil {
		return MintNFTResponse{}, err
	}
	if !req.Price.IsPositive() {
		return MintNFTResponse{}, fmt.Errorf("%w: price must be positive", domain.ErrInvalidPrice)
	}
	var collectionID *uuid.UUID
	if req.CollectionID != nil && *req.CollectionID != "" {
		parsed, err := uuid.Parse(*req.CollectionID)
		if err != nil {
			return MintNFTResponse{}, fmt.Errorf("%w: invalid collection_id", domain.ErrInvalidInput)
		}
		if _, err := s.collections.GetByID(ctx, parsed); err != nil {
			return MintNFTResponse{}, err
		}
		collectionID = &parsed
	}
	if err := s.enforceRateLimit(ctx, "mint:"+creatorID.String(), s.cfg.MintRateLimitThreshold); err != nil {
		return MintNFTResponse{}, err
	}

	balance, err := s.ComputeBalance(ctx, creatorID)
	if err != nil {
		return MintNFTResponse{}, err
	}
	if balance.LessThan(s.cfg.MintFee) {
		return MintNFTResponse{}, fmt.Errorf("%w: mint fee is %s, balance is %s", domain.ErrInsufficientBalance, s.cfg.MintFee, balance)
	}
	if err := s.reserveIdempotency(ctx, idempotencyKey, req); err != nil {
		return MintNFTResponse{}, err
	}

	now := s.nowFn()
	nft, feeTx, err := s.nfts.MintWithDebitTx(ctx, ports.MintNFTParams{
		CreatorID:    creatorID,
		CollectionID: collectionID,
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Price:        req.Price,
		ListOnMint:   req.ListOnMint,
		CreatedAt:    now,
	}, domain.Transaction{
		UserID:    creatorID,
		Type:      domain.TransactionMint,
		Amount:    s.cfg.MintFee,
		CreatedAt: now,
	})
	if err != nil {
		return MintNFTResponse{}, err
	}
	resp := MintNFTResponse{
		NFT:         toNFTView(nft),
		FeeCharged:  s.cfg.MintFee,
		Transaction: toTransactionView(feeTx),
	}
	s.completeIdempotency(ctx, idempotencyKey, resp)
	return resp, nil
}

// SettlePurchase executes a direct (non-auction) purchase: one SALE ledger
// row plus the ownership transfer, committed together or not at all. All
// business preconditions are checked before the atomic unit; the repository
// re-checks availability under a row lock so two concurrent buyers cannot
// both win. The sale notification afterwards is fire-and-forget.
func (s *Service) SettlePurchase(ctx context.Context, buyerID, nftID uuid.UUID, idempotencyKey string) (SettlePurchaseResponse, error) {
	nft, err := s.nfts.GetByID(ctx, nftID)
	if err != nil {
		return SettlePurchaseResponse{}, err
	}
	if nft.IsSold || !nft.IsListed {
		return SettlePurchaseResponse{}, domain.ErrNFTUnavailable
	}
	if nft.OwnerID != nil && *nft.OwnerID == buyerID {
		return SettlePurchaseResponse{}, domain.ErrSelfPurchase
	}
	if !nft.Price.IsPositive() {
		return SettlePurchaseResponse{}, domain.ErrInvalidPrice
	}
	now := s.nowFn()
	if open, err := s.auctions.FindOpenByNFT(ctx, nftID, now); err != nil {
		return SettlePurchaseResponse{}, err
	} else if open != nil {
		return SettlePurchaseResponse{}, domain.ErrActiveAuction
	}
	if err := s.reserveIdempotency(ctx, idempotencyKey, map[string]string{"nft_id": nftID.String(), "buyer_id": buyerID.String()}); err != nil {
		return SettlePurchaseResponse{}, err
	}

	updated, saleTx, err := s.nfts.SettlePurchaseTx(ctx, nftID, buyerID, domain.Transaction{
		UserID:    buyerID,
		NFTID:     &nftID,
		Type:      domain.TransactionSale,
		Amount:    nft.Price,
		CreatedAt: now,
	})
	if err != nil {
		return SettlePurchaseResponse{}, err
	}

	sellerID := ""
	if nft.OwnerID != nil {
		sellerID = nft.OwnerID.String()
	}
	if err := s.enqueueEvent(ctx, "marketplace.nft_sold", nftID.String(), map[string]any{
		"nft_id":    nftID.String(),
		"buyer_id":  buyerID.String(),
		"seller_id": sellerID,
		"amount":    nft.Price.String(),
	}); err != nil {
		slog.Default().WarnContext(ctx, "sale notification enqueue failed",
			"service", s.cfg.ServiceName,
			"operation", "settle_purchase",
			"nft_id", nftID.String(),
			"error", err,
		)
	}
	resp := SettlePurchaseResponse{
		NFT:         toNFTView(updated),
		Transaction: toTransactionView(saleTx),
	}
	s.completeIdempotency(ctx, idempotencyKey, resp)
	return resp, nil
}

func (s *Service) GetNFT(ctx context.Context, nftID uuid.UUID) (NFTView, error) {
	nft, err := s.nfts.GetByID(ctx, nftID)
	if err != nil {
		return NFTView{}, err
	}
	return toNFTView(nft), nil
}

func (s *Service) ListNFTs(ctx context.Context, listedOnly bool, limit, offset int) ([]NFTView, error) {
	limit, offset = s.pageBounds(limit, offset)
	rows, err := s.nfts.List(ctx, ports.NFTFilter{ListedOnly: listedOnly, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	out := make([]NFTView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toNFTView(row))
	}
	return out, nil
}

// SetListing relists or delists an owned NFT. Relisting starts a new sale
// cycle: the sold flag clears, preserving the sold-implies-unlisted
// invariant in the other direction.
func (s *Service) SetListing(ctx context.Context, ownerID, nftID uuid.UUID, listed bool, req SetListingRequest) (NFTView, error) {
	nft, err := s.nfts.GetByID(ctx, nftID)
	if err != nil {
		return NFTView{}, err
	}
	if nft.OwnerID == nil || *nft.OwnerID != ownerID {
		return NFTView{}, fmt.Errorf("%w: only the owner can change the listing", domain.ErrForbidden)
	}
	if req.Price != nil && !req.Price.IsPositive() {
		return NFTView{}, domain.ErrInvalidPrice
	}
	updated, err := s.nfts.SetListing(ctx, ports.SetListingParams{
		NFTID:     nftID,
		OwnerID:   ownerID,
		Listed:    listed,
		Price:     req.Price,
		UpdatedAt: s.nowFn(),
	})
	if err != nil {
		return NFTView{}, err
	}
	return toNFTView(updated), nil
}

func (s *Service) CreateCollection(ctx context.Context, creatorID uuid.UUID, req CreateCollectionRequest) (CollectionView, error) {
	if err := domain.ValidateNFTName(req.Name); err != nil {
		return CollectionView{}, err
	}
	created, err := s.collections.Create(ctx, ports.CreateCollectionParams{
		CreatorID:   creatorID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   s.nowFn(),
	})
	if err != nil {
		return CollectionView{}, err
	}
	return toCollectionView(created), nil
}

func (s *Service) ListCollections(ctx context.Context, limit, offset int) ([]CollectionView, error) {
	limit, offset = s.pageBounds(limit, offset)
	rows, err := s.collections.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]CollectionView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCollectionView(row))
	}
	return out, nil
}

func toCollectionView(c domain.Collection) CollectionView {
	return CollectionView{
		CollectionID: c.CollectionID.String(),
		CreatorID:    c.CreatorID.String(),
		Name:         c.Name,
		Description:  c.Description,
		CreatedAt:    c.CreatedAt,
	}
}
