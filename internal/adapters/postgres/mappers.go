package postgres

import (
	"github.com/mintmesh/marketplace/internal/domain"
)

// Reads map through these converters; writes build their models inline from
// typed params, except the ledger rows the settlement transactions share.

func userToDomain(m userModel) domain.User {
	return domain.User{
		UserID:            m.UserID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              domain.Role(m.Role),
		PreferredCurrency: m.PreferredCurrency,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		DeletedAt:         m.DeletedAt,
	}
}

func collectionToDomain(m collectionModel) domain.Collection {
	return domain.Collection{
		CollectionID: m.CollectionID,
		CreatorID:    m.CreatorID,
		Name:         m.Name,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}

func nftToDomain(m nftModel) domain.NFT {
	return domain.NFT{
		NFTID:        m.NFTID,
		CreatorID:    m.CreatorID,
		OwnerID:      m.OwnerID,
		CollectionID: m.CollectionID,
		Name:         m.Name,
		Description:  m.Description,
		ImageURL:     m.ImageURL,
		Price:        m.Price,
		IsListed:     m.IsListed,
		IsSold:       m.IsSold,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func auctionToDomain(m auctionModel) domain.Auction {
	return domain.Auction{
		AuctionID:    m.AuctionID,
		NFTID:        m.NFTID,
		SellerID:     m.SellerID,
		StartPrice:   m.StartPrice,
		ReservePrice: m.ReservePrice,
		CurrentPrice: m.CurrentPrice,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
}

func bidToDomain(m bidModel) domain.Bid {
	return domain.Bid{
		BidID:     m.BidID,
		AuctionID: m.AuctionID,
		NFTID:     m.NFTID,
		BidderID:  m.BidderID,
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt,
	}
}

func transactionToDomain(m transactionModel) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		NFTID:         m.NFTID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		CreatedAt:     m.CreatedAt,
	}
}

func transactionToModel(t domain.Transaction) transactionModel {
	return transactionModel{
		TransactionID: t.TransactionID,
		UserID:        t.UserID,
		NFTID:         t.NFTID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		CreatedAt:     t.CreatedAt,
	}
}

func stockPurchaseToDomain(m stockPurchaseModel) domain.StockPurchase {
	return domain.StockPurchase{
		PurchaseID:        m.PurchaseID,
		UserID:            m.UserID,
		Symbol:            m.Symbol,
		AmountUSD:         m.AmountUSD,
		PurchasedAt:       m.PurchasedAt,
		LastProfitClaimAt: m.LastProfitClaimAt,
	}
}

func withdrawalToDomain(m withdrawalRequestModel) domain.WithdrawalRequest {
	return domain.WithdrawalRequest{
		RequestID:   m.RequestID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Status:      domain.WithdrawalStatus(m.Status),
		RequestedAt: m.RequestedAt,
		DecidedAt:   m.DecidedAt,
		DecidedBy:   m.DecidedBy,
	}
}
