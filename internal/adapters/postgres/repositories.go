package postgres

import (
	"github.com/mintmesh/marketplace/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Users        ports.UserRepository
	Collections  ports.CollectionRepository
	NFTs         ports.NFTRepository
	Auctions     ports.AuctionRepository
	Transactions ports.TransactionRepository
	Stocks       ports.StockRepository
	Withdrawals  ports.WithdrawalRepository
	Outbox       ports.OutboxRepository
	Idempotency  ports.IdempotencyRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:        &userRepository{db: db},
		Collections:  &collectionRepository{db: db},
		NFTs:         &nftRepository{db: db},
		Auctions:     &auctionRepository{db: db},
		Transactions: &transactionRepository{db: db},
		Stocks:       &stockRepository{db: db},
		Withdrawals:  &withdrawalRepository{db: db},
		Outbox:       &outboxRepository{db: db},
		Idempotency:  &idempotencyRepository{db: db},
	}
}
