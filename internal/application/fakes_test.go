package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]domain.User
	byEmail map[string]domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]domain.User{}, byEmail: map[string]domain.User{}}
}

func (f *fakeUsers) Create(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[params.Email]; ok {
		return domain.User{}, domain.ErrConflict
	}
	u := domain.User{
		UserID:            uuid.New(),
		Email:             params.Email,
		PasswordHash:      params.PasswordHash,
		DisplayName:       params.DisplayName,
		Role:              params.Role,
		PreferredCurrency: params.PreferredCurrency,
		CreatedAt:         params.CreatedAt,
		UpdatedAt:         params.CreatedAt,
	}
	f.byID[u.UserID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, params ports.UpdateUserParams) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[params.UserID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	if params.DisplayName != nil {
		u.DisplayName = *params.DisplayName
	}
	if params.PreferredCurrency != nil {
		u.PreferredCurrency = *params.PreferredCurrency
	}
	u.UpdatedAt = params.UpdatedAt
	f.byID[u.UserID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

type fakeCollections struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Collection
}

func newFakeCollections() *fakeCollections {
	return &fakeCollections{byID: map[uuid.UUID]domain.Collection{}}
}

func (f *fakeCollections) Create(_ context.Context, params ports.CreateCollectionParams) (domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := domain.Collection{
		CollectionID: uuid.New(),
		CreatorID:    params.CreatorID,
		Name:         params.Name,
		Description:  params.Description,
		CreatedAt:    params.CreatedAt,
	}
	f.byID[c.CollectionID] = c
	return c, nil
}

func (f *fakeCollections) GetByID(_ context.Context, collectionID uuid.UUID) (domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[collectionID]
	if !ok {
		return domain.Collection{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCollections) List(_ context.Context, limit, offset int) ([]domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Collection, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

type fakeTransactions struct {
	mu   sync.Mutex
	rows []domain.Transaction
}

func (f *fakeTransactions) Create(_ context.Context, params ports.CreateTransactionParams) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx := domain.Transaction{
		TransactionID: uuid.New(),
		UserID:        params.UserID,
		NFTID:         params.NFTID,
		Type:          params.Type,
		Amount:        params.Amount,
		CreatedAt:     params.CreatedAt,
	}
	f.rows = append(f.rows, tx)
	return tx, nil
}

func (f *fakeTransactions) append(tx domain.Transaction) domain.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx.TransactionID == uuid.Nil {
		tx.TransactionID = uuid.New()
	}
	f.rows = append(f.rows, tx)
	return tx
}

func (f *fakeTransactions) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Transaction, 0)
	for _, tx := range f.rows {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactions) SumByType(_ context.Context, userID uuid.UUID) (map[domain.TransactionType]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[domain.TransactionType]decimal.Decimal{}
	for _, tx := range f.rows {
		if tx.UserID != userID {
			continue
		}
		out[tx.Type] = out[tx.Type].Add(tx.Amount)
	}
	return out, nil
}

func (f *fakeTransactions) countByType(userID uuid.UUID, typ domain.TransactionType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, tx := range f.rows {
		if tx.UserID == userID && tx.Type == typ {
			n++
		}
	}
	return n
}

type fakeNFTs struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]domain.NFT
	transactions *fakeTransactions
}

func newFakeNFTs(transactions *fakeTransactions) *fakeNFTs {
	return &fakeNFTs{byID: map[uuid.UUID]domain.NFT{}, transactions: transactions}
}

func (f *fakeNFTs) GetByID(_ context.Context, nftID uuid.UUID) (domain.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byID[nftID]
	if !ok {
		return domain.NFT{}, domain.ErrNotFound
	}
	return n, nil
}

func (f *fakeNFTs) List(_ context.Context, filter ports.NFTFilter) ([]domain.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.NFT, 0)
	for _, n := range f.byID {
		if filter.ListedOnly && (!n.IsListed || n.IsSold) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNFTs) MintWithDebitTx(_ context.Context, params ports.MintNFTParams, fee domain.Transaction) (domain.NFT, domain.Transaction, error) {
	f.mu.Lock()
	n := domain.NFT{
		NFTID:        uuid.New(),
		CreatorID:    params.CreatorID,
		OwnerID:      &params.CreatorID,
		CollectionID: params.CollectionID,
		Name:         params.Name,
		Description:  params.Description,
		ImageURL:     params.ImageURL,
		Price:        params.Price,
		IsListed:     params.ListOnMint,
		CreatedAt:    params.CreatedAt,
		UpdatedAt:    params.CreatedAt,
	}
	f.byID[n.NFTID] = n
	f.mu.Unlock()
	fee.NFTID = &n.NFTID
	return n, f.transactions.append(fee), nil
}

func (f *fakeNFTs) SettlePurchaseTx(_ context.Context, nftID, buyerID uuid.UUID, sale domain.Transaction) (domain.NFT, domain.Transaction, error) {
	f.mu.Lock()
	n, ok := f.byID[nftID]
	if !ok {
		f.mu.Unlock()
		return domain.NFT{}, domain.Transaction{}, domain.ErrNotFound
	}
	if n.IsSold || !n.IsListed {
		f.mu.Unlock()
		return domain.NFT{}, domain.Transaction{}, domain.ErrNFTUnavailable
	}
	if n.OwnerID != nil && *n.OwnerID == buyerID {
		f.mu.Unlock()
		return domain.NFT{}, domain.Transaction{}, domain.ErrSelfPurchase
	}
	buyer := buyerID
	n.OwnerID = &buyer
	n.IsSold = true
	n.IsListed = false
	n.UpdatedAt = sale.CreatedAt
	f.byID[nftID] = n
	f.mu.Unlock()
	return n, f.transactions.append(sale), nil
}

func (f *fakeNFTs) SetListing(_ context.Context, params ports.SetListingParams) (domain.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byID[params.NFTID]
	if !ok || n.OwnerID == nil || *n.OwnerID != params.OwnerID {
		return domain.NFT{}, domain.ErrNotFound
	}
	n.IsListed = params.Listed
	if params.Listed {
		n.IsSold = false
	}
	if params.Price != nil {
		n.Price = *params.Price
	}
	n.UpdatedAt = params.UpdatedAt
	f.byID[params.NFTID] = n
	return n, nil
}

type fakeAuctions struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Auction
	bids map[uuid.UUID][]domain.Bid
	nfts *fakeNFTs
	// now mirrors the database clock the active-only filter compares
	// end_time against. The fixture points it at its own clock.
	now func() time.Time
}

func newFakeAuctions(nfts *fakeNFTs) *fakeAuctions {
	return &fakeAuctions{
		byID: map[uuid.UUID]domain.Auction{},
		bids: map[uuid.UUID][]domain.Bid{},
		nfts: nfts,
		now:  time.Now,
	}
}

func (f *fakeAuctions) CreateTx(_ context.Context, params ports.CreateAuctionParams) (domain.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.byID {
		if a.NFTID != params.NFTID || !a.IsActive {
			continue
		}
		if a.Expired(params.StartTime) {
			a.IsActive = false
			f.byID[id] = a
			continue
		}
		return domain.Auction{}, domain.ErrAuctionAlreadyActive
	}
	a := domain.Auction{
		AuctionID:    uuid.New(),
		NFTID:        params.NFTID,
		SellerID:     params.SellerID,
		StartPrice:   params.StartPrice,
		ReservePrice: params.ReservePrice,
		CurrentPrice: params.StartPrice,
		StartTime:    params.StartTime,
		EndTime:      params.EndTime,
		IsActive:     true,
		CreatedAt:    params.StartTime,
	}
	f.byID[a.AuctionID] = a
	return a, nil
}

func (f *fakeAuctions) GetByID(_ context.Context, auctionID uuid.UUID) (domain.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[auctionID]
	if !ok {
		return domain.Auction{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAuctions) List(_ context.Context, filter ports.AuctionFilter) ([]domain.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Auction, 0)
	for _, a := range f.byID {
		if filter.NFTID != nil && a.NFTID != *filter.NFTID {
			continue
		}
		if filter.ActiveOnly && !a.OpenForBids(f.now()) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAuctions) FindOpenByNFT(_ context.Context, nftID uuid.UUID, now time.Time) (*domain.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.NFTID == nftID && a.OpenForBids(now) {
			open := a
			return &open, nil
		}
	}
	return nil, nil
}

func (f *fakeAuctions) highestLocked(auctionID uuid.UUID) *domain.Bid {
	var top *domain.Bid
	for i := range f.bids[auctionID] {
		b := f.bids[auctionID][i]
		if top == nil || b.Amount.GreaterThan(top.Amount) {
			copied := b
			top = &copied
		}
	}
	return top
}

func (f *fakeAuctions) PlaceBidTx(_ context.Context, params ports.PlaceBidParams) (domain.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[params.AuctionID]
	if !ok {
		return domain.Bid{}, domain.ErrNotFound
	}
	var ownerID *uuid.UUID
	if n, found := f.nfts.byID[a.NFTID]; found {
		ownerID = n.OwnerID
	}
	highest := f.highestLocked(params.AuctionID)
	if err := domain.ValidateBidPlacement(a, ownerID, highest, params.BidderID, params.Amount, params.Now); err != nil {
		return domain.Bid{}, err
	}
	b := domain.Bid{
		BidID:     uuid.New(),
		AuctionID: params.AuctionID,
		NFTID:     a.NFTID,
		BidderID:  params.BidderID,
		Amount:    params.Amount,
		CreatedAt: params.Now,
	}
	f.bids[params.AuctionID] = append(f.bids[params.AuctionID], b)
	a.CurrentPrice = params.Amount
	f.byID[params.AuctionID] = a
	return b, nil
}

func (f *fakeAuctions) HighestBid(_ context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.highestLocked(auctionID), nil
}

func (f *fakeAuctions) ListBids(_ context.Context, auctionID uuid.UUID, limit int) ([]domain.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Bid(nil), f.bids[auctionID]...), nil
}

type fakeStocks struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]domain.StockPurchase
	transactions *fakeTransactions
	// listHook runs once after a ListByUser returns, letting a test slip a
	// competing claim between the read and the claim transaction.
	listHook func()
}

func newFakeStocks(transactions *fakeTransactions) *fakeStocks {
	return &fakeStocks{byID: map[uuid.UUID]domain.StockPurchase{}, transactions: transactions}
}

func (f *fakeStocks) Create(_ context.Context, params ports.CreateStockPurchaseParams) (domain.StockPurchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.StockPurchase{
		PurchaseID:        uuid.New(),
		UserID:            params.UserID,
		Symbol:            params.Symbol,
		AmountUSD:         params.AmountUSD,
		PurchasedAt:       params.PurchasedAt,
		LastProfitClaimAt: params.PurchasedAt,
	}
	f.byID[p.PurchaseID] = p
	return p, nil
}

func (f *fakeStocks) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.StockPurchase, error) {
	f.mu.Lock()
	out := make([]domain.StockPurchase, 0)
	for _, p := range f.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	hook := f.listHook
	f.listHook = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeStocks) ClaimProfitTx(_ context.Context, userID uuid.UUID, claims []ports.ProfitClaim, deposit domain.Transaction, claimedAt time.Time) (domain.Transaction, error) {
	f.mu.Lock()
	// Validate every watermark before applying any, matching the
	// all-or-nothing transaction in the real store.
	for _, claim := range claims {
		p, ok := f.byID[claim.PurchaseID]
		if !ok || p.UserID != userID || !p.LastProfitClaimAt.Equal(claim.LastClaimedAt) {
			f.mu.Unlock()
			return domain.Transaction{}, domain.ErrConflict
		}
	}
	for _, claim := range claims {
		p := f.byID[claim.PurchaseID]
		p.LastProfitClaimAt = claimedAt
		f.byID[claim.PurchaseID] = p
	}
	f.mu.Unlock()
	return f.transactions.append(deposit), nil
}

type fakeWithdrawals struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]domain.WithdrawalRequest
	transactions *fakeTransactions
}

func newFakeWithdrawals(transactions *fakeTransactions) *fakeWithdrawals {
	return &fakeWithdrawals{byID: map[uuid.UUID]domain.WithdrawalRequest{}, transactions: transactions}
}

func (f *fakeWithdrawals) Create(_ context.Context, userID uuid.UUID, amount decimal.Decimal, requestedAt time.Time) (domain.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := domain.WithdrawalRequest{
		RequestID:   uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Status:      domain.WithdrawalPending,
		RequestedAt: requestedAt,
	}
	f.byID[w.RequestID] = w
	return w, nil
}

func (f *fakeWithdrawals) GetByID(_ context.Context, requestID uuid.UUID) (domain.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[requestID]
	if !ok {
		return domain.WithdrawalRequest{}, domain.ErrNotFound
	}
	return w, nil
}

func (f *fakeWithdrawals) List(_ context.Context, filter ports.WithdrawalFilter) ([]domain.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.WithdrawalRequest, 0)
	for _, w := range f.byID {
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeWithdrawals) ApproveTx(_ context.Context, requestID, adminID uuid.UUID, withdrawal domain.Transaction, decidedAt time.Time) (domain.WithdrawalRequest, error) {
	f.mu.Lock()
	w, ok := f.byID[requestID]
	if !ok {
		f.mu.Unlock()
		return domain.WithdrawalRequest{}, domain.ErrNotFound
	}
	if w.Status != domain.WithdrawalPending {
		f.mu.Unlock()
		return domain.WithdrawalRequest{}, domain.ErrConflict
	}
	w.Status = domain.WithdrawalApproved
	w.DecidedAt = &decidedAt
	w.DecidedBy = &adminID
	f.byID[requestID] = w
	f.mu.Unlock()
	f.transactions.append(withdrawal)
	return w, nil
}

func (f *fakeWithdrawals) Deny(_ context.Context, requestID, adminID uuid.UUID, decidedAt time.Time) (domain.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[requestID]
	if !ok {
		return domain.WithdrawalRequest{}, domain.ErrNotFound
	}
	if w.Status != domain.WithdrawalPending {
		return domain.WithdrawalRequest{}, domain.ErrConflict
	}
	w.Status = domain.WithdrawalDenied
	w.DecidedAt = &decidedAt
	w.DecidedBy = &adminID
	f.byID[requestID] = w
	return w, nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (f *fakeOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error {
	return nil
}

func (f *fakeOutbox) lastEventType() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return ""
	}
	return f.events[len(f.events)-1].EventType
}

func (f *fakeOutbox) lastEvent() (ports.OutboxEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return ports.OutboxEvent{}, false
	}
	return f.events[len(f.events)-1], true
}

type completedIdempotency struct {
	code int
	body []byte
}

type fakeIdempotency struct {
	mu        sync.Mutex
	reserved  map[string]string
	completed map[string]completedIdempotency
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{
		reserved:  map[string]string{},
		completed: map[string]completedIdempotency{},
	}
}

func (f *fakeIdempotency) Reserve(_ context.Context, key, requestHash string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reserved[key]; ok {
		return domain.ErrIdempotencyConflict
	}
	f.reserved[key] = requestHash
	return nil
}

func (f *fakeIdempotency) Complete(_ context.Context, key string, responseCode int, responseBody []byte, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[key] = completedIdempotency{code: responseCode, body: responseBody}
	return nil
}

func (f *fakeIdempotency) completedBody(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.completed[key]
	return rec.body, ok
}

type fakeCache struct {
	mu       sync.Mutex
	values   map[string]string
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, counters: map[string]int64{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeCache) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}
