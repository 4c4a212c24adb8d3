package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mintmesh/marketplace/internal/application"
	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		claims, err := h.verifier.ParseAndValidate(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
	})
}

func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r.Context())
		if !ok || claims.Role != string(domain.RoleAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func contextWithClaims(ctx context.Context, claims ports.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, claims)
}

func requesterID(r *http.Request) (uuid.UUID, bool) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func pageParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	req.IPAddress = clientIP(r)
	resp, err := h.service.Register(r.Context(), req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	resp, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	resp, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.Deposit(r.Context(), userID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	limit, offset := pageParams(r)
	resp, err := h.service.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) requestWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.WithdrawalRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.RequestWithdrawal(r.Context(), userID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) listNFTs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	listedOnly := r.URL.Query().Get("listed") != "false"
	resp, err := h.service.ListNFTs(r.Context(), listedOnly, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getNFT(w http.ResponseWriter, r *http.Request) {
	nftID, err := pathUUID(r, "nft_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid nft id")
		return
	}
	resp, err := h.service.GetNFT(r.Context(), nftID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) mintNFT(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.MintNFTRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	req.IPAddress = clientIP(r)
	resp, err := h.service.MintWithDebit(r.Context(), userID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) purchaseNFT(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	nftID, err := pathUUID(r, "nft_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid nft id")
		return
	}
	resp, err := h.service.SettlePurchase(r.Context(), userID, nftID, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listForSale(w http.ResponseWriter, r *http.Request) {
	h.setListing(w, r, true)
}

func (h *Handler) unlist(w http.ResponseWriter, r *http.Request) {
	h.setListing(w, r, false)
}

func (h *Handler) setListing(w http.ResponseWriter, r *http.Request, listed bool) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	nftID, err := pathUUID(r, "nft_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid nft id")
		return
	}
	var req application.SetListingRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
			return
		}
	}
	resp, err := h.service.SetListing(r.Context(), userID, nftID, listed, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	resp, err := h.service.ListCollections(r.Context(), limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) createCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.CreateCollection(r.Context(), userID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) listAuctions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	activeOnly := r.URL.Query().Get("active") != "false"
	resp, err := h.service.ListAuctions(r.Context(), activeOnly, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := pathUUID(r, "auction_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid auction id")
		return
	}
	resp, err := h.service.GetAuction(r.Context(), auctionID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) createAuction(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.CreateAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.CreateAuction(r.Context(), claims.UserID, claims.Role, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) listBids(w http.ResponseWriter, r *http.Request) {
	auctionID, err := pathUUID(r, "auction_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid auction id")
		return
	}
	limit, _ := pageParams(r)
	resp, err := h.service.ListBids(r.Context(), auctionID, limit)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) placeBid(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	auctionID, err := pathUUID(r, "auction_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid auction id")
		return
	}
	var req application.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	req.IPAddress = clientIP(r)
	resp, err := h.service.PlaceBid(r.Context(), userID, auctionID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) listStockPurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	resp, err := h.service.ListStockPurchases(r.Context(), userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) buyStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.BuyStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.BuyStock(r.Context(), userID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) claimProfit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	resp, err := h.service.ClaimProfit(r.Context(), userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) adminListWithdrawals(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	var statusFilter *domain.WithdrawalStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.WithdrawalStatus(raw)
		statusFilter = &s
	}
	resp, err := h.service.ListWithdrawals(r.Context(), statusFilter, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) adminApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	requestID, err := pathUUID(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request id")
		return
	}
	resp, err := h.service.ApproveWithdrawal(r.Context(), adminID, requestID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) adminDenyWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	requestID, err := pathUUID(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request id")
		return
	}
	resp, err := h.service.DenyWithdrawal(r.Context(), adminID, requestID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
