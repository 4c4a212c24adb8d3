package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mintmesh/marketplace/internal/application"
	"github.com/mintmesh/marketplace/internal/ports"
)

type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
}

func NewHandler(service *application.Service, verifier ports.TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", handler.register)

		r.Route("/users", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/me", handler.getMe)
			r.Put("/me", handler.updateMe)
			r.Get("/me/balance", handler.getBalance)
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/deposits", handler.deposit)
			r.Get("/transactions", handler.listTransactions)
			r.Post("/withdrawals", handler.requestWithdrawal)
		})

		r.Route("/nfts", func(r chi.Router) {
			r.Get("/", handler.listNFTs)
			r.Get("/{nft_id}", handler.getNFT)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.mintNFT)
				r.Post("/{nft_id}/purchase", handler.purchaseNFT)
				r.Post("/{nft_id}/list", handler.listForSale)
				r.Post("/{nft_id}/unlist", handler.unlist)
			})
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", handler.listCollections)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.createCollection)
			})
		})

		r.Route("/auctions", func(r chi.Router) {
			r.Get("/", handler.listAuctions)
			r.Get("/{auction_id}", handler.getAuction)
			r.Get("/{auction_id}/bids", handler.listBids)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.createAuction)
				r.Post("/{auction_id}/bids", handler.placeBid)
			})
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/purchases", handler.listStockPurchases)
			r.Post("/purchases", handler.buyStock)
			r.Post("/claim", handler.claimProfit)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Use(handler.adminOnly)
			r.Get("/withdrawals", handler.adminListWithdrawals)
			r.Post("/withdrawals/{request_id}/approve", handler.adminApproveWithdrawal)
			r.Post("/withdrawals/{request_id}/deny", handler.adminDenyWithdrawal)
		})
	})
	return r
}
