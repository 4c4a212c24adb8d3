package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mintmesh/marketplace/internal/domain"
)

func TestBearerTokenFromHeader(t *testing.T) {
	t.Parallel()
	token, err := bearerTokenFromHeader("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("valid header: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("got %q", token)
	}
	for _, header := range []string{"", "abc.def.ghi", "Basic abc", "Bearer ", "bearer abc"} {
		if _, err := bearerTokenFromHeader(header); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%q: expected ErrUnauthorized, got %v", header, err)
		}
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:4711"
	if got := clientIP(r); got != "192.0.2.10" {
		t.Fatalf("remote addr: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.5, 192.0.2.10")
	if got := clientIP(r); got != "203.0.113.5" {
		t.Fatalf("forwarded: got %q", got)
	}
}

func TestMapDomainError(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("%w: price must be positive", domain.ErrInvalidPrice), http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrBidTooLow, http.StatusConflict, "BID_TOO_LOW"},
		{domain.ErrAlreadyHighestBidder, http.StatusConflict, "ALREADY_HIGHEST_BIDDER"},
		{domain.ErrSelfBid, http.StatusConflict, "SELF_BID"},
		{domain.ErrAuctionExpired, http.StatusConflict, "AUCTION_EXPIRED"},
		{domain.ErrAuctionAlreadyActive, http.StatusConflict, "AUCTION_ALREADY_ACTIVE"},
		{domain.ErrNFTUnavailable, http.StatusConflict, "NFT_UNAVAILABLE"},
		{domain.ErrAlreadySold, http.StatusConflict, "NFT_UNAVAILABLE"},
		{domain.ErrSelfPurchase, http.StatusConflict, "SELF_PURCHASE"},
		{domain.ErrInsufficientBalance, http.StatusConflict, "INSUFFICIENT_BALANCE"},
		{domain.ErrIdempotencyConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, code, _ := mapDomainError(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("%v: expected %d/%s, got %d/%s", tc.err, tc.status, tc.code, status, code)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()
	var seen string
	h := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatal("request id not set")
	}
	if rec.Header().Get("X-Request-Id") != seen {
		t.Fatal("request id not echoed in response header")
	}

	// A caller-supplied id is preserved.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", "caller-id-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if seen != "caller-id-1" {
		t.Fatalf("expected caller id, got %q", seen)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	t.Parallel()
	h := recoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
