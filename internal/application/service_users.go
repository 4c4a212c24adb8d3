package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

const profileCacheTTL = 5 * time.Minute

func profileCacheKey(userID uuid.UUID) string {
	return "profile:" + userID.String()
}

// Register creates a local account. Token issuance stays with the external
// identity collaborator; this service only stores the credential and
// profile so issued tokens resolve to a known user.
func (s *Service) Register(ctx context.Context, req RegisterRequest, idempotencyKey string) (UserResponse, error) {
	if err := domain.ValidateEmail(req.Email); err != nil {
		return UserResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return UserResponse{}, err
	}
	if err := domain.ValidateDisplayName(req.DisplayName); err != nil {
		return UserResponse{}, err
	}
	currency := "USD"
	if strings.TrimSpace(req.PreferredCurrency) != "" {
		if err := domain.ValidatePreferredCurrency(req.PreferredCurrency); err != nil {
			return UserResponse{}, err
		}
		currency = strings.ToUpper(strings.TrimSpace(req.PreferredCurrency))
	}
	if ip := strings.TrimSpace(req.IPAddress); ip != "" {
		if err := s.enforceRateLimit(ctx, "register:ip:"+ip, s.cfg.RegisterRateLimitThreshold); err != nil {
			return UserResponse{}, err
		}
	}

	// Fast duplicate check before the expensive hash; the unique index on
	// email stays authoritative for the race window.
	email := domain.NormalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return UserResponse{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return UserResponse{}, err
	}
	if err := s.reserveIdempotency(ctx, idempotencyKey, map[string]string{"email": email}); err != nil {
		return UserResponse{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return UserResponse{}, err
	}
	created, err := s.users.Create(ctx, ports.CreateUserParams{
		Email:             email,
		PasswordHash:      passwordHash,
		DisplayName:       strings.TrimSpace(req.DisplayName),
		Role:              domain.RoleUser,
		PreferredCurrency: currency,
		CreatedAt:         s.nowFn(),
	})
	if err != nil {
		return UserResponse{}, err
	}

	if err := s.enqueueEvent(ctx, "marketplace.user_registered", created.UserID.String(), map[string]any{
		"user_id": created.UserID.String(),
		"email":   created.Email,
	}); err != nil {
		slog.Default().WarnContext(ctx, "registration event enqueue failed",
			"service", s.cfg.ServiceName,
			"operation", "register",
			"user_id", created.UserID.String(),
			"error", err,
		)
	}
	resp := toUserResponse(created)
	s.completeIdempotency(ctx, idempotencyKey, resp)
	return resp, nil
}

// GetMe reads through the profile cache. Cache misses and failures fall
// back to the repository; a stale entry can only survive until the TTL or
// the next profile update, whichever comes first.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (UserResponse, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, profileCacheKey(userID)); err == nil {
			var cached UserResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	resp := toUserResponse(user)
	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = s.cache.Set(ctx, profileCacheKey(userID), string(raw), profileCacheTTL)
		}
	}
	return resp, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (UserResponse, error) {
	if req.DisplayName != nil {
		if err := domain.ValidateDisplayName(*req.DisplayName); err != nil {
			return UserResponse{}, err
		}
	}
	if req.PreferredCurrency != nil {
		if err := domain.ValidatePreferredCurrency(*req.PreferredCurrency); err != nil {
			return UserResponse{}, err
		}
		upper := strings.ToUpper(strings.TrimSpace(*req.PreferredCurrency))
		req.PreferredCurrency = &upper
	}
	updated, err := s.users.Update(ctx, ports.UpdateUserParams{
		UserID:            userID,
		DisplayName:       req.DisplayName,
		PreferredCurrency: req.PreferredCurrency,
		UpdatedAt:         s.nowFn(),
	})
	if err != nil {
		return UserResponse{}, err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, profileCacheKey(userID))
	}
	return toUserResponse(updated), nil
}
