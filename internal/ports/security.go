package ports

import (
	"time"

	"github.com/google/uuid"
)

// AuthClaims is the verified identity attached to a request. Token issuance
// is an external collaborator; this service only validates.
type AuthClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenVerifier interface {
	ParseAndValidate(raw string) (AuthClaims, error)
}

// PasswordHasher covers registration only. Credential verification lives
// with the external identity collaborator that issues tokens.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
