package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Role     enums.UserRole
	DealerID *uuid.UUID
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. DealerID is
// present only for dealer accounts; admins carry the role alone.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	Role     enums.UserRole `json:"role"`
	DealerID *uuid.UUID     `json:"dealer_id,omitempty"`
	jwt.RegisteredClaims
}
