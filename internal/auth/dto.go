package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token pair and user produced by a successful
// login.
type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         *UserDTO `json:"user"`
}

// RegisterUserRequest creates a portal login. Password is optional; when
// omitted a temporary one is generated and returned once.
type RegisterUserRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password *string    `json:"password,omitempty"`
	Role     string     `json:"role" validate:"required"`
	DealerID *uuid.UUID `json:"dealer_id,omitempty"`
}

// RegisterUserResponse echoes the created user. TempPassword is only set when
// the request omitted a password; it is never persisted or shown again.
type RegisterUserResponse struct {
	User         *UserDTO `json:"user"`
	TempPassword string   `json:"temp_password,omitempty"`
}

// UserDTO is the API representation of a portal user.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	DealerID  *uuid.UUID     `json:"dealer_id,omitempty"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromModel converts a user row to its API shape.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		DealerID:  user.DealerID,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
