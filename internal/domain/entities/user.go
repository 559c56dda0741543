package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents a user entity. MobileVerifiedAt is set exactly once, when
// the user redeems a valid verification token; verification is never revoked.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Mobile           string    `json:"mobile"`
	PasswordHash     string    `json:"-"`
	MobileVerifiedAt null.Time `json:"mobileVerifiedAt,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// IsMobileVerified reports whether the user's mobile number has been verified.
func (u *User) IsMobileVerified() bool {
	return u.MobileVerifiedAt.Valid
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Mobile   string `json:"mobile" binding:"required,e164"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"` // If true, store tokens in Redis and return SessionID
}

// VerifyMobileInput carries the one-time token submitted for redemption.
type VerifyMobileInput struct {
	Token string `json:"token" form:"token" binding:"required,max=10"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	User         *User  `json:"user"`
}
