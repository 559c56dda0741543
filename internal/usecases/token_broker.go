package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"mobile-verify.backend/internal/domain/entities"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/domain/repositories"
	"mobile-verify.backend/pkg/crypto"
)

// TokenBroker is the token service contract: generate and persist a one-time
// token for a mobile number, and validate a submitted token against the
// stored one.
type TokenBroker interface {
	Generate(ctx context.Context, mobile string) (string, error)
	VerifyToken(ctx context.Context, mobile, token string) (bool, error)
}

// BrokerOptions configures token generation policy.
type BrokerOptions struct {
	// TokenLength is the number of decimal digits, clamped to the 10-char
	// token column.
	TokenLength int
	// TokenLifetime bounds redemption; zero disables expiry (NULL column).
	TokenLifetime time.Duration
	// InvalidatePrevious deletes earlier tokens for the mobile number on
	// each generate. Off by default: multiple live tokens may coexist.
	InvalidatePrevious bool
}

// VerificationTokenBroker implements TokenBroker on the token repository.
type VerificationTokenBroker struct {
	tokenRepo repositories.VerificationTokenRepository
	opts      BrokerOptions
}

// NewVerificationTokenBroker creates a new token broker
func NewVerificationTokenBroker(tokenRepo repositories.VerificationTokenRepository, opts BrokerOptions) *VerificationTokenBroker {
	if opts.TokenLength <= 0 {
		opts.TokenLength = 5
	}
	return &VerificationTokenBroker{tokenRepo: tokenRepo, opts: opts}
}

// Generate creates a fresh token row for the mobile number and returns the
// code to dispatch.
func (b *VerificationTokenBroker) Generate(ctx context.Context, mobile string) (string, error) {
	if b.opts.InvalidatePrevious {
		if err := b.tokenRepo.DeleteForMobile(ctx, mobile); err != nil {
			return "", err
		}
	}

	code, err := crypto.GenerateNumericCode(b.opts.TokenLength)
	if err != nil {
		return "", err
	}

	token := &entities.VerificationToken{
		Mobile: mobile,
		Token:  code,
	}
	if b.opts.TokenLifetime > 0 {
		token.ExpiresAt = null.TimeFrom(time.Now().Add(b.opts.TokenLifetime))
	}

	if err := b.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyToken reports whether the submitted token matches a stored, unexpired
// row for the mobile number. A miss is not an error; errors mean storage
// failed.
func (b *VerificationTokenBroker) VerifyToken(ctx context.Context, mobile, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	stored, err := b.tokenRepo.FindByMobileAndToken(ctx, mobile, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return !stored.Expired(time.Now()), nil
}
