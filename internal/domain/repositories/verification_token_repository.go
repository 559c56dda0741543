package repositories

import (
	"context"

	"mobile-verify.backend/internal/domain/entities"
)

// VerificationTokenRepository defines verification token persistence.
// Redemption lookups are always by the (mobile, token) pair.
type VerificationTokenRepository interface {
	Create(ctx context.Context, token *entities.VerificationToken) error
	// FindByMobileAndToken returns the newest row matching the pair, expired
	// or not; callers decide what expiry means. ErrNotFound when no row.
	FindByMobileAndToken(ctx context.Context, mobile, token string) (*entities.VerificationToken, error)
	// DeleteForMobile removes every token issued for the mobile number.
	// Used when the re-issue policy invalidates previous tokens.
	DeleteForMobile(ctx context.Context, mobile string) error
	// DeleteExpired removes rows whose expiry has passed, returning how many
	// were deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}
