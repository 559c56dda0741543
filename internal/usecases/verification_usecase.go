package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/domain/repositories"
	"mobile-verify.backend/internal/infrastructure/notifier"
	"mobile-verify.backend/pkg/logger"
)

// VerificationUsecase drives the mobile verification workflow: issuing
// tokens (resend) and redeeming them (verify). Both entry points
// short-circuit for already verified users before the token broker is
// touched.
type VerificationUsecase struct {
	userRepo repositories.UserRepository
	broker   TokenBroker
	notifier notifier.Notifier
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	userRepo repositories.UserRepository,
	broker TokenBroker,
	n notifier.Notifier,
) *VerificationUsecase {
	return &VerificationUsecase{
		userRepo: userRepo,
		broker:   broker,
		notifier: n,
	}
}

// Resend issues a fresh token for the user's mobile number and hands it to
// the notifier. Delivery is fire-and-forget: a notifier failure is logged
// and the operation still succeeds.
func (u *VerificationUsecase) Resend(ctx context.Context, userID uuid.UUID) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsMobileVerified() {
		return domainerrors.ErrAlreadyVerified
	}

	token, err := u.broker.Generate(ctx, user.Mobile)
	if err != nil {
		return err
	}

	if err := u.notifier.Send(ctx, user.Mobile, token); err != nil {
		logger.Warn(ctx, "verification SMS dispatch failed",
			zap.String("mobile", user.Mobile),
			zap.Error(err),
		)
	}
	return nil
}

// Verify redeems a token for the user's mobile number and marks the account
// verified. On success the user's state is permanently Verified.
func (u *VerificationUsecase) Verify(ctx context.Context, userID uuid.UUID, token string) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsMobileVerified() {
		return domainerrors.ErrAlreadyVerified
	}

	ok, err := u.broker.VerifyToken(ctx, user.Mobile, token)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrInvalidToken
	}

	// Losing the mark-verified race to a concurrent redemption is fine:
	// the timestamp is already set and setting it "twice" would have been
	// harmless anyway.
	if err := u.userRepo.MarkMobileVerified(ctx, userID); err != nil &&
		!errors.Is(err, domainerrors.ErrAlreadyVerified) {
		return err
	}
	return nil
}
