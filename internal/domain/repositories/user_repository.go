package repositories

import (
	"context"

	"github.com/google/uuid"
	"mobile-verify.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	// MarkMobileVerified stamps mobile_verified_at with a single atomic
	// update guarded by "still unverified". Returns ErrAlreadyVerified when
	// the guard fails and ErrNotFound when the user does not exist.
	MarkMobileVerified(ctx context.Context, id uuid.UUID) error
}
