package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"mobile-verify.backend/internal/domain/entities"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations on gorm
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m := &models.User{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Mobile:       user.Mobile,
		PasswordHash: user.PasswordHash,
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// MarkMobileVerified stamps mobile_verified_at only while it is still NULL.
// The guard in the WHERE clause makes the write a compare-and-set, so two
// concurrent redemptions cannot both observe "unverified" and race the
// update.
func (r *UserRepository) MarkMobileVerified(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND mobile_verified_at IS NULL", id).
		Update("mobile_verified_at", time.Now())

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the user is gone or someone already won the race.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrAlreadyVerified
	}
	return nil
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:               m.ID,
		Email:            m.Email,
		Name:             m.Name,
		Mobile:           m.Mobile,
		PasswordHash:     m.PasswordHash,
		MobileVerifiedAt: null.TimeFromPtr(m.MobileVerifiedAt),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
