package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"mobile-verify.backend/internal/domain/entities"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/infrastructure/models"
)

// VerificationTokenRepository implements verification token persistence on gorm
type VerificationTokenRepository struct {
	db *gorm.DB
}

// NewVerificationTokenRepository creates a new verification token repository
func NewVerificationTokenRepository(db *gorm.DB) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

// Create inserts a new token row
func (r *VerificationTokenRepository) Create(ctx context.Context, token *entities.VerificationToken) error {
	m := &models.MobileVerificationToken{
		Mobile:    token.Mobile,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.Ptr(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	token.ID = m.ID
	token.CreatedAt = m.CreatedAt
	return nil
}

// FindByMobileAndToken returns the newest row for the pair. Expiry is not
// applied here; the broker owns that policy.
func (r *VerificationTokenRepository) FindByMobileAndToken(ctx context.Context, mobile, token string) (*entities.VerificationToken, error) {
	var m models.MobileVerificationToken
	err := r.db.WithContext(ctx).
		Where("mobile = ? AND token = ?", mobile, token).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toTokenEntity(&m), nil
}

// DeleteForMobile removes every token issued for the mobile number
func (r *VerificationTokenRepository) DeleteForMobile(ctx context.Context, mobile string) error {
	return r.db.WithContext(ctx).
		Where("mobile = ?", mobile).
		Delete(&models.MobileVerificationToken{}).Error
}

// DeleteExpired removes rows whose expiry has passed
func (r *VerificationTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&models.MobileVerificationToken{})
	return result.RowsAffected, result.Error
}

func toTokenEntity(m *models.MobileVerificationToken) *entities.VerificationToken {
	return &entities.VerificationToken{
		ID:        m.ID,
		Mobile:    m.Mobile,
		Token:     m.Token,
		ExpiresAt: null.TimeFromPtr(m.ExpiresAt),
		CreatedAt: m.CreatedAt,
	}
}
