package models

import (
	"time"
)

// MobileVerificationToken rows are insert-only: re-issuing supersedes older
// rows instead of replacing them.
type MobileVerificationToken struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	Mobile    string     `gorm:"type:varchar(32);index;index:idx_mobile_token;not null"`
	Token     string     `gorm:"type:varchar(10);index;index:idx_mobile_token;not null"`
	ExpiresAt *time.Time `gorm:"type:timestamp"`
	CreatedAt time.Time
}

func (MobileVerificationToken) TableName() string {
	return "mobile_verification_tokens"
}
