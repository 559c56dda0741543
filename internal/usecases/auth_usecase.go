package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"mobile-verify.backend/internal/domain/entities"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/domain/repositories"
	"mobile-verify.backend/internal/infrastructure/notifier"
	"mobile-verify.backend/pkg/crypto"
	"mobile-verify.backend/pkg/jwt"
	"mobile-verify.backend/pkg/logger"
)

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	broker     TokenBroker
	notifier   notifier.Notifier
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	broker TokenBroker,
	n notifier.Notifier,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		broker:     broker,
		notifier:   n,
		jwtService: jwtService,
	}
}

// Register registers a new user and dispatches the initial mobile
// verification token.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error) {
	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        input.Email,
		Name:         input.Name,
		Mobile:       input.Mobile,
		PasswordHash: passwordHash,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := u.broker.Generate(ctx, user.Mobile)
	if err != nil {
		// The account exists; the user can request a token again via resend.
		logger.Warn(ctx, "initial verification token issuance failed",
			zap.String("mobile", user.Mobile),
			zap.Error(err),
		)
		return user, nil
	}
	if err := u.notifier.Send(ctx, user.Mobile, token); err != nil {
		logger.Warn(ctx, "verification SMS dispatch failed",
			zap.String("mobile", user.Mobile),
			zap.Error(err),
		)
	}

	return user, nil
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, user.Mobile)
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, user.Mobile)
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}
