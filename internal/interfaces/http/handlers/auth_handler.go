package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"mobile-verify.backend/internal/domain/entities"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/interfaces/http/middleware"
	"mobile-verify.backend/internal/interfaces/http/response"
	"mobile-verify.backend/pkg/jwt"
	"mobile-verify.backend/pkg/logger"
	"mobile-verify.backend/pkg/redis"
)

const (
	accessCookieMaxAge  = 3600 * 24
	refreshCookieMaxAge = 3600 * 24 * 7
)

type AuthService interface {
	Register(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase  AuthService
	sessionStore *redis.SessionStore
	sessionTTL   time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService, sessionStore *redis.SessionStore) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		sessionStore: sessionStore,
		sessionTTL:   accessCookieMaxAge * time.Second,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.CreateUserInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, validationFields(err))
		return
	}

	user, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		if err == domainerrors.ErrAlreadyExists {
			response.Error(c, domainerrors.Conflict("Email or mobile number already registered"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Registration successful. A verification token has been sent to your mobile number.",
		"user":    userView(user),
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, validationFields(err))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		if err == domainerrors.ErrInvalidCredentials {
			response.Error(c, domainerrors.Unauthorized("Invalid email or password"))
			return
		}
		response.Error(c, err)
		return
	}

	// Browser flow: stash tokens server-side and hand out a session cookie
	// instead of the raw token pair.
	if input.UseSession && h.sessionStore != nil {
		sessionID := uuid.New().String()
		err := h.sessionStore.CreateSession(c.Request.Context(), sessionID, &redis.SessionData{
			AccessToken:  authResponse.AccessToken,
			RefreshToken: authResponse.RefreshToken,
		}, h.sessionTTL)
		if err != nil {
			logger.Error(c.Request.Context(), "failed to create session", zap.Error(err))
			response.Error(c, domainerrors.InternalError(err))
			return
		}

		c.SetCookie(middleware.SessionCookieName, sessionID, int(h.sessionTTL.Seconds()), "/", "", false, true)
		response.Success(c, http.StatusOK, gin.H{
			"sessionId": sessionID,
			"user":      userView(authResponse.User),
		})
		return
	}

	// Set tokens in cookies
	c.SetCookie("token", authResponse.AccessToken, accessCookieMaxAge, "/", "", false, true)
	c.SetCookie("refresh_token", authResponse.RefreshToken, refreshCookieMaxAge, "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  authResponse.AccessToken,
		"refreshToken": authResponse.RefreshToken,
		"user":         userView(authResponse.User),
	})
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshToken string

	// 1. Try to get from JSON body if present
	if c.Request.ContentLength > 0 {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	// 2. Fallback to cookie if not in body
	if refreshToken == "" {
		if cookie, err := c.Cookie("refresh_token"); err == nil {
			refreshToken = cookie
		}
	}

	if refreshToken == "" {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	tokenPair, err := h.authUsecase.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, domainerrors.Unauthorized("Invalid or expired refresh token"))
		return
	}

	// Set new tokens in cookies
	c.SetCookie("token", tokenPair.AccessToken, accessCookieMaxAge, "/", "", false, true)
	c.SetCookie("refresh_token", tokenPair.RefreshToken, refreshCookieMaxAge, "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  tokenPair.AccessToken,
		"refreshToken": tokenPair.RefreshToken,
	})
}

// GetMe returns current authenticated user details
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	user, err := h.authUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": userView(user)})
}

// Logout tears down the browser session, if any
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.sessionStore != nil {
		if sessionID, err := c.Cookie(middleware.SessionCookieName); err == nil && sessionID != "" {
			if err := h.sessionStore.DeleteSession(c.Request.Context(), sessionID); err != nil {
				logger.Warn(c.Request.Context(), "failed to delete session", zap.Error(err))
			}
		}
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.SetCookie("refresh_token", "", -1, "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func userView(user *entities.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"mobile":         user.Mobile,
		"mobileVerified": user.IsMobileVerified(),
	}
}
