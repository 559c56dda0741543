package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mobile-verify.backend/internal/domain/entities"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/interfaces/http/middleware"
	"mobile-verify.backend/internal/interfaces/http/response"
)

type VerificationService interface {
	Verify(ctx context.Context, userID uuid.UUID, token string) error
	Resend(ctx context.Context, userID uuid.UUID) error
}

// VerificationHandler handles mobile verification endpoints. Every outcome is
// shaped twice: JSON for API callers and a redirect with a flashed message
// for browser form posts.
type VerificationHandler struct {
	verificationUsecase VerificationService
	redirector          *response.Redirector
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationUsecase VerificationService, redirector *response.Redirector) *VerificationHandler {
	return &VerificationHandler{
		verificationUsecase: verificationUsecase,
		redirector:          redirector,
	}
}

// Verify redeems a verification token for the authenticated user
// POST /api/v1/mobile/verify
func (h *VerificationHandler) Verify(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.VerifyMobileInput
	if err := c.ShouldBind(&input); err != nil {
		h.validationFailed(c, validationFields(err))
		return
	}

	if err := h.verificationUsecase.Verify(c.Request.Context(), userID, input.Token); err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrAlreadyVerified):
			middleware.CountVerificationAttempt("already_verified")
			h.failed(c, domainerrors.UnprocessableEntity("Mobile number already verified", err))
		case errors.Is(err, domainerrors.ErrInvalidToken):
			middleware.CountVerificationAttempt("invalid_token")
			h.failed(c, domainerrors.NotAcceptable("Invalid or expired verification token", err))
		default:
			response.Error(c, err)
		}
		return
	}

	middleware.CountVerificationAttempt("verified")

	if !response.WantsJSON(c) {
		h.redirector.Success(c)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Mobile number verified successfully",
	})
}

// Resend issues and dispatches a fresh verification token
// POST /api/v1/mobile/resend
func (h *VerificationHandler) Resend(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.verificationUsecase.Resend(c.Request.Context(), userID); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVerified) {
			h.failed(c, domainerrors.UnprocessableEntity("Mobile number already verified", err))
			return
		}
		response.Error(c, err)
		return
	}

	if !response.WantsJSON(c) {
		h.redirector.Resent(c)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "A new verification token has been sent to your mobile number",
	})
}

func (h *VerificationHandler) failed(c *gin.Context, appErr *domainerrors.AppError) {
	if !response.WantsJSON(c) {
		h.redirector.Back(c, appErr.Message)
		return
	}
	response.Error(c, appErr)
}

func (h *VerificationHandler) validationFailed(c *gin.Context, fields map[string]string) {
	if !response.WantsJSON(c) {
		h.redirector.BackWithFields(c, fields)
		return
	}
	response.ValidationError(c, fields)
}
