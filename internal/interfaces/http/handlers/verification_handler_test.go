package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/interfaces/http/middleware"
	"mobile-verify.backend/internal/interfaces/http/response"
	"mobile-verify.backend/pkg/logger"
	"mobile-verify.backend/pkg/redis"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

type verificationServiceStub struct {
	verifyFn func(ctx context.Context, userID uuid.UUID, token string) error
	resendFn func(ctx context.Context, userID uuid.UUID) error
}

func (s verificationServiceStub) Verify(ctx context.Context, userID uuid.UUID, token string) error {
	return s.verifyFn(ctx, userID, token)
}
func (s verificationServiceStub) Resend(ctx context.Context, userID uuid.UUID) error {
	return s.resendFn(ctx, userID)
}

func useMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { redis.SetClient(nil) })
}

func newVerificationRouter(userID uuid.UUID, service VerificationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVerificationHandler(service, response.NewRedirector(redis.NewFlashStore(time.Minute), ""))
	r := gin.New()
	withUser := func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
	r.POST("/mobile/verify", withUser, h.Verify)
	r.POST("/mobile/resend", withUser, h.Resend)
	return r
}

func jsonVerifyRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/mobile/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func formVerifyRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/mobile/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "/mobile/show-verification-form")
	return req
}

func TestVerify_JSON_Success(t *testing.T) {
	userID := uuid.New()
	router := newVerificationRouter(userID, verificationServiceStub{
		verifyFn: func(_ context.Context, gotUserID uuid.UUID, token string) error {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, "12345", token)
			return nil
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonVerifyRequest(`{"token":"12345"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "verified successfully")
}

func TestVerify_JSON_AlreadyVerified(t *testing.T) {
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		verifyFn: func(context.Context, uuid.UUID, string) error {
			return domainerrors.ErrAlreadyVerified
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonVerifyRequest(`{"token":"12345"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "already verified")
}

func TestVerify_JSON_InvalidToken(t *testing.T) {
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		verifyFn: func(context.Context, uuid.UUID, string) error {
			return domainerrors.ErrInvalidToken
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonVerifyRequest(`{"token":"99999"}`))

	assert.Equal(t, http.StatusNotAcceptable, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired")
}

func TestVerify_JSON_ValidationError(t *testing.T) {
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		verifyFn: func(context.Context, uuid.UUID, string) error {
			t.Fatal("service must not be called on validation failure")
			return nil
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonVerifyRequest(`{}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.Contains(t, w.Body.String(), "required")
}

func TestVerify_JSON_UsecaseFailure(t *testing.T) {
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		verifyFn: func(context.Context, uuid.UUID, string) error {
			return errors.New("db down")
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonVerifyRequest(`{"token":"12345"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestVerify_Redirect_Success(t *testing.T) {
	useMiniredis(t)
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		verifyFn: func(context.Context, uuid.UUID, string) error { return nil },
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formVerifyRequest("token=12345"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/mobile/verified", w.Header().Get("Location"))
}

func TestVerify_Redirect_InvalidTokenFlashesError(t *testing.T) {
	useMiniredis(t)
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		verifyFn: func(context.Context, uuid.UUID, string) error {
			return domainerrors.ErrInvalidToken
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formVerifyRequest("token=99999"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/mobile/show-verification-form", w.Header().Get("Location"))

	flashID := flashCookieValue(t, w)
	flash, err := redis.NewFlashStore(time.Minute).Pop(t.Context(), flashID)
	require.NoError(t, err)
	require.NotNil(t, flash)
	assert.Contains(t, flash.Error, "Invalid or expired")
}

func TestVerify_Redirect_ValidationFlashesFields(t *testing.T) {
	useMiniredis(t)
	router := newVerificationRouter(uuid.New(), verificationServiceStub{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formVerifyRequest(""))

	assert.Equal(t, http.StatusFound, w.Code)

	flashID := flashCookieValue(t, w)
	flash, err := redis.NewFlashStore(time.Minute).Pop(t.Context(), flashID)
	require.NoError(t, err)
	require.NotNil(t, flash)
	assert.Contains(t, flash.Fields["token"], "required")
}

func TestResend_JSON_Success(t *testing.T) {
	userID := uuid.New()
	router := newVerificationRouter(userID, verificationServiceStub{
		resendFn: func(_ context.Context, gotUserID uuid.UUID) error {
			assert.Equal(t, userID, gotUserID)
			return nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mobile/resend", nil)
	req.Header.Set("Accept", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "has been sent")
}

func TestResend_JSON_AlreadyVerified(t *testing.T) {
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		resendFn: func(context.Context, uuid.UUID) error {
			return domainerrors.ErrAlreadyVerified
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mobile/resend", nil)
	req.Header.Set("Accept", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestResend_Redirect_Success(t *testing.T) {
	useMiniredis(t)
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		resendFn: func(context.Context, uuid.UUID) error { return nil },
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mobile/resend", nil)
	req.Header.Set("Referer", "/mobile/show-verification-form")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/mobile/show-verification-form", w.Header().Get("Location"))
}

func TestResend_Redirect_AlreadyVerifiedFlashesError(t *testing.T) {
	useMiniredis(t)
	router := newVerificationRouter(uuid.New(), verificationServiceStub{
		resendFn: func(context.Context, uuid.UUID) error {
			return domainerrors.ErrAlreadyVerified
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mobile/resend", nil)
	req.Header.Set("Referer", "/mobile/show-verification-form")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/mobile/show-verification-form", w.Header().Get("Location"))

	flashID := flashCookieValue(t, w)
	flash, err := redis.NewFlashStore(time.Minute).Pop(t.Context(), flashID)
	require.NoError(t, err)
	require.NotNil(t, flash)
	assert.Contains(t, flash.Error, "already verified")
}

func TestVerify_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewVerificationHandler(verificationServiceStub{}, response.NewRedirector(redis.NewFlashStore(time.Minute), ""))
	r := gin.New()
	r.POST("/mobile/verify", h.Verify)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonVerifyRequest(`{"token":"12345"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func flashCookieValue(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == response.FlashCookieName {
			return cookie.Value
		}
	}
	t.Fatal("flash cookie not set")
	return ""
}
