package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mobile-verify.backend/internal/domain/entities"
	domainerrors "mobile-verify.backend/internal/domain/errors"
	"mobile-verify.backend/internal/interfaces/http/middleware"
	"mobile-verify.backend/pkg/jwt"
	"mobile-verify.backend/pkg/redis"
)

const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type authServiceStub struct {
	registerFn func(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error)
	loginFn    func(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

func (s authServiceStub) Register(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error) {
	return s.registerFn(ctx, input)
}
func (s authServiceStub) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, input)
}
func (s authServiceStub) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}
func (s authServiceStub) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return s.getFn(ctx, id)
}

func newAuthRouter(service AuthService, sessionStore *redis.SessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(service, sessionStore)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", func(c *gin.Context) { c.Next() }, h.GetMe)
	return r
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister_Success(t *testing.T) {
	userID := uuid.New()
	router := newAuthRouter(authServiceStub{
		registerFn: func(_ context.Context, input *entities.CreateUserInput) (*entities.User, error) {
			assert.Equal(t, "+15005550006", input.Mobile)
			return &entities.User{ID: userID, Email: input.Email, Name: input.Name, Mobile: input.Mobile}, nil
		},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/register",
		`{"email":"jane@example.com","name":"Jane","mobile":"+15005550006","password":"secret-pass"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"mobileVerified":false`)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router := newAuthRouter(authServiceStub{
		registerFn: func(context.Context, *entities.CreateUserInput) (*entities.User, error) {
			return nil, domainerrors.ErrAlreadyExists
		},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/register",
		`{"email":"jane@example.com","name":"Jane","mobile":"+15005550006","password":"secret-pass"}`))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	router := newAuthRouter(authServiceStub{
		registerFn: func(context.Context, *entities.CreateUserInput) (*entities.User, error) {
			t.Fatal("service must not be called on validation failure")
			return nil, nil
		},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/register",
		`{"email":"not-an-email","name":"Jane","mobile":"0412345678","password":"secret-pass"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"email"`)
	assert.Contains(t, w.Body.String(), `"mobile"`)
	assert.Contains(t, w.Body.String(), "E.164")
}

func TestLogin_TokenMode(t *testing.T) {
	user := &entities.User{ID: uuid.New(), Email: "jane@example.com", Name: "Jane", Mobile: "+15005550006"}
	router := newAuthRouter(authServiceStub{
		loginFn: func(_ context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
			return &entities.AuthResponse{AccessToken: "access-abc", RefreshToken: "refresh-def", User: user}, nil
		},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"secret-pass"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access-abc")

	cookies := w.Result().Cookies()
	names := make(map[string]string)
	for _, c := range cookies {
		names[c.Name] = c.Value
	}
	assert.Equal(t, "access-abc", names["token"])
	assert.Equal(t, "refresh-def", names["refresh_token"])
}

func TestLogin_SessionMode(t *testing.T) {
	useMiniredis(t)
	sessionStore, err := redis.NewSessionStore(testEncryptionKey)
	require.NoError(t, err)

	user := &entities.User{ID: uuid.New(), Email: "jane@example.com", Name: "Jane", Mobile: "+15005550006"}
	router := newAuthRouter(authServiceStub{
		loginFn: func(_ context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
			assert.True(t, input.UseSession)
			return &entities.AuthResponse{AccessToken: "access-abc", RefreshToken: "refresh-def", User: user}, nil
		},
	}, sessionStore)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"secret-pass","useSession":true}`))

	assert.Equal(t, http.StatusOK, w.Code)
	// Raw tokens stay server-side in session mode
	assert.NotContains(t, w.Body.String(), "access-abc")

	var sessionID string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			sessionID = c.Value
		}
	}
	require.NotEmpty(t, sessionID)

	session, err := sessionStore.GetSession(t.Context(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "access-abc", session.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := newAuthRouter(authServiceStub{
		loginFn: func(context.Context, *entities.LoginInput) (*entities.AuthResponse, error) {
			return nil, domainerrors.ErrInvalidCredentials
		},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"wrong-pass"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken_FromBodyAndCookie(t *testing.T) {
	router := newAuthRouter(authServiceStub{
		refreshFn: func(_ context.Context, refreshToken string) (*jwt.TokenPair, error) {
			if refreshToken != "good-refresh" {
				return nil, jwt.ErrInvalidToken
			}
			return &jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}, nil)

	// From body
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/refresh", `{"refreshToken":"good-refresh"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")

	// From cookie
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "good-refresh"})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Missing entirely
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/refresh", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid token
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/refresh", `{"refreshToken":"bad-refresh"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMe(t *testing.T) {
	userID := uuid.New()
	service := authServiceStub{
		getFn: func(_ context.Context, id uuid.UUID) (*entities.User, error) {
			if id == userID {
				return &entities.User{ID: id, Email: "jane@example.com", Name: "Jane", Mobile: "+15005550006"}, nil
			}
			return nil, domainerrors.ErrNotFound
		},
	}

	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(service, nil)
	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	}, h.GetMe)
	r.GET("/auth/me-anon", h.GetMe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me-anon", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_TearsDownSession(t *testing.T) {
	useMiniredis(t)
	sessionStore, err := redis.NewSessionStore(testEncryptionKey)
	require.NoError(t, err)

	sessionID := uuid.New().String()
	require.NoError(t, sessionStore.CreateSession(t.Context(), sessionID, &redis.SessionData{
		AccessToken: "access-abc",
	}, 0))

	router := newAuthRouter(authServiceStub{}, sessionStore)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionID})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	_, err = sessionStore.GetSession(t.Context(), sessionID)
	assert.Error(t, err)
}
