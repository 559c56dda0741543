package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"mobile-verify.backend/pkg/logger"
	"mobile-verify.backend/pkg/redis"
)

const (
	// FlashCookieName identifies the visitor's one-shot flash payload.
	FlashCookieName = "flash_id"

	flashCookieMaxAge = 300
)

// Redirector shapes workflow outcomes for redirect-expecting callers:
// success goes to the verified landing URL, failures go back to the referring
// form with a flashed error retrievable by the next rendered view.
type Redirector struct {
	flash       *redis.FlashStore
	verifiedURL string
}

// NewRedirector creates a redirector
func NewRedirector(flash *redis.FlashStore, verifiedURL string) *Redirector {
	if verifiedURL == "" {
		verifiedURL = "/mobile/verified"
	}
	return &Redirector{flash: flash, verifiedURL: verifiedURL}
}

// Success redirects to the verified landing state
func (r *Redirector) Success(c *gin.Context) {
	c.Redirect(http.StatusFound, r.verifiedURL)
}

// Resent redirects to the referring page after a successful token resend.
func (r *Redirector) Resent(c *gin.Context) {
	c.Redirect(http.StatusFound, r.backURL(c))
}

// Back redirects to the referring page with an error message flashed for the
// next view.
func (r *Redirector) Back(c *gin.Context, message string) {
	r.stash(c, &redis.FlashData{Error: message})
	c.Redirect(http.StatusFound, r.backURL(c))
}

// BackWithFields redirects to the referring page with field-level validation
// errors flashed for form redisplay.
func (r *Redirector) BackWithFields(c *gin.Context, fields map[string]string) {
	r.stash(c, &redis.FlashData{Fields: fields})
	c.Redirect(http.StatusFound, r.backURL(c))
}

func (r *Redirector) backURL(c *gin.Context) string {
	if ref := c.Request.Referer(); ref != "" {
		return ref
	}
	return "/"
}

func (r *Redirector) stash(c *gin.Context, data *redis.FlashData) {
	flashID, err := c.Cookie(FlashCookieName)
	if err != nil || flashID == "" {
		flashID = uuid.New().String()
	}
	c.SetCookie(FlashCookieName, flashID, flashCookieMaxAge, "/", "", false, true)

	if err := r.flash.Put(c.Request.Context(), flashID, data); err != nil {
		// The redirect still happens; the view just loses its message.
		logger.Warn(c.Request.Context(), "failed to stash flash payload", zap.Error(err))
	}
}
