package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	domainerrors "mobile-verify.backend/internal/domain/errors"
)

// WantsJSON reports whether the caller expects a data response rather than a
// redirect. Mirrors the usual "expects JSON" check: an explicit Accept
// header, an AJAX marker, or a JSON request body.
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.ContentType(), "application/json")
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ValidationError sends a 422 with field-level detail
func ValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"code":    "ERR_VALIDATION",
		"message": "The given data was invalid.",
		"errors":  fields,
	})
}
