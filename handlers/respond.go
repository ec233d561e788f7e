// respond.go - Request binding and error responses

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"go-journal-backend/apperr"
)

// fail writes err as {"error": ...}. Operational errors are logged and the
// caller only sees fallback.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var e *apperr.Error
	if !errors.As(err, &e) || e.Kind == apperr.KindOperational {
		h.log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		return
	}

	body := gin.H{"error": e.Message}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	c.JSON(e.Kind.Status(), body)
}

// bindJSON decodes the body into dst. A missing required field is reported
// with required; any other decode failure as a malformed body.
func bindJSON(c *gin.Context, dst any, required string) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && required != "" {
		return apperr.Validation(required, nil)
	}
	return apperr.Validation("Invalid request body", nil)
}
