// admin.go - Admin-only endpoints

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listUsers is mounted behind AdminMiddleware.
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error fetching users")
		return
	}
	c.JSON(http.StatusOK, users)
}
