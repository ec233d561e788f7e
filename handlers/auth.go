// auth.go - Handles user registration, login and profile

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-journal-backend/middleware"
	"go-journal-backend/registration"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var input registration.Input
	if err := bindJSON(c, &input, ""); err != nil {
		h.fail(c, err, "")
		return
	}

	session, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err, "Error registering user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "User registered successfully",
		"user":      session.User,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

func (h *Handler) login(c *gin.Context) {
	var input LoginInput
	if err := bindJSON(c, &input, "Email and password required"); err != nil {
		h.fail(c, err, "")
		return
	}

	session, err := h.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.fail(c, err, "Error logging in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"user":      session.User,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

func (h *Handler) profile(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Error loading profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
