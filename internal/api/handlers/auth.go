package handlers

import (
	"net/http"

	"alumni-api/internal/apperr"

	"github.com/gin-gonic/gin"
)

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Register an admin
// @Description Create an admin account with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param admin body api.RegisterRequest true "Admin registration details"
// @Success 201 {object} api.AdminResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /register [post]
func (h *Handler) Register(c *gin.Context) {
	var request credentials
	if err := c.ShouldBindJSON(&request); err != nil {
		h.respondError(c, apperr.Validation("A valid email and password are required"))
		return
	}

	admin, err := h.records.RegisterAdmin(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin created successfully",
		"admin":   admin.Summary(),
	})
}

// Login godoc
// @Summary Login admin
// @Description Authenticate an admin and return a session token valid for 7 days
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body api.LoginRequest true "Login credentials"
// @Success 200 {object} api.LoginResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var request credentials
	if err := c.ShouldBindJSON(&request); err != nil {
		h.respondError(c, apperr.Validation("A valid email and password are required"))
		return
	}

	result, err := h.records.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"admin":   result.Admin,
	})
}
