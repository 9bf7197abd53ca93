package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maulidiphilip/money-manager-api/internal/model"
	"github.com/maulidiphilip/money-manager-api/internal/service"
)

type ProfileHandler struct {
	svc *service.ProfileService
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Register godoc
// @Summary Register a new profile
// @Description Creates an inactive profile and mails an activation link.
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration data"
// @Success 201 {object} model.ProfileResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/profiles/register [post]
func (h *ProfileHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// Activate godoc
// @Summary Activate a profile
// @Description Resolves the mailed activation token. Safe to call again with
// @Description the same link after activation.
// @Tags profiles
// @Produce json
// @Param activationToken query string true "Activation token from the email link"
// @Success 200 {object} model.ActivationResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/profiles/activate [get]
func (h *ProfileHandler) Activate(c *gin.Context) {
	token := c.Query("activationToken")

	activated, err := h.svc.Activate(c.Request.Context(), token)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !activated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile Activation Not Found"})
		return
	}

	c.JSON(http.StatusOK, model.ActivationResponse{Message: "Profile Activated Successfully"})
}

// Login godoc
// @Summary Login
// @Description Requires an activated account; returns a bearer token valid
// @Description for 24 hours.
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/profiles/login [post]
func (h *ProfileHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Get the current profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ProfileResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/profiles/me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	email := AuthEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.svc.CurrentProfile(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile.PublicProfile())
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email or password"})
	case errors.Is(err, service.ErrNotActivated):
		c.JSON(http.StatusForbidden, gin.H{"error": "account not activated, please activate your account first"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
