package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maulidiphilip/money-manager-api/internal/model"
	"github.com/maulidiphilip/money-manager-api/internal/service"
)

type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CategoryRequest true "Category data"
// @Success 201 {object} model.CategoryResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	email := AuthEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	category, err := h.svc.Create(c.Request.Context(), email, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// List godoc
// @Summary List the caller's categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CategoryResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	email := AuthEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	categories, err := h.svc.List(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}
