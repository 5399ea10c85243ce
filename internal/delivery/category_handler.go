package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
	"github.com/akaJirt/restaurant-api/internal/middleware"
)

type CategoryHandler struct {
	useCase domain.CategoryUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc domain.CategoryUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CategoryHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	adminOnly := middleware.RequireRoles(h.log, domain.RoleAdmin)
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", auth, adminOnly, h.CreateCategory)
		categories.PATCH("/:id", auth, adminOnly, h.UpdateCategory)
		categories.DELETE("/:id", auth, adminOnly, h.DeleteCategory)
	}
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid ID format")
		return 0, false
	}
	return id, true
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories()
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	SuccessResponse(c, http.StatusOK, "All categories retrieved successfully", categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	category, err := h.useCase.GetCategoryByID(id)
	if err != nil {
		h.log.Warnf("Failed to get category %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve category: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Category retrieved successfully", category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var requestBody struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.useCase.CreateCategory(requestBody.Name, requestBody.Description)
	if err != nil {
		h.log.Errorf("Failed to create category '%s': %v", requestBody.Name, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create category: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Category created successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var update domain.CategoryUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.useCase.UpdateCategory(id, update)
	if err != nil {
		h.log.Warnf("Failed to update category %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update category: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Category updated successfully", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.useCase.DeleteCategory(id); err != nil {
		h.log.Warnf("Failed to delete category %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete category: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
