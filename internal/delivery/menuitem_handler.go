package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
	"github.com/akaJirt/restaurant-api/internal/middleware"
)

type MenuItemHandler struct {
	useCase domain.MenuItemUseCase
	log     *logrus.Logger
}

func NewMenuItemHandler(uc domain.MenuItemUseCase, logger *logrus.Logger) *MenuItemHandler {
	return &MenuItemHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *MenuItemHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	adminOnly := middleware.RequireRoles(h.log, domain.RoleAdmin)
	menuItems := router.Group("/menu-items")
	{
		menuItems.GET("", h.ListMenuItems)
		menuItems.GET("/search", h.SearchMenuItems)
		menuItems.GET("/category/:categoryId", h.ListByCategory)
		menuItems.GET("/rating/:rating", h.ListByRating)
		menuItems.GET("/price/:price", h.ListByPrice)
		menuItems.GET("/:id", h.GetMenuItem)
		menuItems.POST("", auth, adminOnly, h.CreateMenuItem)
		menuItems.PATCH("/:id", auth, adminOnly, h.UpdateMenuItem)
		menuItems.DELETE("/:id", auth, adminOnly, h.DeleteMenuItem)
	}
}

func (h *MenuItemHandler) ListMenuItems(c *gin.Context) {
	limit, offset := paginationParams(c)
	items, err := h.useCase.ListMenuItems(limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list menu items: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}
	SuccessResponse(c, http.StatusOK, "All menu items retrieved successfully", items)
}

func (h *MenuItemHandler) SearchMenuItems(c *gin.Context) {
	items, err := h.useCase.SearchMenuItemsByName(c.Query("name"))
	if err != nil {
		h.log.Errorf("Failed to search menu items: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to search menu items")
		return
	}
	SuccessResponse(c, http.StatusOK, "Menu items retrieved successfully", items)
}

func (h *MenuItemHandler) ListByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil || categoryID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}
	items, err := h.useCase.ListMenuItemsByCategory(categoryID)
	if err != nil {
		h.log.Warnf("Failed to list menu items for category %d: %v", categoryID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve menu items: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Get menu items by category successfully", items)
}

func (h *MenuItemHandler) ListByRating(c *gin.Context) {
	rating, err := strconv.ParseFloat(c.Param("rating"), 64)
	if err != nil || rating < 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid rating format")
		return
	}
	items, err := h.useCase.ListMenuItemsByRating(rating)
	if err != nil {
		h.log.Errorf("Failed to list menu items by rating: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}
	SuccessResponse(c, http.StatusOK, "Get menu items by rating successfully", items)
}

func (h *MenuItemHandler) ListByPrice(c *gin.Context) {
	price, err := strconv.ParseFloat(c.Param("price"), 64)
	if err != nil || price < 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid price format")
		return
	}
	items, err := h.useCase.ListMenuItemsByPrice(price)
	if err != nil {
		h.log.Errorf("Failed to list menu items by price: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}
	SuccessResponse(c, http.StatusOK, "Get menu items by price successfully", items)
}

func (h *MenuItemHandler) GetMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	item, err := h.useCase.GetMenuItemByID(id)
	if err != nil {
		h.log.Warnf("Failed to get menu item %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve menu item: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Menu item retrieved successfully", item)
}

func (h *MenuItemHandler) CreateMenuItem(c *gin.Context) {
	var input domain.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.useCase.CreateMenuItem(input)
	if err != nil {
		h.log.Errorf("Failed to create menu item '%s': %v", input.Name, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create menu item: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Menu item created successfully", item)
}

func (h *MenuItemHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var input domain.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.useCase.UpdateMenuItem(id, input)
	if err != nil {
		h.log.Warnf("Failed to update menu item %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update menu item: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Menu item updated successfully", item)
}

func (h *MenuItemHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.useCase.DeleteMenuItem(id); err != nil {
		h.log.Warnf("Failed to delete menu item %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete menu item: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
