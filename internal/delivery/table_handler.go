package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
	"github.com/akaJirt/restaurant-api/internal/middleware"
)

type TableHandler struct {
	useCase domain.TableUseCase
	log     *logrus.Logger
}

func NewTableHandler(uc domain.TableUseCase, logger *logrus.Logger) *TableHandler {
	return &TableHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *TableHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	adminOnly := middleware.RequireRoles(h.log, domain.RoleAdmin)
	staffOrAdmin := middleware.RequireRoles(h.log, domain.RoleAdmin, domain.RoleStaff)
	tables := router.Group("/tables", auth)
	{
		tables.GET("", h.ListTables)
		tables.GET("/:id", h.GetTable)
		tables.POST("", adminOnly, h.CreateTable)
		tables.PATCH("/:id", adminOnly, h.UpdateTable)
		tables.PATCH("/:id/availability", staffOrAdmin, h.ToggleAvailability)
		tables.DELETE("/:id", adminOnly, h.DeleteTable)
	}
}

func (h *TableHandler) ListTables(c *gin.Context) {
	tables, err := h.useCase.ListTables()
	if err != nil {
		h.log.Errorf("Failed to list tables: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve tables")
		return
	}
	SuccessResponse(c, http.StatusOK, "Tables retrieved successfully", tables)
}

func (h *TableHandler) GetTable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	table, err := h.useCase.GetTableByID(id)
	if err != nil {
		h.log.Warnf("Failed to get table %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve table: "+err.Error())
		return
	}

	// Clients may only look at tables open for seating; staff see everything.
	if user, ok := middleware.CurrentUser(c); ok && user.Role == domain.RoleClient && !table.IsAvailable {
		h.log.Warnf("Client %d denied access to unavailable table %d", user.ID, id)
		ErrorResponse(c, http.StatusForbidden, "You can't access this table, please call the staff")
		return
	}

	SuccessResponse(c, http.StatusOK, "Table retrieved successfully", table)
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var input domain.TableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	table, err := h.useCase.CreateTable(input)
	if err != nil {
		h.log.Errorf("Failed to create table '%s': %v", input.TableNumber, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create table: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Table created successfully", table)
}

func (h *TableHandler) UpdateTable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var update domain.TableUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	table, err := h.useCase.UpdateTable(id, update)
	if err != nil {
		h.log.Warnf("Failed to update table %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update table: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Table updated successfully", table)
}

func (h *TableHandler) ToggleAvailability(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	table, err := h.useCase.ToggleAvailability(id)
	if err != nil {
		h.log.Warnf("Failed to toggle availability for table %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update table availability: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Table availability updated successfully", table)
}

func (h *TableHandler) DeleteTable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.useCase.DeleteTable(id); err != nil {
		h.log.Warnf("Failed to delete table %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete table: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
