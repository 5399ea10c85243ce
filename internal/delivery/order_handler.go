package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
	"github.com/akaJirt/restaurant-api/internal/metrics"
	"github.com/akaJirt/restaurant-api/internal/middleware"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	adminOnly := middleware.RequireRoles(h.log, domain.RoleAdmin)
	staffOrAdmin := middleware.RequireRoles(h.log, domain.RoleAdmin, domain.RoleStaff)
	orders := router.Group("/orders", auth)
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", staffOrAdmin, h.ListOrders)
		orders.GET("/my-orders", h.ListMyOrders)
		orders.GET("/my-orders/:id", h.GetMyOrder)
		orders.GET("/:id", h.GetOrder)
		orders.PATCH("/:id", h.UpdateOrder)
		orders.PATCH("/:id/update-status", staffOrAdmin, h.UpdateOrderStatus)
		orders.PATCH("/:id/cancel", h.CancelOrder)
		orders.DELETE("/:id", adminOnly, h.DeleteOrder)
	}
}

type createOrderRequest struct {
	TableID         int64                     `json:"table_id"`
	Items           []domain.OrderItemRequest `json:"items"`
	ReservationTime *time.Time                `json:"reservation_time"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.CreateOrder(user.ID, req.TableID, req.Items, req.ReservationTime)
	if err != nil {
		h.log.Warnf("Failed to create order for user %d: %v", user.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create order: "+err.Error())
		return
	}

	metrics.OrdersTotal.WithLabelValues(string(order.Status)).Inc()
	h.log.Infof("Order %d created for user %d, total %.2f", order.ID, user.ID, order.TotalPrice)
	SuccessResponse(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, offset := paginationParams(c)
	orders, err := h.useCase.ListOrders(limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list orders: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, offset := paginationParams(c)
	orders, err := h.useCase.ListMyOrders(user.ID, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list orders for user %d: %v", user.ID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.useCase.GetMyOrder(id, user.ID)
	if err != nil {
		h.log.Warnf("Failed to get order %d for user %d: %v", id, user.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve order: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

// GetOrder serves the generic /orders/:id lookup. Clients only get their own
// orders back; staff and admins can fetch any order.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var (
		order *domain.Order
		err   error
	)
	if user.Role == domain.RoleClient {
		order, err = h.useCase.GetMyOrder(id, user.ID)
	} else {
		order, err = h.useCase.GetOrderByID(id)
	}
	if err != nil {
		h.log.Warnf("Failed to get order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve order: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	// Clients may only touch their own orders.
	if user.Role == domain.RoleClient {
		if _, err := h.useCase.GetMyOrder(id, user.ID); err != nil {
			h.log.Warnf("User %d denied update of order %d: %v", user.ID, id, err)
			ErrorResponse(c, mapErrorToStatus(err), "Failed to update order: "+err.Error())
			return
		}
	}

	var update domain.OrderUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.UpdateOrder(id, update)
	if err != nil {
		h.log.Warnf("Failed to update order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update order: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order updated successfully", order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.UpdateOrderStatus(id, req.Status)
	if err != nil {
		h.log.Warnf("Failed to update status of order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update order status: "+err.Error())
		return
	}

	metrics.OrdersTotal.WithLabelValues(string(order.Status)).Inc()
	h.log.Infof("Order %d status updated to %s", order.ID, order.Status)
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if user.Role == domain.RoleClient {
		if _, err := h.useCase.GetMyOrder(id, user.ID); err != nil {
			h.log.Warnf("User %d denied cancel of order %d: %v", user.ID, id, err)
			ErrorResponse(c, mapErrorToStatus(err), "Failed to cancel order: "+err.Error())
			return
		}
	}

	order, err := h.useCase.CancelOrder(id)
	if err != nil {
		h.log.Warnf("Failed to cancel order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to cancel order: "+err.Error())
		return
	}

	metrics.OrdersTotal.WithLabelValues(string(order.Status)).Inc()
	SuccessResponse(c, http.StatusOK, "Order cancelled successfully", order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.useCase.DeleteOrder(id); err != nil {
		h.log.Warnf("Failed to delete order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete order: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
