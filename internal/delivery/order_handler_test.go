package delivery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type fakeOrderUseCase struct {
	orders map[int64]domain.Order
}

func (f *fakeOrderUseCase) CreateOrder(userID, tableID int64, items []domain.OrderItemRequest, reservationTime *time.Time) (*domain.Order, error) {
	order := domain.Order{
		ID:      int64(len(f.orders) + 1),
		UserID:  userID,
		TableID: tableID,
		Status:  domain.StatusPending,
	}
	f.orders[order.ID] = order
	return &order, nil
}

func (f *fakeOrderUseCase) GetOrderByID(id int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	return &order, nil
}

func (f *fakeOrderUseCase) GetMyOrder(id, userID int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.UserID != userID {
		return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	return &order, nil
}

func (f *fakeOrderUseCase) ListOrders(limit, offset int) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

func (f *fakeOrderUseCase) ListMyOrders(userID int64, limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (f *fakeOrderUseCase) UpdateOrder(id int64, update domain.OrderUpdate) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	if domain.IsTerminal(order.Status) {
		return nil, fmt.Errorf("order is already %s and cannot be updated: %w", order.Status, domain.ErrInvalidState)
	}
	if update.TableID != nil {
		order.TableID = *update.TableID
	}
	f.orders[id] = order
	return &order, nil
}

func (f *fakeOrderUseCase) UpdateOrderStatus(id int64, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	order.Status = status
	f.orders[id] = order
	return &order, nil
}

func (f *fakeOrderUseCase) CancelOrder(id int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	if domain.IsTerminal(order.Status) {
		return nil, fmt.Errorf("order is already %s and cannot be cancelled: %w", order.Status, domain.ErrInvalidState)
	}
	order.Status = domain.StatusCancelled
	f.orders[id] = order
	return &order, nil
}

func (f *fakeOrderUseCase) DeleteOrder(id int64) error {
	if _, ok := f.orders[id]; !ok {
		return fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	delete(f.orders, id)
	return nil
}

// authAs injects a user the way the auth middleware would after resolving a
// valid session token.
func authAs(user *domain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", user)
		c.Next()
	}
}

func newOrderTestRouter(uc domain.OrderUseCase, user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	router := gin.New()
	handler := NewOrderHandler(uc, log)
	handler.RegisterRoutes(router.Group("/api/v1"), authAs(user))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	uc := &fakeOrderUseCase{orders: make(map[int64]domain.Order)}
	client := &domain.User{ID: 7, Role: domain.RoleClient}
	router := newOrderTestRouter(uc, client)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders",
		`{"table_id": 3, "items": [{"menu_item_id": 1, "quantity": 2}]}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Status != "Success" {
		t.Errorf("expected Success status, got %s", resp.Status)
	}
	if uc.orders[1].UserID != 7 {
		t.Errorf("order not attributed to authenticated user: %+v", uc.orders[1])
	}
}

func TestCancelFinalizedOrderEndpoint(t *testing.T) {
	uc := &fakeOrderUseCase{orders: map[int64]domain.Order{
		1: {ID: 1, UserID: 7, TableID: 3, Status: domain.StatusReady},
	}}
	client := &domain.User{ID: 7, Role: domain.RoleClient}
	router := newOrderTestRouter(uc, client)

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/orders/1/cancel", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if uc.orders[1].Status != domain.StatusReady {
		t.Errorf("status changed despite rejection: %s", uc.orders[1].Status)
	}
}

func TestClientCannotReadForeignOrder(t *testing.T) {
	uc := &fakeOrderUseCase{orders: map[int64]domain.Order{
		1: {ID: 1, UserID: 99, TableID: 3, Status: domain.StatusPending},
	}}
	client := &domain.User{ID: 7, Role: domain.RoleClient}
	router := newOrderTestRouter(uc, client)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign order, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders/my-orders/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on my-orders for foreign order, got %d", rec.Code)
	}
}

func TestStaffOnlyRoutes(t *testing.T) {
	uc := &fakeOrderUseCase{orders: map[int64]domain.Order{
		1: {ID: 1, UserID: 7, TableID: 3, Status: domain.StatusPending},
	}}

	client := &domain.User{ID: 7, Role: domain.RoleClient}
	clientRouter := newOrderTestRouter(uc, client)

	rec := doRequest(t, clientRouter, http.MethodGet, "/api/v1/orders", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for client listing all orders, got %d", rec.Code)
	}

	rec = doRequest(t, clientRouter, http.MethodPatch, "/api/v1/orders/1/update-status", `{"status": "ready"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for client updating status, got %d", rec.Code)
	}

	staff := &domain.User{ID: 2, Role: domain.RoleStaff}
	staffRouter := newOrderTestRouter(uc, staff)

	rec = doRequest(t, staffRouter, http.MethodGet, "/api/v1/orders", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for staff listing orders, got %d", rec.Code)
	}

	rec = doRequest(t, staffRouter, http.MethodPatch, "/api/v1/orders/1/update-status", `{"status": "ready"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff status update, got %d: %s", rec.Code, rec.Body.String())
	}
	if uc.orders[1].Status != domain.StatusReady {
		t.Errorf("status not applied, got %s", uc.orders[1].Status)
	}

	rec = doRequest(t, staffRouter, http.MethodDelete, "/api/v1/orders/1", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for staff deleting order, got %d", rec.Code)
	}

	admin := &domain.User{ID: 1, Role: domain.RoleAdmin}
	adminRouter := newOrderTestRouter(uc, admin)
	rec = doRequest(t, adminRouter, http.MethodDelete, "/api/v1/orders/1", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for admin delete, got %d", rec.Code)
	}
}
