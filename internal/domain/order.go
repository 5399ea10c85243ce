package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status blocks further content edits and
// cancellation. The admin status endpoint is exempt on purpose: it exists to
// correct orders that ended up in the wrong state.
func IsTerminal(status OrderStatus) bool {
	switch status {
	case StatusReady, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItemOption is the option snapshot captured when the order content was
// last written: name and price as the catalog defined them at that moment, so
// later menu edits do not move the total of an untouched order.
type OrderItemOption struct {
	OptionID int64   `json:"option_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
}

type OrderItem struct {
	ID         int64             `json:"id"`
	MenuItemID int64             `json:"menu_item_id"`
	Quantity   int               `json:"quantity"`
	Note       string            `json:"note,omitempty"`
	Options    []OrderItemOption `json:"options"`
}

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	TableID         int64       `json:"table_id"`
	Items           []OrderItem `json:"items"`
	TotalPrice      float64     `json:"total_price"`
	Status          OrderStatus `json:"status"`
	ReservationTime *time.Time  `json:"reservation_time,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderRepository interface {
	CreateOrder(order *Order) (*Order, error)
	GetOrderByID(id int64) (*Order, error)
	GetOrderForUser(id, userID int64) (*Order, error)
	ReplaceOrder(order *Order) (*Order, error)
	UpdateOrderStatus(id int64, status OrderStatus) (*Order, error)
	DeleteOrder(id int64) error
	ListOrders(limit, offset int) ([]Order, error)
	ListOrdersByUserID(userID int64, limit, offset int) ([]Order, error)
}

// OrderItemRequest is one requested line item; options are referenced by ID
// and resolved against the catalog before anything is persisted.
type OrderItemRequest struct {
	MenuItemID int64   `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	Note       string  `json:"note"`
	OptionIDs  []int64 `json:"option_ids"`
}

type OrderUpdate struct {
	TableID         *int64             `json:"table_id"`
	Items           []OrderItemRequest `json:"items"`
	ReservationTime *time.Time         `json:"reservation_time"`
}

type OrderUseCase interface {
	CreateOrder(userID, tableID int64, items []OrderItemRequest, reservationTime *time.Time) (*Order, error)
	GetOrderByID(id int64) (*Order, error)
	GetMyOrder(id, userID int64) (*Order, error)
	ListOrders(limit, offset int) ([]Order, error)
	ListMyOrders(userID int64, limit, offset int) ([]Order, error)
	UpdateOrder(id int64, update OrderUpdate) (*Order, error)
	UpdateOrderStatus(id int64, status OrderStatus) (*Order, error)
	CancelOrder(id int64) (*Order, error)
	DeleteOrder(id int64) error
}
