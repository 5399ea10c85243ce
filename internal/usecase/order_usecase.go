package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type orderUseCase struct {
	orderRepo domain.OrderRepository
	menuRepo  domain.MenuItemRepository
	tableRepo domain.TableRepository
	log       *logrus.Logger
}

func NewOrderUseCase(
	orderRepo domain.OrderRepository,
	menuRepo domain.MenuItemRepository,
	tableRepo domain.TableRepository,
	logger *logrus.Logger,
) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		tableRepo: tableRepo,
		log:       logger,
	}
}

// resolveItems validates every requested line item against the catalog and
// returns the resolved items with option snapshots plus the order total.
// Nothing is persisted until this succeeds in full.
func (uc *orderUseCase) resolveItems(requests []domain.OrderItemRequest) ([]domain.OrderItem, float64, error) {
	if len(requests) == 0 {
		return nil, 0, errors.New("order must contain at least one item")
	}

	items := make([]domain.OrderItem, 0, len(requests))
	totalPrice := 0.0
	for i, req := range requests {
		if req.MenuItemID <= 0 {
			return nil, 0, fmt.Errorf("item %d: invalid menu item ID", i)
		}
		if req.Quantity < 1 {
			return nil, 0, fmt.Errorf("item %d (menu item %d): quantity must be at least 1", i, req.MenuItemID)
		}

		menuItem, err := uc.menuRepo.GetMenuItemByID(req.MenuItemID)
		if err != nil {
			uc.log.Warnf("Use Case: Catalog lookup failed for menu item %d: %v", req.MenuItemID, err)
			return nil, 0, err
		}

		item := domain.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   req.Quantity,
			Note:       req.Note,
			Options:    []domain.OrderItemOption{},
		}

		itemTotal := menuItem.Price * float64(req.Quantity)
		for _, optionID := range req.OptionIDs {
			option, ok := menuItem.Option(optionID)
			if !ok {
				uc.log.Warnf("Use Case: Option %d not defined on menu item %d", optionID, menuItem.ID)
				return nil, 0, fmt.Errorf("option %d on menu item %d %w", optionID, menuItem.ID, domain.ErrNotFound)
			}
			item.Options = append(item.Options, domain.OrderItemOption{
				OptionID: option.ID,
				Name:     option.Name,
				Price:    option.Price,
			})
			itemTotal += option.Price * float64(req.Quantity)
		}

		items = append(items, item)
		totalPrice += itemTotal
	}
	return items, totalPrice, nil
}

func (uc *orderUseCase) CreateOrder(userID, tableID int64, requests []domain.OrderItemRequest, reservationTime *time.Time) (*domain.Order, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	uc.log.Infof("Use Case: Creating order for user %d at table %d with %d items", userID, tableID, len(requests))

	if _, err := uc.tableRepo.GetTableByID(tableID); err != nil {
		uc.log.Warnf("Use Case: Table lookup failed for order (user %d): %v", userID, err)
		return nil, err
	}

	items, totalPrice, err := uc.resolveItems(requests)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:          userID,
		TableID:         tableID,
		Items:           items,
		TotalPrice:      totalPrice,
		Status:          domain.StatusPending,
		ReservationTime: reservationTime,
	}
	created, err := uc.orderRepo.CreateOrder(order)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create order for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d created for user %d, total %.2f", created.ID, userID, created.TotalPrice)
	return created, nil
}

func (uc *orderUseCase) GetOrderByID(id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, errors.New("invalid order ID")
	}
	return uc.orderRepo.GetOrderByID(id)
}

func (uc *orderUseCase) GetMyOrder(id, userID int64) (*domain.Order, error) {
	if id <= 0 || userID <= 0 {
		return nil, errors.New("invalid order ID")
	}
	return uc.orderRepo.GetOrderForUser(id, userID)
}

func (uc *orderUseCase) ListOrders(limit, offset int) ([]domain.Order, error) {
	return uc.orderRepo.ListOrders(limit, offset)
}

func (uc *orderUseCase) ListMyOrders(userID int64, limit, offset int) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	return uc.orderRepo.ListOrdersByUserID(userID, limit, offset)
}

// UpdateOrder applies a content patch to a non-terminal order and recomputes
// the total from the catalog as it stands now. A patch that carries items is
// re-validated exactly like creation, refreshing the option snapshots; a
// patch without items keeps the stored snapshots and re-prices only the menu
// item units against the live catalog.
func (uc *orderUseCase) UpdateOrder(id int64, update domain.OrderUpdate) (*domain.Order, error) {
	if id <= 0 {
		return nil, errors.New("invalid order ID")
	}
	order, err := uc.orderRepo.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	if domain.IsTerminal(order.Status) {
		uc.log.Warnf("Use Case: Rejecting content update for order %d in terminal status '%s'", id, order.Status)
		return nil, fmt.Errorf("order is already %s and cannot be updated: %w", order.Status, domain.ErrInvalidState)
	}

	if update.TableID != nil {
		if _, err := uc.tableRepo.GetTableByID(*update.TableID); err != nil {
			uc.log.Warnf("Use Case: Table lookup failed for order %d update: %v", id, err)
			return nil, err
		}
		order.TableID = *update.TableID
	}
	if update.ReservationTime != nil {
		order.ReservationTime = update.ReservationTime
	}

	if update.Items != nil {
		items, totalPrice, err := uc.resolveItems(update.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
		order.TotalPrice = totalPrice
	} else {
		totalPrice, err := uc.repriceItems(order.Items)
		if err != nil {
			return nil, err
		}
		order.TotalPrice = totalPrice
	}

	updated, err := uc.orderRepo.ReplaceOrder(order)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update order %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Order %d updated, new total %.2f", id, updated.TotalPrice)
	return updated, nil
}

// repriceItems recomputes the total of existing line items: live catalog
// price per unit, stored snapshot prices for options.
func (uc *orderUseCase) repriceItems(items []domain.OrderItem) (float64, error) {
	totalPrice := 0.0
	for i := range items {
		menuItem, err := uc.menuRepo.GetMenuItemByID(items[i].MenuItemID)
		if err != nil {
			uc.log.Warnf("Use Case: Catalog lookup failed during reprice for menu item %d: %v", items[i].MenuItemID, err)
			return 0, err
		}
		itemPrice := menuItem.Price
		for _, opt := range items[i].Options {
			itemPrice += opt.Price
		}
		totalPrice += itemPrice * float64(items[i].Quantity)
	}
	return totalPrice, nil
}

// UpdateOrderStatus applies any valid status regardless of the current one.
// This is the administrative override: staff use it to move orders through
// the kitchen and to correct mistakes, including out of terminal states.
func (uc *orderUseCase) UpdateOrderStatus(id int64, status domain.OrderStatus) (*domain.Order, error) {
	if id <= 0 {
		return nil, errors.New("invalid order ID")
	}
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid target order status: %s", status)
	}
	uc.log.Infof("Use Case: Updating status for order %d to '%s'", id, status)

	updated, err := uc.orderRepo.UpdateOrderStatus(id, status)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update status for order %d: %v", id, err)
		return nil, err
	}
	return updated, nil
}

func (uc *orderUseCase) CancelOrder(id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, errors.New("invalid order ID")
	}
	order, err := uc.orderRepo.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	if domain.IsTerminal(order.Status) {
		uc.log.Warnf("Use Case: Rejecting cancel for order %d in terminal status '%s'", id, order.Status)
		return nil, fmt.Errorf("order is already %s and cannot be cancelled: %w", order.Status, domain.ErrInvalidState)
	}

	cancelled, err := uc.orderRepo.UpdateOrderStatus(id, domain.StatusCancelled)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to cancel order %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Order %d cancelled", id)
	return cancelled, nil
}

func (uc *orderUseCase) DeleteOrder(id int64) error {
	if id <= 0 {
		return errors.New("invalid order ID")
	}
	uc.log.Infof("Use Case: Deleting order ID: %d", id)
	return uc.orderRepo.DeleteOrder(id)
}
