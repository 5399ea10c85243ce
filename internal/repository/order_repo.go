package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresOrderRepository) CreateOrder(order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (user_id, table_id, status, total_price, reservation_time)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, status, created_at, updated_at`
	err = tx.QueryRow(orderQuery,
		order.UserID,
		order.TableID,
		order.Status,
		order.TotalPrice,
		order.ReservationTime,
	).Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert order for user %d: %v", order.UserID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	if err = r.insertItemsTx(tx, order); err != nil {
		return nil, err
	}

	r.log.Infof("Order %d created successfully with %d items for user %d", order.ID, len(order.Items), order.UserID)
	return order, nil
}

func (r *postgresOrderRepository) insertItemsTx(tx *sql.Tx, order *domain.Order) error {
	itemStmt, err := tx.Prepare(`
        INSERT INTO order_items (order_id, menu_item_id, quantity, note)
        VALUES ($1, $2, $3, $4)
        RETURNING id`)
	if err != nil {
		r.log.Errorf("Failed to prepare order item statement: %v", err)
		return fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer itemStmt.Close()

	optionStmt, err := tx.Prepare(`
        INSERT INTO order_item_options (order_item_id, option_id, name, price)
        VALUES ($1, $2, $3, $4)`)
	if err != nil {
		r.log.Errorf("Failed to prepare order item option statement: %v", err)
		return fmt.Errorf("could not prepare option statement: %w", err)
	}
	defer optionStmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		if err := itemStmt.QueryRow(order.ID, item.MenuItemID, item.Quantity, item.Note).Scan(&item.ID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
				return fmt.Errorf("invalid item data (menu_item_id: %d): %s", item.MenuItemID, pqErr.Message)
			}
			r.log.Errorf("Failed to insert order item (menu_item_id: %d) for order %d: %v", item.MenuItemID, order.ID, err)
			return fmt.Errorf("could not create order item (menu_item_id: %d): %w", item.MenuItemID, err)
		}
		for _, opt := range item.Options {
			if _, err := optionStmt.Exec(item.ID, opt.OptionID, opt.Name, opt.Price); err != nil {
				r.log.Errorf("Failed to insert option snapshot %d for order item %d: %v", opt.OptionID, item.ID, err)
				return fmt.Errorf("could not create order item option: %w", err)
			}
		}
	}
	return nil
}

func (r *postgresOrderRepository) GetOrderByID(id int64) (*domain.Order, error) {
	return r.getOrder(`SELECT id, user_id, table_id, status, total_price, reservation_time, created_at, updated_at
        FROM orders WHERE id = $1`, id)
}

func (r *postgresOrderRepository) GetOrderForUser(id, userID int64) (*domain.Order, error) {
	return r.getOrder(`SELECT id, user_id, table_id, status, total_price, reservation_time, created_at, updated_at
        FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *postgresOrderRepository) getOrder(query string, args ...interface{}) (*domain.Order, error) {
	order := &domain.Order{}
	var reservation sql.NullTime
	err := r.db.QueryRow(query, args...).Scan(
		&order.ID,
		&order.UserID,
		&order.TableID,
		&order.Status,
		&order.TotalPrice,
		&reservation,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %w", domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get order: %v", err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}
	if reservation.Valid {
		t := reservation.Time
		order.ReservationTime = &t
	}

	itemsMap, err := r.getItems([]int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsMap[order.ID]
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	return order, nil
}

// getItems loads line items and their option snapshots for several orders in
// two queries, keyed by order ID.
func (r *postgresOrderRepository) getItems(orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	itemsByOrder := make(map[int64][]domain.OrderItem)
	if len(orderIDs) == 0 {
		return itemsByOrder, nil
	}

	itemRows, err := r.db.Query(`
        SELECT id, order_id, menu_item_id, quantity, note
        FROM order_items
        WHERE order_id = ANY($1::bigint[])
        ORDER BY id`, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Failed to query order items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer itemRows.Close()

	type itemPos struct {
		orderID int64
		index   int
	}
	itemIDs := []int64{}
	itemIndex := make(map[int64]itemPos)
	for itemRows.Next() {
		var item domain.OrderItem
		var orderID int64
		if err := itemRows.Scan(&item.ID, &orderID, &item.MenuItemID, &item.Quantity, &item.Note); err != nil {
			r.log.Errorf("Failed to scan order item row: %v", err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		item.Options = []domain.OrderItemOption{}
		itemsByOrder[orderID] = append(itemsByOrder[orderID], item)
		itemIDs = append(itemIDs, item.ID)
		itemIndex[item.ID] = itemPos{orderID: orderID, index: len(itemsByOrder[orderID]) - 1}
	}
	if err = itemRows.Err(); err != nil {
		r.log.Errorf("Error during order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	if len(itemIDs) == 0 {
		return itemsByOrder, nil
	}

	optionRows, err := r.db.Query(`
        SELECT order_item_id, option_id, name, price
        FROM order_item_options
        WHERE order_item_id = ANY($1::bigint[])
        ORDER BY id`, pq.Array(itemIDs))
	if err != nil {
		r.log.Errorf("Failed to query order item options: %v", err)
		return nil, fmt.Errorf("could not retrieve order item options: %w", err)
	}
	defer optionRows.Close()

	for optionRows.Next() {
		var opt domain.OrderItemOption
		var itemID int64
		if err := optionRows.Scan(&itemID, &opt.OptionID, &opt.Name, &opt.Price); err != nil {
			r.log.Errorf("Failed to scan order item option row: %v", err)
			return nil, fmt.Errorf("error scanning order item option: %w", err)
		}
		if pos, ok := itemIndex[itemID]; ok {
			items := itemsByOrder[pos.orderID]
			items[pos.index].Options = append(items[pos.index].Options, opt)
		}
	}
	if err = optionRows.Err(); err != nil {
		r.log.Errorf("Error during order item options iteration: %v", err)
		return nil, fmt.Errorf("error iterating order item options: %w", err)
	}
	return itemsByOrder, nil
}

// ReplaceOrder rewrites an order's mutable fields and its full line item set
// in a single transaction. Used by content updates, which always carry a
// freshly validated item list and recomputed total.
func (r *postgresOrderRepository) ReplaceOrder(order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction for order replace: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Failed to commit order replace transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	query := `
        UPDATE orders
        SET table_id = $1, total_price = $2, reservation_time = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING user_id, status, created_at, updated_at`
	err = tx.QueryRow(query,
		order.TableID,
		order.TotalPrice,
		order.ReservationTime,
		order.ID,
	).Scan(&order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %d not found for replace", order.ID)
			return nil, fmt.Errorf("order with id %d %w", order.ID, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update order ID %d: %v", order.ID, err)
		return nil, fmt.Errorf("could not update order: %w", err)
	}

	if _, err = tx.Exec(`DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		r.log.Errorf("Failed to clear items for order %d: %v", order.ID, err)
		return nil, fmt.Errorf("could not replace order items: %w", err)
	}
	if err = r.insertItemsTx(tx, order); err != nil {
		return nil, err
	}

	r.log.Infof("Order %d replaced successfully with %d items", order.ID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(id int64, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING id`
	var updatedID int64
	err := r.db.QueryRow(query, status, id).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %d not found for status update", id)
			return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Invalid status value '%s' for order ID %d", status, id)
			return nil, fmt.Errorf("invalid order status provided: %s", status)
		}
		r.log.Errorf("Failed to update status for order ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	order, err := r.GetOrderByID(updatedID)
	if err != nil {
		return nil, fmt.Errorf("order status updated, but failed to reload order: %w", err)
	}
	r.log.Infof("Order status updated successfully for ID %d to '%s'", order.ID, order.Status)
	return order, nil
}

func (r *postgresOrderRepository) DeleteOrder(id int64) error {
	result, err := r.db.Exec(`DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete order ID %d: %v", id, err)
		return fmt.Errorf("could not delete order: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting order ID %d: %v", id, err)
		return fmt.Errorf("could not confirm order deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent order ID %d", id)
		return fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Order deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresOrderRepository) ListOrders(limit, offset int) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, table_id, status, total_price, reservation_time, created_at, updated_at
        FROM orders
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	return r.queryOrders(query, clampLimit(limit), clampOffset(offset))
}

func (r *postgresOrderRepository) ListOrdersByUserID(userID int64, limit, offset int) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, table_id, status, total_price, reservation_time, created_at, updated_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	return r.queryOrders(query, userID, clampLimit(limit), clampOffset(offset))
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func (r *postgresOrderRepository) queryOrders(query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []int64{}
	for rows.Next() {
		var order domain.Order
		var reservation sql.NullTime
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TableID,
			&order.Status,
			&order.TotalPrice,
			&reservation,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		if reservation.Valid {
			t := reservation.Time
			order.ReservationTime = &t
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	itemsMap, err := r.getItems(orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}

	r.log.Infof("Retrieved %d orders", len(orders))
	return orders, nil
}
