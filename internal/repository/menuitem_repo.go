package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type postgresMenuItemRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresMenuItemRepository(db *sql.DB, logger *logrus.Logger) domain.MenuItemRepository {
	return &postgresMenuItemRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresMenuItemRepository) CreateMenuItem(item *domain.MenuItem) (*domain.MenuItem, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
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

	query := `
        INSERT INTO menu_items (name, description, price, image_url, category_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, rating, created_at, updated_at`
	err = tx.QueryRow(query,
		item.Name,
		item.Description,
		item.Price,
		item.ImageURL,
		item.CategoryID,
	).Scan(&item.ID, &item.Rating, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create duplicate menu item '%s'", item.Name)
			return nil, fmt.Errorf("menu item with name '%s' %w", item.Name, domain.ErrDuplicate)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to create menu item with non-existent category ID: %d", item.CategoryID)
			return nil, fmt.Errorf("category with id %d %w", item.CategoryID, domain.ErrNotFound)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return nil, fmt.Errorf("invalid menu item data: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to create menu item '%s': %v", item.Name, err)
		return nil, fmt.Errorf("could not create menu item: %w", err)
	}

	if err = r.insertOptionsTx(tx, item); err != nil {
		return nil, err
	}

	r.log.Infof("Menu item created successfully with ID: %d, Name: %s", item.ID, item.Name)
	return item, nil
}

func (r *postgresMenuItemRepository) insertOptionsTx(tx *sql.Tx, item *domain.MenuItem) error {
	if len(item.Options) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT INTO menu_item_options (menu_item_id, name, price) VALUES ($1, $2, $3) RETURNING id`)
	if err != nil {
		r.log.Errorf("Failed to prepare option statement: %v", err)
		return fmt.Errorf("could not prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i := range item.Options {
		opt := &item.Options[i]
		if err := stmt.QueryRow(item.ID, opt.Name, opt.Price).Scan(&opt.ID); err != nil {
			r.log.Errorf("Failed to insert option '%s' for menu item %d: %v", opt.Name, item.ID, err)
			return fmt.Errorf("could not create menu item option '%s': %w", opt.Name, err)
		}
	}
	return nil
}

func (r *postgresMenuItemRepository) GetMenuItemByID(id int64) (*domain.MenuItem, error) {
	item := &domain.MenuItem{}
	query := `
        SELECT id, name, description, price, image_url, rating, category_id, created_at, updated_at
        FROM menu_items
        WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.ImageURL,
		&item.Rating,
		&item.CategoryID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Menu item with ID %d not found", id)
			return nil, fmt.Errorf("menu item with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get menu item by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve menu item: %w", err)
	}

	options, err := r.getOptions([]int64{id})
	if err != nil {
		return nil, err
	}
	item.Options = options[id]
	if item.Options == nil {
		item.Options = []domain.MenuItemOption{}
	}
	return item, nil
}

// getOptions loads the options of several menu items in one query.
func (r *postgresMenuItemRepository) getOptions(menuItemIDs []int64) (map[int64][]domain.MenuItemOption, error) {
	optionsMap := make(map[int64][]domain.MenuItemOption)
	if len(menuItemIDs) == 0 {
		return optionsMap, nil
	}

	query := `
        SELECT id, menu_item_id, name, price
        FROM menu_item_options
        WHERE menu_item_id = ANY($1::bigint[])
        ORDER BY id`
	rows, err := r.db.Query(query, pq.Array(menuItemIDs))
	if err != nil {
		r.log.Errorf("Failed to query options for menu items %v: %v", menuItemIDs, err)
		return nil, fmt.Errorf("could not retrieve menu item options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt domain.MenuItemOption
		var menuItemID int64
		if err := rows.Scan(&opt.ID, &menuItemID, &opt.Name, &opt.Price); err != nil {
			r.log.Errorf("Failed to scan menu item option row: %v", err)
			return nil, fmt.Errorf("error scanning menu item option: %w", err)
		}
		optionsMap[menuItemID] = append(optionsMap[menuItemID], opt)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during menu item options iteration: %v", err)
		return nil, fmt.Errorf("error iterating menu item options: %w", err)
	}
	return optionsMap, nil
}

func (r *postgresMenuItemRepository) UpdateMenuItem(item *domain.MenuItem) (*domain.MenuItem, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction for menu item update: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
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

	query := `
        UPDATE menu_items
        SET name = $1, description = $2, price = $3, image_url = $4, category_id = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING rating, created_at, updated_at`
	err = tx.QueryRow(query,
		item.Name,
		item.Description,
		item.Price,
		item.ImageURL,
		item.CategoryID,
		item.ID,
	).Scan(&item.Rating, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Menu item with ID %d not found for update", item.ID)
			return nil, fmt.Errorf("menu item with id %d %w", item.ID, domain.ErrNotFound)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("menu item with name '%s' %w", item.Name, domain.ErrDuplicate)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("category with id %d %w", item.CategoryID, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update menu item ID %d: %v", item.ID, err)
		return nil, fmt.Errorf("could not update menu item: %w", err)
	}

	// Options are replaced wholesale on every update.
	if _, err = tx.Exec(`DELETE FROM menu_item_options WHERE menu_item_id = $1`, item.ID); err != nil {
		r.log.Errorf("Failed to clear options for menu item %d: %v", item.ID, err)
		return nil, fmt.Errorf("could not replace menu item options: %w", err)
	}
	if err = r.insertOptionsTx(tx, item); err != nil {
		return nil, err
	}

	r.log.Infof("Menu item updated successfully with ID: %d", item.ID)
	return item, nil
}

func (r *postgresMenuItemRepository) DeleteMenuItem(id int64) error {
	result, err := r.db.Exec(`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete menu item ID %d: %v", id, err)
		return fmt.Errorf("could not delete menu item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting menu item ID %d: %v", id, err)
		return fmt.Errorf("could not confirm menu item deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent menu item ID %d", id)
		return fmt.Errorf("menu item with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Menu item deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresMenuItemRepository) ListMenuItems(limit, offset int) ([]domain.MenuItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
        SELECT id, name, description, price, image_url, rating, category_id, created_at, updated_at
        FROM menu_items
        ORDER BY id ASC
        LIMIT $1 OFFSET $2`
	return r.queryMenuItems(query, limit, offset)
}

func (r *postgresMenuItemRepository) ListMenuItemsByCategory(categoryID int64) ([]domain.MenuItem, error) {
	query := `
        SELECT id, name, description, price, image_url, rating, category_id, created_at, updated_at
        FROM menu_items
        WHERE category_id = $1
        ORDER BY id ASC`
	return r.queryMenuItems(query, categoryID)
}

func (r *postgresMenuItemRepository) SearchMenuItemsByName(name string) ([]domain.MenuItem, error) {
	query := `
        SELECT id, name, description, price, image_url, rating, category_id, created_at, updated_at
        FROM menu_items
        WHERE name ILIKE '%' || $1 || '%'
        ORDER BY id ASC`
	return r.queryMenuItems(query, name)
}

func (r *postgresMenuItemRepository) ListMenuItemsByRating(rating float64) ([]domain.MenuItem, error) {
	query := `
        SELECT id, name, description, price, image_url, rating, category_id, created_at, updated_at
        FROM menu_items
        WHERE rating = $1
        ORDER BY id ASC`
	return r.queryMenuItems(query, rating)
}

func (r *postgresMenuItemRepository) ListMenuItemsByPrice(price float64) ([]domain.MenuItem, error) {
	query := `
        SELECT id, name, description, price, image_url, rating, category_id, created_at, updated_at
        FROM menu_items
        WHERE price = $1
        ORDER BY id ASC`
	return r.queryMenuItems(query, price)
}

func (r *postgresMenuItemRepository) queryMenuItems(query string, args ...interface{}) ([]domain.MenuItem, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to query menu items: %v", err)
		return nil, fmt.Errorf("could not list menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	ids := []int64{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.ImageURL,
			&item.Rating,
			&item.CategoryID,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan menu item row: %v", err)
			return nil, fmt.Errorf("error scanning menu item data: %w", err)
		}
		items = append(items, item)
		ids = append(ids, item.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during menu items iteration: %v", err)
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	optionsMap, err := r.getOptions(ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if options, ok := optionsMap[items[i].ID]; ok {
			items[i].Options = options
		} else {
			items[i].Options = []domain.MenuItemOption{}
		}
	}

	r.log.Infof("Retrieved %d menu items", len(items))
	return items, nil
}
