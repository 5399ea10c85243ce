package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type postgresCategoryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCategoryRepository(db *sql.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCategoryRepository) CreateCategory(category *domain.Category) (*domain.Category, error) {
	query := `
        INSERT INTO categories (name, description)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, category.Name, category.Description).Scan(
		&category.ID,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create duplicate category '%s'", category.Name)
			return nil, fmt.Errorf("category with name '%s' %w", category.Name, domain.ErrDuplicate)
		}
		r.log.Errorf("Failed to create category '%s': %v", category.Name, err)
		return nil, fmt.Errorf("could not create category: %w", err)
	}
	r.log.Infof("Category created successfully with ID: %d, Name: %s", category.ID, category.Name)
	return category, nil
}

func (r *postgresCategoryRepository) GetCategoryByID(id int64) (*domain.Category, error) {
	category := &domain.Category{}
	query := `SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Category with ID %d not found", id)
			return nil, fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get category by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve category: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) UpdateCategory(category *domain.Category) (*domain.Category, error) {
	query := `
        UPDATE categories
        SET name = $1, description = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING updated_at`
	err := r.db.QueryRow(query, category.Name, category.Description, category.ID).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Category with ID %d not found for update", category.ID)
			return nil, fmt.Errorf("category with id %d %w", category.ID, domain.ErrNotFound)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("category with name '%s' %w", category.Name, domain.ErrDuplicate)
		}
		r.log.Errorf("Failed to update category ID %d: %v", category.ID, err)
		return nil, fmt.Errorf("could not update category: %w", err)
	}
	r.log.Infof("Category updated successfully with ID: %d", category.ID)
	return category, nil
}

func (r *postgresCategoryRepository) DeleteCategory(id int64) error {
	result, err := r.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete category ID %d: %v", id, err)
		return fmt.Errorf("could not delete category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting category ID %d: %v", id, err)
		return fmt.Errorf("could not confirm category deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent category ID %d", id)
		return fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Category deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresCategoryRepository) ListCategories() ([]domain.Category, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY id ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan category row: %v", err)
			return nil, fmt.Errorf("error scanning category data: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during categories iteration: %v", err)
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	r.log.Infof("Retrieved %d categories", len(categories))
	return categories, nil
}

func (r *postgresCategoryRepository) CountMenuItems(categoryID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM menu_items WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		r.log.Errorf("Failed to count menu items for category %d: %v", categoryID, err)
		return 0, fmt.Errorf("could not count menu items: %w", err)
	}
	return count, nil
}
