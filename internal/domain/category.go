package domain

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CategoryRepository interface {
	CreateCategory(category *Category) (*Category, error)
	GetCategoryByID(id int64) (*Category, error)
	UpdateCategory(category *Category) (*Category, error)
	DeleteCategory(id int64) error
	ListCategories() ([]Category, error)
	CountMenuItems(categoryID int64) (int, error)
}

type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryUseCase interface {
	CreateCategory(name, description string) (*Category, error)
	GetCategoryByID(id int64) (*Category, error)
	UpdateCategory(id int64, update CategoryUpdate) (*Category, error)
	DeleteCategory(id int64) error
	ListCategories() ([]Category, error)
}
