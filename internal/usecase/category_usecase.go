package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type categoryUseCase struct {
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewCategoryUseCase(repo domain.CategoryRepository, logger *logrus.Logger) domain.CategoryUseCase {
	return &categoryUseCase{
		categoryRepo: repo,
		log:          logger,
	}
}

func (uc *categoryUseCase) CreateCategory(name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name cannot be empty")
	}
	uc.log.Infof("Use Case: Creating category '%s'", name)
	return uc.categoryRepo.CreateCategory(&domain.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
	})
}

func (uc *categoryUseCase) GetCategoryByID(id int64) (*domain.Category, error) {
	if id <= 0 {
		return nil, errors.New("invalid category ID")
	}
	return uc.categoryRepo.GetCategoryByID(id)
}

func (uc *categoryUseCase) UpdateCategory(id int64, update domain.CategoryUpdate) (*domain.Category, error) {
	if id <= 0 {
		return nil, errors.New("invalid category ID")
	}
	category, err := uc.categoryRepo.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, errors.New("category name cannot be empty")
		}
		category.Name = name
	}
	if update.Description != nil {
		category.Description = strings.TrimSpace(*update.Description)
	}

	updated, err := uc.categoryRepo.UpdateCategory(category)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update category %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Category %d updated successfully", id)
	return updated, nil
}

// DeleteCategory refuses to remove a category that still has menu items, so
// the menu never ends up with dangling references.
func (uc *categoryUseCase) DeleteCategory(id int64) error {
	if id <= 0 {
		return errors.New("invalid category ID")
	}
	count, err := uc.categoryRepo.CountMenuItems(id)
	if err != nil {
		return err
	}
	if count > 0 {
		uc.log.Warnf("Use Case: Refusing to delete category %d with %d menu items", id, count)
		return fmt.Errorf("category has menu items, delete them first: %w", domain.ErrInvalidState)
	}
	uc.log.Infof("Use Case: Deleting category ID: %d", id)
	return uc.categoryRepo.DeleteCategory(id)
}

func (uc *categoryUseCase) ListCategories() ([]domain.Category, error) {
	return uc.categoryRepo.ListCategories()
}
