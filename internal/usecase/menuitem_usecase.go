package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type menuItemUseCase struct {
	menuRepo     domain.MenuItemRepository
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewMenuItemUseCase(
	menuRepo domain.MenuItemRepository,
	categoryRepo domain.CategoryRepository,
	logger *logrus.Logger,
) domain.MenuItemUseCase {
	return &menuItemUseCase{
		menuRepo:     menuRepo,
		categoryRepo: categoryRepo,
		log:          logger,
	}
}

func validateMenuItemInput(input *domain.MenuItemInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return errors.New("menu item name cannot be empty")
	}
	if input.Price < 0 {
		return errors.New("menu item price cannot be negative")
	}
	if input.CategoryID <= 0 {
		return errors.New("invalid category ID")
	}
	for i := range input.Options {
		input.Options[i].Name = strings.TrimSpace(input.Options[i].Name)
		if input.Options[i].Name == "" {
			return fmt.Errorf("option %d: name cannot be empty", i)
		}
		if input.Options[i].Price < 0 {
			return fmt.Errorf("option '%s': price cannot be negative", input.Options[i].Name)
		}
	}
	return nil
}

func (uc *menuItemUseCase) CreateMenuItem(input domain.MenuItemInput) (*domain.MenuItem, error) {
	if err := validateMenuItemInput(&input); err != nil {
		uc.log.Warnf("Use Case: Menu item validation failed: %v", err)
		return nil, err
	}
	if _, err := uc.categoryRepo.GetCategoryByID(input.CategoryID); err != nil {
		uc.log.Warnf("Use Case: Menu item creation failed - category %d: %v", input.CategoryID, err)
		return nil, err
	}

	item := &domain.MenuItem{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Options:     input.Options,
		CategoryID:  input.CategoryID,
	}
	if item.Options == nil {
		item.Options = []domain.MenuItemOption{}
	}

	created, err := uc.menuRepo.CreateMenuItem(item)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create menu item '%s': %v", input.Name, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Menu item created successfully with ID %d", created.ID)
	return created, nil
}

func (uc *menuItemUseCase) GetMenuItemByID(id int64) (*domain.MenuItem, error) {
	if id <= 0 {
		return nil, errors.New("invalid menu item ID")
	}
	return uc.menuRepo.GetMenuItemByID(id)
}

func (uc *menuItemUseCase) UpdateMenuItem(id int64, input domain.MenuItemInput) (*domain.MenuItem, error) {
	if id <= 0 {
		return nil, errors.New("invalid menu item ID")
	}
	if err := validateMenuItemInput(&input); err != nil {
		uc.log.Warnf("Use Case: Menu item validation failed: %v", err)
		return nil, err
	}
	if _, err := uc.categoryRepo.GetCategoryByID(input.CategoryID); err != nil {
		uc.log.Warnf("Use Case: Menu item update failed - category %d: %v", input.CategoryID, err)
		return nil, err
	}

	item := &domain.MenuItem{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Options:     input.Options,
		CategoryID:  input.CategoryID,
	}
	if item.Options == nil {
		item.Options = []domain.MenuItemOption{}
	}

	updated, err := uc.menuRepo.UpdateMenuItem(item)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update menu item %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Menu item %d updated successfully", id)
	return updated, nil
}

func (uc *menuItemUseCase) DeleteMenuItem(id int64) error {
	if id <= 0 {
		return errors.New("invalid menu item ID")
	}
	uc.log.Infof("Use Case: Deleting menu item ID: %d", id)
	return uc.menuRepo.DeleteMenuItem(id)
}

func (uc *menuItemUseCase) ListMenuItems(limit, offset int) ([]domain.MenuItem, error) {
	return uc.menuRepo.ListMenuItems(limit, offset)
}

func (uc *menuItemUseCase) ListMenuItemsByCategory(categoryID int64) ([]domain.MenuItem, error) {
	if categoryID <= 0 {
		return nil, errors.New("invalid category ID")
	}
	return uc.menuRepo.ListMenuItemsByCategory(categoryID)
}

func (uc *menuItemUseCase) SearchMenuItemsByName(name string) ([]domain.MenuItem, error) {
	return uc.menuRepo.SearchMenuItemsByName(strings.TrimSpace(name))
}

func (uc *menuItemUseCase) ListMenuItemsByRating(rating float64) ([]domain.MenuItem, error) {
	return uc.menuRepo.ListMenuItemsByRating(rating)
}

func (uc *menuItemUseCase) ListMenuItemsByPrice(price float64) ([]domain.MenuItem, error) {
	return uc.menuRepo.ListMenuItemsByPrice(price)
}
