package domain

import "time"

// MenuItemOption is a named surcharge defined on a menu item, e.g. "extra
// cheese" at 2.00. Orders reference options by ID and snapshot name/price.
type MenuItemOption struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type MenuItem struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	ImageURL    string           `json:"image_url,omitempty"`
	Rating      float64          `json:"rating"`
	Options     []MenuItemOption `json:"options"`
	CategoryID  int64            `json:"category_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Option looks up an option defined on this menu item by its ID.
func (m *MenuItem) Option(optionID int64) (*MenuItemOption, bool) {
	for i := range m.Options {
		if m.Options[i].ID == optionID {
			return &m.Options[i], true
		}
	}
	return nil, false
}

type MenuItemRepository interface {
	CreateMenuItem(item *MenuItem) (*MenuItem, error)
	GetMenuItemByID(id int64) (*MenuItem, error)
	UpdateMenuItem(item *MenuItem) (*MenuItem, error)
	DeleteMenuItem(id int64) error
	ListMenuItems(limit, offset int) ([]MenuItem, error)
	ListMenuItemsByCategory(categoryID int64) ([]MenuItem, error)
	SearchMenuItemsByName(name string) ([]MenuItem, error)
	ListMenuItemsByRating(rating float64) ([]MenuItem, error)
	ListMenuItemsByPrice(price float64) ([]MenuItem, error)
}

type MenuItemInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	ImageURL    string           `json:"image_url"`
	Options     []MenuItemOption `json:"options"`
	CategoryID  int64            `json:"category_id"`
}

type MenuItemUseCase interface {
	CreateMenuItem(input MenuItemInput) (*MenuItem, error)
	GetMenuItemByID(id int64) (*MenuItem, error)
	UpdateMenuItem(id int64, input MenuItemInput) (*MenuItem, error)
	DeleteMenuItem(id int64) error
	ListMenuItems(limit, offset int) ([]MenuItem, error)
	ListMenuItemsByCategory(categoryID int64) ([]MenuItem, error)
	SearchMenuItemsByName(name string) ([]MenuItem, error)
	ListMenuItemsByRating(rating float64) ([]MenuItem, error)
	ListMenuItemsByPrice(price float64) ([]MenuItem, error)
}
