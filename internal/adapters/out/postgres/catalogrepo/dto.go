// Package catalogrepo reads restaurants and their menus from the catalog tables.
// The tables are written by the restaurant management system; this service only
// needs them to price carts, so Save exists for seeding and tests.
package catalogrepo

import (
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
)

type RestaurantDTO struct {
	ID       uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name     string        `gorm:"not null"`
	Approval string        `gorm:"size:16;not null"`
	IsOpen   bool          `gorm:"not null"`
	Currency string        `gorm:"size:3;not null"`
	Menu     []MenuItemDTO `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

type MenuItemDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position     int       `gorm:"not null"`
	Name         string    `gorm:"not null"`
	Price        int64     `gorm:"not null"`
	IsAvailable  bool      `gorm:"not null"`

	Toppings []MenuToppingDTO `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

// MenuToppingDTO is one option of a topping category, flattened.
type MenuToppingDTO struct {
	ID         uint      `gorm:"primaryKey"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position   int       `gorm:"not null"`
	Category   string    `gorm:"not null"`
	Name       string    `gorm:"not null"`
	Price      int64     `gorm:"not null"`
}

func (MenuToppingDTO) TableName() string {
	return "menu_toppings"
}

// Models lists every table owned by this package, for AutoMigrate.
func Models() []any {
	return []any{&RestaurantDTO{}, &MenuItemDTO{}, &MenuToppingDTO{}}
}

func fromDomain(r *restaurant.Restaurant) RestaurantDTO {
	dto := RestaurantDTO{
		ID:       r.ID().Bytes(),
		Name:     r.Name(),
		Approval: string(r.Approval()),
		IsOpen:   r.IsOpen(),
	}

	for i, item := range r.Menu() {
		dto.Currency = item.Price().Currency()
		itemDTO := MenuItemDTO{
			ID:           item.ID().Bytes(),
			RestaurantID: dto.ID,
			Position:     i,
			Name:         item.Name(),
			Price:        item.Price().Amount(),
			IsAvailable:  item.IsAvailable(),
		}
		position := 0
		for _, category := range item.ToppingCategories() {
			for _, option := range category.Options {
				itemDTO.Toppings = append(itemDTO.Toppings, MenuToppingDTO{
					MenuItemID: itemDTO.ID,
					Position:   position,
					Category:   category.Name,
					Name:       option.Name,
					Price:      option.Price.Amount(),
				})
				position++
			}
		}
		dto.Menu = append(dto.Menu, itemDTO)
	}

	return dto
}

func toDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	menu := make([]restaurant.MenuItem, 0, len(dto.Menu))
	for _, itemDTO := range dto.Menu {
		item, itemErr := menuItemToDomain(itemDTO, dto.Currency)
		if itemErr != nil {
			return nil, itemErr
		}
		menu = append(menu, item)
	}

	return restaurant.NewRestaurant(id, dto.Name, restaurant.ApprovalStatus(dto.Approval), dto.IsOpen, menu)
}

func menuItemToDomain(dto MenuItemDTO, currency string) (restaurant.MenuItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return restaurant.MenuItem{}, err
	}
	price, err := kernel.NewMoney(dto.Price, currency)
	if err != nil {
		return restaurant.MenuItem{}, err
	}

	// Options arrive ordered by position; consecutive rows of one category form one group.
	var categories []restaurant.ToppingCategory
	for _, t := range dto.Toppings {
		optionPrice, priceErr := kernel.NewMoney(t.Price, currency)
		if priceErr != nil {
			return restaurant.MenuItem{}, priceErr
		}
		option := restaurant.ToppingOption{Name: t.Name, Price: optionPrice}
		if n := len(categories); n > 0 && categories[n-1].Name == t.Category {
			categories[n-1].Options = append(categories[n-1].Options, option)
			continue
		}
		categories = append(categories, restaurant.ToppingCategory{Name: t.Category, Options: []restaurant.ToppingOption{option}})
	}

	return restaurant.NewMenuItem(id, dto.Name, price, dto.IsAvailable, categories)
}
