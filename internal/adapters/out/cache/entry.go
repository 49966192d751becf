package cache

import (
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
)

type restaurantEntry struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Approval string          `json:"approval"`
	IsOpen   bool            `json:"isOpen"`
	Menu     []menuItemEntry `json:"menu"`
	Stamp    string          `json:"stamp"`
}

type menuItemEntry struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       moneyEntry      `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
	Toppings    []categoryEntry `json:"toppings,omitempty"`
}

type categoryEntry struct {
	Name    string        `json:"name"`
	Options []optionEntry `json:"options"`
}

type optionEntry struct {
	Name  string     `json:"name"`
	Price moneyEntry `json:"price"`
}

type moneyEntry struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func fromDomain(r *restaurant.Restaurant) restaurantEntry {
	entry := restaurantEntry{
		ID:       r.ID().String(),
		Name:     r.Name(),
		Approval: string(r.Approval()),
		IsOpen:   r.IsOpen(),
	}
	for _, item := range r.Menu() {
		itemEntry := menuItemEntry{
			ID:          item.ID().String(),
			Name:        item.Name(),
			Price:       moneyFromDomain(item.Price()),
			IsAvailable: item.IsAvailable(),
		}
		for _, category := range item.ToppingCategories() {
			c := categoryEntry{Name: category.Name}
			for _, option := range category.Options {
				c.Options = append(c.Options, optionEntry{Name: option.Name, Price: moneyFromDomain(option.Price)})
			}
			itemEntry.Toppings = append(itemEntry.Toppings, c)
		}
		entry.Menu = append(entry.Menu, itemEntry)
	}
	return entry
}

func (e restaurantEntry) toDomain() (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromString(e.ID)
	if err != nil {
		return nil, err
	}

	menu := make([]restaurant.MenuItem, 0, len(e.Menu))
	for _, itemEntry := range e.Menu {
		item, itemErr := itemEntry.toDomain()
		if itemErr != nil {
			return nil, itemErr
		}
		menu = append(menu, item)
	}

	return restaurant.NewRestaurant(id, e.Name, restaurant.ApprovalStatus(e.Approval), e.IsOpen, menu)
}

func (e menuItemEntry) toDomain() (restaurant.MenuItem, error) {
	id, err := kernel.UUIDFromString(e.ID)
	if err != nil {
		return restaurant.MenuItem{}, err
	}
	price, err := e.Price.toDomain()
	if err != nil {
		return restaurant.MenuItem{}, err
	}

	var categories []restaurant.ToppingCategory
	for _, c := range e.Toppings {
		category := restaurant.ToppingCategory{Name: c.Name}
		for _, o := range c.Options {
			optionPrice, priceErr := o.Price.toDomain()
			if priceErr != nil {
				return restaurant.MenuItem{}, priceErr
			}
			category.Options = append(category.Options, restaurant.ToppingOption{Name: o.Name, Price: optionPrice})
		}
		categories = append(categories, category)
	}

	return restaurant.NewMenuItem(id, e.Name, price, e.IsAvailable, categories)
}

func moneyFromDomain(m kernel.Money) moneyEntry {
	return moneyEntry{Amount: m.Amount(), Currency: m.Currency()}
}

func (m moneyEntry) toDomain() (kernel.Money, error) {
	return kernel.NewMoney(m.Amount, m.Currency)
}
