package catalogrepo

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRestaurantCatalog implements ports.RestaurantCatalog over the catalog tables.
type GormRestaurantCatalog struct {
	db *gorm.DB
}

func NewGormRestaurantCatalog(db *gorm.DB) *GormRestaurantCatalog {
	return &GormRestaurantCatalog{db: db}
}

// Get loads a restaurant with its full menu, in menu order.
func (c *GormRestaurantCatalog) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RestaurantDTO
	err := c.db.WithContext(ctx).
		Preload("Menu", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Menu.Toppings", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// stampQuery fingerprints every column checkout depends on, across the
// restaurant, its menu items and their toppings.
const stampQuery = `
SELECT md5(concat_ws('|', r.name, r.approval, r.is_open, r.currency,
	(SELECT string_agg(concat_ws(',', m.id, m.position, m.name, m.price, m.is_available), ';' ORDER BY m.id)
		FROM menu_items m WHERE m.restaurant_id = r.id),
	(SELECT string_agg(concat_ws(',', t.menu_item_id, t.position, t.category, t.name, t.price), ';'
			ORDER BY t.menu_item_id, t.position, t.id)
		FROM menu_toppings t JOIN menu_items m ON m.id = t.menu_item_id WHERE m.restaurant_id = r.id)
)) AS stamp
FROM restaurants r
WHERE r.id = ?`

// Stamp returns a fingerprint of the restaurant's current rows. It changes
// whenever anything Get would return changes, whoever wrote the rows.
func (c *GormRestaurantCatalog) Stamp(ctx context.Context, id kernel.UUID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}

	var rows []struct{ Stamp string }
	if err := c.db.WithContext(ctx).Raw(stampQuery, id.Bytes()).Scan(&rows).Error; err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errs.NewObjectNotFoundError("restaurant", id.String())
	}
	return rows[0].Stamp, nil
}

// Save replaces a restaurant and its menu.
func (c *GormRestaurantCatalog) Save(ctx context.Context, r *restaurant.Restaurant) error {
	if err := r.Validate(); err != nil {
		return err
	}

	dto := fromDomain(r)
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", dto.ID).Delete(&RestaurantDTO{}).Error; err != nil {
			return err
		}
		return tx.Create(&dto).Error
	})
}
