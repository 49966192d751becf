package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
)

// RestaurantCatalog reads restaurants and their menus, which are owned by another system.
type RestaurantCatalog interface {
	// Get returns the restaurant with its full menu.
	// Returns an error wrapping errs.ErrObjectNotFound when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error)
}
