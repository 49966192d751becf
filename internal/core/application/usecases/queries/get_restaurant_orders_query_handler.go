package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetRestaurantOrdersQueryHandler serves the seller and manager order board.
type GetRestaurantOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetRestaurantOrdersQueryHandler(db *gorm.DB) GetRestaurantOrdersQueryHandler {
	return GetRestaurantOrdersQueryHandler{db: db}
}

func (h GetRestaurantOrdersQueryHandler) Handle(ctx context.Context, query GetRestaurantOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return findOrderViews(ctx, h.db, func(db *gorm.DB) *gorm.DB {
		return db.Where("restaurant_id = ?", query.RestaurantID().Bytes())
	})
}
