package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetShipperOrdersQueryHandler serves the shipper's delivery list.
type GetShipperOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetShipperOrdersQueryHandler(db *gorm.DB) GetShipperOrdersQueryHandler {
	return GetShipperOrdersQueryHandler{db: db}
}

func (h GetShipperOrdersQueryHandler) Handle(ctx context.Context, query GetShipperOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return findOrderViews(ctx, h.db, func(db *gorm.DB) *gorm.DB {
		db = db.Where("shipper_id = ?", query.ShipperID().Bytes())
		if status, ok := query.Status(); ok {
			db = db.Where("status = ?", int(status))
		}
		return db
	})
}
