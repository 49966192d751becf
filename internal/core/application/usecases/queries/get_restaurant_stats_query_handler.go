package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetRestaurantStatsQueryHandler computes the manager dashboard in one aggregate query.
type GetRestaurantStatsQueryHandler struct {
	db *gorm.DB
}

func NewGetRestaurantStatsQueryHandler(db *gorm.DB) GetRestaurantStatsQueryHandler {
	return GetRestaurantStatsQueryHandler{db: db}
}

func (h GetRestaurantStatsQueryHandler) Handle(
	ctx context.Context,
	query GetRestaurantStatsQuery,
) (GetRestaurantStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRestaurantStatsQueryResponse{}, err
	}

	var stats GetRestaurantStatsQueryResponse
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_orders,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = ?), 0) AS revenue,
			COALESCE(MAX(currency), '') AS currency,
			COUNT(DISTINCT customer_id) AS unique_customers,
			COUNT(*) FILTER (WHERE review_reason <> '') AS flagged_for_review
		FROM orders
		WHERE restaurant_id = ?
	`, order.Paid.String(), query.RestaurantID().Bytes()).Scan(&stats).Error
	if err != nil {
		return GetRestaurantStatsQueryResponse{}, err
	}

	return stats, nil
}
