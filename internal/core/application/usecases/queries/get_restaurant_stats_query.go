package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetRestaurantStatsQueryIsNotConstructed = errors.New(
	"GetRestaurantStatsQuery must be created via NewGetRestaurantStatsQuery constructor",
)

// GetRestaurantStatsQuery summarises a restaurant's orders for its manager.
type GetRestaurantStatsQuery struct { //nolint:recvcheck //using for validation
	restaurantID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetRestaurantStatsQuery(restaurantID kernel.UUID) (GetRestaurantStatsQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return GetRestaurantStatsQuery{}, err
	}
	return GetRestaurantStatsQuery{restaurantID: restaurantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRestaurantStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetRestaurantStatsQueryIsNotConstructed)
}

func (q GetRestaurantStatsQuery) RestaurantID() kernel.UUID { return q.restaurantID }

// GetRestaurantStatsQueryResponse holds the dashboard figures.
// Revenue counts paid orders only, in minor units of Currency.
type GetRestaurantStatsQueryResponse struct {
	TotalOrders      int64
	Revenue          int64
	Currency         string
	UniqueCustomers  int64
	FlaggedForReview int64
}
