// Package queries contains read-only operations that serve the role-scoped
// order views. Handlers read the order tables directly through GORM and never
// load aggregates; write-side invariants are not needed to display an order.
package queries

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderView is an order as shown to customers, restaurant staff and shippers.
// Amounts are in minor units of Currency.
type OrderView struct {
	ID               kernel.UUID
	CustomerID       kernel.UUID
	RestaurantID     kernel.UUID
	ShipperID        *kernel.UUID
	Status           order.Status
	PaymentMethod    order.PaymentMethod
	PaymentStatus    order.PaymentStatus
	Currency         string
	TotalAmount      int64
	PaidAmount       *int64
	FlaggedForReview bool
	ReviewReason     string
	Delivery         DeliveryView
	Items            []OrderItemView
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type DeliveryView struct {
	Name         string
	Email        string
	Phone        string
	AddressLine1 string
	Street       string
	Ward         string
	District     string
	City         string
	Country      string
}

type OrderItemView struct {
	MenuItemID kernel.UUID
	Name       string
	Quantity   int
	UnitPrice  int64
	LineTotal  int64
	Toppings   []ToppingView
}

type ToppingView struct {
	Category string
	Name     string
	Price    int64
}

type orderRow struct {
	ID                   uuid.UUID
	CustomerID           uuid.UUID
	RestaurantID         uuid.UUID
	ShipperID            *uuid.UUID
	Currency             string
	TotalAmount          int64
	DeliveryName         string
	DeliveryEmail        string
	DeliveryPhone        string
	DeliveryAddressLine1 string
	DeliveryStreet       string
	DeliveryWard         string
	DeliveryDistrict     string
	DeliveryCity         string
	DeliveryCountry      string
	PaymentMethod        string
	PaymentStatus        string
	PaidAmount           *int64
	ReviewReason         string
	Status               int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type itemRow struct {
	ID         uint
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	Quantity   int
	UnitPrice  int64
	LineTotal  int64
}

type toppingRow struct {
	OrderItemID uint
	Category    string
	Name        string
	Price       int64
}

// findOrderViews loads the orders matching scope, newest first, with their items.
func findOrderViews(ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]OrderView, error) {
	db = db.WithContext(ctx)

	var rows []orderRow
	if err := scope(db.Table("orders")).Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.ID)
	}

	var items []itemRow
	if err := db.Table("order_items").Where("order_id IN ?", orderIDs).Order("order_id, position").Find(&items).Error; err != nil {
		return nil, err
	}

	itemIDs := make([]uint, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	var toppings []toppingRow
	if len(itemIDs) > 0 {
		if err := db.Table("order_item_toppings").Where("order_item_id IN ?", itemIDs).
			Order("order_item_id, position").Find(&toppings).Error; err != nil {
			return nil, err
		}
	}

	toppingsByItem := make(map[uint][]ToppingView, len(items))
	for _, t := range toppings {
		toppingsByItem[t.OrderItemID] = append(toppingsByItem[t.OrderItemID], ToppingView{
			Category: t.Category,
			Name:     t.Name,
			Price:    t.Price,
		})
	}

	itemsByOrder := make(map[uuid.UUID][]OrderItemView, len(rows))
	for _, item := range items {
		menuItemID, err := kernel.UUIDFromBytes(item.MenuItemID[:])
		if err != nil {
			return nil, err
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], OrderItemView{
			MenuItemID: menuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			LineTotal:  item.LineTotal,
			Toppings:   toppingsByItem[item.ID],
		})
	}

	for _, row := range rows {
		view, err := row.toView(itemsByOrder[row.ID])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (r orderRow) toView(items []OrderItemView) (OrderView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return OrderView{}, err
	}
	customerID, err := kernel.UUIDFromBytes(r.CustomerID[:])
	if err != nil {
		return OrderView{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(r.RestaurantID[:])
	if err != nil {
		return OrderView{}, err
	}

	var shipperID *kernel.UUID
	if r.ShipperID != nil {
		sID, shipperErr := kernel.UUIDFromBytes((*r.ShipperID)[:])
		if shipperErr != nil {
			return OrderView{}, shipperErr
		}
		shipperID = &sID
	}

	if items == nil {
		items = make([]OrderItemView, 0)
	}

	return OrderView{
		ID:               id,
		CustomerID:       customerID,
		RestaurantID:     restaurantID,
		ShipperID:        shipperID,
		Status:           order.Status(r.Status),
		PaymentMethod:    order.PaymentMethod(r.PaymentMethod),
		PaymentStatus:    order.PaymentStatus(r.PaymentStatus),
		Currency:         r.Currency,
		TotalAmount:      r.TotalAmount,
		PaidAmount:       r.PaidAmount,
		FlaggedForReview: r.ReviewReason != "",
		ReviewReason:     r.ReviewReason,
		Delivery: DeliveryView{
			Name:         r.DeliveryName,
			Email:        r.DeliveryEmail,
			Phone:        r.DeliveryPhone,
			AddressLine1: r.DeliveryAddressLine1,
			Street:       r.DeliveryStreet,
			Ward:         r.DeliveryWard,
			District:     r.DeliveryDistrict,
			City:         r.DeliveryCity,
			Country:      r.DeliveryCountry,
		},
		Items:     items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}
