// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexes back the role-scoped views (customer, restaurant, shipper) and the
// webhook lookup by payment reference, which is unique when present.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ShipperID    *uuid.UUID `gorm:"type:uuid;index"`

	Items       []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Currency    string         `gorm:"size:3;not null"`
	TotalAmount int64          `gorm:"not null"`
	Delivery    DeliveryDTO    `gorm:"embedded;embeddedPrefix:delivery_"`

	PaymentMethod      string  `gorm:"size:16;not null"`
	PaymentStatus      string  `gorm:"size:16;not null;index"`
	PaymentReference   *string `gorm:"uniqueIndex"`
	PaymentRedirectURL string
	PaidAmount         *int64
	ReviewReason       string
	Status             int `gorm:"not null;index"`

	Version   int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// DeliveryDTO is the recipient and address embedded in the order row.
type DeliveryDTO struct {
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

// OrderItemDTO is one priced cart line. Position keeps the cart order.
type OrderItemDTO struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Position   int       `gorm:"not null"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null"`
	Name       string    `gorm:"not null"`
	Quantity   int       `gorm:"not null"`
	UnitPrice  int64     `gorm:"not null"`
	LineTotal  int64     `gorm:"not null"`

	Toppings []OrderItemToppingDTO `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

type OrderItemToppingDTO struct {
	ID          uint   `gorm:"primaryKey"`
	OrderItemID uint   `gorm:"not null;index"`
	Position    int    `gorm:"not null"`
	Category    string `gorm:"not null"`
	Name        string `gorm:"not null"`
	Price       int64  `gorm:"not null"`
}

func (OrderItemToppingDTO) TableName() string {
	return "order_item_toppings"
}

// OrderChangeDTO is one append-only history row.
type OrderChangeDTO struct {
	ID        uint       `gorm:"primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind      string     `gorm:"size:32;not null"`
	FromValue string     `gorm:"column:from_value"`
	ToValue   string     `gorm:"column:to_value"`
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	ActorRole string     `gorm:"size:32"`
	At        time.Time  `gorm:"not null"`
}

func (OrderChangeDTO) TableName() string {
	return "order_history"
}

// Models lists every table owned by this package, for AutoMigrate.
func Models() []any {
	return []any{&OrderDTO{}, &OrderItemDTO{}, &OrderItemToppingDTO{}, &OrderChangeDTO{}}
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	details := o.DeliveryDetails()
	address := details.Address()

	dto := OrderDTO{
		ID:           o.ID().Bytes(),
		CustomerID:   o.CustomerID().Bytes(),
		RestaurantID: o.RestaurantID().Bytes(),
		ShipperID:    optionalUUID(o.ShipperID()),
		Currency:     o.TotalAmount().Currency(),
		TotalAmount:  o.TotalAmount().Amount(),
		Delivery: DeliveryDTO{
			Name:         details.Name(),
			Email:        details.Email(),
			Phone:        details.Phone(),
			AddressLine1: address.AddressLine1(),
			Street:       address.Street(),
			Ward:         address.Ward(),
			District:     address.District(),
			City:         address.City(),
			Country:      address.Country(),
		},
		PaymentMethod:      o.PaymentMethod().String(),
		PaymentStatus:      o.PaymentStatus().String(),
		PaymentRedirectURL: o.PaymentRedirectURL(),
		ReviewReason:       o.ReviewReason(),
		Status:             int(o.Status()),
		Version:            o.Version(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
	if ref := o.PaymentReference(); ref != "" {
		dto.PaymentReference = &ref
	}
	if paid := o.PaidAmount(); paid != nil {
		amount := paid.Amount()
		dto.PaidAmount = &amount
	}

	for i, item := range o.Items() {
		itemDTO := OrderItemDTO{
			OrderID:    dto.ID,
			Position:   i,
			MenuItemID: item.MenuItemID().Bytes(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Amount(),
			LineTotal:  item.LineTotal().Amount(),
		}
		for j, topping := range item.Toppings() {
			itemDTO.Toppings = append(itemDTO.Toppings, OrderItemToppingDTO{
				Position: j,
				Category: topping.Category(),
				Name:     topping.Name(),
				Price:    topping.Price().Amount(),
			})
		}
		dto.Items = append(dto.Items, itemDTO)
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Line totals and the order total are recomputed by the domain from unit prices.
func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := uuids(dto.ID, dto.CustomerID, dto.RestaurantID)
	if err != nil {
		return nil, err
	}

	var shipperID *kernel.UUID
	if dto.ShipperID != nil {
		id, shipperErr := kernel.UUIDFromBytes((*dto.ShipperID)[:])
		if shipperErr != nil {
			return nil, shipperErr
		}
		shipperID = &id
	}

	items := make([]order.CartItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO, dto.Currency)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	address, err := kernel.NewAddress(
		dto.Delivery.AddressLine1,
		dto.Delivery.Street,
		dto.Delivery.Ward,
		dto.Delivery.District,
		dto.Delivery.City,
		dto.Delivery.Country,
	)
	if err != nil {
		return nil, err
	}
	details, err := order.NewDeliveryDetails(dto.Delivery.Name, dto.Delivery.Email, dto.Delivery.Phone, address)
	if err != nil {
		return nil, err
	}

	var paidAmount *kernel.Money
	if dto.PaidAmount != nil {
		paid, paidErr := kernel.NewMoney(*dto.PaidAmount, dto.Currency)
		if paidErr != nil {
			return nil, paidErr
		}
		paidAmount = &paid
	}

	reference := ""
	if dto.PaymentReference != nil {
		reference = *dto.PaymentReference
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 ids[0],
		CustomerID:         ids[1],
		RestaurantID:       ids[2],
		Items:              items,
		DeliveryDetails:    details,
		PaymentMethod:      order.PaymentMethod(dto.PaymentMethod),
		PaymentStatus:      order.PaymentStatus(dto.PaymentStatus),
		Status:             order.Status(dto.Status),
		ShipperID:          shipperID,
		PaymentReference:   reference,
		PaymentRedirectURL: dto.PaymentRedirectURL,
		PaidAmount:         paidAmount,
		ReviewReason:       dto.ReviewReason,
		Version:            dto.Version,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	})
}

func itemToDomain(dto OrderItemDTO, currency string) (order.CartItem, error) {
	menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
	if err != nil {
		return order.CartItem{}, err
	}
	unitPrice, err := kernel.NewMoney(dto.UnitPrice, currency)
	if err != nil {
		return order.CartItem{}, err
	}

	toppings := make([]order.Topping, 0, len(dto.Toppings))
	for _, t := range dto.Toppings {
		price, priceErr := kernel.NewMoney(t.Price, currency)
		if priceErr != nil {
			return order.CartItem{}, priceErr
		}
		topping, toppingErr := order.NewTopping(t.Category, t.Name, price)
		if toppingErr != nil {
			return order.CartItem{}, toppingErr
		}
		toppings = append(toppings, topping)
	}

	return order.NewCartItem(menuItemID, dto.Name, dto.Quantity, unitPrice, toppings)
}

func changesFromDomain(orderID uuid.UUID, changes []order.Change) []OrderChangeDTO {
	dtos := make([]OrderChangeDTO, 0, len(changes))
	for _, c := range changes {
		dtos = append(dtos, OrderChangeDTO{
			OrderID:   orderID,
			Kind:      string(c.Kind),
			FromValue: c.From,
			ToValue:   c.To,
			ActorID:   optionalUUID(c.ActorID),
			ActorRole: c.ActorRole,
			At:        c.At,
		})
	}
	return dtos
}

func changeToDomain(dto OrderChangeDTO) (order.Change, error) {
	var actorID *kernel.UUID
	if dto.ActorID != nil {
		id, err := kernel.UUIDFromBytes((*dto.ActorID)[:])
		if err != nil {
			return order.Change{}, err
		}
		actorID = &id
	}
	return order.Change{
		Kind:      order.ChangeKind(dto.Kind),
		From:      dto.FromValue,
		To:        dto.ToValue,
		ActorID:   actorID,
		ActorRole: dto.ActorRole,
		At:        dto.At,
	}, nil
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func uuids(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
