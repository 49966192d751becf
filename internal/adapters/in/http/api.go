package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	OrderID *string `json:"orderId,omitempty"`
}

func newError(code int, message string) Error {
	return Error{Code: code, Message: message}
}

type DeliveryDetails struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	Street       string `json:"street"`
	Ward         string `json:"ward"`
	District     string `json:"district"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

type ToppingSelection struct {
	Category string `json:"category"`
	Option   string `json:"option"`
}

type CartItem struct {
	MenuItemID string             `json:"menuItemId"`
	Quantity   int                `json:"quantity"`
	Price      *int64             `json:"price,omitempty"`
	Toppings   []ToppingSelection `json:"toppings,omitempty"`
}

type CheckoutRequest struct {
	RestaurantID    string          `json:"restaurantId"`
	PaymentMethod   string          `json:"paymentMethod"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
	CartItems       []CartItem      `json:"cartItems"`
}

type CheckoutResponse struct {
	OrderID          string `json:"orderId"`
	RedirectURL      string `json:"redirectUrl,omitempty"`
	PaymentReference string `json:"paymentReference,omitempty"`
}

type StatusUpdate struct {
	Status string `json:"status"`
}

type ShipperAssignment struct {
	ShipperID string `json:"shipperId"`
}

type Topping struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
}

type OrderItem struct {
	MenuItemID string    `json:"menuItemId"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int64     `json:"unitPrice"`
	LineTotal  int64     `json:"lineTotal"`
	Toppings   []Topping `json:"toppings"`
}

type Order struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customerId"`
	RestaurantID     string          `json:"restaurantId"`
	ShipperID        *string         `json:"shipperId,omitempty"`
	Status           string          `json:"status"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentStatus    string          `json:"paymentStatus"`
	Currency         string          `json:"currency"`
	TotalAmount      int64           `json:"totalAmount"`
	PaidAmount       *int64          `json:"paidAmount,omitempty"`
	FlaggedForReview bool            `json:"flaggedForReview"`
	ReviewReason     string          `json:"reviewReason,omitempty"`
	DeliveryDetails  DeliveryDetails `json:"deliveryDetails"`
	Items            []OrderItem     `json:"items"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type RestaurantStats struct {
	TotalOrders      int64  `json:"totalOrders"`
	Revenue          int64  `json:"revenue"`
	Currency         string `json:"currency"`
	UniqueCustomers  int64  `json:"uniqueCustomers"`
	FlaggedForReview int64  `json:"flaggedForReview"`
}

type WebhookAck struct {
	Received bool   `json:"received"`
	Result   string `json:"result,omitempty"`
}

func checkoutResponse(r commands.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		OrderID:          r.OrderID.String(),
		RedirectURL:      r.RedirectURL,
		PaymentReference: r.PaymentReference,
	}
}

func orderFromView(v queries.OrderView) Order {
	dto := Order{
		ID:               v.ID.String(),
		CustomerID:       v.CustomerID.String(),
		RestaurantID:     v.RestaurantID.String(),
		Status:           v.Status.String(),
		PaymentMethod:    v.PaymentMethod.String(),
		PaymentStatus:    v.PaymentStatus.String(),
		Currency:         v.Currency,
		TotalAmount:      v.TotalAmount,
		PaidAmount:       v.PaidAmount,
		FlaggedForReview: v.FlaggedForReview,
		ReviewReason:     v.ReviewReason,
		DeliveryDetails: DeliveryDetails{
			Name:         v.Delivery.Name,
			Email:        v.Delivery.Email,
			Phone:        v.Delivery.Phone,
			AddressLine1: v.Delivery.AddressLine1,
			Street:       v.Delivery.Street,
			Ward:         v.Delivery.Ward,
			District:     v.Delivery.District,
			City:         v.Delivery.City,
			Country:      v.Delivery.Country,
		},
		Items:     make([]OrderItem, 0, len(v.Items)),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if v.ShipperID != nil {
		id := v.ShipperID.String()
		dto.ShipperID = &id
	}
	for _, item := range v.Items {
		toppings := make([]Topping, 0, len(item.Toppings))
		for _, t := range item.Toppings {
			toppings = append(toppings, Topping{Category: t.Category, Name: t.Name, Price: t.Price})
		}
		dto.Items = append(dto.Items, OrderItem{
			MenuItemID: item.MenuItemID.String(),
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			LineTotal:  item.LineTotal,
			Toppings:   toppings,
		})
	}
	return dto
}

func ordersFromViews(views []queries.OrderView) []Order {
	dtos := make([]Order, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, orderFromView(v))
	}
	return dtos
}

func orderFromDomain(o *order.Order) Order {
	address := o.DeliveryDetails().Address()
	dto := Order{
		ID:               o.ID().String(),
		CustomerID:       o.CustomerID().String(),
		RestaurantID:     o.RestaurantID().String(),
		Status:           o.Status().String(),
		PaymentMethod:    o.PaymentMethod().String(),
		PaymentStatus:    o.PaymentStatus().String(),
		Currency:         o.TotalAmount().Currency(),
		TotalAmount:      o.TotalAmount().Amount(),
		FlaggedForReview: o.IsFlaggedForReview(),
		ReviewReason:     o.ReviewReason(),
		DeliveryDetails: DeliveryDetails{
			Name:         o.DeliveryDetails().Name(),
			Email:        o.DeliveryDetails().Email(),
			Phone:        o.DeliveryDetails().Phone(),
			AddressLine1: address.AddressLine1(),
			Street:       address.Street(),
			Ward:         address.Ward(),
			District:     address.District(),
			City:         address.City(),
			Country:      address.Country(),
		},
		Items:     make([]OrderItem, 0, len(o.Items())),
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
	}
	if shipperID := o.ShipperID(); shipperID != nil {
		id := shipperID.String()
		dto.ShipperID = &id
	}
	if paid := o.PaidAmount(); paid != nil {
		amount := paid.Amount()
		dto.PaidAmount = &amount
	}
	for _, item := range o.Items() {
		toppings := make([]Topping, 0, len(item.Toppings()))
		for _, t := range item.Toppings() {
			toppings = append(toppings, Topping{Category: t.Category(), Name: t.Name(), Price: t.Price().Amount()})
		}
		dto.Items = append(dto.Items, OrderItem{
			MenuItemID: item.MenuItemID().String(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Amount(),
			LineTotal:  item.LineTotal().Amount(),
			Toppings:   toppings,
		})
	}
	return dto
}
