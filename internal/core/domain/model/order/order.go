package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root for one customer order. It owns the priced cart,
// the delivery details, the payment state and the fulfillment status.
//
// Order follows these invariants:
//   - Identifiers, items and delivery details never change after creation
//   - totalAmount is the recomputed sum of line totals and is never negative
//   - A cash-on-delivery order never carries a payment reference
//   - Fulfillment status only moves forward along the Status graph
//   - Payment status moves from Unpaid to Paid exactly once
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods. Every mutation appends a Change
// that the repository persists as history.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	items           []CartItem
	totalAmount     kernel.Money
	deliveryDetails DeliveryDetails
	paymentMethod   PaymentMethod
	paymentStatus   PaymentStatus
	status          Status
	shipperID       *kernel.UUID

	// paymentReference is the provider session id; the webhook join key.
	paymentReference   string
	paymentRedirectURL string
	paidAmount         *kernel.Money
	reviewReason       string

	// version is the optimistic concurrency token compared by the repository on update.
	version   int
	createdAt time.Time
	updatedAt time.Time

	changes []Change
	guard   guard.ConstructorGuard
}

// Snapshot is the persisted state of an order, used by RestoreOrder.
type Snapshot struct {
	ID                 kernel.UUID
	CustomerID         kernel.UUID
	RestaurantID       kernel.UUID
	Items              []CartItem
	DeliveryDetails    DeliveryDetails
	PaymentMethod      PaymentMethod
	PaymentStatus      PaymentStatus
	Status             Status
	ShipperID          *kernel.UUID
	PaymentReference   string
	PaymentRedirectURL string
	PaidAmount         *kernel.Money
	ReviewReason       string
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewOrder creates a pending, unpaid order. This is the only way to create
// a new Order, ensuring all business invariants are maintained.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - customerID: The customer placing the order
//   - restaurantID: The restaurant the cart was priced against
//   - items: Priced cart items (at least one)
//   - details: Recipient and delivery address
//   - method: CashOnDelivery or Online
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: ErrEmptyCart, *InvalidCartItemError or a validation error
//
// Example:
//
//	items, err := pricer.Price(restaurant, lines)
//	if err != nil {
//	    return err
//	}
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, restaurant.ID(), items, details, order.Online)
//
// The total is recomputed from the items; no caller-supplied total is accepted.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	items []CartItem,
	details DeliveryDetails,
	method PaymentMethod,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		paymentStatus: Unpaid,
		status:        Pending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setIDs(id, customerID, restaurantID),
		o.setItems(items),
		o.setDeliveryDetails(details),
		o.setPaymentMethod(method),
	); err != nil {
		return nil, err
	}

	o.record(ChangeCreated, "", Pending.String(), &customerID, string(kernel.RoleCustomer))
	return o, nil
}

// RestoreOrder reconstructs an Order from persistent storage.
//
// Unlike NewOrder it accepts any reachable state, but it still enforces the
// aggregate invariants so a corrupted row cannot produce an inconsistent order.
// The total is recomputed from the restored items.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		shipperID:          s.ShipperID,
		paymentReference:   s.PaymentReference,
		paymentRedirectURL: s.PaymentRedirectURL,
		paidAmount:         s.PaidAmount,
		reviewReason:       s.ReviewReason,
		version:            s.Version,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setIDs(s.ID, s.CustomerID, s.RestaurantID),
		o.setItems(s.Items),
		o.setDeliveryDetails(s.DeliveryDetails),
		o.setPaymentMethod(s.PaymentMethod),
		s.PaymentStatus.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.paymentStatus = s.PaymentStatus
	o.status = s.Status

	if o.paymentMethod == CashOnDelivery && o.paymentReference != "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("payment reference",
			errors.New("cash on delivery orders cannot carry a payment reference"))
	}
	if o.version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("version")
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                  { return o.id }
func (o *Order) CustomerID() kernel.UUID          { return o.customerID }
func (o *Order) RestaurantID() kernel.UUID        { return o.restaurantID }
func (o *Order) Items() []CartItem                { return append([]CartItem(nil), o.items...) }
func (o *Order) TotalAmount() kernel.Money        { return o.totalAmount }
func (o *Order) DeliveryDetails() DeliveryDetails { return o.deliveryDetails }
func (o *Order) PaymentMethod() PaymentMethod     { return o.paymentMethod }
func (o *Order) PaymentStatus() PaymentStatus     { return o.paymentStatus }
func (o *Order) Status() Status                   { return o.status }
func (o *Order) PaymentReference() string         { return o.paymentReference }
func (o *Order) PaymentRedirectURL() string       { return o.paymentRedirectURL }
func (o *Order) ReviewReason() string             { return o.reviewReason }
func (o *Order) Version() int                     { return o.version }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }
func (o *Order) UpdatedAt() time.Time             { return o.updatedAt }

// ShipperID returns the assigned shipper, nil when unassigned.
func (o *Order) ShipperID() *kernel.UUID {
	if o.shipperID == nil {
		return nil
	}
	id := *o.shipperID
	return &id
}

// PaidAmount returns the amount the provider (or the shipper, for cash) reported, nil before any charge.
func (o *Order) PaidAmount() *kernel.Money {
	if o.paidAmount == nil {
		return nil
	}
	m := *o.paidAmount
	return &m
}

// IsFlaggedForReview reports whether a charge disagreed with the total.
func (o *Order) IsFlaggedForReview() bool {
	return o.reviewReason != ""
}

// IsPlacedBy reports whether customerID owns the order.
func (o *Order) IsPlacedBy(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// IsAssignedTo reports whether shipperID is the shipper currently assigned.
func (o *Order) IsAssignedTo(shipperID kernel.UUID) bool {
	return o.shipperID != nil && o.shipperID.IsEqual(shipperID)
}

// NeedsPaymentSession reports whether the order is an online order still
// waiting for a provider session: pending, unpaid and without a reference.
func (o *Order) NeedsPaymentSession() bool {
	return o.paymentMethod == Online &&
		o.paymentStatus == Unpaid &&
		o.status == Pending &&
		o.paymentReference == ""
}

// AttachPaymentSession stores the provider session created for this order.
//
// Business Rules:
//   - Only online orders carry a payment reference
//   - Attaching the reference already stored is a no-op
//   - A different reference cannot replace an existing one
//   - The order must still be pending and unpaid
//
// Returns:
//   - nil on success or when the same session is attached again
//   - ErrNotAwaitingPayment or ErrPaymentSessionConflict otherwise
func (o *Order) AttachPaymentSession(reference, redirectURL string) error {
	reference, redirectURL = strings.TrimSpace(reference), strings.TrimSpace(redirectURL)
	if reference == "" {
		return errs.NewValueIsRequiredError("payment reference")
	}
	if o.paymentReference == reference {
		return nil
	}
	if o.paymentReference != "" {
		return fmt.Errorf("%w: %s", ErrPaymentSessionConflict, o.paymentReference)
	}
	if !o.NeedsPaymentSession() {
		return fmt.Errorf("%w: %s order in %s status is %s", ErrNotAwaitingPayment, o.paymentMethod, o.status, o.paymentStatus)
	}

	o.paymentReference = reference
	o.paymentRedirectURL = redirectURL
	o.record(ChangePaymentSession, "", reference, nil, ActorSystem)
	return nil
}

// ApplyPayment applies a provider-confirmed charge to an online order.
//
// The order is marked paid only when charged equals the total. A different
// amount is recorded and the order is flagged for manual review while the
// payment status stays unpaid. An order that is already paid or flagged is
// left untouched, which makes redelivered events harmless.
//
// Parameters:
//   - charged: The amount the provider reports as captured
//
// Returns:
//   - PaymentRecorded, PaymentDuplicate or PaymentAmountMismatch
//   - ErrNotAwaitingPayment for cash-on-delivery orders
//
// Example:
//
//	outcome, err := o.ApplyPayment(charged)
//	if err != nil {
//	    return err
//	}
//	if outcome == order.PaymentDuplicate {
//	    return nil // nothing to persist
//	}
func (o *Order) ApplyPayment(charged kernel.Money) (PaymentOutcome, error) {
	if o.paymentMethod != Online {
		return 0, fmt.Errorf("%w: %s order", ErrNotAwaitingPayment, o.paymentMethod)
	}
	if o.paymentStatus == Paid || o.IsFlaggedForReview() {
		return PaymentDuplicate, nil
	}
	if err := charged.Validate(); err != nil {
		return 0, err
	}

	paid := charged
	o.paidAmount = &paid

	if !charged.IsEqual(o.totalAmount) {
		o.reviewReason = fmt.Sprintf("charged %s, expected %s", charged, o.totalAmount)
		o.record(ChangeReview, "", o.reviewReason, nil, ActorPaymentProvider)
		return PaymentAmountMismatch, nil
	}

	o.paymentStatus = Paid
	o.record(ChangePayment, Unpaid.String(), Paid.String(), nil, ActorPaymentProvider)
	return PaymentRecorded, nil
}

// AdvanceTo moves the order one step along the fulfillment graph.
//
// This method enforces the following business rules:
//   - target must be a direct successor of the current status
//   - reaching Delivered on a cash-on-delivery order also marks it paid,
//     since the shipper handing over the food is the cash-received event
//
// Who may request the edge is checked by services.TransitionPolicy before
// this is called; actor is only recorded in the history.
//
// Parameters:
//   - target: The requested next status
//   - actor: The caller performing the transition
//
// Returns:
//   - nil on success
//   - *InvalidTransitionError when target is not a permitted successor
//
// Example:
//
//	if err := o.AdvanceTo(order.Confirmed, seller); err != nil {
//	    var invalid *order.InvalidTransitionError
//	    if errors.As(err, &invalid) {
//	        // invalid.From, invalid.To
//	    }
//	}
func (o *Order) AdvanceTo(target Status, actor kernel.Caller) error {
	if !o.status.CanAdvanceTo(target) {
		return NewInvalidTransitionError(o.status, target)
	}

	from := o.status
	actorID := actor.UserID()
	o.status = target
	o.record(ChangeFulfillment, from.String(), target.String(), &actorID, actor.Role().String())

	if target == Delivered && o.paymentMethod == CashOnDelivery && o.paymentStatus == Unpaid {
		paid := o.totalAmount
		o.paidAmount = &paid
		o.paymentStatus = Paid
		o.record(ChangePayment, Unpaid.String(), Paid.String(), &actorID, actor.Role().String())
	}

	return nil
}

// AssignShipper sets the shipper responsible for the order.
// Reassignment is allowed until the order is delivered.
func (o *Order) AssignShipper(shipperID kernel.UUID, actor kernel.Caller) error {
	if err := shipperID.Validate(); err != nil {
		return err
	}
	if !o.status.AllowsShipperAssignment() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign a shipper", o.status),
		)
	}
	if o.IsAssignedTo(shipperID) {
		return nil
	}

	from := ""
	if o.shipperID != nil {
		from = o.shipperID.String()
	}
	actorID := actor.UserID()
	o.shipperID = &shipperID
	o.record(ChangeShipper, from, shipperID.String(), &actorID, actor.Role().String())
	return nil
}

// Snapshot exports the persisted state of the order. RestoreOrder(o.Snapshot())
// yields an equivalent order without pending changes.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		CustomerID:         o.customerID,
		RestaurantID:       o.restaurantID,
		Items:              o.Items(),
		DeliveryDetails:    o.deliveryDetails,
		PaymentMethod:      o.paymentMethod,
		PaymentStatus:      o.paymentStatus,
		Status:             o.status,
		ShipperID:          o.ShipperID(),
		PaymentReference:   o.paymentReference,
		PaymentRedirectURL: o.paymentRedirectURL,
		PaidAmount:         o.PaidAmount(),
		ReviewReason:       o.reviewReason,
		Version:            o.version,
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
	}
}

// PendingChanges returns the history entries produced since the order was created or loaded.
func (o *Order) PendingChanges() []Change {
	return append([]Change(nil), o.changes...)
}

func (o *Order) record(kind ChangeKind, from, to string, actorID *kernel.UUID, actorRole string) {
	now := time.Now().UTC()
	o.updatedAt = now
	o.changes = append(o.changes, Change{
		Kind:      kind,
		From:      from,
		To:        to,
		ActorID:   actorID,
		ActorRole: actorRole,
		At:        now,
	})
}

func (o *Order) setIDs(id, customerID, restaurantID kernel.UUID) error {
	if err := errors.Join(id.Validate(), customerID.Validate(), restaurantID.Validate()); err != nil {
		return err
	}
	o.id = id
	o.customerID = customerID
	o.restaurantID = restaurantID
	return nil
}

// setItems copies the items and recomputes the total from them.
func (o *Order) setItems(items []CartItem) error {
	total, err := ComputeTotal(items)
	if err != nil {
		return err
	}
	o.items = append([]CartItem(nil), items...)
	o.totalAmount = total
	return nil
}

func (o *Order) setDeliveryDetails(details DeliveryDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}
	o.deliveryDetails = details
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}
