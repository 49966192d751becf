package order

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

// ChangeKind tells what part of the order a Change touched.
type ChangeKind string

const (
	ChangeCreated        ChangeKind = "created"
	ChangeFulfillment    ChangeKind = "fulfillment"
	ChangePayment        ChangeKind = "payment"
	ChangePaymentSession ChangeKind = "payment_session"
	ChangeReview         ChangeKind = "review"
	ChangeShipper        ChangeKind = "shipper"
)

// ActorPaymentProvider is recorded as the actor role of webhook-driven changes.
const ActorPaymentProvider = "payment_provider"

// ActorSystem is recorded for changes made by the service itself.
const ActorSystem = "system"

// Change is one append-only history entry. Orders are never deleted; their
// history explains how they reached their current state.
type Change struct {
	Kind      ChangeKind
	From      string
	To        string
	ActorID   *kernel.UUID
	ActorRole string
	At        time.Time
}
