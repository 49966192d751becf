package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the fulfillment stage of an order.
// It implements a forward-only state machine: an order never moves back
// to an earlier stage and never skips a stage.
//
// State transitions:
//
//	Pending ──┬──> Confirmed ──┐
//	          │                v
//	          └──────────> InProgress ──> OutForDelivery ──> Delivered
//
// Which role may drive each edge is decided by services.TransitionPolicy;
// Status only knows the shape of the graph.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every new order.
	Pending

	// Confirmed means the restaurant accepted the order.
	Confirmed

	// InProgress means the kitchen is preparing the order.
	InProgress

	// OutForDelivery means a shipper has picked the order up.
	OutForDelivery

	// Delivered is the terminal status. No transitions leave it.
	Delivered
)

// getStatusStrings returns the wire names used by the API and the persistence layer.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		InProgress:     "inProgress",
		OutForDelivery: "outForDelivery",
		Delivered:      "delivered",
	}
}

// getSuccessors returns the directed edges of the fulfillment graph.
func getSuccessors() map[Status][]Status {
	//nolint:exhaustive // Unknown and Delivered have no outgoing edges
	return map[Status][]Status{
		Pending:        {Confirmed, InProgress},
		Confirmed:      {InProgress},
		InProgress:     {OutForDelivery},
		OutForDelivery: {Delivered},
	}
}

// ParseStatus maps a wire name such as "outForDelivery" to its Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a known status", s))
}

// Validate checks if the Status value is one of the defined stages.
//
// Unknown (0) and any other values are invalid. This method is used to ensure
// Status values from external sources (database, API) are valid before use.
func (s Status) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Successors lists the statuses reachable in one step from s.
func (s Status) Successors() []Status {
	next := getSuccessors()[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanAdvanceTo reports whether target is a direct successor of s.
func (s Status) CanAdvanceTo(target Status) bool {
	for _, next := range getSuccessors()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// AllowsShipperAssignment reports whether a shipper may be (re)assigned in s.
func (s Status) AllowsShipperAssignment() bool {
	return s == Confirmed || s == InProgress || s == OutForDelivery
}
