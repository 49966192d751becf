package services

import (
	"errors"
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// ErrForbidden is the sentinel behind ForbiddenError.
var ErrForbidden = errors.New("forbidden")

// ForbiddenError tells the caller which role and status combination was refused.
type ForbiddenError struct {
	Role   kernel.Role
	Status order.Status
	Reason string
}

func NewForbiddenError(role kernel.Role, status order.Status, reason string) *ForbiddenError {
	return &ForbiddenError{Role: role, Status: status, Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s cannot change an order in %s: %s", ErrForbidden, e.Role, e.Status, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

type edge struct {
	role kernel.Role
	from order.Status
}

// getPermissions is the one table of who may move an order out of which status.
//
//	pending        -> confirmed, inProgress  (seller)
//	confirmed      -> inProgress             (seller)
//	inProgress     -> outForDelivery         (seller)
//	outForDelivery -> delivered              (assigned shipper)
func getPermissions() map[edge][]order.Status {
	return map[edge][]order.Status{
		{kernel.RoleSeller, order.Pending}:         {order.Confirmed, order.InProgress},
		{kernel.RoleSeller, order.Confirmed}:       {order.InProgress},
		{kernel.RoleSeller, order.InProgress}:      {order.OutForDelivery},
		{kernel.RoleShipper, order.OutForDelivery}: {order.Delivered},
	}
}

// TransitionPolicy authorizes fulfillment transitions and shipper assignment.
//
// Business rules:
//   - A role may only act on statuses it owns an outgoing edge from, otherwise Forbidden
//   - Sellers act only on orders of the restaurant they work for
//   - Only the shipper assigned to an order may deliver it
//   - A target that is not a permitted successor is an InvalidTransition
//   - A seller of another restaurant or an unassigned shipper is Forbidden, whatever the status
//   - Delivered has no outgoing edges, so an owner asking to leave it gets an InvalidTransition
//
// Example usage:
//
//	policy := services.NewTransitionPolicy()
//	if err := policy.Authorize(o, caller, order.Confirmed); err != nil {
//	    return err // *ForbiddenError or *order.InvalidTransitionError
//	}
//	err := o.AdvanceTo(order.Confirmed, caller)
type TransitionPolicy struct {
	permissions map[edge][]order.Status
}

// NewTransitionPolicy creates a policy over the fulfillment permission table.
func NewTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{permissions: getPermissions()}
}

// Authorize checks that caller may move o to target. It never mutates o.
func (p TransitionPolicy) Authorize(o *order.Order, caller kernel.Caller, target order.Status) error {
	if err := errors.Join(o.Validate(), caller.Validate()); err != nil {
		return err
	}

	from := o.Status()

	// Ownership is checked before anything about the order's status is revealed.
	switch caller.Role() { //nolint:exhaustive // other roles own no orders
	case kernel.RoleSeller:
		if !caller.WorksFor(o.RestaurantID()) {
			return NewForbiddenError(caller.Role(), from, "order belongs to another restaurant")
		}
	case kernel.RoleShipper:
		if !o.IsAssignedTo(caller.UserID()) {
			return NewForbiddenError(caller.Role(), from, "shipper is not assigned to this order")
		}
	}

	if from.IsTerminal() {
		return order.NewInvalidTransitionError(from, target)
	}

	targets, ok := p.permissions[edge{caller.Role(), from}]
	if !ok {
		return NewForbiddenError(caller.Role(), from, "role has no permitted transition from this status")
	}

	for _, allowed := range targets {
		if allowed == target {
			return nil
		}
	}
	return order.NewInvalidTransitionError(from, target)
}

// AllowedTargets lists the statuses role may move an order to from status.
func (p TransitionPolicy) AllowedTargets(role kernel.Role, status order.Status) []order.Status {
	return append([]order.Status(nil), p.permissions[edge{role, status}]...)
}

// AuthorizeShipperAssignment checks that caller may assign a shipper to o:
// a manager or seller of the order's restaurant.
func (p TransitionPolicy) AuthorizeShipperAssignment(o *order.Order, caller kernel.Caller) error {
	if err := errors.Join(o.Validate(), caller.Validate()); err != nil {
		return err
	}
	if caller.Role() != kernel.RoleManager && caller.Role() != kernel.RoleSeller {
		return NewForbiddenError(caller.Role(), o.Status(), "only managers and sellers assign shippers")
	}
	if !caller.WorksFor(o.RestaurantID()) {
		return NewForbiddenError(caller.Role(), o.Status(), "order belongs to another restaurant")
	}
	return nil
}
