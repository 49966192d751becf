package kernel

import (
	"errors"
	"fmt"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrCallerIsNotConstructed is returned when a zero Caller is used.
var ErrCallerIsNotConstructed = errs.NewValueIsRequiredError("caller must be created via NewCaller")

// Role is the operator role derived by the authentication collaborator.
type Role string

const (
	RoleCustomer Role = "user"
	RoleSeller   Role = "seller"
	RoleShipper  Role = "shipper"
	RoleManager  Role = "manager"
)

// ParseRole maps the textual role handed over by the auth layer.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate rejects roles the engine does not know.
func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleSeller, RoleShipper, RoleManager:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// Caller is the pre-authenticated identity attached to every operation.
// Staff roles (seller, shipper, manager) are bound to exactly one restaurant.
type Caller struct { //nolint:recvcheck //using for validation
	userID       UUID
	role         Role
	restaurantID *UUID
	guard        guard.ConstructorGuard
}

// NewCaller builds a Caller. restaurantID is required for staff roles and must be
// nil for customers.
func NewCaller(userID UUID, role Role, restaurantID *UUID) (Caller, error) {
	c := Caller{guard: guard.NewConstructorGuard()}
	if err := errors.Join(userID.Validate(), role.Validate()); err != nil {
		return Caller{}, err
	}
	if role == RoleCustomer && restaurantID != nil {
		return Caller{}, errs.NewValueIsInvalidErrorWithCause("restaurantID",
			errors.New("customers are not bound to a restaurant"))
	}
	if role != RoleCustomer {
		if restaurantID == nil {
			return Caller{}, errs.NewValueIsRequiredError("restaurantID")
		}
		if err := restaurantID.Validate(); err != nil {
			return Caller{}, err
		}
		id := *restaurantID
		c.restaurantID = &id
	}
	c.userID = userID
	c.role = role
	return c, nil
}

// Validate reports whether c was built through NewCaller.
func (c Caller) Validate() error {
	return c.guard.Validate(ErrCallerIsNotConstructed)
}

func (c Caller) UserID() UUID { return c.userID }
func (c Caller) Role() Role   { return c.role }

// RestaurantID returns the restaurant a staff member works for, nil for customers.
func (c Caller) RestaurantID() *UUID {
	if c.restaurantID == nil {
		return nil
	}
	id := *c.restaurantID
	return &id
}

// WorksFor reports whether the caller is staff bound to restaurantID.
func (c Caller) WorksFor(restaurantID UUID) bool {
	return c.restaurantID != nil && c.restaurantID.IsEqual(restaurantID)
}
