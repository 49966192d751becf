// Package restaurant holds the read-only view of a restaurant that checkout
// prices carts against. Restaurants and menus are managed elsewhere; this
// service only reads them through ports.RestaurantCatalog.
package restaurant

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant constructor")

// ApprovalStatus is the onboarding state set by the admin approval workflow.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Validate() error {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("approval status is invalid",
			fmt.Errorf("%q is not a known approval status", string(s)))
	}
}

// Restaurant is a restaurant with its menu.
type Restaurant struct {
	id       kernel.UUID
	name     string
	approval ApprovalStatus
	isOpen   bool
	menu     []MenuItem
	guard    guard.ConstructorGuard
}

// NewRestaurant builds a restaurant snapshot. Menu item ids must be unique.
func NewRestaurant(id kernel.UUID, name string, approval ApprovalStatus, isOpen bool, menu []MenuItem) (*Restaurant, error) {
	if err := errors.Join(id.Validate(), approval.Validate()); err != nil {
		return nil, err
	}
	seen := make(map[kernel.UUID]struct{}, len(menu))
	for _, item := range menu {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[item.ID()]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("menu",
				fmt.Errorf("menu item %s appears twice", item.ID()))
		}
		seen[item.ID()] = struct{}{}
	}

	return &Restaurant{
		id:       id,
		name:     strings.TrimSpace(name),
		approval: approval,
		isOpen:   isOpen,
		menu:     append([]MenuItem(nil), menu...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (r *Restaurant) Validate() error {
	if r == nil {
		return ErrRestaurantIsNotConstructed
	}
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

func (r *Restaurant) ID() kernel.UUID          { return r.id }
func (r *Restaurant) Name() string             { return r.name }
func (r *Restaurant) Approval() ApprovalStatus { return r.approval }
func (r *Restaurant) IsOpen() bool             { return r.isOpen }
func (r *Restaurant) Menu() []MenuItem         { return append([]MenuItem(nil), r.menu...) }

// IsOrderable reports whether customers may currently order: the restaurant
// has been approved and is open.
func (r *Restaurant) IsOrderable() bool {
	return r.approval == ApprovalApproved && r.isOpen
}

// MenuItem looks up a menu item by id.
func (r *Restaurant) MenuItem(id kernel.UUID) (MenuItem, bool) {
	for _, item := range r.menu {
		if item.id.IsEqual(id) {
			return item, true
		}
	}
	return MenuItem{}, false
}
