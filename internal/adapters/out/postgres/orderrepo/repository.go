package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items and creation history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Create(&dto).Error; err != nil {
		return translate(err)
	}
	if err := r.appendHistory(db, dto.ID, aggregate.PendingChanges()); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the mutable fields of an order if, and only if, the stored version
// still equals the version the aggregate was loaded with. The version is bumped.
//
// Returns *errs.VersionIsInvalidError when another writer got there first and
// *errs.ObjectNotFoundError when the order does not exist.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"shipper_id":           dto.ShipperID,
			"payment_status":       dto.PaymentStatus,
			"payment_reference":    dto.PaymentReference,
			"payment_redirect_url": dto.PaymentRedirectURL,
			"paid_amount":          dto.PaidAmount,
			"review_reason":        dto.ReviewReason,
			"status":               dto.Status,
			"version":              dto.Version + 1,
			"updated_at":           time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidError("order",
			fmt.Errorf("order %s was modified after version %d", aggregate.ID(), dto.Version))
	}

	if err := r.appendHistory(db, dto.ID, aggregate.PendingChanges()); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := preloadItems(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByPaymentReference retrieves the order a payment session was created for.
func (r *GormOrderRepository) GetByPaymentReference(ctx context.Context, reference string) (*order.Order, error) {
	if reference == "" {
		return nil, errs.NewValueIsRequiredError("payment reference")
	}

	var dto OrderDTO
	if err := preloadItems(r.db.WithContext(ctx)).First(&dto, "payment_reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", reference)
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindAwaitingPaymentSession returns pending, unpaid online orders without a
// payment session that were created at or before createdBefore, oldest first.
func (r *GormOrderRepository) FindAwaitingPaymentSession(
	ctx context.Context,
	createdBefore time.Time,
	limit int,
) ([]*order.Order, error) {
	query := preloadItems(r.db.WithContext(ctx)).
		Where("payment_method = ? AND payment_status = ? AND status = ? AND payment_reference IS NULL AND created_at <= ?",
			order.Online.String(), order.Unpaid.String(), int(order.Pending), createdBefore).
		Order("created_at")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// History returns the stored history of an order, oldest first.
func (r *GormOrderRepository) History(ctx context.Context, id kernel.UUID) ([]order.Change, error) {
	var dtos []OrderChangeDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", id.Bytes()).Order("at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	changes := make([]order.Change, 0, len(dtos))
	for _, dto := range dtos {
		c, err := changeToDomain(dto)
		if err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, nil
}

func (r *GormOrderRepository) appendHistory(db *gorm.DB, orderID uuid.UUID, changes []order.Change) error {
	if len(changes) == 0 {
		return nil
	}
	dtos := changesFromDomain(orderID, changes)
	return db.Create(&dtos).Error
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Items.Toppings", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// translate maps constraint violations to domain errors. It relies on
// gorm.Config.TranslateError being enabled.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewValueIsInvalidErrorWithCause("order", err)
	}
	return err
}
