package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// HighestFolio orders by length before lexicographic value so that
// OS-2026-08-1000 sorts above OS-2026-08-999 once the sequence outgrows
// its padding.
func (r *repository) HighestFolio(ctx context.Context, prefix string) (string, error) {
	var folios []string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("folio LIKE ?", prefix+"%").
		Order("length(folio) DESC, folio DESC").
		Limit(1).
		Pluck("folio", &folios).Error
	if err != nil {
		return "", err
	}
	if len(folios) == 0 {
		return "", nil
	}
	return folios[0], nil
}

func (r *repository) FindActive(ctx context.Context) ([]models.Order, error) {
	return r.FindByStates(ctx, enums.NonTerminalOrderStates())
}

func (r *repository) FindByStates(ctx context.Context, states []enums.OrderState) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("state IN ?", states).
		Order("received_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}
