package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

// Repository is the persistence surface for service orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// HighestFolio returns the folio with the largest sequence among
	// folios sharing the prefix, or "" when the bucket is empty.
	HighestFolio(ctx context.Context, prefix string) (string, error)
	FindActive(ctx context.Context) ([]models.Order, error)
	FindByStates(ctx context.Context, states []enums.OrderState) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
