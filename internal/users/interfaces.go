package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

// Repository resolves workshop staff, primarily as notification targets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindActiveByRoles resolves active users holding any of the given
	// roles, excluding excludeID when non-nil. An empty role set
	// resolves to no users without touching the database.
	FindActiveByRoles(ctx context.Context, roles []enums.UserRole, excludeID *uuid.UUID) ([]models.User, error)
}
