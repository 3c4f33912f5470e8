package users

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

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindActiveByRoles(ctx context.Context, roles []enums.UserRole, excludeID *uuid.UUID) ([]models.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("role IN ?", roles)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var found []models.User
	if err := query.Order("created_at ASC, id ASC").Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}
