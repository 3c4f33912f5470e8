package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

// User represents a workshop staff member. Only active users are ever
// resolved as notification targets.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string         `gorm:"type:text;not null;uniqueIndex"`
	FullName  string         `gorm:"column:full_name;not null"`
	Role      enums.UserRole `gorm:"type:user_role;not null"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
