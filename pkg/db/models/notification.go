package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to a recipient
// user. Rows are append-only; the only mutation ever applied is setting
// ReadAt, once.
type Notification struct {
	ID          uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID uuid.UUID                  `gorm:"type:uuid;not null;column:recipient_id"`
	OrderID     *uuid.UUID                 `gorm:"type:uuid;column:order_id"`
	Kind        enums.NotificationKind     `gorm:"type:notification_kind;not null"`
	Title       string                     `gorm:"type:text;not null"`
	Message     string                     `gorm:"type:text;not null"`
	Priority    enums.NotificationPriority `gorm:"type:notification_priority;not null;default:'normal'"`
	ReadAt      *time.Time                 `gorm:"type:timestamptz"`
	CreatedAt   time.Time                  `gorm:"type:timestamptz;default:now()"`
}
