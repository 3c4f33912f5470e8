package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	"github.com/jdelarosa/tallerflow-backend/pkg/pagination"
)

// Repository exposes persistence helpers for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	// HasUnreadForOrder reports whether an unread notification of the
	// given kind already exists for the order. The alert sweep uses it
	// to stay idempotent across runs.
	HasUnreadForOrder(ctx context.Context, orderID uuid.UUID, kind enums.NotificationKind) (bool, error)
	// DeleteOlderThanRead removes read notifications created before the
	// cutoff. Unread rows are never deleted.
	DeleteOlderThanRead(ctx context.Context, cutoff time.Time) (int64, error)
}

// userResolver is the slice of the user directory the notification
// pipeline needs. internal/users.Repository satisfies it.
type userResolver interface {
	FindActiveByRoles(ctx context.Context, roles []enums.UserRole, excludeID *uuid.UUID) ([]models.User, error)
}
