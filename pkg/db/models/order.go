package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

// Order is a workshop service order. Folio is the human-readable
// identifier, unique across the table and monotonically increasing inside
// its (year, month) bucket.
type Order struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Folio          string              `gorm:"type:text;not null;uniqueIndex:idx_orders_folio"`
	State          enums.OrderState    `gorm:"type:order_state;not null;default:'received'"`
	Priority       enums.OrderPriority `gorm:"type:order_priority;not null;default:'normal'"`
	CustomerName   string              `gorm:"type:text;not null"`
	Device         string              `gorm:"type:text;not null"`
	ReportedIssue  string              `gorm:"type:text;not null"`
	QuoteAmount    *decimal.Decimal    `gorm:"type:numeric(12,2)"`
	AssignedTechID *uuid.UUID          `gorm:"type:uuid;column:assigned_tech_id"`
	CreatedByID    uuid.UUID           `gorm:"type:uuid;not null;column:created_by_id"`
	ReceivedAt     time.Time           `gorm:"type:timestamptz;not null"`
	DiagnosedAt    *time.Time          `gorm:"type:timestamptz"`
	QuotedAt       *time.Time          `gorm:"type:timestamptz"`
	RepairedAt     *time.Time          `gorm:"type:timestamptz"`
	DeliveredAt    *time.Time          `gorm:"type:timestamptz"`
	CanceledAt     *time.Time          `gorm:"type:timestamptz"`
	CancelReason   *string             `gorm:"type:text"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
