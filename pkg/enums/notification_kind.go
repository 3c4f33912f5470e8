package enums

import "fmt"

// NotificationKind maps to the notification_kind enum in Postgres.
type NotificationKind string

const (
	NotificationKindOrderCreated         NotificationKind = "order_created"
	NotificationKindStateChanged         NotificationKind = "state_changed"
	NotificationKindOrderCanceled        NotificationKind = "order_canceled"
	NotificationKindPartsReleased        NotificationKind = "parts_released"
	NotificationKindTechnicianAssigned   NotificationKind = "technician_assigned"
	NotificationKindTechnicianUnassigned NotificationKind = "technician_unassigned"
	NotificationKindPriorityEscalated    NotificationKind = "priority_escalated"
	NotificationKindQuoteChanged         NotificationKind = "quote_changed"
	NotificationKindAlertRed             NotificationKind = "alert_red"
	NotificationKindAlertYellow          NotificationKind = "alert_yellow"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindOrderCreated,
	NotificationKindStateChanged,
	NotificationKindOrderCanceled,
	NotificationKindPartsReleased,
	NotificationKindTechnicianAssigned,
	NotificationKindTechnicianUnassigned,
	NotificationKindPriorityEscalated,
	NotificationKindQuoteChanged,
	NotificationKindAlertRed,
	NotificationKindAlertYellow,
}

// IsValid checks whether the given kind matches the canonical enum.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw strings into NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
