package enums

import "fmt"

// NotificationPriority orders how prominently a notification is surfaced.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

var validNotificationPriorities = []NotificationPriority{
	NotificationPriorityLow,
	NotificationPriorityNormal,
	NotificationPriorityHigh,
	NotificationPriorityUrgent,
}

// IsValid reports whether the value is a known NotificationPriority.
func (p NotificationPriority) IsValid() bool {
	for _, candidate := range validNotificationPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseNotificationPriority converts raw input into a NotificationPriority.
func ParseNotificationPriority(value string) (NotificationPriority, error) {
	for _, candidate := range validNotificationPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification priority %q", value)
}
