package enums

// SemaphoreColor is the derived triage severity for an active order.
// Terminal orders carry SemaphoreNone and are excluded from any tally.
type SemaphoreColor string

const (
	SemaphoreNone   SemaphoreColor = "none"
	SemaphoreRed    SemaphoreColor = "red"
	SemaphoreOrange SemaphoreColor = "orange"
	SemaphoreYellow SemaphoreColor = "yellow"
	SemaphoreBlue   SemaphoreColor = "blue"
	SemaphoreGreen  SemaphoreColor = "green"
)

// String implements fmt.Stringer.
func (c SemaphoreColor) String() string {
	return string(c)
}
