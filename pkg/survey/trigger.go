package survey

// Status is the trigger-level band of a displacement.
type Status string

const (
	StatusGreen Status = "green"
	StatusAmber Status = "amber"
	StatusRed   Status = "red"
)

// TriggerLevels are horizontal displacement thresholds in millimetres.
type TriggerLevels struct {
	Amber float64 `json:"amber"`
	Red   float64 `json:"red"`
}

// Classify returns the band a horizontal displacement falls in.
// Reaching a threshold counts as breaching it.
func (l TriggerLevels) Classify(horizontal float64) Status {
	switch {
	case horizontal >= l.Red:
		return StatusRed
	case horizontal >= l.Amber:
		return StatusAmber
	default:
		return StatusGreen
	}
}

// Breached reports whether s is amber or red.
func (s Status) Breached() bool {
	return s == StatusAmber || s == StatusRed
}
