package model

// Default phase lengths in HH:MM:SS.
const (
	DefaultWorkTime  = "00:20:00"
	DefaultBreakTime = "00:00:20"
)

// CycleConfig contains runtime settings for the work/break cycle.
type CycleConfig struct {
	WorkTime  string
	BreakTime string

	NotificationsEnabled bool
}

// DefaultCycleConfig returns the 20-20 defaults with notifications on.
func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		WorkTime:             DefaultWorkTime,
		BreakTime:            DefaultBreakTime,
		NotificationsEnabled: true,
	}
}
