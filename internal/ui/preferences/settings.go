package preferences

import (
	"time"

	"eyesbreak/internal/core/model"
)

// DefaultMessageDelay is the per-character delay of the typed phase message.
const DefaultMessageDelay = 70 * time.Millisecond

// Settings defines editable user preferences.
type Settings struct {
	WorkTime  string
	BreakTime string

	NotificationsEnabled bool
	MessageDelay         time.Duration
}

// DefaultSettings returns default settings for Eyes Break.
func DefaultSettings() Settings {
	config := model.DefaultCycleConfig()
	return Settings{
		WorkTime:             config.WorkTime,
		BreakTime:            config.BreakTime,
		NotificationsEnabled: config.NotificationsEnabled,
		MessageDelay:         DefaultMessageDelay,
	}
}

// CycleConfig converts settings to CycleConfig.
func (settings Settings) CycleConfig() model.CycleConfig {
	return model.CycleConfig{
		WorkTime:             settings.WorkTime,
		BreakTime:            settings.BreakTime,
		NotificationsEnabled: settings.NotificationsEnabled,
	}
}
