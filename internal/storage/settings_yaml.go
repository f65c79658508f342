package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"eyesbreak/internal/core/clocktext"
	"eyesbreak/internal/platform"
	"eyesbreak/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

const maxMessageDelay = time.Second

type yamlSettings struct {
	WorkTime             string `yaml:"work_time"`
	BreakTime            string `yaml:"break_time"`
	NotificationsEnabled *bool  `yaml:"notifications_enabled,omitempty"`
	MessageDelayMillis   int    `yaml:"message_delay_ms"`
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFrom(configPath)
}

// LoadSettingsFrom reads user preferences from the YAML file at configPath.
// Fields that are missing or invalid keep their default values.
func LoadSettingsFrom(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsTo(configPath, settings)
}

// SaveSettingsTo writes user preferences to the YAML file at configPath.
func SaveSettingsTo(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	notifications := settings.NotificationsEnabled
	fileData := yamlSettings{
		WorkTime:             settings.WorkTime,
		BreakTime:            settings.BreakTime,
		NotificationsEnabled: &notifications,
		MessageDelayMillis:   int(settings.MessageDelay / time.Millisecond),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if _, err := clocktext.Parse(fileData.WorkTime); err == nil {
		settings.WorkTime = fileData.WorkTime
	}
	if _, err := clocktext.Parse(fileData.BreakTime); err == nil {
		settings.BreakTime = fileData.BreakTime
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}

	delay := time.Duration(fileData.MessageDelayMillis) * time.Millisecond
	if delay > 0 && delay <= maxMessageDelay {
		settings.MessageDelay = delay
	}
}
