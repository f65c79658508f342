package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyLaunchTarget is returned when launch-at-login is configured
// without an application name or executable path.
var ErrEmptyLaunchTarget = errors.New("launch target is empty")

// SetLaunchAtLogin registers or removes execPath as a login item for appName.
// execPath is ignored when disabling.
func SetLaunchAtLogin(appName, execPath string, enabled bool) error {
	if strings.TrimSpace(appName) == "" {
		return fmt.Errorf("launch at login: app name: %w", ErrEmptyLaunchTarget)
	}
	if !enabled {
		if err := removeLoginItem(appName); err != nil {
			return fmt.Errorf("disable launch at login: %w", err)
		}
		return nil
	}
	if strings.TrimSpace(execPath) == "" {
		return fmt.Errorf("launch at login: exec path: %w", ErrEmptyLaunchTarget)
	}
	if err := installLoginItem(appName, execPath); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	return nil
}

func slug(appName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(appName)), " ", "-")
}
