//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchAtLoginDesktopEntry(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	entryPath := filepath.Join(configHome, "autostart", "eyes-break.desktop")

	require.NoError(t, SetLaunchAtLogin("Eyes Break", "/opt/eyes break/bin", true))
	data, err := os.ReadFile(entryPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name=Eyes Break\n")
	assert.Contains(t, string(data), "Exec=\"/opt/eyes break/bin\"\n")

	require.NoError(t, SetLaunchAtLogin("Eyes Break", "", false))
	_, err = os.Stat(entryPath)
	assert.True(t, os.IsNotExist(err))

	// Removing a missing entry is fine.
	assert.NoError(t, SetLaunchAtLogin("Eyes Break", "", false))
}

func TestLaunchAtLoginRejectsEmptyTarget(t *testing.T) {
	assert.ErrorIs(t, SetLaunchAtLogin(" ", "/bin/true", true), ErrEmptyLaunchTarget)
	assert.ErrorIs(t, SetLaunchAtLogin("EyesBreak", "", true), ErrEmptyLaunchTarget)
}
