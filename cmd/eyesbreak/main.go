package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"eyesbreak/internal/core/cycle"
	"eyesbreak/internal/logging"
	"eyesbreak/internal/platform"
	"eyesbreak/internal/storage"
	"eyesbreak/internal/ui/home"
	"eyesbreak/internal/ui/preferences"
	"eyesbreak/internal/ui/tray"
	"eyesbreak/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "EyesBreak"

func main() {
	logLevel := flag.String("log-level", "info", "Logging level (debug|info|warn|error)")
	launchAtLogin := flag.String("launch-at-login", "", "Register (on) or remove (off) the login item and exit")
	flag.Parse()

	logger := logging.New(os.Stderr, *logLevel)

	if *launchAtLogin != "" {
		if err := configureLaunchAtLogin(*launchAtLogin); err != nil {
			logger.Error("launch at login", "error", err)
			os.Exit(1)
		}
		return
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Error("single instance", "error", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}

	fyneApp := app.NewWithID("com.eyesbreak.app")
	fyneApp.SetIcon(resources.MustLogo(resources.LogoActive))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	timer := cycle.New(settings.CycleConfig(), cycle.Options{}, cycle.AlerterFunc(func(title, body string) {
		fyneApp.SendNotification(fyne.NewNotification(title, body))
	}), logger)
	defer timer.Close()

	toggle := func() {
		if err := timer.Toggle(); err != nil {
			logger.Warn("toggle session", "error", err)
		}
	}

	homeWindow := home.New(fyneApp, settings, toggle)

	var prefsWindow *preferences.Window
	applySettings := func(updated preferences.Settings) {
		timer.UpdateConfig(updated.CycleConfig())
		homeWindow.UpdateSettings(updated)
		prefsWindow.UpdateSettings(updated)
	}
	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		applySettings(updated)
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("save settings", "error", err)
		}
	})

	activeIcon := resources.MustLogo(resources.LogoActive)
	idleIcon := resources.MustLogo(resources.LogoIdle)

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnToggle:      toggle,
		OnShow:        homeWindow.Show,
		OnHide:        homeWindow.Hide,
		OnPreferences: prefsWindow.Show,
		OnQuit: func() {
			timer.Close()
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(idleIcon)

	events := timer.Subscribe(32)
	go func() {
		for event := range events {
			event := event
			fyne.Do(func() {
				homeWindow.Apply(event)
				trayManager.Apply(event)
				if event.Type == cycle.EventPhaseChange {
					desktopApp.SetSystemTrayIcon(trayIcon(event.Phase, activeIcon, idleIcon))
				}
			})
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSettings(ctx, logger, func(updated preferences.Settings) {
		fyne.Do(func() {
			applySettings(updated)
		})
	})

	homeWindow.Show()
	fyneApp.Run()
}

func watchSettings(ctx context.Context, logger *slog.Logger, onChange func(preferences.Settings)) {
	path, err := storage.SettingsPath(appName)
	if err != nil {
		logger.Warn("settings watcher disabled", "error", err)
		return
	}
	if err := storage.Watch(ctx, path, onChange, logger); err != nil {
		logger.Warn("settings watcher stopped", "error", err)
	}
}

func configureLaunchAtLogin(mode string) error {
	var enabled bool
	switch mode {
	case "on":
		enabled = true
	case "off":
	default:
		return fmt.Errorf("unknown mode %q (want on or off)", mode)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	return platform.SetLaunchAtLogin(appName, execPath, enabled)
}

func trayIcon(phase cycle.Phase, active, idle fyne.Resource) fyne.Resource {
	if phase == cycle.PhaseWaiting {
		return idle
	}
	return active
}
