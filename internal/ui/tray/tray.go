package tray

import (
	"fmt"

	"eyesbreak/internal/core/cycle"

	"fyne.io/fyne/v2"
)

// MenuSetter is the part of desktop.App the tray needs.
type MenuSetter interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle      func()
	OnShow        func()
	OnHide        func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        MenuSetter
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	callbacks  Callbacks
	phase      cycle.Phase
	remaining  string
}

// New creates a tray manager with the provided callbacks.
func New(app MenuSetter, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		phase:     cycle.PhaseWaiting,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		invoke(manager.callbacks.OnToggle)
	})

	manager.refreshStatus()
	return manager
}

// Apply updates the status line from a cycle event.
func (manager *Manager) Apply(event cycle.Event) {
	switch event.Type {
	case cycle.EventPhaseChange:
		manager.phase = event.Phase
		manager.remaining = event.Remaining
		if event.Phase == cycle.PhaseWaiting {
			manager.toggleItem.Label = "Start"
		} else {
			manager.toggleItem.Label = "Stop"
		}
	case cycle.EventProgress:
		if event.Remaining == manager.remaining {
			return
		}
		manager.remaining = event.Remaining
	default:
		return
	}
	manager.refreshStatus()
}

// Status returns the current status label.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	status := string(manager.phase)
	if manager.phase != cycle.PhaseWaiting && manager.remaining != "" {
		status = fmt.Sprintf("%s %s", manager.phase, manager.remaining)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Eyes Break",
		manager.statusItem,
		manager.toggleItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show", func() {
			invoke(manager.callbacks.OnShow)
		}),
		fyne.NewMenuItem("Hide", func() {
			invoke(manager.callbacks.OnHide)
		}),
		fyne.NewMenuItem("Preferences", func() {
			invoke(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			invoke(manager.callbacks.OnQuit)
		}),
	))
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}
