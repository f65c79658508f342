package home

import (
	"context"

	"eyesbreak/internal/core/clocktext"
	"eyesbreak/internal/core/cycle"
	"eyesbreak/internal/ui/preferences"
	"eyesbreak/internal/ui/typewriter"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	startTitle = "Start"
	stopTitle  = "Stop"
	noTime     = "--:--"
)

var phaseMessages = map[cycle.Phase]string{
	cycle.PhaseWaiting: "Ready when you are. Press Start to begin.",
	cycle.PhaseWork:    "Focus time. Your eyes will get a break soon.",
	cycle.PhaseBreak:   "Look at something far away and blink slowly.",
}

// Window is the main application window.
type Window struct {
	window     fyne.Window
	settings   preferences.Settings
	phase      cycle.Phase
	message    *widget.Label
	workClock  *widget.Label
	breakClock *widget.Label
	progress   *widget.ProgressBar
	toggle     *widget.Button
	typer      *typewriter.Engine
	// failure holds the last start error until the following phase change.
	failure    string
}

// New creates the main window. onToggle is called by the Start/Stop button.
func New(app fyne.App, settings preferences.Settings, onToggle func()) *Window {
	window := app.NewWindow("Eyes Break")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	message := widget.NewLabel("")
	message.Wrapping = fyne.TextWrapWord
	message.Alignment = fyne.TextAlignCenter

	workClock := widget.NewLabelWithStyle(noTime, fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true})
	breakClock := widget.NewLabelWithStyle(noTime, fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true})
	progress := widget.NewProgressBar()

	home := &Window{
		window:     window,
		settings:   settings,
		phase:      cycle.PhaseWaiting,
		message:    message,
		workClock:  workClock,
		breakClock: breakClock,
		progress:   progress,
	}
	home.typer = typewriter.New(settings.MessageDelay, func(text string) {
		fyne.Do(func() {
			home.message.SetText(text)
		})
	})
	home.toggle = widget.NewButton(startTitle, func() {
		if onToggle != nil {
			onToggle()
		}
	})

	clocks := container.NewGridWithColumns(2,
		container.NewVBox(widget.NewLabelWithStyle("Work", fyne.TextAlignCenter, fyne.TextStyle{}), workClock),
		container.NewVBox(widget.NewLabelWithStyle("Break", fyne.TextAlignCenter, fyne.TextStyle{}), breakClock),
	)
	content := container.NewVBox(
		message,
		clocks,
		progress,
		container.NewHBox(layout.NewSpacer(), home.toggle, layout.NewSpacer()),
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(360, 240))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	home.resetClocks()
	home.typer.Type(context.Background(), phaseMessages[cycle.PhaseWaiting])
	return home
}

// Show displays the window.
func (home *Window) Show() {
	home.window.Show()
	home.window.RequestFocus()
}

// Hide hides the window.
func (home *Window) Hide() {
	home.window.Hide()
}

// Phase returns the phase last applied to the window.
func (home *Window) Phase() cycle.Phase {
	return home.phase
}

// UpdateSettings replaces the configured durations and message delay.
func (home *Window) UpdateSettings(settings preferences.Settings) {
	home.settings = settings
	home.typer.SetDelay(settings.MessageDelay)
	if home.phase == cycle.PhaseWaiting {
		home.resetClocks()
	}
}

// Apply renders a cycle event. It must run on the UI goroutine.
func (home *Window) Apply(event cycle.Event) {
	switch event.Type {
	case cycle.EventPhaseChange:
		home.applyPhase(event)
	case cycle.EventProgress:
		home.progress.SetValue(event.Percentage / 100)
		home.clockFor(event.Phase).SetText(event.Remaining)
	case cycle.EventError:
		home.typer.Stop()
		if event.Err != nil {
			home.failure = event.Err.Error()
			home.message.SetText(home.failure)
		}
	}
}

func (home *Window) applyPhase(event cycle.Event) {
	home.phase = event.Phase
	home.progress.SetValue(0)
	home.resetClocks()

	switch event.Phase {
	case cycle.PhaseWaiting:
		home.toggle.SetText(startTitle)
	case cycle.PhaseWork:
		home.toggle.SetText(stopTitle)
		home.workClock.SetText(event.Remaining)
		home.Hide()
	case cycle.PhaseBreak:
		home.toggle.SetText(stopTitle)
		home.breakClock.SetText(event.Remaining)
		home.Show()
	}

	if event.Phase == cycle.PhaseWaiting && home.failure != "" {
		home.message.SetText(home.failure)
		home.failure = ""
		return
	}
	home.failure = ""
	home.typer.Type(context.Background(), phaseMessages[event.Phase])
}

func (home *Window) clockFor(phase cycle.Phase) *widget.Label {
	if phase == cycle.PhaseBreak {
		return home.breakClock
	}
	return home.workClock
}

func (home *Window) resetClocks() {
	home.workClock.SetText(displayTime(home.settings.WorkTime))
	home.breakClock.SetText(displayTime(home.settings.BreakTime))
}

func displayTime(text string) string {
	ms, err := clocktext.Parse(text)
	if err != nil {
		return noTime
	}
	return clocktext.Format(ms)
}
