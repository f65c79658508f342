package preferences

import (
	"fmt"
	"strconv"
	"time"

	"eyesbreak/internal/core/clocktext"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	workTime      *widget.Entry
	breakTime     *widget.Entry
	messageDelay  *widget.Entry
	notifications *widget.Check
	status        *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Eyes Break Settings")

	workTime := widget.NewEntry()
	workTime.SetPlaceHolder("HH:MM:SS")
	workTime.Validator = validateClock
	breakTime := widget.NewEntry()
	breakTime.SetPlaceHolder("HH:MM:SS")
	breakTime.Validator = validateClock
	messageDelay := widget.NewEntry()

	notifications := widget.NewCheck("Notify when a break starts", nil)
	status := widget.NewLabel("")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Sessions", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Work time", workTime),
			widget.NewFormItem("Break time", breakTime),
			widget.NewFormItem("Message delay (ms)", messageDelay),
		),
		notifications,
		status,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 260))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		workTime:      workTime,
		breakTime:     breakTime,
		messageDelay:  messageDelay,
		notifications: notifications,
		status:        status,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workTime.SetText(settings.WorkTime)
	prefs.breakTime.SetText(settings.BreakTime)
	prefs.messageDelay.SetText(fmt.Sprintf("%d", settings.MessageDelay.Milliseconds()))
	prefs.notifications.SetChecked(settings.NotificationsEnabled)
	prefs.status.SetText("")
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if err := validateClock(prefs.workTime.Text); err != nil {
		prefs.status.SetText(fmt.Sprintf("Work time: %v", err))
		return
	}
	if err := validateClock(prefs.breakTime.Text); err != nil {
		prefs.status.SetText(fmt.Sprintf("Break time: %v", err))
		return
	}
	settings.WorkTime = prefs.workTime.Text
	settings.BreakTime = prefs.breakTime.Text

	if millis, ok := parsePositiveInt(prefs.messageDelay.Text); ok {
		settings.MessageDelay = time.Duration(millis) * time.Millisecond
	}
	settings.NotificationsEnabled = prefs.notifications.Checked

	prefs.settings = settings
	prefs.status.SetText("")
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func validateClock(text string) error {
	_, err := clocktext.Parse(text)
	return err
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
