// Package panel holds the weather window controller and the event loop it
// runs on. Widgets are created and destroyed through the View interface so
// the controller does not depend on a particular toolkit.
package panel

import "weather-panel/models"

// WidgetID identifies a widget created by a View
type WidgetID int

// Style selects how a label is drawn
type Style int

const (
	StyleBody Style = iota
	StyleNoticeSuccess
	StyleNoticeError
)

// Button is one of the two mode buttons
type Button int

const (
	ButtonTemperature Button = iota
	ButtonOther
)

func (b Button) String() string {
	if b == ButtonOther {
		return "Others"
	}
	return "Temp"
}

// View is the window the controller draws into. Implementations are only
// called from the event loop goroutine.
type View interface {
	AddLabel(text string, style Style) WidgetID
	AddImage(icon models.Icon) WidgetID
	Destroy(id WidgetID)
	SetButtonEnabled(b Button, enabled bool)
}
