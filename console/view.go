// Package console is a terminal front-end for the weather panel: a View that
// draws the widget list as text frames and a reader that turns input lines
// into controller calls.
package console

import (
	"fmt"
	"image"
	"io"
	"strings"

	"weather-panel/models"
	"weather-panel/panel"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiClear = "\x1b[H\x1b[2J"

	iconColumns = 24
	iconRows    = 10
)

// luminance ramp from dark to bright
var ramp = []byte(" .:-=+*#%@")

type entry struct {
	text  string
	style panel.Style
	icon  *models.Icon
}

// View draws the window as text. Mutations mark the frame dirty and Flush
// draws it; run Flush after each event loop callback.
type View struct {
	out   io.Writer
	color bool

	next    panel.WidgetID
	order   []panel.WidgetID
	widgets map[panel.WidgetID]entry
	buttons map[panel.Button]bool
	city    string
	pending bool
}

// Ensure View implements panel.View
var _ panel.View = (*View)(nil)

// NewView creates a view writing to out. color enables ANSI colors and
// screen clearing.
func NewView(out io.Writer, color bool) *View {
	return &View{
		out:     out,
		color:   color,
		widgets: make(map[panel.WidgetID]entry),
		buttons: make(map[panel.Button]bool),
	}
}

// AddLabel adds a text line below the existing widgets
func (v *View) AddLabel(text string, style panel.Style) panel.WidgetID {
	return v.add(entry{text: text, style: style})
}

// AddImage adds an icon below the existing widgets
func (v *View) AddImage(icon models.Icon) panel.WidgetID {
	return v.add(entry{icon: &icon})
}

func (v *View) add(e entry) panel.WidgetID {
	v.next++
	v.widgets[v.next] = e
	v.order = append(v.order, v.next)
	v.invalidate()
	return v.next
}

// Destroy removes a widget; unknown ids are ignored
func (v *View) Destroy(id panel.WidgetID) {
	if _, ok := v.widgets[id]; !ok {
		return
	}
	delete(v.widgets, id)
	for i, existing := range v.order {
		if existing == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
	v.invalidate()
}

// SetButtonEnabled updates a mode button
func (v *View) SetButtonEnabled(b panel.Button, enabled bool) {
	v.buttons[b] = enabled
	v.invalidate()
}

// SetCity records the text shown in the input field
func (v *View) SetCity(city string) {
	v.city = city
	v.invalidate()
}

// ButtonEnabled reports whether a mode button is enabled
func (v *View) ButtonEnabled(b panel.Button) bool {
	return v.buttons[b]
}

func (v *View) invalidate() {
	v.pending = true
}

// Flush redraws if anything changed since the last frame
func (v *View) Flush() {
	if v.pending {
		v.Redraw()
	}
}

// Redraw writes the current frame
func (v *View) Redraw() {
	v.pending = false
	frame := v.Frame()
	if v.color {
		frame = ansiClear + frame
	}
	io.WriteString(v.out, frame)
}

// Frame renders the window as text
func (v *View) Frame() string {
	var b strings.Builder

	b.WriteString("Weather App\n")
	fmt.Fprintf(&b, "City: %s\n", v.city)
	fmt.Fprintf(&b, "%s %s\n", v.button(panel.ButtonTemperature), v.button(panel.ButtonOther))

	for _, id := range v.order {
		e := v.widgets[id]
		switch {
		case e.icon != nil:
			b.WriteString(renderIcon(*e.icon))
		case e.style == panel.StyleNoticeSuccess:
			b.WriteString(v.paint(ansiGreen, e.text) + "\n")
		case e.style == panel.StyleNoticeError:
			b.WriteString(v.paint(ansiRed, e.text) + "\n")
		default:
			b.WriteString(e.text + "\n")
		}
	}

	b.WriteString("> ")
	return b.String()
}

// button shows enabled buttons in brackets and disabled ones in parentheses
func (v *View) button(b panel.Button) string {
	if v.buttons[b] {
		return "[" + b.String() + "]"
	}
	return "(" + b.String() + ")"
}

func (v *View) paint(code, text string) string {
	if !v.color {
		return text
	}
	return code + text + ansiReset
}

// renderIcon draws the icon as a small luminance ramp
func renderIcon(icon models.Icon) string {
	if icon.Image == nil {
		return fmt.Sprintf("[icon %s]\n", icon.Code)
	}

	bounds := icon.Image.Bounds()
	var b strings.Builder
	for row := 0; row < iconRows; row++ {
		line := make([]byte, iconColumns)
		for col := 0; col < iconColumns; col++ {
			x := bounds.Min.X + (2*col+1)*bounds.Dx()/(2*iconColumns)
			y := bounds.Min.Y + (2*row+1)*bounds.Dy()/(2*iconRows)
			line[col] = shade(icon.Image, x, y)
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func shade(img image.Image, x, y int) byte {
	r, g, bl, a := img.At(x, y).RGBA()
	if a < 0x4000 {
		return ' '
	}
	// Rec. 601 luma on 16-bit channels
	luma := (299*r + 587*g + 114*bl) / 1000
	idx := int(luma) * (len(ramp) - 1) / 0xffff
	if idx == 0 {
		// opaque pixels stay visible
		idx = 1
	}
	return ramp[idx]
}
