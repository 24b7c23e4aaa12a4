package models

// Mode selects which label group is rendered
type Mode int

const (
	// ModeNone is the state before the first successful lookup
	ModeNone Mode = iota
	// ModeTemperature shows condition and the four temperatures
	ModeTemperature
	// ModeOther shows pressure, humidity, wind, sunrise and sunset
	ModeOther
)

func (m Mode) String() string {
	switch m {
	case ModeTemperature:
		return "temperature"
	case ModeOther:
		return "other"
	default:
		return "none"
	}
}
