package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"weather-panel/logger"
)

// Input commands that press the mode buttons or end the session
const (
	CommandTemperature = "/temp"
	CommandOther       = "/other"
	CommandQuit        = "/quit"
)

// Commands is the controller surface driven by input lines
type Commands interface {
	SubmitCityQuery(ctx context.Context, city string)
	SwitchToTemperaturePanel()
	SwitchToOtherPanel()
}

// Input reads one command or city per line
type Input struct {
	reader io.Reader
	post   func(func())
	cmds   Commands
	view   *View
	quit   func()
	settle func()
}

// NewInput creates an input reader. Every command is posted to the event
// loop with post. quit is called on /quit and, once queued commands have been
// applied, at end of input. view may be nil.
func NewInput(r io.Reader, post func(func()), cmds Commands, view *View, quit func()) *Input {
	return &Input{reader: r, post: post, cmds: cmds, view: view, quit: quit}
}

// SetSettle makes end of input wait for settle before quitting, typically
// until the lookups started by the last commands have delivered.
func (in *Input) SetSettle(settle func()) {
	in.settle = settle
}

// Run reads until end of input, /quit, or ctx is done
func (in *Input) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(in.reader)
	for scanner.Scan() {
		if ctx.Err() != nil {
			in.quit()
			return nil
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		switch strings.TrimSpace(line) {
		case CommandQuit:
			in.quit()
			return nil
		case CommandTemperature:
			in.post(in.cmds.SwitchToTemperaturePanel)
		case CommandOther:
			in.post(in.cmds.SwitchToOtherPanel)
		default:
			// the city goes out exactly as typed, empty included
			city := line
			logger.GetLogger().Debugw("Read city from input", "city", city)
			in.post(func() {
				if in.view != nil {
					in.view.SetCity(city)
				}
				in.cmds.SubmitCityQuery(ctx, city)
			})
		}
	}

	if err := scanner.Err(); err != nil {
		in.quit()
		return fmt.Errorf("failed to read input: %w", err)
	}

	// queued after every command, so it runs once they have been applied
	in.post(in.finish)
	return nil
}

// finish runs on the event loop at end of input
func (in *Input) finish() {
	if in.settle == nil {
		in.quit()
		return
	}
	go func() {
		in.settle()
		in.post(in.quit)
	}()
}
