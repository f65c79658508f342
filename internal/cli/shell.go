// Package cli provides the interactive terminal front end for the
// countdown controller.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"eyesbreak/internal/core/clocktext"
	"eyesbreak/internal/core/session"

	"github.com/chzyer/readline"
)

// Shell executes console commands against a session controller.
type Shell struct {
	controller *session.Controller
	out        io.Writer
}

// NewShell creates a shell writing its output to out.
func NewShell(controller *session.Controller, out io.Writer) *Shell {
	return &Shell{
		controller: controller,
		out:        out,
	}
}

// Execute runs one command line. It reports whether the shell should exit.
func (shell *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		shell.printHelp()
	case "start", "s":
		shell.cmdStart(ctx, args)
	case "cancel", "c", "stop":
		shell.controller.Cancel()
	case "status", "st":
		shell.cmdStatus()
	case "quit", "exit", "q":
		shell.controller.Cancel()
		return true
	default:
		fmt.Fprintf(shell.out, "Unknown command: %s (type 'help')\n", cmd)
	}
	return false
}

// Render prints a controller event.
func (shell *Shell) Render(event session.Event) {
	switch event.Type {
	case session.EventStarted:
		fmt.Fprintf(shell.out, "Session started: %s\n", event.Remaining)
	case session.EventTimeProgress:
		fmt.Fprintf(shell.out, "Running... %.0f%% - Time remaining: %s\n", event.Percentage, event.Remaining)
	case session.EventCancelled:
		fmt.Fprintln(shell.out, "Session cancelled")
	case session.EventCompleted:
		fmt.Fprintln(shell.out, "Session completed")
	case session.EventError:
		fmt.Fprintf(shell.out, "Session did not start: %v\n", event.Err)
	}
}

func (shell *Shell) cmdStart(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(shell.out, "Usage: start HH:MM:SS")
		return
	}
	// Failures are reported through the EventError rendering.
	_, _ = shell.controller.Start(ctx, args[0])
}

func (shell *Shell) cmdStatus() {
	run := shell.controller.Active()
	if run == nil {
		fmt.Fprintf(shell.out, "State: %s (last: %s)\n", shell.controller.State(), shell.controller.LastOutcome())
		return
	}
	fmt.Fprintf(shell.out, "State: %s, %s of %s remaining\n",
		shell.controller.State(),
		clocktext.Format(run.Remaining()),
		clocktext.Format(run.Total()),
	)
}

func (shell *Shell) printHelp() {
	fmt.Fprintln(shell.out, `Commands:
  start HH:MM:SS   start a countdown
  cancel           cancel the running countdown
  status           show the controller state
  help             show this help
  quit             cancel and exit`)
}

// Run reads commands from rl until quit, EOF or ctx is done.
func Run(ctx context.Context, rl *readline.Instance, shell *Shell) {
	defer rl.Close()

	shell.printHelp()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(shell.out, "Exiting...")
			shell.controller.Cancel()
			return
		}
		if shell.Execute(ctx, line) {
			return
		}
	}
}
