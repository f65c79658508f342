package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"eyesbreak/internal/cli"
	"eyesbreak/internal/core/session"
	"eyesbreak/internal/logging"

	"github.com/chzyer/readline"
)

func main() {
	logLevel := flag.String("log-level", "warn", "Logging level (debug|info|warn|error)")
	tick := flag.Duration("tick", session.DefaultTickInterval, "Countdown tick interval")
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "eyesbreak> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create readline: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(rl.Stderr(), *logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	broadcaster := session.NewBroadcaster()
	defer broadcaster.Close()

	controller := session.New(broadcaster, session.Config{TickInterval: *tick}, logger)
	shell := cli.NewShell(controller, rl.Stdout())

	events := broadcaster.Subscribe(64)
	go func() {
		for event := range events {
			shell.Render(event)
		}
	}()

	cli.Run(ctx, rl, shell)
}
