// Package main is the entry point for the wharf package manager.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/cmd/wharf/commands"
	"go.trai.ch/wharf/internal/app"
	"go.trai.ch/wharf/internal/core/domain"
	_ "go.trai.ch/wharf/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available when initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrAborted) {
			_, _ = os.Stderr.WriteString("Aborted.\n")
			return 1
		}
		components.Logger.Error(err.Error())
		return 1
	}
	return 0
}
