package main

import (
	"context"
	"fmt"
	"io"

	"github.com/desertthunder/songboard/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog(cmd)
	if err != nil {
		return err
	}

	// Log output would corrupt the alternate screen.
	r.logger.SetOutput(io.Discard)

	if err := ui.Run(ctx, catalog); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
