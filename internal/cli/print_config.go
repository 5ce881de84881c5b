package cli

import (
	"context"
	"errors"

	"songbook/internal/handle"
)

// cmdPrintConfig prints the resolved configuration and handle status.
func cmdPrintConfig() *Command {
	cmd := &Command{
		Usage: "print-config",
		Short: "Print the resolved configuration and root handle status",
	}

	cmd.Exec = func(_ context.Context, app *App, _ []string) error {
		app.IO.Println("prefs_dir:", app.Config.PrefsDir)

		root, resolveErr := app.Manager.Resolve()

		switch {
		case resolveErr == nil:
			app.IO.Println("root:     ", root)
		case errors.Is(resolveErr, handle.ErrUnset):
			app.IO.Println("root:      (unset)")
		case errors.Is(resolveErr, handle.ErrStale):
			app.IO.Println("root:      (stale)")
		default:
			return resolveErr
		}

		app.IO.Println("status:   ", app.Manager.Status())

		return nil
	}

	return cmd
}
