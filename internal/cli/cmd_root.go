package cli

import (
	"context"
	"errors"
	"fmt"
)

var errRootTooManyArgs = errors.New("root takes at most one argument")

// cmdRoot shows or sets the persisted library root.
func cmdRoot() *Command {
	cmd := &Command{
		Usage: "root [dir]",
		Short: "Show the resolved library root, or grant a new one",
	}

	cmd.Exec = func(_ context.Context, app *App, args []string) error {
		switch len(args) {
		case 0:
			return showRoot(app)
		case 1:
			return setRoot(app, args[0])
		default:
			return errRootTooManyArgs
		}
	}

	return cmd
}

func showRoot(app *App) error {
	root, resolveErr := app.Manager.Resolve()
	if resolveErr != nil {
		return fmt.Errorf("resolving root: %w", resolveErr)
	}

	app.IO.Println(root)

	return nil
}

func setRoot(app *App, dir string) error {
	saveErr := app.Manager.Save(dir)
	if saveErr != nil {
		return fmt.Errorf("saving root handle: %w", saveErr)
	}

	root, resolveErr := app.Manager.Resolve()
	if resolveErr != nil {
		return fmt.Errorf("resolving saved root: %w", resolveErr)
	}

	app.IO.Println("root set to", root)

	return nil
}
