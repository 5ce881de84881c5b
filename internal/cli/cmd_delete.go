package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"songbook/internal/store"
	"songbook/internal/task"
)

var errDeleteNeedsForce = errors.New("delete is irreversible; pass --force to confirm")

// cmdDelete removes a song folder and everything inside it. The engine does
// no implicit confirmation, so the command requires an explicit --force.
func cmdDelete() *Command {
	flags := flag.NewFlagSet("delete", flag.ContinueOnError)
	force := flags.Bool("force", false, "actually delete; there is no undo")

	cmd := &Command{
		Usage: "delete <path> --force",
		Short: "Recursively delete a song folder",
		Flags: flags,
	}

	cmd.Exec = func(ctx context.Context, app *App, args []string) error {
		if len(args) == 0 || args[0] == "" {
			return errPathRequired
		}

		if !*force {
			return errDeleteNeedsForce
		}

		deleteErr := deleteTask(ctx, app, args[0])
		if deleteErr != nil {
			return deleteErr
		}

		app.IO.Println("deleted", args[0])

		return nil
	}

	return cmd
}

func deleteTask(ctx context.Context, app *App, rel string) error {
	access, beginErr := app.Manager.Begin()
	if beginErr != nil {
		return beginErr
	}

	defer access.Close()

	dir, pathErr := resolveInRoot(access.Root(), rel)
	if pathErr != nil {
		return pathErr
	}

	if dir == access.Root() {
		return fmt.Errorf("%w: %q is the library root", store.ErrUnsafePath, rel)
	}

	del := task.Go(func() (struct{}, error) {
		return struct{}{}, store.Delete(dir)
	})

	_, deleteErr := del.Await(ctx)
	if deleteErr != nil {
		return fmt.Errorf("deleting %s: %w", dir, deleteErr)
	}

	return nil
}
