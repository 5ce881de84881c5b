package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"songbook/internal/song"
	"songbook/internal/store"
	"songbook/internal/task"
)

var errTitleRequired = errors.New("title is required")

// cmdCreate creates a new song folder with a fresh record inside.
func cmdCreate() *Command {
	flags := flag.NewFlagSet("create", flag.ContinueOnError)
	parent := flags.String("in", "", "parent directory relative to the root")

	cmd := &Command{
		Usage: "create <title> [flags]",
		Short: "Create a new song folder under a category",
		Flags: flags,
	}

	cmd.Exec = func(ctx context.Context, app *App, args []string) error {
		if len(args) == 0 || args[0] == "" {
			return errTitleRequired
		}

		title := args[0]

		record, createErr := createTask(ctx, app, *parent, title)
		if createErr != nil {
			return createErr
		}

		app.IO.Println("created", record.Path)

		return nil
	}

	return cmd
}

func createTask(ctx context.Context, app *App, parentRel, title string) (*song.Song, error) {
	access, beginErr := app.Manager.Begin()
	if beginErr != nil {
		return nil, beginErr
	}

	defer access.Close()

	parentDir, pathErr := resolveInRoot(access.Root(), parentRel)
	if pathErr != nil {
		return nil, pathErr
	}

	create := task.Go(func() (*song.Song, error) {
		return store.Create(parentDir, title)
	})

	record, createErr := create.Await(ctx)
	if createErr != nil {
		return nil, fmt.Errorf("creating song %q: %w", title, createErr)
	}

	return record, nil
}
