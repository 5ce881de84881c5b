package cli

import (
	"context"
	"errors"
	"fmt"

	"songbook/internal/song"
	"songbook/internal/store"
	"songbook/internal/task"
)

var errPathRequired = errors.New("path is required")

// cmdConvert converts an existing plain folder into a song in place.
func cmdConvert() *Command {
	cmd := &Command{
		Usage: "convert <path>",
		Short: "Convert an existing category folder into a song",
	}

	cmd.Exec = func(ctx context.Context, app *App, args []string) error {
		if len(args) == 0 || args[0] == "" {
			return errPathRequired
		}

		record, convertErr := convertTask(ctx, app, args[0])
		if convertErr != nil {
			return convertErr
		}

		app.IO.Println("converted", record.Path)

		return nil
	}

	return cmd
}

func convertTask(ctx context.Context, app *App, rel string) (*song.Song, error) {
	access, beginErr := app.Manager.Begin()
	if beginErr != nil {
		return nil, beginErr
	}

	defer access.Close()

	dir, pathErr := resolveInRoot(access.Root(), rel)
	if pathErr != nil {
		return nil, pathErr
	}

	convert := task.Go(func() (*song.Song, error) {
		return store.Convert(dir)
	})

	record, convertErr := convert.Await(ctx)
	if convertErr != nil {
		return nil, fmt.Errorf("converting %s: %w", dir, convertErr)
	}

	return record, nil
}
