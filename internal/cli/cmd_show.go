package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"songbook/internal/library"
	"songbook/internal/song"
	"songbook/internal/task"
)

var errNotASong = errors.New("directory is not a song")

// cmdShow prints a song record.
func cmdShow() *Command {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	plain := flags.Bool("plain", false, "print only the flattened plain text")

	cmd := &Command{
		Usage: "show <path> [flags]",
		Short: "Show the song record stored in a directory",
		Flags: flags,
	}

	cmd.Exec = func(ctx context.Context, app *App, args []string) error {
		if len(args) == 0 || args[0] == "" {
			return errPathRequired
		}

		record, loadErr := loadSongTask(ctx, app, args[0])
		if loadErr != nil {
			return loadErr
		}

		if *plain {
			app.IO.Println(record.PlainText())

			return nil
		}

		printSong(app.IO, record)

		return nil
	}

	return cmd
}

// loadSongTask classifies a directory inside the access guard and returns
// its decoded record.
func loadSongTask(ctx context.Context, app *App, rel string) (*song.Song, error) {
	access, beginErr := app.Manager.Begin()
	if beginErr != nil {
		return nil, beginErr
	}

	defer access.Close()

	dir, pathErr := resolveInRoot(access.Root(), rel)
	if pathErr != nil {
		return nil, pathErr
	}

	classify := task.Go(func() (library.Classification, error) {
		return library.Classify(dir)
	})

	class, classifyErr := classify.Await(ctx)
	if classifyErr != nil {
		return nil, fmt.Errorf("classifying %s: %w", dir, classifyErr)
	}

	if class.Warning != nil {
		return nil, fmt.Errorf("%w: %s: %w", errNotASong, class.Warning.Path, class.Warning.Err)
	}

	if class.Record == nil {
		return nil, fmt.Errorf("%w: %s", errNotASong, dir)
	}

	return class.Record, nil
}

func printSong(out *IO, record *song.Song) {
	out.Println("title:  ", record.Title)
	out.Println("id:     ", record.ID)
	out.Println("created:", record.CreatedAt.UTC().Format(time.RFC3339))
	out.Println("updated:", record.UpdatedAt.UTC().Format(time.RFC3339))
	out.Println("entries:")

	for idx, entry := range record.Entries {
		out.Printf("  %d. [%s] %s\n", idx+1, entry.Kind, entry.Title)

		if entry.Text != "" {
			out.Println()
			out.Println(entry.Text)
			out.Println()
		}
	}
}
