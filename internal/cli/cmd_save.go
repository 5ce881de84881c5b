package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"songbook/internal/song"
	"songbook/internal/store"
	"songbook/internal/task"
)

// Save errors.
var (
	errTextRequired = errors.New("provide --text or --stdin")
	errEntryIndex   = errors.New("entry index out of range")
)

// cmdSave is the explicit-save path the editing surface drives: it supplies
// a title and text, and commits the record with a single write.
func cmdSave() *Command {
	flags := flag.NewFlagSet("save", flag.ContinueOnError)
	text := flags.String("text", "", "new text for the entry")
	fromStdin := flags.Bool("stdin", false, "read the entry text from stdin")
	title := flags.String("title", "", "new record title (unchanged if empty)")
	entryNum := flags.Int("entry", 1, "1-based entry to update")

	cmd := &Command{
		Usage: "save <path> [flags]",
		Short: "Update a song entry's text and save the record",
		Flags: flags,
	}

	cmd.Exec = func(ctx context.Context, app *App, args []string) error {
		if len(args) == 0 || args[0] == "" {
			return errPathRequired
		}

		newText := *text

		if *fromStdin {
			data, readErr := io.ReadAll(app.Stdin)
			if readErr != nil {
				return fmt.Errorf("reading stdin: %w", readErr)
			}

			newText = string(data)
		} else if newText == "" && *title == "" {
			return errTextRequired
		}

		record, saveErr := saveTask(ctx, app, args[0], *title, newText, *entryNum, *fromStdin || *text != "")
		if saveErr != nil {
			return saveErr
		}

		app.IO.Println("saved", record.Path)

		return nil
	}

	return cmd
}

// saveTask loads the record, applies the edit to the in-memory value copy,
// and commits it with one write. The write is awaited before returning so a
// follow-up reload never races a save in flight.
func saveTask(ctx context.Context, app *App, rel, title, text string, entryNum int, setText bool) (*song.Song, error) {
	record, loadErr := loadSongTask(ctx, app, rel)
	if loadErr != nil {
		return nil, loadErr
	}

	if title != "" {
		record.Title = title
	}

	if setText {
		if entryNum < 1 || entryNum > len(record.Entries) {
			return nil, fmt.Errorf("%w: %d (record has %d)", errEntryIndex, entryNum, len(record.Entries))
		}

		entry := &record.Entries[entryNum-1]
		entry.Text = text
		entry.UpdatedAt = song.Now()
	}

	access, beginErr := app.Manager.Begin()
	if beginErr != nil {
		return nil, beginErr
	}

	defer access.Close()

	write := task.Go(func() (struct{}, error) {
		return struct{}{}, store.Write(record)
	})

	_, writeErr := write.Await(ctx)
	if writeErr != nil {
		return nil, fmt.Errorf("saving %s: %w", record.Path, writeErr)
	}

	return record, nil
}
