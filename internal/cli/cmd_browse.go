package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"songbook/internal/library"
)

// cmdBrowse is an interactive walk of the tree. The caller-side navigation
// state is an explicit stack of directory locations relative to the root;
// each step down or up triggers exactly one fresh single-level scan, so the
// view never depends on stale nodes.
func cmdBrowse() *Command {
	cmd := &Command{
		Usage: "browse",
		Short: "Interactively browse the library tree",
	}

	cmd.Exec = func(ctx context.Context, app *App, _ []string) error {
		return browse(ctx, app)
	}

	return cmd
}

func browse(ctx context.Context, app *App) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)

	// Navigation stack of locations relative to the root; empty means the
	// root itself.
	var stack []string

	for {
		rel := filepath.Join(stack...)

		node, warnings, scanErr := scanLevelTask(ctx, app, rel)
		if scanErr != nil {
			return scanErr
		}

		for _, w := range warnings {
			app.IO.ErrPrintln("warning:", w.Path+":", w.Err)
		}

		printBrowseLevel(app.IO, rel, node)

		input, promptErr := line.Prompt("songbook> ")
		if promptErr != nil {
			if errors.Is(promptErr, liner.ErrPromptAborted) {
				return nil
			}

			return fmt.Errorf("reading input: %w", promptErr)
		}

		line.AppendHistory(input)

		quit, cmdErr := applyBrowseCommand(app, &stack, node, strings.Fields(input))
		if cmdErr != nil {
			app.IO.ErrPrintln("error:", cmdErr)
		}

		if quit {
			return nil
		}
	}
}

// Browse errors.
var (
	errBrowseUsage   = errors.New("commands: ls, cd <n>, up, show <n>, quit")
	errBrowseNoEntry = errors.New("no such entry")
	errBrowseIsSong  = errors.New("entry is a song; use show")
)

// applyBrowseCommand mutates the navigation stack. Returns quit=true on exit.
func applyBrowseCommand(app *App, stack *[]string, node *library.Node, fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "q", "exit":
		return true, nil
	case "ls":
		return false, nil // the loop rescans and reprints
	case "up":
		if len(*stack) > 0 {
			*stack = (*stack)[:len(*stack)-1]
		}

		return false, nil
	case "cd":
		child, pickErr := pickChild(node, fields)
		if pickErr != nil {
			return false, pickErr
		}

		if child.IsSong() {
			return false, errBrowseIsSong
		}

		*stack = append(*stack, child.Name)

		return false, nil
	case "show":
		child, pickErr := pickChild(node, fields)
		if pickErr != nil {
			return false, pickErr
		}

		if !child.IsSong() {
			return false, fmt.Errorf("%w: %s", errNotASong, child.Name)
		}

		printSong(app.IO, child.Record)

		return false, nil
	default:
		return false, errBrowseUsage
	}
}

func pickChild(node *library.Node, fields []string) (*library.Node, error) {
	if len(fields) < 2 {
		return nil, errBrowseUsage
	}

	idx, parseErr := strconv.Atoi(fields[1])
	if parseErr == nil {
		if idx < 1 || idx > len(node.Children) {
			return nil, fmt.Errorf("%w: %d", errBrowseNoEntry, idx)
		}

		return node.Children[idx-1], nil
	}

	for _, child := range node.Children {
		if child.Name == fields[1] {
			return child, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", errBrowseNoEntry, fields[1])
}

func printBrowseLevel(out *IO, rel string, node *library.Node) {
	location := "/"
	if rel != "" {
		location = "/" + filepath.ToSlash(rel)
	}

	out.Println()
	out.Println(location)

	if len(node.Children) == 0 {
		out.Println("  (empty)")

		return
	}

	for idx, child := range node.Children {
		kind := "category"
		name := child.Name

		if child.IsSong() {
			kind = "song"
			name = child.Record.Title
		}

		out.Printf("  %2d. %-8s %s\n", idx+1, kind, name)
	}
}
