package cli

import (
	"context"
	"fmt"
	"time"

	"songbook/internal/library"
	"songbook/internal/task"
)

// cmdLs scans one level of the tree and lists the classified children.
func cmdLs() *Command {
	cmd := &Command{
		Usage: "ls [path]",
		Short: "List songs and categories one level below a directory",
	}

	cmd.Exec = func(ctx context.Context, app *App, args []string) error {
		rel := ""
		if len(args) > 0 {
			rel = args[0]
		}

		node, warnings, scanErr := scanLevelTask(ctx, app, rel)
		if scanErr != nil {
			return scanErr
		}

		for _, w := range warnings {
			app.IO.Warn("%s: %v", w.Path, w.Err)
		}

		printNode(app.IO, node)

		return nil
	}

	return cmd
}

// scanLevelTask brackets one ScanLevel call in the access guard and runs it
// as an awaitable background task.
func scanLevelTask(ctx context.Context, app *App, rel string) (*library.Node, []library.Warning, error) {
	access, beginErr := app.Manager.Begin()
	if beginErr != nil {
		return nil, nil, beginErr
	}

	defer access.Close()

	dir, pathErr := resolveInRoot(access.Root(), rel)
	if pathErr != nil {
		return nil, nil, pathErr
	}

	type scanResult struct {
		node     *library.Node
		warnings []library.Warning
	}

	scan := task.Go(func() (scanResult, error) {
		node, warnings, err := library.ScanLevel(dir)

		return scanResult{node: node, warnings: warnings}, err
	})

	result, scanErr := scan.Await(ctx)
	if scanErr != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", dir, scanErr)
	}

	return result.node, result.warnings, nil
}

func printNode(out *IO, node *library.Node) {
	if node.IsSong() {
		out.Println("song:", node.Record.Title)

		return
	}

	if len(node.Children) == 0 {
		out.Println("(empty)")

		return
	}

	for _, child := range node.Children {
		kind := "category"
		name := child.Name

		if child.IsSong() {
			kind = "song"
			name = child.Record.Title
		}

		out.Printf("%-8s  %-30s  %s\n", kind, name, formatFreshness(child.Freshness))
	}
}

func formatFreshness(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.UTC().Format(time.RFC3339)
}
