// Package cli implements the songbook command line interface.
//
// The CLI is a thin driving surface over the engine packages: every command
// resolves the persisted root handle, brackets its filesystem work in a
// scoped access guard, and runs that work off the calling goroutine as an
// awaitable task.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"songbook/internal/handle"
)

// App carries the resolved configuration and IO for one command invocation.
type App struct {
	IO      *IO
	Stdin   io.Reader
	Config  Config
	Manager *handle.Manager
}

var errPathEscapesRoot = errors.New("path escapes the library root")

// Run is the main entry point. Returns the process exit code.
func Run(ctx context.Context, stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string) int {
	ioCtx := NewIO(out, errOut)

	globals := flag.NewFlagSet("songbook", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	configPath := globals.String("config", "", "explicit config file path")
	prefsDir := globals.String("prefs-dir", "", "override the preference directory")

	parseErr := globals.Parse(args[1:])
	if parseErr != nil {
		if errors.Is(parseErr, flag.ErrHelp) {
			printUsage(ioCtx)

			return 0
		}

		ioCtx.ErrPrintln("error:", parseErr)

		return 1
	}

	remaining := globals.Args()
	if len(remaining) == 0 {
		printUsage(ioCtx)

		return 0
	}

	cfg, cfgErr := LoadConfig(*configPath, Config{PrefsDir: *prefsDir}, env)
	if cfgErr != nil {
		ioCtx.ErrPrintln("error:", cfgErr)

		return 1
	}

	app := &App{
		IO:      ioCtx,
		Stdin:   stdin,
		Config:  cfg,
		Manager: handle.NewManager(cfg.PrefsDir),
	}

	name := remaining[0]
	if name == "-h" || name == "--help" || name == "help" {
		printUsage(ioCtx)

		return 0
	}

	for _, cmd := range commands() {
		if cmd.Name() == name {
			return cmd.Run(ctx, app, remaining[1:])
		}
	}

	ioCtx.ErrPrintln("error: unknown command:", name)
	printUsage(ioCtx)

	return 1
}

// commands lists all subcommands in help order.
func commands() []*Command {
	return []*Command{
		cmdRoot(),
		cmdLs(),
		cmdCreate(),
		cmdConvert(),
		cmdShow(),
		cmdSave(),
		cmdDelete(),
		cmdBrowse(),
		cmdPrintConfig(),
	}
}

func printUsage(out *IO) {
	out.Println("Usage: songbook [global flags] <command> [args]")
	out.Println()
	out.Println("A file-backed hierarchical song library.")
	out.Println()
	out.Println("Commands:")

	for _, cmd := range commands() {
		out.Println(cmd.HelpLine())
	}

	out.Println()
	out.Println("Global flags:")
	out.Println("      --config string      explicit config file path")
	out.Println("      --prefs-dir string   override the preference directory")
}

// resolveInRoot joins a user-supplied relative path onto the library root,
// rejecting absolute paths and anything that would escape the root.
func resolveInRoot(root, rel string) (string, error) {
	if rel == "" || rel == "." {
		return root, nil
	}

	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", errPathEscapesRoot, rel)
	}

	return filepath.Join(root, rel), nil
}
