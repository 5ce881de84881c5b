package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines one songbook subcommand with unified help generation.
type Command struct {
	// Usage is the freeform usage string shown after "songbook" in help,
	// including the command name and arguments.
	// Examples: "ls [path]", "create <title> [flags]".
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Flags defines command-specific flags; may be nil.
	Flags *flag.FlagSet

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, app *App, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-24s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "songbook <cmd> --help".
func (c *Command) PrintHelp(out *IO) {
	out.Println("Usage: songbook", c.Usage)
	out.Println()
	out.Println(c.Short)

	if c.Flags != nil && c.Flags.HasFlags() {
		out.Println()
		out.Println("Flags:")

		var buf strings.Builder

		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		out.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command, printing errors itself for
// consistent output ordering. Returns the exit code.
func (c *Command) Run(ctx context.Context, app *App, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	parseErr := c.Flags.Parse(args)
	if parseErr != nil {
		if errors.Is(parseErr, flag.ErrHelp) {
			c.PrintHelp(app.IO)

			return 0
		}

		app.IO.ErrPrintln("error:", parseErr)
		app.IO.ErrPrintln()
		c.PrintHelp(app.IO)

		return 1
	}

	execErr := c.Exec(ctx, app, c.Flags.Args())
	if execErr != nil {
		app.IO.ErrPrintln("error:", execErr)

		return 1
	}

	return app.IO.Finish()
}
