package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudmeta/internal/prompt"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *env, args []string) error
}

type env struct {
	stdout io.Writer
	stderr io.Writer
	driver prompt.Driver
	logger zerolog.Logger
}

var commands = []command{
	{name: "missing", summary: "list text keys missing from a locale", run: runMissing},
	{name: "textfill", summary: "prompt for missing texts and write them to the locale bundle", run: runTextfill},
	{name: "sqlimport", summary: "import text bundles into a SQLite table", run: runSQLImport},
	{name: "sqlexport", summary: "export a SQLite text table as YAML bundles", run: runSQLExport},
}

func main() {
	e := &env{
		stdout: os.Stdout,
		stderr: os.Stderr,
		driver: prompt.Survey(os.Stdout),
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel),
	}
	os.Exit(run(context.Background(), e, os.Args[1:]))
}

func run(ctx context.Context, e *env, args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(e.stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		if err := cmd.run(ctx, e, args[1:]); err != nil {
			if err == errFindings {
				return 1
			}
			fmt.Fprintf(e.stderr, "%s: %v\n", cmd.name, err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(e.stderr, "unknown command %q\n\n", args[0])
	usage(e.stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n\nCommands:\n", filepath.Base(os.Args[0]))
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.summary)
	}
}
