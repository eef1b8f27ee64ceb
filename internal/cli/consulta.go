package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	goflags "github.com/jessevdk/go-flags"

	"precatorios/internal/core"
	"precatorios/internal/filter"
	applog "precatorios/internal/log"
	"precatorios/internal/sheets"
	"precatorios/internal/sheets/remote"
)

// env carries the process streams and the loader factory so commands can be
// run against test doubles.
type env struct {
	out       io.Writer
	errOut    io.Writer
	newReader func(baseURL string) sheets.DatasetReader
}

func defaultEnv() *env {
	return &env{
		out:    os.Stdout,
		errOut: os.Stderr,
		newReader: func(baseURL string) sheets.DatasetReader {
			return remote.New(baseURL)
		},
	}
}

type commands struct {
	Options *OptionsCommand
	Filtrar *FiltrarCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(e *env) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "consulta"
	parser.LongDescription = "Faceted browsing of the ROPV and Precatórios spreadsheets served by the dataset service."

	cmds := &commands{
		Options: &OptionsCommand{globals: &globals, env: e},
		Filtrar: &FiltrarCommand{globals: &globals, env: e},
	}

	parser.AddCommand("options", "List filter options",
		"List the distinct values of every dimension in the full dataset.", cmds.Options)
	parser.AddCommand("filtrar", "Filter a dataset and print the report",
		"Select values per dimension, apply the filters once and print the displayed filters, the total and the record count.", cmds.Filtrar)

	return parser, &globals, cmds
}

// Consulta is the entry point of cmd/consulta.
func Consulta(version string) error {
	return runConsulta(version, os.Args[1:], defaultEnv())
}

func runConsulta(version string, args []string, e *env) error {
	for _, arg := range args {
		if arg == "--version" {
			fmt.Fprintf(e.out, "consulta %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(e)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

// session loads source through the service and initializes an engine with
// it. A failed or empty load leaves no session.
func session(ctx context.Context, g *GlobalFlags, e *env, source core.Source) (*filter.Engine, error) {
	logger := commandLogger(g, e)

	start := time.Now()
	records, err := e.newReader(g.Server).ReadRecords(ctx, source)
	if err != nil {
		logger.DebugContext(ctx, "Dataset load failed", applog.FieldSource, source.String(), applog.FieldError, err)
		return nil, err
	}
	logger.DebugContext(ctx, "Dataset loaded",
		applog.FieldSource, source.String(),
		applog.FieldRecordCount, len(records),
		applog.FieldDuration, time.Since(start).Milliseconds())

	engine := filter.NewEngine()
	engine.Initialize(records)
	if !engine.Loaded() {
		return nil, core.NewLoadFailure(source, core.ErrEmptyDataset)
	}
	return engine, nil
}

func commandLogger(g *GlobalFlags, e *env) *applog.Logger {
	level := slog.LevelError
	if g != nil && g.Verbose {
		level = slog.LevelDebug
	}
	return applog.New(applog.Config{
		Level:     level,
		Component: applog.ComponentFilter,
		Output:    e.errOut,
	})
}
