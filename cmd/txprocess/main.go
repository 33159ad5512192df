// Command txprocess inspects the marketplace transaction processes: it lists them,
// validates definition files, draws their graphs and shows what a transaction
// page would offer a given user.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amp-labs/txprocess/envutil"
	"github.com/amp-labs/txprocess/logger"
	"github.com/amp-labs/txprocess/process"
	"github.com/amp-labs/txprocess/registry"
	"github.com/amp-labs/txprocess/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2

	appName = "txprocess"

	definitionsDirEnv = "TXPROCESS_DEFINITIONS_DIR"
	environmentEnv    = "TXPROCESS_ENVIRONMENT"
)

var errUnknownCommand = errors.New("unknown command")

const usage = `usage: txprocess <command> [flags]

commands:
  list                              list the supported processes
  validate [-strict] [files...]     check definition files, or the loaded set
  graph [-process name] [-format mermaid|dot] [-direction TD|LR] [-tx file]
  state [-process name] -tx file [-user uuid] [-provider-banned] [-customer-banned]

Definitions are the built-in ones unless ` + definitionsDirEnv + ` names a directory of YAML files.
Spans are exported over OTLP/HTTP when OTEL_ENABLED=true and OTEL_EXPORTER_OTLP_TRACES_ENDPOINT is set.
`

type command func(ctx context.Context, env *env, args []string) error

var commands = map[string]command{ //nolint:gochecknoglobals
	"list":     runList,
	"validate": runValidate,
	"graph":    runGraph,
	"state":    runState,
}

// env is what every command gets besides its flags.
type env struct {
	stdout   io.Writer
	stderr   io.Writer
	log      *slog.Logger
	tracer   trace.Tracer
	registry func(ctx context.Context) (*registry.Registry, error)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// tracing returns the tracer for one run and a function that flushes it.
type tracing func(ctx context.Context, log *slog.Logger) (trace.Tracer, func(), error)

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return runWithTracing(ctx, exportTracing, args, stdout, stderr)
}

// exportTracing installs the OTLP tracer provider configured by the OTEL_*
// variables and traces through the global provider. Without OTEL_ENABLED the
// global provider stays a no-op.
func exportTracing(ctx context.Context, log *slog.Logger) (trace.Tracer, func(), error) {
	environment := envutil.String(ctx, environmentEnv, envutil.Default("local")).ValueOrElse("local")

	cfg, err := telemetry.LoadConfigFromEnv(ctx, appName, environment)
	if err != nil {
		return nil, nil, err
	}

	if err := telemetry.Initialize(ctx, cfg); err != nil {
		return nil, nil, err
	}

	flush := func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Timeout)
		defer cancel()

		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Warn("flushing traces failed", "error", err)
		}
	}

	return otel.Tracer(appName), flush, nil
}

func runWithTracing(ctx context.Context, setup tracing, args []string, stdout, stderr io.Writer) int {
	log, err := logger.ConfigureLogging(ctx, appName, logger.WithOutput(stderr))
	if err != nil {
		fmt.Fprintf(stderr, "txprocess: %v\n", err)

		return exitUsage
	}

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)

		return exitUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "txprocess: %v: %s\n\n%s", errUnknownCommand, args[0], usage)

		return exitUsage
	}

	tracer, flush, err := setup(ctx, log)
	if err != nil {
		fmt.Fprintf(stderr, "txprocess: tracing: %v\n", err)

		return exitUsage
	}

	defer flush()

	e := &env{
		stdout: stdout,
		stderr: stderr,
		log:    log,
		tracer: tracer,
		registry: func(ctx context.Context) (*registry.Registry, error) {
			return loadRegistry(ctx, log)
		},
	}

	ctx, span := tracer.Start(ctx, "txprocess."+args[0],
		trace.WithAttributes(attribute.StringSlice("args", args[1:])))
	defer span.End()

	if err := cmd(ctx, e, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitUsage
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		log.Debug("command failed", "command", args[0], "error", err)
		fmt.Fprintf(stderr, "txprocess %s: %v\n", args[0], err)

		return exitFail
	}

	span.SetStatus(codes.Ok, "")

	return exitOK
}

// loadRegistry returns the built-in registry, or one built from the directory
// named by TXPROCESS_DEFINITIONS_DIR.
func loadRegistry(ctx context.Context, log *slog.Logger) (*registry.Registry, error) {
	dir := envutil.String(ctx, definitionsDirEnv).ValueOrElse("")
	if dir == "" {
		return registry.Default(), nil
	}

	defs, err := process.LoadDefinitionsFromFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("loading definitions from %s: %w", dir, err)
	}

	log.Debug("loaded definitions", "dir", dir, "count", len(defs))

	return registry.New(defs, registry.WithLogger(log))
}

func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	return fs
}
