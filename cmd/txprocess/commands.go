package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/txprocess/cli"
	"github.com/amp-labs/txprocess/envutil"
	"github.com/amp-labs/txprocess/process"
	"github.com/amp-labs/txprocess/process/validator"
	"github.com/amp-labs/txprocess/process/visualizer"
	"github.com/amp-labs/txprocess/registry"
	"github.com/amp-labs/txprocess/role"
	"github.com/amp-labs/txprocess/txstate"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	validateWorkersEnv     = "TXPROCESS_VALIDATE_WORKERS"
	defaultValidateWorkers = 4
)

var (
	errInvalidDefinitions = errors.New("definitions failed validation")
	errUnknownFormat      = errors.New("unknown graph format")
	errMissingFlag        = errors.New("missing required flag")
)

func runList(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("list", e)
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := e.registry(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0) //nolint:mnd
	fmt.Fprintln(tw, "NAME\tALIAS\tUNIT TYPES\tSTATES")

	for _, def := range reg.Definitions() {
		units := make([]string, 0, len(def.UnitTypes()))
		for _, unit := range def.UnitTypes() {
			units = append(units, string(unit))
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", def.Name(), def.Alias(), strings.Join(units, ","), len(def.Graph().States()))
	}

	return tw.Flush()
}

func runValidate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("validate", e)
	strict := fs.Bool("strict", false, "treat warnings as errors")

	if err := fs.Parse(args); err != nil {
		return err
	}

	valid := true

	report := func(name string, result validator.ValidationResult) {
		fmt.Fprintf(e.stdout, "%s: %s", name, result)

		valid = valid && result.Valid
	}

	if fs.NArg() > 0 {
		results, err := validateFiles(ctx, fs.Args(), *strict)
		if err != nil {
			return err
		}

		for i, result := range results {
			report(fs.Arg(i), result)
		}
	} else {
		reg, err := e.registry(ctx)
		if err != nil {
			return err
		}

		for _, def := range reg.Definitions() {
			if *strict {
				report(def.Name(), validator.ValidateStrict(def.Config()))
			} else {
				report(def.Name(), validator.ValidateDefinition(def))
			}
		}
	}

	if !valid {
		return errInvalidDefinitions
	}

	return nil
}

// validateFiles validates files on a bounded worker pool. Results come back in
// the order of files. A file that cannot be loaded yields a CONFIG_LOAD_FAILED
// result instead of stopping the others.
func validateFiles(ctx context.Context, files []string, strict bool) ([]validator.ValidationResult, error) {
	workers := envutil.Int(ctx, validateWorkersEnv, envutil.Default(defaultValidateWorkers)).
		ValueOrElse(defaultValidateWorkers)

	pool := pond.NewResultPool[validator.ValidationResult](max(workers, 1))
	defer pool.StopAndWait()

	group := pool.NewGroup()

	for _, file := range files {
		group.Submit(func() validator.ValidationResult {
			result, _ := validator.ValidateFile(file, strict)

			return result
		})
	}

	return group.Wait()
}

func runGraph(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("graph", e)
	name := fs.String("process", "", "process name, chosen interactively when empty")
	format := fs.String("format", "mermaid", "output format: mermaid or dot")
	direction := fs.String("direction", "TD", "diagram direction: TD or LR")
	txFile := fs.String("tx", "", "transaction JSON file whose path is highlighted")

	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := e.registry(ctx)
	if err != nil {
		return err
	}

	def, err := pickProcess(ctx, reg, *name)
	if err != nil {
		return err
	}

	opts := visualizer.DefaultOptions().WithDirection(*direction)

	if *txFile != "" {
		tx, err := readTransaction(*txFile)
		if err != nil {
			return err
		}

		opts = opts.WithTransaction(def, tx)
	}

	var out string

	switch *format {
	case "mermaid":
		out, err = visualizer.GenerateMermaid(def, opts)
	case "dot":
		out, err = visualizer.GenerateDOT(def, opts)
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, *format)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprint(e.stdout, out)

	return err
}

// stateReport is what the state command prints.
type stateReport struct {
	Role           process.Actor     `json:"role"`
	State          process.State     `json:"state"`
	NeedsAttention bool              `json:"needsAttention"`
	Data           txstate.StateData `json:"data"`
}

func runState(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("state", e)
	name := fs.String("process", "", "process name, taken from the transaction or chosen interactively when empty")
	txFile := fs.String("tx", "", "transaction JSON file")
	user := fs.String("user", "", "uuid of the viewing user, prompted for when empty")
	providerBanned := fs.Bool("provider-banned", false, "the provider is banned")
	customerBanned := fs.Bool("customer-banned", false, "the customer is banned")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *txFile == "" {
		return fmt.Errorf("%w: -tx", errMissingFlag)
	}

	tx, err := readTransaction(*txFile)
	if err != nil {
		return err
	}

	reg, err := e.registry(ctx)
	if err != nil {
		return err
	}

	processName := *name
	if processName == "" {
		processName = tx.ProcessName
	}

	def, err := pickProcess(ctx, reg, processName)
	if err != nil {
		return err
	}

	var userID string
	if *user == "" {
		userID, err = cli.PromptUUID("Viewing user")
	} else {
		userID, err = cli.CanonicalUUID(*user)
	}

	if err != nil {
		return err
	}

	actor, err := role.UserTxRole(&process.ID{UUID: userID}, tx)
	if err != nil {
		return err
	}

	_, span := e.tracer.Start(ctx, "txstate.data", trace.WithAttributes(
		attribute.String("role", string(actor)),
		attribute.Int("transitions", len(tx.Transitions)),
	))

	data, err := txstate.Data(def, tx, actor, txstate.Options{
		ProviderBanned: *providerBanned,
		CustomerBanned: *customerBanned,
	})

	span.End()

	if err != nil {
		return err
	}

	state, _ := def.State(tx)

	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(stateReport{
		Role:           actor,
		State:          state,
		NeedsAttention: reg.NeedsAttention(state, actor),
		Data:           data,
	})
}

// pickProcess resolves name, or asks the user to choose when it is empty. The
// resolved process is recorded on the command's span.
func pickProcess(ctx context.Context, reg *registry.Registry, name string) (*process.Definition, error) {
	if name == "" {
		names := make([]string, 0, len(reg.Definitions()))
		for _, def := range reg.Definitions() {
			names = append(names, def.Name())
		}

		chosen, err := cli.Select("Process", names...)
		if err != nil {
			return nil, err
		}

		name = chosen
	}

	def, err := reg.Get(name)
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("process.requested", name),
		attribute.String("process.name", def.Name()),
	)

	return def, nil
}

func readTransaction(path string) (*process.Transaction, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction %q: %w", path, err)
	}

	var tx process.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("failed to parse transaction %q: %w", path, err)
	}

	return &tx, nil
}
