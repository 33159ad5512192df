package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amp-labs/txprocess/envutil"
	"github.com/amp-labs/txprocess/optional"
	"github.com/amp-labs/txprocess/process"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func runWithTracer(ctx context.Context, tracer trace.Tracer, args []string, stdout, stderr io.Writer) int {
	return runWithTracing(ctx, func(context.Context, *slog.Logger) (trace.Tracer, func(), error) {
		return tracer, func() {}, nil
	}, args, stdout, stderr)
}

func runCmd(ctx context.Context, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer

	code := run(ctx, args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	file := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	return file
}

func TestRunUsage(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCmd(context.Background())
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "usage: txprocess")

	code, _, stderr = runCmd(context.Background(), "frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "unknown command: frobnicate")

	code, _, _ = runCmd(context.Background(), "list", "-h")
	assert.Equal(t, exitUsage, code)
}

func TestRunList(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCmd(context.Background(), "list")
	require.Equal(t, exitOK, code)

	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "default-purchase/release-1")
	assert.Contains(t, stdout, "day,night,hour,fixed")
	assert.Contains(t, stdout, "default-negotiation")
}

func TestRunListFromDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "custom.yaml", `
name: custom-process
alias: custom-process/release-3
initialState: initial
states:
  - name: initial
`)

	ctx := envutil.WithEnvOverride(context.Background(), definitionsDirEnv, dir)

	code, stdout, _ := runCmd(ctx, "list")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "custom-process/release-3")
	assert.NotContains(t, stdout, "default-purchase")
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCmd(context.Background(), "validate")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "default-booking: ✓ Definition is valid")

	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.yaml", `
name: broken
initialState: initial
states:
  - name: initial
    on:
      - {transition: transition/go, to: nowhere}
`)

	code, stdout, stderr := runCmd(context.Background(), "validate", broken)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stdout, "[DANGLING_DESTINATION]")
	assert.Contains(t, stderr, errInvalidDefinitions.Error())

	warned := writeFile(t, dir, "warned.yaml", `
name: warned
initialState: initial
states:
  - name: initial
    on:
      - {transition: go, to: gone}
  - name: gone
`)

	code, _, _ = runCmd(context.Background(), "validate", warned)
	assert.Equal(t, exitOK, code)

	code, stdout, _ = runCmd(context.Background(), "validate", "-strict", warned)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stdout, "[NAMING_CONVENTION]")

	ctx := envutil.WithEnvOverride(context.Background(), validateWorkersEnv, "2")

	code, stdout, _ = runCmd(ctx, "validate", warned, broken, warned)
	assert.Equal(t, exitFail, code)
	assert.Less(t, strings.Index(stdout, warned+":"), strings.Index(stdout, broken+":"))
	assert.Equal(t, 2, strings.Count(stdout, warned+":"))

	missing := filepath.Join(dir, "missing.yaml")

	code, stdout, stderr = runCmd(context.Background(), "validate", missing)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stdout, missing+": ✗")
	assert.Contains(t, stdout, "[CONFIG_LOAD_FAILED]")
	assert.Contains(t, stderr, errInvalidDefinitions.Error())
}

func TestRunValidateReportsEveryFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", `
name: good
initialState: initial
states:
  - name: initial
    on:
      - {transition: transition/go, to: gone}
  - name: gone
`)
	bad := writeFile(t, dir, "bad.yaml", "name: [unterminated\n")

	code, stdout, stderr := runCmd(context.Background(), "validate", good, bad, good)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, errInvalidDefinitions.Error())

	assert.Contains(t, stdout, good+": ✓ Definition is valid")
	assert.Equal(t, 2, strings.Count(stdout, good+":"))
	assert.Contains(t, stdout, bad+": ✗")
	assert.Contains(t, stdout, "[CONFIG_LOAD_FAILED]")
	assert.Less(t, strings.Index(stdout, good+":"), strings.Index(stdout, bad+":"))
	assert.Less(t, strings.Index(stdout, bad+":"), strings.LastIndex(stdout, good+":"))
}

func TestRunGraph(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCmd(context.Background(), "graph", "-process", "flex-product-default-process")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "stateDiagram-v2")
	assert.Contains(t, stdout, "pending_payment --> purchased: confirm-payment")

	code, stdout, _ = runCmd(context.Background(), "graph", "-process", "default-inquiry", "-format", "dot", "-direction", "LR")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, `digraph "default-inquiry"`)
	assert.Contains(t, stdout, "rankdir=LR;")

	code, _, stderr := runCmd(context.Background(), "graph", "-process", "default-inquiry", "-format", "svg")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "unknown graph format")

	code, _, stderr = runCmd(context.Background(), "graph", "-process", "no-such-process")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "process not found")
}

func TestRunState(t *testing.T) {
	t.Parallel()

	customer := uuid.NewString()
	provider := uuid.NewString()

	tx := process.Transaction{
		ID:             &process.ID{UUID: uuid.NewString()},
		ProcessName:    "flex-product-default-process",
		LastTransition: optional.Some[process.Transition]("transition/confirm-payment"),
		Customer:       &process.Party{ID: &process.ID{UUID: customer}},
		Provider:       &process.Party{ID: &process.ID{UUID: provider}},
		Transitions: []process.TransitionLogEntry{
			{Transition: "transition/request-payment", By: process.ActorCustomer},
			{Transition: "transition/confirm-payment", By: process.ActorSystem},
		},
	}

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	file := writeFile(t, t.TempDir(), "tx.json", string(data))

	code, stdout, stderr := runCmd(context.Background(), "state", "-tx", file, "-user", provider)
	require.Equal(t, exitOK, code, stderr)

	var report stateReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, process.ActorProvider, report.Role)
	assert.Equal(t, process.State("purchased"), report.State)
	assert.True(t, report.NeedsAttention)
	assert.Equal(t, "default-purchase", report.Data.ProcessName)

	primary, ok := report.Data.PrimaryAction.Get()
	require.True(t, ok)
	assert.Equal(t, process.Transition("transition/mark-delivered"), primary)

	code, stdout, _ = runCmd(context.Background(), "state", "-tx", file, "-user", customer)
	require.Equal(t, exitOK, code)
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, process.ActorCustomer, report.Role)
	assert.False(t, report.NeedsAttention)

	code, stdout, stderr = runCmd(context.Background(), "state", "-tx", file, "-user", strings.ToUpper(provider))
	require.Equal(t, exitOK, code, stderr)
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, process.ActorProvider, report.Role)

	code, _, stderr = runCmd(context.Background(), "state", "-tx", file, "-user", "not-a-uuid")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "invalid uuid")

	code, _, stderr = runCmd(context.Background(), "state", "-user", customer)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "missing required flag: -tx")
}

func TestRunRecordsSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var stdout, stderr bytes.Buffer

	code := runWithTracer(context.Background(), provider.Tracer("test"),
		[]string{"graph", "-process", "flex-default-process"}, &stdout, &stderr)
	require.Equal(t, exitOK, code)

	code = runWithTracer(context.Background(), provider.Tracer("test"),
		[]string{"graph", "-process", "no-such-process"}, &stdout, &stderr)
	require.Equal(t, exitFail, code)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "txprocess.graph", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("process.name", "default-booking"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("process.requested", "flex-default-process"))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Status().Description, "process not found")
}

func TestRunRejectsBadTracingConfig(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverride(context.Background(), "OTEL_ENABLED", "maybe")

	code, stdout, stderr := runCmd(ctx, "list")
	assert.Equal(t, exitUsage, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "tracing")
	assert.Contains(t, stderr, "OTEL_ENABLED")

	ctx = envutil.WithEnvOverride(context.Background(), "OTEL_ENABLED", "false")

	code, _, stderr = runCmd(ctx, "list")
	assert.Equal(t, exitOK, code, stderr)
}
