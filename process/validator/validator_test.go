//nolint:varnamelen // Test file
package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amp-labs/txprocess/process"
	"github.com/amp-labs/txprocess/process/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edge(t process.Transition, to process.State) process.Edge {
	return process.Edge{Transition: t, To: to}
}

func validConfig() process.Config {
	return process.Config{
		Name:         "test-process",
		InitialState: "initial",
		States: []process.Node{
			{Name: "initial", Edges: []process.Edge{edge("transition/start", "started")}},
			{Name: "started", Edges: []process.Edge{edge("transition/finish", "done")}},
			{Name: "done"},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		modify       func(cfg *process.Config)
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name:      "valid process",
			modify:    func(*process.Config) {},
			wantValid: true,
		},
		{
			name: "missing initial state",
			modify: func(cfg *process.Config) {
				cfg.InitialState = ""
			},
			wantErrors: []string{"INITIAL_STATE_MISSING"},
		},
		{
			name: "undeclared initial state",
			modify: func(cfg *process.Config) {
				cfg.InitialState = "nowhere"
			},
			wantErrors: []string{"INITIAL_STATE_MISSING"},
		},
		{
			name: "dangling destination",
			modify: func(cfg *process.Config) {
				cfg.States[1].Edges = append(cfg.States[1].Edges, edge("transition/abandon", "abandoned"))
			},
			wantErrors: []string{"DANGLING_DESTINATION"},
		},
		{
			name: "unreachable state",
			modify: func(cfg *process.Config) {
				cfg.States = append(cfg.States, process.Node{Name: "orphan"})
			},
			wantErrors: []string{"UNREACHABLE_STATE"},
		},
		{
			name: "ambiguous transition",
			modify: func(cfg *process.Config) {
				cfg.States[0].Edges = append(cfg.States[0].Edges, edge("transition/finish", "done"))
			},
			wantValid:    true,
			wantWarnings: []string{"AMBIGUOUS_TRANSITION"},
		},
		{
			name: "undeclared transition",
			modify: func(cfg *process.Config) {
				cfg.Transitions = []process.Transition{"transition/start"}
			},
			wantValid:    true,
			wantWarnings: []string{"UNDECLARED_TRANSITION"},
		},
		{
			name: "unused privileged transition",
			modify: func(cfg *process.Config) {
				cfg.PrivilegedTransitions = []process.Transition{"transition/pay"}
			},
			wantValid:    true,
			wantWarnings: []string{"UNDECLARED_TRANSITION"},
		},
		{
			name: "unknown attention state",
			modify: func(cfg *process.Config) {
				cfg.ProviderAttention = []process.State{"started"}
				cfg.CustomerAttention = []process.State{"strated"}
			},
			wantErrors: []string{"UNKNOWN_ATTENTION_STATE"},
		},
		{
			name: "naming convention",
			modify: func(cfg *process.Config) {
				cfg.States[2].Name = "Done"
				cfg.States[1].Edges[0] = edge("finish", "Done")
			},
			wantValid:    true,
			wantWarnings: []string{"NAMING_CONVENTION", "NAMING_CONVENTION"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(&cfg)

			result := Validate(cfg)

			assert.Equal(t, tt.wantValid, result.Valid)
			assert.ElementsMatch(t, tt.wantErrors, codesOf(result.Errors))
			assert.ElementsMatch(t, tt.wantWarnings, warningCodesOf(result.Warnings))
		})
	}
}

func codesOf(errs []ValidationError) []string {
	var codes []string
	for _, err := range errs {
		codes = append(codes, err.Code)
	}

	return codes
}

func warningCodesOf(warns []ValidationWarning) []string {
	var codes []string
	for _, warn := range warns {
		codes = append(codes, warn.Code)
	}

	return codes
}

func TestValidateStrict(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.States[0].Edges = append(cfg.States[0].Edges, edge("transition/finish", "done"))

	result := ValidateStrict(cfg)
	assert.False(t, result.Valid)
	assert.False(t, result.HasWarnings())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "AMBIGUOUS_TRANSITION", result.Errors[0].Code)
	assert.Equal(t, process.Transition("transition/finish"), result.Errors[0].Location.Transition)
}

func TestEmbeddedDefinitionsAreValid(t *testing.T) {
	t.Parallel()

	defs, err := definitions.Load()
	require.NoError(t, err)

	for _, def := range defs {
		t.Run(def.Name(), func(t *testing.T) {
			t.Parallel()

			result := ValidateDefinition(def)
			assert.True(t, result.Valid, result.String())
			assert.False(t, result.HasErrors())
		})
	}
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
name: good
initialState: initial
states:
  - name: initial
    on:
      - {transition: transition/go, to: gone}
  - name: gone
  - name: Lost
`), 0o600))

	result, err := ValidateFile(good, false)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"UNREACHABLE_STATE", "NAMING_CONVENTION"}, result.Codes())
	assert.Equal(t, good, result.Errors[0].Location.File)
	assert.Contains(t, result.String(), "[UNREACHABLE_STATE]")
	assert.Contains(t, result.String(), "state: Lost")

	strict, err := ValidateFile(good, true)
	require.NoError(t, err)
	assert.Len(t, strict.Errors, 2)

	_, err = ValidateFile(filepath.Join(dir, "missing.yaml"), false)
	require.Error(t, err)
}

func TestResultString(t *testing.T) {
	t.Parallel()

	result := Validate(validConfig())
	assert.Equal(t, "✓ Definition is valid\n", result.String())
}
