// Package validator checks process definitions for structural problems the loader
// tolerates or cannot see: unreachable states, ambiguous labels and naming drift.
package validator

import (
	"fmt"
	"strings"

	"github.com/amp-labs/txprocess/process"
)

// ValidationResult contains the results of validating a process definition.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// ValidationError is a problem that makes a definition unfit to ship.
type ValidationError struct {
	Code     string   // Error code like "UNREACHABLE_STATE"
	Message  string   // Human-readable error message
	Location Location // Where the error occurred
	Fix      string   // Optional hint on how to fix it
}

// ValidationWarning represents a non-critical issue.
type ValidationWarning struct {
	Code     string
	Message  string
	Location Location
}

// Location identifies where an issue occurred.
type Location struct {
	File       string
	State      process.State
	Transition process.Transition
}

// Validate runs the default rules against cfg.
func Validate(cfg process.Config) ValidationResult {
	return ValidateWithRules(cfg, DefaultRules())
}

// ValidateStrict runs the default rules and treats warnings as errors.
func ValidateStrict(cfg process.Config) ValidationResult {
	return ValidateWithRulesStrict(cfg, DefaultRules())
}

// ValidateDefinition validates an already built definition.
func ValidateDefinition(def *process.Definition) ValidationResult {
	return Validate(def.Config())
}

// ValidateFile loads a definition file and validates it. Only read and parse
// failures are returned as errors; everything else is in the result.
func ValidateFile(path string, strict bool) (ValidationResult, error) {
	cfg, err := process.LoadConfigFile(path)
	if err != nil {
		return ValidationResult{
			Errors: []ValidationError{
				{
					Code:     "CONFIG_LOAD_FAILED",
					Message:  fmt.Sprintf("Failed to load definition: %v", err),
					Location: Location{File: path},
				},
			},
		}, err
	}

	var result ValidationResult
	if strict {
		result = ValidateStrict(cfg)
	} else {
		result = Validate(cfg)
	}

	for i := range result.Errors {
		result.Errors[i].Location.File = path
	}

	for i := range result.Warnings {
		result.Warnings[i].Location.File = path
	}

	return result, nil
}

// ValidateWithRules validates using custom rules.
func ValidateWithRules(cfg process.Config, rules []Rule) ValidationResult {
	var result ValidationResult

	for _, rule := range rules {
		ruleResult := rule.Check(cfg)
		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// ValidateWithRulesStrict validates with strict mode (treats warnings as errors).
func ValidateWithRulesStrict(cfg process.Config, rules []Rule) ValidationResult {
	result := ValidateWithRules(cfg, rules)

	for _, warning := range result.Warnings {
		result.Errors = append(result.Errors, ValidationError{
			Code:     warning.Code,
			Message:  warning.Message,
			Location: warning.Location,
		})
	}

	result.Warnings = nil
	result.Valid = len(result.Errors) == 0

	return result
}

// HasErrors returns true if the result has any errors.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if the result has any warnings.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Codes returns the codes of all errors followed by all warnings.
func (r ValidationResult) Codes() []string {
	codes := make([]string, 0, len(r.Errors)+len(r.Warnings))

	for _, err := range r.Errors {
		codes = append(codes, err.Code)
	}

	for _, warn := range r.Warnings {
		codes = append(codes, warn.Code)
	}

	return codes
}

// String returns a human-readable summary of validation results.
func (r ValidationResult) String() string {
	var msg strings.Builder

	if r.Valid {
		msg.WriteString("✓ Definition is valid\n")
	} else {
		fmt.Fprintf(&msg, "✗ Definition has %d error(s)\n", len(r.Errors))
	}

	for _, err := range r.Errors {
		fmt.Fprintf(&msg, "  [%s] %s%s\n", err.Code, err.Message, err.Location)

		if err.Fix != "" {
			fmt.Fprintf(&msg, "    Fix: %s\n", err.Fix)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&msg, "⚠ %d warning(s):\n", len(r.Warnings))

		for _, warn := range r.Warnings {
			fmt.Fprintf(&msg, "  [%s] %s%s\n", warn.Code, warn.Message, warn.Location)
		}
	}

	return msg.String()
}

// String formats the location as a parenthesised suffix, or nothing.
func (l Location) String() string {
	var parts []string

	if l.File != "" {
		parts = append(parts, "file: "+l.File)
	}

	if l.State != "" {
		parts = append(parts, "state: "+string(l.State))
	}

	if l.Transition != "" {
		parts = append(parts, "transition: "+string(l.Transition))
	}

	if len(parts) == 0 {
		return ""
	}

	return " (" + strings.Join(parts, ", ") + ")"
}
