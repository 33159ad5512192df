// Package registry holds the fixed table of transaction processes and resolves
// process names, including legacy ones, to their definitions.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/amp-labs/txprocess/logger"
	"github.com/amp-labs/txprocess/process"
	"github.com/amp-labs/txprocess/process/definitions"
	"github.com/amp-labs/txprocess/set"
)

var (
	// ErrProcessNotFound is returned when a name does not resolve to a registered process.
	ErrProcessNotFound = errors.New("process not found")
	// ErrDuplicateProcess is returned by New when two definitions share a name.
	ErrDuplicateProcess = errors.New("duplicate process name")
	// ErrNilDefinition is returned by New for a nil definition.
	ErrNilDefinition = errors.New("nil process definition")
)

// ProcessInfo is the catalogue view of a registered process.
type ProcessInfo struct {
	Name      string             `json:"name"`
	Alias     string             `json:"alias"`
	UnitTypes []process.UnitType `json:"unitTypes"`
}

// Registry is an immutable table of process definitions. It is safe for
// concurrent use.
type Registry struct {
	definitions       []*process.Definition
	providerAttention *set.Set[process.State]
	customerAttention *set.Set[process.State]
	logger            *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// New builds a registry over defs, in the given order.
func New(defs []*process.Definition, opts ...Option) (*Registry, error) {
	reg := &Registry{
		definitions:       make([]*process.Definition, 0, len(defs)),
		providerAttention: set.New[process.State](),
		customerAttention: set.New[process.State](),
	}

	seen := make(map[string]struct{}, len(defs))

	for i, def := range defs {
		if def == nil {
			return nil, fmt.Errorf("%w at index %d", ErrNilDefinition, i)
		}

		if _, dup := seen[def.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProcess, def.Name())
		}

		seen[def.Name()] = struct{}{}

		reg.definitions = append(reg.definitions, def)
		reg.providerAttention.AddAll(def.StatesNeedingProviderAttention()...)
		reg.customerAttention.AddAll(def.StatesNeedingCustomerAttention()...)
	}

	for _, opt := range opts {
		opt(reg)
	}

	return reg, nil
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}

	return logger.Get(context.Background())
}

func (r *Registry) find(canonical string) (*process.Definition, bool) {
	for _, def := range r.definitions {
		if def.Name() == canonical {
			return def, true
		}
	}

	return nil, false
}

// Get resolves rawName, which may be a legacy name, to its definition. This is the
// one lookup that fails: unknown names return ErrProcessNotFound.
func (r *Registry) Get(rawName string) (*process.Definition, error) {
	canonical := ResolveCanonicalName(rawName)
	if canonical != rawName {
		r.log().Debug("resolved legacy process name", "legacy_name", rawName, "process", canonical)
		recordLegacyName(rawName, canonical)
	}

	def, found := r.find(canonical)
	recordLookup(canonical, found)

	if !found {
		r.log().Debug("process lookup failed", "name", rawName, "canonical_name", canonical)

		if canonical != rawName {
			return nil, fmt.Errorf("%w: %s (resolved from %s)", ErrProcessNotFound, canonical, rawName)
		}

		return nil, fmt.Errorf("%w: %s", ErrProcessNotFound, rawName)
	}

	return def, nil
}

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []*process.Definition {
	return slices.Clone(r.definitions)
}

// SupportedProcessesInfo returns name, alias and unit types of every process.
func (r *Registry) SupportedProcessesInfo() []ProcessInfo {
	infos := make([]ProcessInfo, 0, len(r.definitions))

	for _, def := range r.definitions {
		infos = append(infos, ProcessInfo{
			Name:      def.Name(),
			Alias:     def.Alias(),
			UnitTypes: def.UnitTypes(),
		})
	}

	return infos
}

// AllTransitionsForEveryProcess concatenates the transition vocabulary of every
// process. A transition used by several processes appears once for each.
func (r *Registry) AllTransitionsForEveryProcess() []process.Transition {
	var transitions []process.Transition

	for _, def := range r.definitions {
		transitions = append(transitions, def.Transitions()...)
	}

	return transitions
}

// StatesNeedingProviderAttention returns the union of every process's provider
// attention states.
func (r *Registry) StatesNeedingProviderAttention() *set.Set[process.State] {
	return set.New(r.providerAttention.Entries()...)
}

// StatesNeedingCustomerAttention returns the union of every process's customer
// attention states.
func (r *Registry) StatesNeedingCustomerAttention() *set.Set[process.State] {
	return set.New(r.customerAttention.Entries()...)
}

// NeedsAttention reports whether a transaction in state s is waiting on actor.
// Only customers and providers are ever waited on.
func (r *Registry) NeedsAttention(s process.State, actor process.Actor) bool {
	switch actor {
	case process.ActorProvider:
		return r.providerAttention.Contains(s)
	case process.ActorCustomer:
		return r.customerAttention.Contains(s)
	default:
		return false
	}
}

func (r *Registry) isFamily(name, family string) bool {
	def, found := r.find(ResolveCanonicalName(name))

	return found && def.Name() == family
}

// IsPurchaseProcess reports whether name resolves to the purchase process.
func (r *Registry) IsPurchaseProcess(name string) bool {
	return r.isFamily(name, definitions.Purchase)
}

// IsBookingProcess reports whether name resolves to the booking process.
func (r *Registry) IsBookingProcess(name string) bool {
	return r.isFamily(name, definitions.Booking)
}

// IsInquiryProcess reports whether name resolves to the inquiry process.
func (r *Registry) IsInquiryProcess(name string) bool {
	return r.isFamily(name, definitions.Inquiry)
}

// IsNegotiationProcess reports whether name resolves to the negotiation process.
func (r *Registry) IsNegotiationProcess(name string) bool {
	return r.isFamily(name, definitions.Negotiation)
}

// IsPurchaseProcessAlias is IsPurchaseProcess for an alias such as "default-purchase/release-1".
func (r *Registry) IsPurchaseProcessAlias(alias string) bool {
	return r.IsPurchaseProcess(process.NameFromAlias(alias))
}

// IsBookingProcessAlias is IsBookingProcess for an alias.
func (r *Registry) IsBookingProcessAlias(alias string) bool {
	return r.IsBookingProcess(process.NameFromAlias(alias))
}

// IsInquiryProcessAlias is IsInquiryProcess for an alias.
func (r *Registry) IsInquiryProcessAlias(alias string) bool {
	return r.IsInquiryProcess(process.NameFromAlias(alias))
}

// IsNegotiationProcessAlias is IsNegotiationProcess for an alias.
func (r *Registry) IsNegotiationProcessAlias(alias string) bool {
	return r.IsNegotiationProcess(process.NameFromAlias(alias))
}
