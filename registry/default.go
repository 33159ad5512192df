package registry

import (
	"sync"

	"github.com/amp-labs/txprocess/process"
	"github.com/amp-labs/txprocess/process/definitions"
	"github.com/amp-labs/txprocess/set"
)

// defaultRegistry is built from the embedded definitions on first use. The
// definitions are compiled into the binary, so failing to load them is a bug.
var defaultRegistry = sync.OnceValue(func() *Registry { //nolint:gochecknoglobals
	defs, err := definitions.Load()
	if err != nil {
		panic(err)
	}

	reg, err := New(defs)
	if err != nil {
		panic(err)
	}

	return reg
})

// Default returns the registry of the standard marketplace processes.
func Default() *Registry {
	return defaultRegistry()
}

// GetProcess looks a process up in the default registry.
func GetProcess(rawName string) (*process.Definition, error) {
	return Default().Get(rawName)
}

// SupportedProcessesInfo lists the processes of the default registry.
func SupportedProcessesInfo() []ProcessInfo {
	return Default().SupportedProcessesInfo()
}

// AllTransitionsForEveryProcess lists the transitions of the default registry.
func AllTransitionsForEveryProcess() []process.Transition {
	return Default().AllTransitionsForEveryProcess()
}

// StatesNeedingProviderAttention uses the default registry.
func StatesNeedingProviderAttention() *set.Set[process.State] {
	return Default().StatesNeedingProviderAttention()
}

// StatesNeedingCustomerAttention uses the default registry.
func StatesNeedingCustomerAttention() *set.Set[process.State] {
	return Default().StatesNeedingCustomerAttention()
}

// NeedsAttention uses the default registry.
func NeedsAttention(s process.State, actor process.Actor) bool {
	return Default().NeedsAttention(s, actor)
}

// IsPurchaseProcess uses the default registry.
func IsPurchaseProcess(name string) bool {
	return Default().IsPurchaseProcess(name)
}

// IsBookingProcess uses the default registry.
func IsBookingProcess(name string) bool {
	return Default().IsBookingProcess(name)
}

// IsInquiryProcess uses the default registry.
func IsInquiryProcess(name string) bool {
	return Default().IsInquiryProcess(name)
}

// IsNegotiationProcess uses the default registry.
func IsNegotiationProcess(name string) bool {
	return Default().IsNegotiationProcess(name)
}

// IsPurchaseProcessAlias uses the default registry.
func IsPurchaseProcessAlias(alias string) bool {
	return Default().IsPurchaseProcessAlias(alias)
}

// IsBookingProcessAlias uses the default registry.
func IsBookingProcessAlias(alias string) bool {
	return Default().IsBookingProcessAlias(alias)
}

// IsInquiryProcessAlias uses the default registry.
func IsInquiryProcessAlias(alias string) bool {
	return Default().IsInquiryProcessAlias(alias)
}

// IsNegotiationProcessAlias uses the default registry.
func IsNegotiationProcessAlias(alias string) bool {
	return Default().IsNegotiationProcessAlias(alias)
}
