// Package txstate turns a transaction's state and the viewer's role into the
// flags and actions a transaction page shows.
package txstate

import (
	"errors"
	"fmt"

	"github.com/amp-labs/txprocess/conditional"
	"github.com/amp-labs/txprocess/optional"
	"github.com/amp-labs/txprocess/process"
	"github.com/amp-labs/txprocess/process/definitions"
)

// ErrUnsupportedProcess is returned for a process without a decision table.
var ErrUnsupportedProcess = errors.New("no state data for process")

// StateData is what a transaction page needs to know about the current state.
type StateData struct {
	ProcessName             string                             `json:"processName"`
	ProcessState            process.State                      `json:"processState"`
	ShowDetailCardHeadings  bool                               `json:"showDetailCardHeadings"`
	ShowOrderPanel          bool                               `json:"showOrderPanel"`
	ShowExtraInfo           bool                               `json:"showExtraInfo"`
	ShowActionButtons       bool                               `json:"showActionButtons"`
	PrimaryAction           optional.Value[process.Transition] `json:"primaryAction"`
	SecondaryAction         optional.Value[process.Transition] `json:"secondaryAction"`
	PrimaryActionPrivileged bool                               `json:"primaryActionPrivileged"`
	ShowDispute             bool                               `json:"showDispute"`
	ShowReviewAsFirstLink   bool                               `json:"showReviewAsFirstLink"`
	ShowReviewAsSecondLink  bool                               `json:"showReviewAsSecondLink"`
	ShowReviews             bool                               `json:"showReviews"`
}

// Options carries facts about the parties that change what may be offered.
type Options struct {
	ProviderBanned bool
	CustomerBanned bool
}

type resolver = conditional.Resolver2[process.State, process.Actor, StateData]

// view is what a table needs besides the resolver. base is the data shown when no
// specific rule applies.
type view struct {
	base  StateData
	actor process.Actor
	opts  Options
}

// table registers one process's rules on r.
type table func(r *resolver, v view) *resolver

var tables = map[string]table{ //nolint:gochecknoglobals
	definitions.Purchase:    purchaseTable,
	definitions.Booking:     bookingTable,
	definitions.Inquiry:     inquiryTable,
	definitions.Negotiation: negotiationTable,
}

// Data derives the page state of tx, seen by actor, under def. A transaction whose
// state cannot be derived gets the process's default data.
func Data(def *process.Definition, tx *process.Transaction, actor process.Actor, opts Options) (StateData, error) {
	if def == nil {
		return StateData{}, fmt.Errorf("%w: nil definition", ErrUnsupportedProcess)
	}

	build, ok := tables[def.Name()]
	if !ok {
		return StateData{}, fmt.Errorf("%w: %s", ErrUnsupportedProcess, def.Name())
	}

	state, _ := def.State(tx)

	base := StateData{
		ProcessName:            def.Name(),
		ProcessState:           state,
		ShowDetailCardHeadings: true,
	}

	r := build(conditional.New2[process.State, process.Actor, StateData](state, actor), view{
		base:  base,
		actor: actor,
		opts:  opts,
	})

	data, _ := r.Default(func() StateData { return base }).Resolve()

	if primary, ok := data.PrimaryAction.Get(); ok {
		data.PrimaryActionPrivileged = def.IsPrivileged(primary)
	}

	return data, nil
}

// with returns a rule result: base changed by f.
func with(base StateData, f func(*StateData)) func() StateData {
	return func() StateData {
		data := base
		f(&data)

		return data
	}
}

func actions(primary, secondary process.Transition) func(*StateData) {
	return func(d *StateData) {
		d.ShowActionButtons = true

		if primary != "" {
			d.PrimaryAction = optional.Some(primary)
		}

		if secondary != "" {
			d.SecondaryAction = optional.Some(secondary)
		}
	}
}

func exact(s process.State) conditional.Match[process.State] {
	return conditional.Exact(s)
}

//nolint:gochecknoglobals
var (
	anyone   = conditional.Any[process.Actor]()
	customer = conditional.Exact(process.ActorCustomer)
	provider = conditional.Exact(process.ActorProvider)
)
