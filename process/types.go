// Package process models marketplace transaction processes as immutable directed
// graphs of named states joined by labelled transitions, and derives a transaction's
// current and historical state from its transition log.
package process

// State is a node in a process graph. It is a classification label and carries no data.
type State string

// Transition labels a directed edge between two states. The same label is what a
// transaction records in its log when the edge is taken.
type Transition string

// Actor is the party associated with a transition or a transaction.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorProvider Actor = "provider"
	ActorOperator Actor = "operator"
	ActorSystem   Actor = "system"
)

// Valid reports whether a is one of the known actors.
func (a Actor) Valid() bool {
	switch a {
	case ActorCustomer, ActorProvider, ActorOperator, ActorSystem:
		return true
	default:
		return false
	}
}

// UnitType is the pricing unit a process supports.
type UnitType string

const (
	UnitItem    UnitType = "item"
	UnitDay     UnitType = "day"
	UnitNight   UnitType = "night"
	UnitHour    UnitType = "hour"
	UnitFixed   UnitType = "fixed"
	UnitInquiry UnitType = "inquiry"
	UnitOffer   UnitType = "offer"
	UnitRequest UnitType = "request"
)

// Valid reports whether u is one of the known unit types.
func (u UnitType) Valid() bool {
	switch u {
	case UnitItem, UnitDay, UnitNight, UnitHour, UnitFixed, UnitInquiry, UnitOffer, UnitRequest:
		return true
	default:
		return false
	}
}
