package process

import (
	"time"

	"github.com/amp-labs/txprocess/optional"
)

// ID is an entity identifier as the marketplace API returns it.
type ID struct {
	UUID string `json:"uuid"`
}

// Valid reports whether the id is present and non-empty.
func (id *ID) Valid() bool {
	return id != nil && id.UUID != ""
}

// Party is a user taking part in a transaction.
type Party struct {
	ID *ID `json:"id"`
}

// TransitionLogEntry records one transition taken by a transaction.
type TransitionLogEntry struct {
	Transition Transition `json:"transition"`
	OccurredAt time.Time  `json:"createdAt"`
	By         Actor      `json:"by"`
}

// Transaction is the read-only view of a marketplace transaction used here.
// Transitions are expected in non-decreasing chronological order and are never
// re-sorted.
type Transaction struct {
	ID             *ID                        `json:"id"`
	ProcessName    string                     `json:"processName"`
	LastTransition optional.Value[Transition] `json:"lastTransition"`
	Transitions    []TransitionLogEntry       `json:"transitions"`
	Customer       *Party                     `json:"customer"`
	Provider       *Party                     `json:"provider"`
}

// CustomerID returns the customer's id, or nil when it is missing.
func (tx *Transaction) CustomerID() *ID {
	if tx == nil || tx.Customer == nil {
		return nil
	}

	return tx.Customer.ID
}
