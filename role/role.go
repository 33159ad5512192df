// Package role decides which side of a transaction a user is on.
package role

import (
	"errors"
	"fmt"

	"github.com/amp-labs/txprocess/process"
)

// ErrInvalidInput is returned when the user or the transaction lacks the ids
// needed to tell customer from provider.
var ErrInvalidInput = errors.New("invalid role input")

// UserTxRole returns ActorCustomer when currentUserID is the transaction's
// customer and ActorProvider otherwise. Operators and the system never act through
// this path, so those are never returned.
func UserTxRole(currentUserID *process.ID, tx *process.Transaction) (process.Actor, error) {
	switch {
	case !currentUserID.Valid():
		return "", fmt.Errorf("%w: current user id is missing", ErrInvalidInput)
	case tx == nil:
		return "", fmt.Errorf("%w: transaction is missing", ErrInvalidInput)
	case !tx.ID.Valid():
		return "", fmt.Errorf("%w: transaction id is missing", ErrInvalidInput)
	case !tx.CustomerID().Valid():
		return "", fmt.Errorf("%w: customer id of transaction %s is missing", ErrInvalidInput, tx.ID.UUID)
	}

	if currentUserID.UUID == tx.CustomerID().UUID {
		return process.ActorCustomer, nil
	}

	return process.ActorProvider, nil
}
