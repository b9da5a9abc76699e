package msigview

import (
	"errors"
	"fmt"

	"github.com/antelope-tools/msigview/types"
)

// ProposalNotFoundError is returned when no proposal row exists for the
// requested scope and name.
type ProposalNotFoundError struct {
	Scope    types.Name
	Proposal types.Name
}

// NewProposalNotFoundError creates a new ProposalNotFoundError.
func NewProposalNotFoundError(scope, proposal types.Name) *ProposalNotFoundError {
	return &ProposalNotFoundError{Scope: scope, Proposal: proposal}
}

func (e *ProposalNotFoundError) Error() string {
	return fmt.Sprintf("proposal %s for %s not found", e.Proposal, e.Scope)
}

// MalformedTransactionError is returned when the proposal's packed transaction
// cannot be deserialized, or when nested proposals exceed the depth bound.
// It is terminal for the whole request.
type MalformedTransactionError struct {
	Err error
}

// NewMalformedTransactionError creates a new MalformedTransactionError.
func NewMalformedTransactionError(err error) *MalformedTransactionError {
	return &MalformedTransactionError{Err: err}
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("malformed packed transaction: %s", e.Err)
}

func (e *MalformedTransactionError) Unwrap() error {
	return e.Err
}

// ErrNestingTooDeep is the cause carried by a MalformedTransactionError when a
// crafted proposal nests deeper than MaxNestingDepth.
var ErrNestingTooDeep = errors.New("nested proposals exceed the maximum depth")
