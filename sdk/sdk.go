package sdk

import (
	"context"
	"errors"

	"github.com/antelope-tools/msigview/types"
)

// ErrNotFound is returned by ChainReader implementations when the requested
// table row does not exist. Callers use it to tell "no such proposal" apart
// from transport failures.
var ErrNotFound = errors.New("row not found")

// ErrAbiUnavailable is returned when an account has no published ABI, or when
// the ABI could not be fetched. It is a per-action condition, never a fatal
// pipeline error.
var ErrAbiUnavailable = errors.New("abi unavailable")

// ProposalRow is one row of the multisig contract's proposal table.
type ProposalRow struct {
	ProposalName      types.Name       `json:"proposal_name"`
	PackedTransaction types.HexBytes   `json:"packed_transaction"`
	EarliestExecTime  *types.TimePoint `json:"earliest_exec_time,omitempty"`
}

// ApprovalsRow is one row of the multisig contract's approvals table, split
// into the approvals still requested and the ones already provided.
type ApprovalsRow struct {
	Requested []types.PermissionLevel `json:"requested_approvals"`
	Provided  []types.PermissionLevel `json:"provided_approvals"`
}

// ChainReader reads the chain state the proposal pipeline needs. The
// production implementation is sdk/antelope.Client; tests substitute fakes.
type ChainReader interface {
	// GetProposal fetches the proposal row stored under scope. Returns
	// ErrNotFound when no such proposal exists.
	GetProposal(ctx context.Context, scope, proposal types.Name) (*ProposalRow, error)

	// GetApprovals fetches the approvals row for a proposal. A missing row is
	// not an error; it yields an empty ApprovalsRow.
	GetApprovals(ctx context.Context, scope, proposal types.Name) (*ApprovalsRow, error)

	// GetABI fetches the ABI currently published for an account. Returns
	// ErrAbiUnavailable when the account has none.
	GetABI(ctx context.Context, account types.Name) (*types.ABI, error)
}
