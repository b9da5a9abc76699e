package msigview

import (
	"context"
	"fmt"

	"github.com/antelope-tools/msigview/sdk"
	"github.com/antelope-tools/msigview/types"
)

// fakeChainReader serves canned table rows and ABIs, counting ABI fetches per
// account so tests can assert caching behavior.
type fakeChainReader struct {
	proposals map[string]*sdk.ProposalRow
	approvals map[string]*sdk.ApprovalsRow

	abis     map[types.Name]*types.ABI
	abiErrs  map[types.Name]error
	abiCalls map[types.Name]int

	approvalsErr error
}

var _ sdk.ChainReader = (*fakeChainReader)(nil)

func newFakeChainReader() *fakeChainReader {
	return &fakeChainReader{
		proposals: map[string]*sdk.ProposalRow{},
		approvals: map[string]*sdk.ApprovalsRow{},
		abis:      map[types.Name]*types.ABI{},
		abiErrs:   map[types.Name]error{},
		abiCalls:  map[types.Name]int{},
	}
}

func rowKey(scope, proposal types.Name) string {
	return fmt.Sprintf("%s/%s", scope, proposal)
}

func (f *fakeChainReader) setProposal(scope, proposal types.Name, row *sdk.ProposalRow) {
	f.proposals[rowKey(scope, proposal)] = row
}

func (f *fakeChainReader) setApprovals(scope, proposal types.Name, row *sdk.ApprovalsRow) {
	f.approvals[rowKey(scope, proposal)] = row
}

func (f *fakeChainReader) GetProposal(_ context.Context, scope, proposal types.Name) (*sdk.ProposalRow, error) {
	row, ok := f.proposals[rowKey(scope, proposal)]
	if !ok {
		return nil, sdk.ErrNotFound
	}

	return row, nil
}

func (f *fakeChainReader) GetApprovals(_ context.Context, scope, proposal types.Name) (*sdk.ApprovalsRow, error) {
	if f.approvalsErr != nil {
		return nil, f.approvalsErr
	}

	row, ok := f.approvals[rowKey(scope, proposal)]
	if !ok {
		return &sdk.ApprovalsRow{
			Requested: []types.PermissionLevel{},
			Provided:  []types.PermissionLevel{},
		}, nil
	}

	return row, nil
}

func (f *fakeChainReader) GetABI(_ context.Context, account types.Name) (*types.ABI, error) {
	f.abiCalls[account]++

	if err, ok := f.abiErrs[account]; ok {
		return nil, err
	}

	abi, ok := f.abis[account]
	if !ok {
		return nil, sdk.ErrAbiUnavailable
	}

	return abi, nil
}
