package msigview

import (
	"context"

	"github.com/antelope-tools/msigview/sdk"
	"github.com/antelope-tools/msigview/types"
)

// AbiResolver returns the ABI schema currently known for an account during
// one pipeline run. An in-transaction setabi installs an override that takes
// precedence over anything published on chain; otherwise the current on-chain
// ABI is fetched once per account and cached for the rest of the run,
// negative results included.
//
// One resolver instance is shared across every recursion level of a run, so
// an override installed while decoding a nested proposal is visible to later
// actions at any depth. It is not safe for concurrent use; the decode loop
// that drives it is strictly sequential.
type AbiResolver struct {
	reader    sdk.ChainReader
	overrides map[types.Name]*types.ABI
	cache     map[types.Name]*types.ABI
	fetched   map[types.Name]bool
}

// NewAbiResolver creates a resolver for one pipeline run.
func NewAbiResolver(reader sdk.ChainReader) *AbiResolver {
	return &AbiResolver{
		reader:    reader,
		overrides: make(map[types.Name]*types.ABI),
		cache:     make(map[types.Name]*types.ABI),
		fetched:   make(map[types.Name]bool),
	}
}

// Override installs the ABI declared by an in-transaction setabi for account.
// A later setabi for the same account in the same run overwrites it; last
// write wins, schemas are never merged.
func (r *AbiResolver) Override(account types.Name, abi *types.ABI) {
	r.overrides[account] = abi
}

// Resolve returns the ABI for an account, or sdk.ErrAbiUnavailable. A failed
// fetch is logged and cached as a negative result; it is a per-action decode
// condition, never a pipeline failure.
func (r *AbiResolver) Resolve(ctx context.Context, account types.Name) (*types.ABI, error) {
	if abi, ok := r.overrides[account]; ok {
		return abi, nil
	}

	if r.fetched[account] {
		if abi := r.cache[account]; abi != nil {
			return abi, nil
		}

		return nil, sdk.ErrAbiUnavailable
	}

	abi, err := r.reader.GetABI(ctx, account)
	r.fetched[account] = true
	if err != nil {
		sdk.LoggerFrom(ctx).Errorf("fetching ABI for %s: %s", account, err)

		return nil, sdk.ErrAbiUnavailable
	}

	r.cache[account] = abi

	return abi, nil
}
