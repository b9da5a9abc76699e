// Package msigview renders the human-readable effect of a pending multisig
// proposal: it fetches the proposal row, unpacks the stored transaction, and
// decodes every action against the ABI of its target account, honoring ABI
// redefinitions that happen inside the very transaction being decoded.
package msigview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/antelope-tools/msigview/sdk"
	"github.com/antelope-tools/msigview/sdk/antelope"
	"github.com/antelope-tools/msigview/types"
)

// MaxNestingDepth bounds recursive expansion of proposals nested inside
// proposals. Deeper nesting is treated as a malformed transaction; a crafted
// proposal must not be able to pin the decoder.
const MaxNestingDepth = 8

// invalidAbiMessage is the data sentinel shown for an action whose account
// has no resolvable ABI.
const invalidAbiMessage = "INVALID ABI"

// undecodableMessage is the data sentinel shown for an action whose payload
// does not match its account's ABI.
const undecodableMessage = "UNABLE TO DECODE"

// DecodedAction is one entry of the rendered proposal. Wrapper entries are
// synthetic markers bracketing the expansion of a nested proposal; they are
// not on-chain actions and must never be counted as such.
type DecodedAction struct {
	Account       types.Name              `json:"account"`
	Name          types.Name              `json:"name"`
	Authorization []types.PermissionLevel `json:"authorization"`
	Data          *types.FieldMap         `json:"data"`
	Wrapper       bool                    `json:"wrapper,omitempty"`
}

// ProposalResult is the rendered effect of a pending proposal.
type ProposalResult struct {
	Actions           []DecodedAction    `json:"actions"`
	Expiration        types.TimePointSec `json:"expiration"`
	EarliestExecution *types.TimePoint   `json:"earliest_execution,omitempty"`
	Approvals         []ApprovalEntry    `json:"approvals"`
	Hash              types.Checksum256  `json:"hash"`
}

// View runs the full pipeline for one proposal: fetch the proposal row and
// its approvals, unpack the stored transaction, decode every action, and
// assemble the result.
//
// A missing proposal row is a *ProposalNotFoundError; an undecodable packed
// transaction is a *MalformedTransactionError. A proposal that exists but
// contains zero actions returns an empty, non-nil result. Per-action decode
// problems never fail the request; the affected action carries an error
// sentinel instead.
func View(ctx context.Context, reader sdk.ChainReader, scope, proposal types.Name) (*ProposalResult, error) {
	row, err := reader.GetProposal(ctx, scope, proposal)
	if err != nil {
		if errors.Is(err, sdk.ErrNotFound) {
			return nil, NewProposalNotFoundError(scope, proposal)
		}

		return nil, fmt.Errorf("fetching proposal row: %w", err)
	}

	// The approvals fetch is independent of decoding; run it alongside. The
	// decode loop itself must stay strictly sequential in action order.
	var (
		approvalsRow *sdk.ApprovalsRow
		approvalsErr error
		wg           sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		approvalsRow, approvalsErr = reader.GetApprovals(ctx, scope, proposal)
	}()

	trx, err := antelope.UnpackTransaction(row.PackedTransaction)
	if err != nil {
		wg.Wait()

		return nil, NewMalformedTransactionError(err)
	}

	resolver := NewAbiResolver(reader)
	actions, err := decodeActions(ctx, resolver, trx.Actions, 0)
	if err != nil {
		wg.Wait()

		return nil, err
	}

	wg.Wait()
	approvals := []ApprovalEntry{}
	if approvalsErr != nil {
		sdk.LoggerFrom(ctx).Errorf("fetching approvals for %s/%s: %s", scope, proposal, approvalsErr)
	} else {
		approvals = AggregateApprovals(approvalsRow.Requested, approvalsRow.Provided)
	}

	return &ProposalResult{
		Actions:           actions,
		Expiration:        trx.Expiration,
		EarliestExecution: row.EarliestExecTime,
		Approvals:         approvals,
		Hash:              types.Sha256Checksum(row.PackedTransaction),
	}, nil
}

// ViewAtEndpoint is a convenience wrapper around View that builds a chain
// client for the given API endpoint.
func ViewAtEndpoint(ctx context.Context, endpoint string, scope, proposal types.Name) (*ProposalResult, error) {
	client, err := antelope.NewClient(antelope.ClientOptions{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}

	return View(ctx, client, scope, proposal)
}

// decodeActions decodes one action list in document order. Order matters: a
// setabi for account X must take effect before any later action for X in the
// same pass, so actions within one list are never reordered or decoded in
// parallel.
func decodeActions(ctx context.Context, resolver *AbiResolver, actions []types.Action, depth int) ([]DecodedAction, error) {
	if depth > MaxNestingDepth {
		return nil, NewMalformedTransactionError(ErrNestingTooDeep)
	}

	out := []DecodedAction{}
	for _, action := range actions {
		applySetabiOverride(ctx, resolver, action)

		data := decodeActionData(ctx, resolver, action)
		out = append(out, DecodedAction{
			Account:       action.Account,
			Name:          action.Name,
			Authorization: action.Authorization,
			Data:          data,
		})

		embedded, ok := embeddedActions(action, data)
		if !ok {
			continue
		}

		out = append(out, wrapperAction(action, "start of the proposed transaction"))
		nested, err := decodeActions(ctx, resolver, embedded, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
		out = append(out, wrapperAction(action, "end of the proposed transaction"))
	}

	return out, nil
}

func decodeActionData(ctx context.Context, resolver *AbiResolver, action types.Action) *types.FieldMap {
	abi, err := resolver.Resolve(ctx, action.Account)
	if err != nil {
		return errorData(invalidAbiMessage)
	}

	data, err := antelope.DecodeActionData(abi, action.Name, action.Data)
	if err != nil {
		sdk.LoggerFrom(ctx).Errorf("decoding %s::%s: %s", action.Account, action.Name, err)

		return errorData(undecodableMessage)
	}

	normalizeSystemAction(ctx, action, data)

	return data
}

func errorData(message string) *types.FieldMap {
	data := types.NewFieldMap()
	data.Set("error", message)

	return data
}

func wrapperAction(trigger types.Action, message string) DecodedAction {
	data := types.NewFieldMap()
	data.Set("message", message)

	return DecodedAction{
		Account:       trigger.Account,
		Name:          trigger.Name,
		Authorization: trigger.Authorization,
		Data:          data,
		Wrapper:       true,
	}
}

// embeddedActions extracts the transaction wrapped by a multisig propose
// action, if the decoded payload has one, as raw actions ready for another
// decode pass.
func embeddedActions(action types.Action, data *types.FieldMap) ([]types.Action, bool) {
	if action.Account != antelope.MsigContract || action.Name != proposeName {
		return nil, false
	}

	trxValue, ok := data.Get("trx")
	if !ok {
		return nil, false
	}
	trx, ok := trxValue.(*types.FieldMap)
	if !ok {
		return nil, false
	}

	rawActions, ok := trx.Get("actions")
	if !ok {
		return nil, false
	}
	list, ok := rawActions.([]any)
	if !ok {
		return nil, false
	}

	actions := []types.Action{}
	for _, raw := range list {
		fields, ok := raw.(*types.FieldMap)
		if !ok {
			return nil, false
		}
		inner, ok := actionFromFields(fields)
		if !ok {
			return nil, false
		}
		actions = append(actions, inner)
	}

	return actions, true
}

func actionFromFields(fields *types.FieldMap) (types.Action, bool) {
	var action types.Action

	account, ok := fieldName(fields, "account")
	if !ok {
		return action, false
	}
	name, ok := fieldName(fields, "name")
	if !ok {
		return action, false
	}
	payload, ok := fieldBytes(fields, "data")
	if !ok {
		return action, false
	}

	authorization := []types.PermissionLevel{}
	if rawAuth, ok := fields.Get("authorization"); ok {
		levels, ok := rawAuth.([]any)
		if !ok {
			return action, false
		}
		for _, rawLevel := range levels {
			level, ok := rawLevel.(*types.FieldMap)
			if !ok {
				return action, false
			}
			actor, ok := fieldName(level, "actor")
			if !ok {
				return action, false
			}
			permission, ok := fieldName(level, "permission")
			if !ok {
				return action, false
			}
			authorization = append(authorization, types.PermissionLevel{Actor: actor, Permission: permission})
		}
	}

	action.Account = account
	action.Name = name
	action.Authorization = authorization
	action.Data = payload

	return action, true
}
