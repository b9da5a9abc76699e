package msigview

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/antelope-tools/msigview/internal/staticabi"
	"github.com/antelope-tools/msigview/sdk"
	"github.com/antelope-tools/msigview/sdk/antelope"
	"github.com/antelope-tools/msigview/types"
)

var (
	systemAccount = types.MustNewName("eosio")
	setabiName    = types.MustNewName("setabi")
	setcodeName   = types.MustNewName("setcode")
	proposeName   = types.MustNewName("propose")
)

// rawPayloadField carries the original payload of a hashed setcode/setabi
// field so a consumer can still retrieve it.
const rawPayloadField = "_rawCodeOrAbi"

func systemABI() (*types.ABI, error) {
	data, err := staticabi.Load(systemAccount.String())
	if err != nil {
		return nil, err
	}

	return types.ABIFromJSON(data)
}

// applySetabiOverride eagerly decodes a system setabi action with the bundled
// fallback schema and installs the newly declared ABI for its target account,
// before the display decode of the same pass reaches the target's actions.
// Failures are logged and skipped; the display decode will then surface
// whatever the on-chain ABI makes of the action.
func applySetabiOverride(ctx context.Context, resolver *AbiResolver, action types.Action) {
	if action.Account != systemAccount || action.Name != setabiName {
		return
	}

	logger := sdk.LoggerFrom(ctx)

	abi, err := systemABI()
	if err != nil {
		logger.Errorf("loading bundled system ABI: %s", err)

		return
	}

	decoded, err := antelope.DecodeActionData(abi, action.Name, action.Data)
	if err != nil {
		logger.Errorf("decoding setabi payload: %s", err)

		return
	}

	target, ok := fieldName(decoded, "account")
	if !ok {
		return
	}
	rawAbi, ok := fieldBytes(decoded, "abi")
	if !ok {
		return
	}

	declared, err := antelope.DecodeABI(rawAbi)
	if err != nil {
		logger.Errorf("decoding ABI declared for %s: %s", target, err)

		return
	}

	resolver.Override(target, declared)
}

// normalizeSystemAction post-processes a decoded system setcode/setabi: the
// potentially huge payload field is replaced with a content hash, and the
// original payload moves to the raw side field. Anything unexpected leaves
// the decoded data untouched.
func normalizeSystemAction(ctx context.Context, action types.Action, data *types.FieldMap) {
	if action.Account != systemAccount {
		return
	}

	switch action.Name {
	case setcodeName:
		code, ok := fieldBytes(data, "code")
		if !ok {
			return
		}
		data.Set(rawPayloadField, types.HexBytes(code))
		data.Set("code", types.Sha256Checksum(code))

	case setabiName:
		rawAbi, ok := fieldBytes(data, "abi")
		if !ok {
			return
		}
		declared, err := antelope.DecodeABI(rawAbi)
		if err != nil {
			sdk.LoggerFrom(ctx).Errorf("decoding setabi payload for display: %s", err)

			return
		}
		data.Set(rawPayloadField, declared)
		data.Set("abi", setabiChecksum(antelope.EncodeABI(declared)))
	}
}

// setabiChecksum hashes the canonical ABI bytes in their JSON-quoted
// uppercase hex rendering, matching how chain explorers compute the published
// ABI hash.
func setabiChecksum(canonical []byte) types.Checksum256 {
	quoted := `"` + strings.ToUpper(hex.EncodeToString(canonical)) + `"`

	return types.Sha256Checksum([]byte(quoted))
}

func fieldName(data *types.FieldMap, key string) (types.Name, bool) {
	value, ok := data.Get(key)
	if !ok {
		return 0, false
	}
	name, ok := value.(types.Name)

	return name, ok
}

func fieldBytes(data *types.FieldMap, key string) (types.HexBytes, bool) {
	value, ok := data.Get(key)
	if !ok {
		return nil, false
	}
	raw, ok := value.(types.HexBytes)

	return raw, ok
}
