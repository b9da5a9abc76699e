package msigview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antelope-tools/msigview/sdk/antelope"
	"github.com/antelope-tools/msigview/types"
)

// declaredABI builds an ABI declaring a single `doit {value uint64}` action,
// with a marker memo-like field name so tests can tell declarations apart.
func declaredABI(valueField string) *types.ABI {
	return &types.ABI{
		Version: "eosio::abi/1.2",
		Structs: []types.ABIStruct{
			{
				Name: "doit",
				Fields: []types.ABIField{
					{Name: valueField, Type: "uint64"},
				},
			},
		},
		Actions: []types.ABIAction{
			{Name: types.MustNewName("doit"), Type: "doit"},
		},
	}
}

func setabiAction(t *testing.T, target string, declared *types.ABI) types.Action {
	t.Helper()

	fields := types.NewFieldMap()
	fields.Set("account", target)
	fields.Set("abi", types.HexBytes(antelope.EncodeABI(declared)))

	return encodeAction(t, bundledABI(t, "eosio"), "eosio", "setabi", fields)
}

func doitAction(value uint64) types.Action {
	enc := make([]byte, 8)
	for i := 0; i < 8; i++ {
		enc[i] = byte(value >> (8 * i))
	}

	return types.Action{
		Account:       types.MustNewName("custom"),
		Name:          types.MustNewName("doit"),
		Authorization: activeAuth("custom"),
		Data:          enc,
	}
}

func TestViewSetabiOverride(t *testing.T) {
	t.Parallel()

	fake, _ := seedProposal(t,
		setabiAction(t, "custom", declaredABI("value")),
		doitAction(7),
	)
	fake.abis[types.MustNewName("eosio")] = bundledABI(t, "eosio")

	result, err := View(context.Background(), fake, testScope, testProposal)
	require.NoError(t, err)
	require.Len(t, result.Actions, 2)

	// The action after the setabi decodes with the ABI declared inside the
	// very transaction being viewed.
	value, ok := result.Actions[1].Data.Get("value")
	require.True(t, ok)
	assert.Equal(t, uint64(7), value)

	// The declaration is served from the transaction itself; the chain is
	// never asked for the target's ABI.
	assert.Equal(t, 0, fake.abiCalls[types.MustNewName("custom")])
}

func TestViewSetabiLastWriteWins(t *testing.T) {
	t.Parallel()

	fake, _ := seedProposal(t,
		setabiAction(t, "custom", declaredABI("first")),
		setabiAction(t, "custom", declaredABI("second")),
		doitAction(9),
	)
	fake.abis[types.MustNewName("eosio")] = bundledABI(t, "eosio")

	result, err := View(context.Background(), fake, testScope, testProposal)
	require.NoError(t, err)
	require.Len(t, result.Actions, 3)

	data := result.Actions[2].Data
	_, hasFirst := data.Get("first")
	assert.False(t, hasFirst)
	value, ok := data.Get("second")
	require.True(t, ok)
	assert.Equal(t, uint64(9), value)
}

func TestViewSetabiOverrideBeatsOnChainAbi(t *testing.T) {
	t.Parallel()

	fake, _ := seedProposal(t,
		setabiAction(t, "custom", declaredABI("declared")),
		doitAction(1),
	)
	fake.abis[types.MustNewName("eosio")] = bundledABI(t, "eosio")
	fake.abis[types.MustNewName("custom")] = declaredABI("published")

	result, err := View(context.Background(), fake, testScope, testProposal)
	require.NoError(t, err)

	_, hasDeclared := result.Actions[1].Data.Get("declared")
	assert.True(t, hasDeclared)
	_, hasPublished := result.Actions[1].Data.Get("published")
	assert.False(t, hasPublished)
}

func TestViewSetabiDisplayHash(t *testing.T) {
	t.Parallel()

	declared := declaredABI("value")
	fake, _ := seedProposal(t, setabiAction(t, "custom", declared))
	fake.abis[types.MustNewName("eosio")] = bundledABI(t, "eosio")

	result, err := View(context.Background(), fake, testScope, testProposal)
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)

	data := result.Actions[0].Data

	// The abi field shows the hash of the quoted uppercase hex of the
	// canonical bytes, the form explorers publish.
	canonical := antelope.EncodeABI(declared)
	quoted := `"` + strings.ToUpper(hex.EncodeToString(canonical)) + `"`
	abiValue, ok := data.Get("abi")
	require.True(t, ok)
	assert.Equal(t, types.Checksum256(sha256.Sum256([]byte(quoted))), abiValue)

	// The declaration itself stays reachable on the raw side field.
	raw, ok := data.Get("_rawCodeOrAbi")
	require.True(t, ok)
	rawAbi, ok := raw.(*types.ABI)
	require.True(t, ok)
	assert.Equal(t, "doit", rawAbi.ActionStruct(types.MustNewName("doit")))
}

func TestViewSetcodeHash(t *testing.T) {
	t.Parallel()

	code := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	tests := []struct {
		name string
		code []byte
	}{
		{name: "wasm blob", code: code},
		{name: "empty code", code: []byte{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fields := types.NewFieldMap()
			fields.Set("account", "custom")
			fields.Set("vmtype", 0)
			fields.Set("vmversion", 0)
			fields.Set("code", types.HexBytes(tt.code))

			fake, _ := seedProposal(t, encodeAction(t, bundledABI(t, "eosio"), "eosio", "setcode", fields))
			fake.abis[types.MustNewName("eosio")] = bundledABI(t, "eosio")

			result, err := View(context.Background(), fake, testScope, testProposal)
			require.NoError(t, err)
			require.Len(t, result.Actions, 1)

			data := result.Actions[0].Data
			codeValue, ok := data.Get("code")
			require.True(t, ok)
			assert.Equal(t, types.Checksum256(sha256.Sum256(tt.code)), codeValue)

			raw, ok := data.Get("_rawCodeOrAbi")
			require.True(t, ok)
			assert.Equal(t, types.HexBytes(tt.code), raw)
		})
	}
}
