package antelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antelope-tools/msigview/types"
)

func TestEncodeDecodeABI(t *testing.T) {
	t.Parallel()

	original := testABI(t)
	packed := EncodeABI(original)

	decoded, err := DecodeABI(packed)
	require.NoError(t, err)

	assert.Equal(t, original.Version, decoded.Version)
	assert.Equal(t, original.Types, decoded.Types)
	assert.Equal(t, original.Structs, decoded.Structs)
	assert.Equal(t, original.Actions, decoded.Actions)
	require.Len(t, decoded.Variants, 1)
	assert.Equal(t, []string{"uint64", "string"}, decoded.Variants[0].Types)

	// Packing the decoded form reproduces the original bytes.
	assert.Equal(t, packed, EncodeABI(decoded))
}

func TestDecodeABIWithoutVariants(t *testing.T) {
	t.Parallel()

	abi := &types.ABI{
		Version: "eosio::abi/1.1",
		Structs: []types.ABIStruct{
			{
				Name: "ping",
				Fields: []types.ABIField{
					{Name: "who", Type: "name"},
				},
			},
		},
		Actions: []types.ABIAction{
			{Name: types.MustNewName("ping"), Type: "ping"},
		},
	}

	packed := EncodeABI(abi)

	decoded, err := DecodeABI(packed)
	require.NoError(t, err)
	assert.Empty(t, decoded.Variants)
	assert.Equal(t, "ping", decoded.ActionStruct(types.MustNewName("ping")))

	// An older ABI without the variants extension round-trips byte for byte.
	assert.Equal(t, packed, EncodeABI(decoded))
}

func TestDecodeABITruncated(t *testing.T) {
	t.Parallel()

	packed := EncodeABI(testABI(t))

	_, err := DecodeABI(packed[:5])
	require.Error(t, err)
}

func TestDecodeABIEmpty(t *testing.T) {
	t.Parallel()

	_, err := DecodeABI(nil)
	require.Error(t, err)
}
