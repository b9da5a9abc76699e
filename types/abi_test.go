package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenAbiJSON = `{
	"version": "eosio::abi/1.2",
	"types": [
		{"new_type_name": "account_name", "type": "name"},
		{"new_type_name": "owner_name", "type": "account_name"}
	],
	"structs": [
		{
			"name": "transfer",
			"base": "",
			"fields": [
				{"name": "from", "type": "account_name"},
				{"name": "to", "type": "account_name"},
				{"name": "quantity", "type": "asset"},
				{"name": "memo", "type": "string"}
			]
		}
	],
	"actions": [
		{"name": "transfer", "type": "transfer", "ricardian_contract": ""}
	],
	"tables": []
}`

func TestABIFromJSON(t *testing.T) {
	t.Parallel()

	abi, err := ABIFromJSON([]byte(tokenAbiJSON))
	require.NoError(t, err)

	assert.Equal(t, "eosio::abi/1.2", abi.Version)
	assert.Len(t, abi.Structs, 1)
	assert.Equal(t, "transfer", abi.ActionStruct(MustNewName("transfer")))
	assert.Empty(t, abi.ActionStruct(MustNewName("issue")))

	def := abi.StructDef("transfer")
	require.NotNil(t, def)
	assert.Equal(t, "from", def.Fields[0].Name)
	assert.Nil(t, abi.StructDef("missing"))
}

func TestABIResolveAlias(t *testing.T) {
	t.Parallel()

	abi, err := ABIFromJSON([]byte(tokenAbiJSON))
	require.NoError(t, err)

	// Chains resolve to the underlying type.
	assert.Equal(t, "name", abi.ResolveAlias("owner_name"))
	assert.Equal(t, "name", abi.ResolveAlias("account_name"))

	// Unknown names pass through.
	assert.Equal(t, "uint64", abi.ResolveAlias("uint64"))
}

func TestABIResolveAliasCycle(t *testing.T) {
	t.Parallel()

	abi := &ABI{
		Types: []ABITypeDef{
			{NewTypeName: "a", Type: "b"},
			{NewTypeName: "b", Type: "a"},
		},
	}

	// A hostile self-referential alias chain must terminate.
	resolved := abi.ResolveAlias("a")
	assert.Contains(t, []string{"a", "b"}, resolved)
}
