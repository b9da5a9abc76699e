package staticabi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundledAccounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		account    string
		wantAction string
	}{
		{account: "eosio", wantAction: "setabi"},
		{account: "eosio.msig", wantAction: "propose"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.account, func(t *testing.T) {
			t.Parallel()

			data, err := Load(tt.account)
			require.NoError(t, err)

			var abi struct {
				Actions []struct {
					Name string `json:"name"`
				} `json:"actions"`
			}
			require.NoError(t, json.Unmarshal(data, &abi))

			names := make([]string, 0, len(abi.Actions))
			for _, action := range abi.Actions {
				names = append(names, action.Name)
			}
			assert.Contains(t, names, tt.wantAction)
		})
	}
}

func TestLoadUnknownAccount(t *testing.T) {
	t.Parallel()

	_, err := Load("eosio.unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bundled ABI")
}

func TestLoadServesCachedCopy(t *testing.T) {
	t.Parallel()

	first, err := Load("eosio")
	require.NoError(t, err)

	second, err := Load("eosio")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
