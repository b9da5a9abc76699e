package antelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antelope-tools/msigview/types"
)

func testTransaction() *types.Transaction {
	return &types.Transaction{
		TransactionHeader: types.TransactionHeader{
			Expiration:       types.TimePointSec(1735689600),
			RefBlockNum:      12345,
			RefBlockPrefix:   0xdeadbeef,
			MaxNetUsageWords: 0,
			MaxCPUUsageMS:    0,
			DelaySec:         300,
		},
		ContextFreeActions: []types.Action{},
		Actions: []types.Action{
			{
				Account: types.MustNewName("eosio.token"),
				Name:    types.MustNewName("transfer"),
				Authorization: []types.PermissionLevel{
					{Actor: types.MustNewName("alice"), Permission: types.MustNewName("active")},
				},
				Data: types.HexBytes{0x01, 0x02, 0x03},
			},
			{
				Account:       types.MustNewName("eosio"),
				Name:          types.MustNewName("voteproducer"),
				Authorization: []types.PermissionLevel{},
				Data:          types.HexBytes{},
			},
		},
		Extensions: []types.Extension{},
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	give := testTransaction()

	packed := PackTransaction(give)
	got, err := UnpackTransaction(packed)
	require.NoError(t, err)

	assert.Equal(t, give, got)

	// Packing the unpacked transaction reproduces the same bytes.
	assert.Equal(t, packed, PackTransaction(got))
}

func TestUnpackTransactionMalformed(t *testing.T) {
	t.Parallel()

	packed := PackTransaction(testTransaction())

	tests := []struct {
		name string
		give []byte
	}{
		{name: "empty", give: []byte{}},
		{name: "header only", give: packed[:10]},
		{name: "truncated mid action", give: packed[:len(packed)-4]},
		{
			// expiration + ref block fields, then an action count whose
			// actions are missing entirely
			name: "count past buffer end",
			give: append(append([]byte{}, packed[:12]...), 0xff),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := UnpackTransaction(tt.give)
			require.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestUnpackTransactionLengthPrefixPastEnd(t *testing.T) {
	t.Parallel()

	// One action whose data length prefix claims 100 bytes while only two
	// follow.
	enc := newEncoder()
	enc.writeUint32(0)    // expiration
	enc.writeUint16(0)    // ref_block_num
	enc.writeUint32(0)    // ref_block_prefix
	enc.writeVaruint32(0) // max_net_usage_words
	enc.writeByte(0)      // max_cpu_usage_ms
	enc.writeVaruint32(0) // delay_sec
	enc.writeVaruint32(0) // context_free_actions
	enc.writeVaruint32(1) // actions
	enc.writeUint64(0)    // account
	enc.writeUint64(0)    // name
	enc.writeVaruint32(0) // authorization
	enc.writeVaruint32(100)
	enc.writeBytes([]byte{0x01, 0x02})

	got, err := UnpackTransaction(enc.bytes())
	require.Error(t, err)
	assert.Nil(t, got)
}
