// Package antelope implements the chain-facing pieces of the proposal viewer:
// a JSON RPC client, the packed transaction codec, and the ABI-driven action
// payload codec.
package antelope

import (
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/antelope-tools/msigview/internal/utils/safecast"
	"github.com/antelope-tools/msigview/types"
)

// UnpackTransaction deserializes a packed transaction byte blob. Any short
// read or length prefix past the end of the buffer is reported as an error;
// nothing here panics on hostile input.
func UnpackTransaction(data []byte) (*types.Transaction, error) {
	dec := bin.NewBinDecoder(data)

	trx := &types.Transaction{}

	expiration, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, fmt.Errorf("read expiration: %w", err)
	}
	trx.Expiration = types.TimePointSec(expiration)

	if trx.RefBlockNum, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, fmt.Errorf("read ref_block_num: %w", err)
	}
	if trx.RefBlockPrefix, err = dec.ReadUint32(bin.LE); err != nil {
		return nil, fmt.Errorf("read ref_block_prefix: %w", err)
	}
	if trx.MaxNetUsageWords, err = dec.ReadUvarint32(); err != nil {
		return nil, fmt.Errorf("read max_net_usage_words: %w", err)
	}
	if trx.MaxCPUUsageMS, err = dec.ReadUint8(); err != nil {
		return nil, fmt.Errorf("read max_cpu_usage_ms: %w", err)
	}
	if trx.DelaySec, err = dec.ReadUvarint32(); err != nil {
		return nil, fmt.Errorf("read delay_sec: %w", err)
	}

	if trx.ContextFreeActions, err = readActions(dec); err != nil {
		return nil, fmt.Errorf("read context_free_actions: %w", err)
	}
	if trx.Actions, err = readActions(dec); err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}
	if trx.Extensions, err = readExtensions(dec); err != nil {
		return nil, fmt.Errorf("read transaction_extensions: %w", err)
	}

	return trx, nil
}

func readActions(dec *bin.Decoder) ([]types.Action, error) {
	count, err := dec.ReadUvarint32()
	if err != nil {
		return nil, err
	}

	// Count is attacker controlled; grow by append instead of preallocating.
	actions := []types.Action{}
	for i := uint32(0); i < count; i++ {
		action, err := readAction(dec)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, action)
	}

	return actions, nil
}

func readAction(dec *bin.Decoder) (types.Action, error) {
	var action types.Action

	account, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return action, fmt.Errorf("read account: %w", err)
	}
	action.Account = types.Name(account)

	name, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return action, fmt.Errorf("read name: %w", err)
	}
	action.Name = types.Name(name)

	authCount, err := dec.ReadUvarint32()
	if err != nil {
		return action, fmt.Errorf("read authorization count: %w", err)
	}
	action.Authorization = []types.PermissionLevel{}
	for i := uint32(0); i < authCount; i++ {
		actor, err := dec.ReadUint64(bin.LE)
		if err != nil {
			return action, fmt.Errorf("read authorization actor: %w", err)
		}
		permission, err := dec.ReadUint64(bin.LE)
		if err != nil {
			return action, fmt.Errorf("read authorization permission: %w", err)
		}
		action.Authorization = append(action.Authorization, types.PermissionLevel{
			Actor:      types.Name(actor),
			Permission: types.Name(permission),
		})
	}

	data, err := readByteSlice(dec)
	if err != nil {
		return action, fmt.Errorf("read data: %w", err)
	}
	action.Data = data

	return action, nil
}

func readExtensions(dec *bin.Decoder) ([]types.Extension, error) {
	count, err := dec.ReadUvarint32()
	if err != nil {
		return nil, err
	}

	extensions := []types.Extension{}
	for i := uint32(0); i < count; i++ {
		typ, err := dec.ReadUint16(bin.LE)
		if err != nil {
			return nil, fmt.Errorf("extension %d type: %w", i, err)
		}
		data, err := readByteSlice(dec)
		if err != nil {
			return nil, fmt.Errorf("extension %d data: %w", i, err)
		}
		extensions = append(extensions, types.Extension{Type: typ, Data: data})
	}

	return extensions, nil
}

// readByteSlice reads a varuint32 length prefix followed by that many bytes.
func readByteSlice(dec *bin.Decoder) (types.HexBytes, error) {
	length, err := dec.ReadUvarint32()
	if err != nil {
		return nil, err
	}

	n, err := safecast.Uint32ToInt(length)
	if err != nil {
		return nil, err
	}

	data, err := dec.ReadNBytes(n)
	if err != nil {
		return nil, err
	}

	return types.HexBytes(data), nil
}

// PackTransaction serializes a transaction back to its packed byte form, the
// inverse of UnpackTransaction.
func PackTransaction(trx *types.Transaction) []byte {
	enc := newEncoder()
	enc.writeUint32(uint32(trx.Expiration))
	enc.writeUint16(trx.RefBlockNum)
	enc.writeUint32(trx.RefBlockPrefix)
	enc.writeVaruint32(trx.MaxNetUsageWords)
	enc.writeByte(trx.MaxCPUUsageMS)
	enc.writeVaruint32(trx.DelaySec)

	writeActions(enc, trx.ContextFreeActions)
	writeActions(enc, trx.Actions)

	enc.writeVaruint32(uint32(len(trx.Extensions)))
	for _, ext := range trx.Extensions {
		enc.writeUint16(ext.Type)
		enc.writeByteSlice(ext.Data)
	}

	return enc.bytes()
}

func writeActions(enc *encoder, actions []types.Action) {
	enc.writeVaruint32(uint32(len(actions)))
	for _, action := range actions {
		enc.writeUint64(uint64(action.Account))
		enc.writeUint64(uint64(action.Name))
		enc.writeVaruint32(uint32(len(action.Authorization)))
		for _, level := range action.Authorization {
			enc.writeUint64(uint64(level.Actor))
			enc.writeUint64(uint64(level.Permission))
		}
		enc.writeByteSlice(action.Data)
	}
}

// encoder appends Antelope wire primitives to a growing buffer. Decoding
// leans on the bin.Decoder primitive set; the write side is a handful of
// little-endian appends, so it stays a plain byte slice.
type encoder struct {
	buf []byte
}

func newEncoder() *encoder {
	return &encoder{}
}

func (e *encoder) bytes() []byte {
	return e.buf
}

func (e *encoder) writeByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *encoder) writeBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *encoder) writeUint16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *encoder) writeUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) writeUint64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *encoder) writeVaruint32(v uint32) {
	e.buf = binary.AppendUvarint(e.buf, uint64(v))
}

func (e *encoder) writeVarint32(v int32) {
	// zigzag
	e.writeVaruint32(uint32((v << 1) ^ (v >> 31)))
}

func (e *encoder) writeByteSlice(b []byte) {
	e.writeVaruint32(uint32(len(b)))
	e.writeBytes(b)
}

func (e *encoder) writeString(s string) {
	e.writeByteSlice([]byte(s))
}
