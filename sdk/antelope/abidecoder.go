package antelope

import (
	"fmt"
	"math/big"
	"strings"

	bin "github.com/gagliardetto/binary"

	"github.com/antelope-tools/msigview/internal/utils/safecast"
	"github.com/antelope-tools/msigview/types"
)

// UnknownActionError is returned when an ABI does not declare the action being
// decoded.
type UnknownActionError struct {
	Action types.Name
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("action %s is not declared by the ABI", e.Action)
}

func NewUnknownActionError(action types.Name) *UnknownActionError {
	return &UnknownActionError{Action: action}
}

// DecodeActionData decodes an action payload into ordered field values, per
// the ABI's action-to-struct binding. It is a pure function of its inputs.
// Trailing unconsumed bytes are ignored; a required field that cannot be fully
// read is an error.
func DecodeActionData(abi *types.ABI, action types.Name, data []byte) (*types.FieldMap, error) {
	structName := abi.ActionStruct(action)
	if structName == "" {
		return nil, NewUnknownActionError(action)
	}

	d := &abiDecoder{abi: abi, dec: bin.NewBinDecoder(data)}

	fields, err := d.decodeStruct(structName)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", action, err)
	}

	return fields, nil
}

// abiDecoder walks a struct layout, consuming the payload field by field. The
// type language is a closed set: builtin scalars, structs, variants, aliases,
// and the []/?/$ modifiers.
type abiDecoder struct {
	abi *types.ABI
	dec *bin.Decoder
}

func (d *abiDecoder) decodeStruct(name string) (*types.FieldMap, error) {
	def := d.abi.StructDef(name)
	if def == nil {
		return nil, fmt.Errorf("struct %q is not declared by the ABI", name)
	}

	out := types.NewFieldMap()

	if def.Base != "" {
		base, err := d.decodeStruct(d.abi.ResolveAlias(def.Base))
		if err != nil {
			return nil, fmt.Errorf("base %q: %w", def.Base, err)
		}
		for _, key := range base.Keys() {
			v, _ := base.Get(key)
			out.Set(key, v)
		}
	}

	for _, field := range def.Fields {
		// A binary extension field that has no bytes left is simply absent,
		// along with everything after it.
		if strings.HasSuffix(field.Type, "$") && !d.dec.HasRemaining() {
			break
		}

		value, err := d.decodeType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q (%s): %w", field.Name, field.Type, err)
		}
		out.Set(field.Name, value)
	}

	return out, nil
}

func (d *abiDecoder) decodeType(typeName string) (any, error) {
	if inner, ok := strings.CutSuffix(typeName, "$"); ok {
		return d.decodeType(inner)
	}

	if inner, ok := strings.CutSuffix(typeName, "?"); ok {
		present, err := d.dec.ReadUint8()
		if err != nil {
			return nil, err
		}
		if present == 0 {
			return nil, nil
		}

		return d.decodeType(inner)
	}

	if inner, ok := strings.CutSuffix(typeName, "[]"); ok {
		count, err := d.dec.ReadUvarint32()
		if err != nil {
			return nil, err
		}
		values := []any{}
		for i := uint32(0); i < count; i++ {
			value, err := d.decodeType(inner)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			values = append(values, value)
		}

		return values, nil
	}

	if resolved := d.abi.ResolveAlias(typeName); resolved != typeName {
		return d.decodeType(resolved)
	}

	if variant := d.abi.VariantDef(typeName); variant != nil {
		return d.decodeVariant(variant)
	}

	if d.abi.StructDef(typeName) != nil {
		return d.decodeStruct(typeName)
	}

	return d.decodeBuiltin(typeName)
}

// decodeVariant reads the leading tag and decodes the addressed alternative.
// The JSON form is the conventional [type name, value] pair.
func (d *abiDecoder) decodeVariant(variant *types.ABIVariant) (any, error) {
	tag, err := d.dec.ReadUvarint32()
	if err != nil {
		return nil, err
	}
	if int(tag) >= len(variant.Types) {
		return nil, fmt.Errorf("variant %q tag %d out of range", variant.Name, tag)
	}

	alternative := variant.Types[tag]
	value, err := d.decodeType(alternative)
	if err != nil {
		return nil, fmt.Errorf("variant %q alternative %q: %w", variant.Name, alternative, err)
	}

	return []any{alternative, value}, nil
}

func (d *abiDecoder) decodeBuiltin(typeName string) (any, error) {
	switch typeName {
	case "bool":
		v, err := d.dec.ReadUint8()

		return v != 0, err
	case "int8":
		v, err := d.dec.ReadUint8()

		return int8(v), err
	case "uint8":
		return d.dec.ReadUint8()
	case "int16":
		v, err := d.dec.ReadUint16(bin.LE)

		return int16(v), err
	case "uint16":
		return d.dec.ReadUint16(bin.LE)
	case "int32":
		v, err := d.dec.ReadUint32(bin.LE)

		return int32(v), err
	case "uint32":
		return d.dec.ReadUint32(bin.LE)
	case "int64":
		v, err := d.dec.ReadUint64(bin.LE)

		return int64(v), err
	case "uint64":
		return d.dec.ReadUint64(bin.LE)
	case "int128", "uint128":
		raw, err := d.dec.ReadNBytes(16)
		if err != nil {
			return nil, err
		}

		return formatInt128(raw, typeName == "int128"), nil
	case "varuint32":
		return d.dec.ReadUvarint32()
	case "varint32":
		v, err := d.dec.ReadUvarint32()

		return int32(v>>1) ^ -int32(v&1), err
	case "float32":
		return d.dec.ReadFloat32(bin.LE)
	case "float64":
		return d.dec.ReadFloat64(bin.LE)
	case "float128":
		raw, err := d.dec.ReadNBytes(16)
		if err != nil {
			return nil, err
		}

		return "0x" + types.HexBytes(raw).String(), nil
	case "time_point":
		v, err := d.dec.ReadUint64(bin.LE)
		micros, castErr := safecast.Uint64ToInt64(v)
		if err == nil {
			err = castErr
		}

		return types.TimePoint(micros), err
	case "time_point_sec":
		v, err := d.dec.ReadUint32(bin.LE)

		return types.TimePointSec(v), err
	case "block_timestamp_type":
		v, err := d.dec.ReadUint32(bin.LE)

		return types.BlockTimestamp(v), err
	case "name", "account_name", "action_name", "permission_name", "table_name", "scope_name":
		v, err := d.dec.ReadUint64(bin.LE)

		return types.Name(v), err
	case "bytes":
		raw, err := readByteSlice(d.dec)

		return types.HexBytes(raw), err
	case "string":
		raw, err := readByteSlice(d.dec)

		return string(raw), err
	case "checksum160":
		raw, err := d.dec.ReadNBytes(20)

		return types.HexBytes(raw).String(), err
	case "checksum256":
		raw, err := d.dec.ReadNBytes(32)
		if err != nil {
			return nil, err
		}
		var sum types.Checksum256
		copy(sum[:], raw)

		return sum, nil
	case "checksum512":
		raw, err := d.dec.ReadNBytes(64)

		return types.HexBytes(raw).String(), err
	case "public_key":
		return d.decodePublicKey()
	case "signature":
		return d.decodeSignature()
	case "symbol":
		raw, err := d.dec.ReadUint64(bin.LE)
		if err != nil {
			return nil, err
		}

		return formatSymbol(raw)
	case "symbol_code":
		raw, err := d.dec.ReadUint64(bin.LE)
		if err != nil {
			return nil, err
		}

		return symbolCode(raw), nil
	case "asset":
		return d.decodeAsset()
	case "extended_asset":
		quantity, err := d.decodeAsset()
		if err != nil {
			return nil, err
		}
		contract, err := d.dec.ReadUint64(bin.LE)
		if err != nil {
			return nil, err
		}
		out := types.NewFieldMap()
		out.Set("quantity", quantity)
		out.Set("contract", types.Name(contract))

		return out, nil
	default:
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
}

func (d *abiDecoder) decodeAsset() (string, error) {
	rawAmount, err := d.dec.ReadUint64(bin.LE)
	if err != nil {
		return "", err
	}
	rawSymbol, err := d.dec.ReadUint64(bin.LE)
	if err != nil {
		return "", err
	}

	return formatAsset(int64(rawAmount), rawSymbol)
}

// formatInt128 renders a 16 byte little-endian integer as a decimal string,
// two's complement when signed.
func formatInt128(raw []byte, signed bool) string {
	be := make([]byte, 16)
	for i, b := range raw {
		be[15-i] = b
	}

	v := new(big.Int).SetBytes(be)
	if signed && be[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}

	return v.String()
}
