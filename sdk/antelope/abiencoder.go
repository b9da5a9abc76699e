package antelope

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/spf13/cast"

	"github.com/antelope-tools/msigview/types"
)

// EncodeActionData serializes decoded field values back to the action's
// packed payload form, walking the same ABI layout the decoder walks. Values
// are accepted in the shapes DecodeActionData produces.
func EncodeActionData(abi *types.ABI, action types.Name, fields *types.FieldMap) ([]byte, error) {
	structName := abi.ActionStruct(action)
	if structName == "" {
		return nil, NewUnknownActionError(action)
	}

	e := &abiEncoder{abi: abi, enc: newEncoder()}
	if err := e.encodeStruct(structName, fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", action, err)
	}

	return e.enc.bytes(), nil
}

type abiEncoder struct {
	abi *types.ABI
	enc *encoder
}

func (e *abiEncoder) encodeStruct(name string, fields *types.FieldMap) error {
	def := e.abi.StructDef(name)
	if def == nil {
		return fmt.Errorf("struct %q is not declared by the ABI", name)
	}

	if def.Base != "" {
		if err := e.encodeStruct(e.abi.ResolveAlias(def.Base), fields); err != nil {
			return fmt.Errorf("base %q: %w", def.Base, err)
		}
	}

	for _, field := range def.Fields {
		value, ok := fields.Get(field.Name)
		if !ok {
			if strings.HasSuffix(field.Type, "$") {
				break
			}

			return fmt.Errorf("field %q is missing", field.Name)
		}

		if err := e.encodeType(field.Type, value); err != nil {
			return fmt.Errorf("field %q (%s): %w", field.Name, field.Type, err)
		}
	}

	return nil
}

func (e *abiEncoder) encodeType(typeName string, value any) error {
	if inner, ok := strings.CutSuffix(typeName, "$"); ok {
		return e.encodeType(inner, value)
	}

	if inner, ok := strings.CutSuffix(typeName, "?"); ok {
		if value == nil {
			e.enc.writeByte(0)

			return nil
		}
		e.enc.writeByte(1)

		return e.encodeType(inner, value)
	}

	if inner, ok := strings.CutSuffix(typeName, "[]"); ok {
		values, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected a sequence, got %T", value)
		}
		e.enc.writeVaruint32(uint32(len(values)))
		for i, element := range values {
			if err := e.encodeType(inner, element); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}

		return nil
	}

	if resolved := e.abi.ResolveAlias(typeName); resolved != typeName {
		return e.encodeType(resolved, value)
	}

	if variant := e.abi.VariantDef(typeName); variant != nil {
		return e.encodeVariant(variant, value)
	}

	if e.abi.StructDef(typeName) != nil {
		fields, ok := value.(*types.FieldMap)
		if !ok {
			return fmt.Errorf("expected an object for struct %q, got %T", typeName, value)
		}

		return e.encodeStruct(typeName, fields)
	}

	return e.encodeBuiltin(typeName, value)
}

func (e *abiEncoder) encodeVariant(variant *types.ABIVariant, value any) error {
	pair, ok := value.([]any)
	if !ok || len(pair) != 2 {
		return fmt.Errorf("expected a [type, value] pair for variant %q", variant.Name)
	}
	alternative, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("expected a type name tag for variant %q", variant.Name)
	}

	for tag, name := range variant.Types {
		if name == alternative {
			e.enc.writeVaruint32(uint32(tag))

			return e.encodeType(alternative, pair[1])
		}
	}

	return fmt.Errorf("type %q is not an alternative of variant %q", alternative, variant.Name)
}

func (e *abiEncoder) encodeBuiltin(typeName string, value any) error {
	switch typeName {
	case "bool":
		v, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		if v {
			e.enc.writeByte(1)
		} else {
			e.enc.writeByte(0)
		}
	case "int8":
		v, err := cast.ToInt8E(value)
		if err != nil {
			return err
		}
		e.enc.writeByte(byte(v))
	case "uint8":
		v, err := cast.ToUint8E(value)
		if err != nil {
			return err
		}
		e.enc.writeByte(v)
	case "int16":
		v, err := cast.ToInt16E(value)
		if err != nil {
			return err
		}
		e.enc.writeUint16(uint16(v))
	case "uint16":
		v, err := cast.ToUint16E(value)
		if err != nil {
			return err
		}
		e.enc.writeUint16(v)
	case "int32":
		v, err := cast.ToInt32E(value)
		if err != nil {
			return err
		}
		e.enc.writeUint32(uint32(v))
	case "uint32":
		v, err := cast.ToUint32E(value)
		if err != nil {
			return err
		}
		e.enc.writeUint32(v)
	case "int64":
		v, err := cast.ToInt64E(value)
		if err != nil {
			return err
		}
		e.enc.writeUint64(uint64(v))
	case "uint64":
		v, err := cast.ToUint64E(value)
		if err != nil {
			return err
		}
		e.enc.writeUint64(v)
	case "int128", "uint128":
		return e.encodeInt128(value, typeName == "int128")
	case "varuint32":
		v, err := cast.ToUint32E(value)
		if err != nil {
			return err
		}
		e.enc.writeVaruint32(v)
	case "varint32":
		v, err := cast.ToInt32E(value)
		if err != nil {
			return err
		}
		e.enc.writeVarint32(v)
	case "float32":
		v, err := cast.ToFloat32E(value)
		if err != nil {
			return err
		}
		e.enc.writeUint32(math.Float32bits(v))
	case "float64":
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return err
		}
		e.enc.writeUint64(math.Float64bits(v))
	case "float128":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}

		return e.writeFixedHex(strings.TrimPrefix(s, "0x"), 16)
	case "time_point":
		switch v := value.(type) {
		case types.TimePoint:
			e.enc.writeUint64(uint64(v))
		default:
			return fmt.Errorf("expected a time_point, got %T", value)
		}
	case "time_point_sec":
		switch v := value.(type) {
		case types.TimePointSec:
			e.enc.writeUint32(uint32(v))
		default:
			return fmt.Errorf("expected a time_point_sec, got %T", value)
		}
	case "block_timestamp_type":
		switch v := value.(type) {
		case types.BlockTimestamp:
			e.enc.writeUint32(uint32(v))
		default:
			return fmt.Errorf("expected a block timestamp, got %T", value)
		}
	case "name", "account_name", "action_name", "permission_name", "table_name", "scope_name":
		name, err := toName(value)
		if err != nil {
			return err
		}
		e.enc.writeUint64(uint64(name))
	case "bytes":
		raw, err := toBytes(value)
		if err != nil {
			return err
		}
		e.enc.writeByteSlice(raw)
	case "string":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		e.enc.writeString(s)
	case "checksum160":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}

		return e.writeFixedHex(s, 20)
	case "checksum256":
		switch v := value.(type) {
		case types.Checksum256:
			e.enc.writeBytes(v[:])
		case string:
			return e.writeFixedHex(v, 32)
		default:
			return fmt.Errorf("expected a checksum256, got %T", value)
		}
	case "checksum512":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}

		return e.writeFixedHex(s, 64)
	case "public_key":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		tag, data, err := parseKeyMaterial(s, "PUB", publicKeyDataLen)
		if err != nil {
			return err
		}
		e.enc.writeByte(tag)
		e.enc.writeBytes(data)
	case "signature":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		tag, data, err := parseKeyMaterial(s, "SIG", signatureDataLen)
		if err != nil {
			return err
		}
		e.enc.writeByte(tag)
		e.enc.writeBytes(data)
	case "symbol":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		raw, err := parseSymbol(s)
		if err != nil {
			return err
		}
		e.enc.writeUint64(raw)
	case "symbol_code":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		var raw uint64
		for i := 0; i < len(s); i++ {
			raw |= uint64(s[i]) << (8 * i)
		}
		e.enc.writeUint64(raw)
	case "asset":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		amount, rawSymbol, err := parseAsset(s)
		if err != nil {
			return err
		}
		e.enc.writeUint64(uint64(amount))
		e.enc.writeUint64(rawSymbol)
	case "extended_asset":
		fields, ok := value.(*types.FieldMap)
		if !ok {
			return fmt.Errorf("expected an object for extended_asset, got %T", value)
		}
		quantity, _ := fields.Get("quantity")
		if err := e.encodeBuiltin("asset", quantity); err != nil {
			return err
		}
		contract, _ := fields.Get("contract")

		return e.encodeBuiltin("name", contract)
	default:
		return fmt.Errorf("unknown type %q", typeName)
	}

	return nil
}

func (e *abiEncoder) encodeInt128(value any, signed bool) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return err
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("invalid 128 bit integer %q", s)
	}
	if signed && v.Sign() < 0 {
		v.Add(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}

	be := v.FillBytes(make([]byte, 16))
	le := make([]byte, 16)
	for i, b := range be {
		le[15-i] = b
	}
	e.enc.writeBytes(le)

	return nil
}

func (e *abiEncoder) writeFixedHex(s string, length int) error {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex %q: %w", s, err)
	}
	if len(raw) != length {
		return fmt.Errorf("expected %d bytes, got %d", length, len(raw))
	}
	e.enc.writeBytes(raw)

	return nil
}

func toName(value any) (types.Name, error) {
	switch v := value.(type) {
	case types.Name:
		return v, nil
	case string:
		return types.NewName(v)
	default:
		return 0, fmt.Errorf("expected a name, got %T", value)
	}
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case types.HexBytes:
		return v, nil
	case []byte:
		return v, nil
	case string:
		raw, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid hex payload: %w", err)
		}

		return raw, nil
	default:
		return nil, fmt.Errorf("expected bytes, got %T", value)
	}
}
