package antelope

import (
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/antelope-tools/msigview/types"
)

// DecodeABI deserializes the binary abi_def carried in a setabi payload.
// Trailing fields added by newer ABI versions (variants onward) are optional
// on the wire.
func DecodeABI(data []byte) (*types.ABI, error) {
	dec := bin.NewBinDecoder(data)
	abi := &types.ABI{}

	version, err := readString(dec)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	abi.Version = version

	typeCount, err := dec.ReadUvarint32()
	if err != nil {
		return nil, fmt.Errorf("read types: %w", err)
	}
	abi.Types = []types.ABITypeDef{}
	for i := uint32(0); i < typeCount; i++ {
		var def types.ABITypeDef
		if def.NewTypeName, err = readString(dec); err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
		if def.Type, err = readString(dec); err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
		abi.Types = append(abi.Types, def)
	}

	structCount, err := dec.ReadUvarint32()
	if err != nil {
		return nil, fmt.Errorf("read structs: %w", err)
	}
	abi.Structs = []types.ABIStruct{}
	for i := uint32(0); i < structCount; i++ {
		def, err := readStructDef(dec)
		if err != nil {
			return nil, fmt.Errorf("struct %d: %w", i, err)
		}
		abi.Structs = append(abi.Structs, def)
	}

	actionCount, err := dec.ReadUvarint32()
	if err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}
	abi.Actions = []types.ABIAction{}
	for i := uint32(0); i < actionCount; i++ {
		var def types.ABIAction
		name, err := dec.ReadUint64(bin.LE)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		def.Name = types.Name(name)
		if def.Type, err = readString(dec); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		if def.RicardianContract, err = readString(dec); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		abi.Actions = append(abi.Actions, def)
	}

	tableCount, err := dec.ReadUvarint32()
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	abi.Tables = []types.ABITable{}
	for i := uint32(0); i < tableCount; i++ {
		def, err := readTableDef(dec)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		abi.Tables = append(abi.Tables, def)
	}

	clauseCount, err := dec.ReadUvarint32()
	if err != nil {
		return nil, fmt.Errorf("read ricardian_clauses: %w", err)
	}
	for i := uint32(0); i < clauseCount; i++ {
		var clause types.ABIClausePair
		if clause.ID, err = readString(dec); err != nil {
			return nil, fmt.Errorf("clause %d: %w", i, err)
		}
		if clause.Body, err = readString(dec); err != nil {
			return nil, fmt.Errorf("clause %d: %w", i, err)
		}
		abi.RicardianClauses = append(abi.RicardianClauses, clause)
	}

	errorCount, err := dec.ReadUvarint32()
	if err != nil {
		return nil, fmt.Errorf("read error_messages: %w", err)
	}
	for i := uint32(0); i < errorCount; i++ {
		var msg types.ABIErrorMessage
		if msg.ErrorCode, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, fmt.Errorf("error message %d: %w", i, err)
		}
		if msg.ErrorMessage, err = readString(dec); err != nil {
			return nil, fmt.Errorf("error message %d: %w", i, err)
		}
		abi.ErrorMessages = append(abi.ErrorMessages, msg)
	}

	extensionCount, err := dec.ReadUvarint32()
	if err != nil {
		return nil, fmt.Errorf("read abi_extensions: %w", err)
	}
	for i := uint32(0); i < extensionCount; i++ {
		var ext types.ABIExtension
		if ext.Tag, err = dec.ReadUint16(bin.LE); err != nil {
			return nil, fmt.Errorf("abi extension %d: %w", i, err)
		}
		if ext.Data, err = readByteSlice(dec); err != nil {
			return nil, fmt.Errorf("abi extension %d: %w", i, err)
		}
		abi.Extensions = append(abi.Extensions, ext)
	}

	// variants were added as a binary extension; older ABIs end here.
	if !dec.HasRemaining() {
		return abi, nil
	}

	variantCount, err := dec.ReadUvarint32()
	if err != nil {
		return nil, fmt.Errorf("read variants: %w", err)
	}
	for i := uint32(0); i < variantCount; i++ {
		var variant types.ABIVariant
		if variant.Name, err = readString(dec); err != nil {
			return nil, fmt.Errorf("variant %d: %w", i, err)
		}
		alternativeCount, err := dec.ReadUvarint32()
		if err != nil {
			return nil, fmt.Errorf("variant %d: %w", i, err)
		}
		for j := uint32(0); j < alternativeCount; j++ {
			alternative, err := readString(dec)
			if err != nil {
				return nil, fmt.Errorf("variant %d alternative %d: %w", i, j, err)
			}
			variant.Types = append(variant.Types, alternative)
		}
		abi.Variants = append(abi.Variants, variant)
	}

	return abi, nil
}

// EncodeABI serializes an ABI to its canonical binary abi_def form. The
// variants extension is emitted only when present, so round-tripping an older
// ABI reproduces its original bytes.
func EncodeABI(abi *types.ABI) []byte {
	enc := newEncoder()
	enc.writeString(abi.Version)

	enc.writeVaruint32(uint32(len(abi.Types)))
	for _, def := range abi.Types {
		enc.writeString(def.NewTypeName)
		enc.writeString(def.Type)
	}

	enc.writeVaruint32(uint32(len(abi.Structs)))
	for _, def := range abi.Structs {
		enc.writeString(def.Name)
		enc.writeString(def.Base)
		enc.writeVaruint32(uint32(len(def.Fields)))
		for _, field := range def.Fields {
			enc.writeString(field.Name)
			enc.writeString(field.Type)
		}
	}

	enc.writeVaruint32(uint32(len(abi.Actions)))
	for _, def := range abi.Actions {
		enc.writeUint64(uint64(def.Name))
		enc.writeString(def.Type)
		enc.writeString(def.RicardianContract)
	}

	enc.writeVaruint32(uint32(len(abi.Tables)))
	for _, def := range abi.Tables {
		enc.writeUint64(uint64(def.Name))
		enc.writeString(def.IndexType)
		enc.writeVaruint32(uint32(len(def.KeyNames)))
		for _, name := range def.KeyNames {
			enc.writeString(name)
		}
		enc.writeVaruint32(uint32(len(def.KeyTypes)))
		for _, typ := range def.KeyTypes {
			enc.writeString(typ)
		}
		enc.writeString(def.Type)
	}

	enc.writeVaruint32(uint32(len(abi.RicardianClauses)))
	for _, clause := range abi.RicardianClauses {
		enc.writeString(clause.ID)
		enc.writeString(clause.Body)
	}

	enc.writeVaruint32(uint32(len(abi.ErrorMessages)))
	for _, msg := range abi.ErrorMessages {
		enc.writeUint64(msg.ErrorCode)
		enc.writeString(msg.ErrorMessage)
	}

	enc.writeVaruint32(uint32(len(abi.Extensions)))
	for _, ext := range abi.Extensions {
		enc.writeUint16(ext.Tag)
		enc.writeByteSlice(ext.Data)
	}

	if len(abi.Variants) > 0 {
		enc.writeVaruint32(uint32(len(abi.Variants)))
		for _, variant := range abi.Variants {
			enc.writeString(variant.Name)
			enc.writeVaruint32(uint32(len(variant.Types)))
			for _, alternative := range variant.Types {
				enc.writeString(alternative)
			}
		}
	}

	return enc.bytes()
}

func readString(dec *bin.Decoder) (string, error) {
	raw, err := readByteSlice(dec)

	return string(raw), err
}

func readStructDef(dec *bin.Decoder) (types.ABIStruct, error) {
	var def types.ABIStruct
	var err error

	if def.Name, err = readString(dec); err != nil {
		return def, err
	}
	if def.Base, err = readString(dec); err != nil {
		return def, err
	}

	fieldCount, err := dec.ReadUvarint32()
	if err != nil {
		return def, err
	}
	def.Fields = []types.ABIField{}
	for i := uint32(0); i < fieldCount; i++ {
		var field types.ABIField
		if field.Name, err = readString(dec); err != nil {
			return def, err
		}
		if field.Type, err = readString(dec); err != nil {
			return def, err
		}
		def.Fields = append(def.Fields, field)
	}

	return def, nil
}

func readTableDef(dec *bin.Decoder) (types.ABITable, error) {
	var def types.ABITable
	name, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return def, err
	}
	def.Name = types.Name(name)

	if def.IndexType, err = readString(dec); err != nil {
		return def, err
	}

	keyNameCount, err := dec.ReadUvarint32()
	if err != nil {
		return def, err
	}
	for i := uint32(0); i < keyNameCount; i++ {
		keyName, err := readString(dec)
		if err != nil {
			return def, err
		}
		def.KeyNames = append(def.KeyNames, keyName)
	}

	keyTypeCount, err := dec.ReadUvarint32()
	if err != nil {
		return def, err
	}
	for i := uint32(0); i < keyTypeCount; i++ {
		keyType, err := readString(dec)
		if err != nil {
			return def, err
		}
		def.KeyTypes = append(def.KeyTypes, keyType)
	}

	if def.Type, err = readString(dec); err != nil {
		return def, err
	}

	return def, nil
}
