package types

import (
	"encoding/json"
	"fmt"
)

// ABI describes how an account's action payloads and table rows are laid out
// in binary. The JSON shape matches the chain's abi_def so a fetched ABI can
// be unmarshalled directly.
type ABI struct {
	Version          string            `json:"version"`
	Types            []ABITypeDef      `json:"types"`
	Structs          []ABIStruct       `json:"structs"`
	Actions          []ABIAction       `json:"actions"`
	Tables           []ABITable        `json:"tables"`
	RicardianClauses []ABIClausePair   `json:"ricardian_clauses,omitempty"`
	ErrorMessages    []ABIErrorMessage `json:"error_messages,omitempty"`
	Extensions       []ABIExtension    `json:"abi_extensions,omitempty"`
	Variants         []ABIVariant      `json:"variants,omitempty"`
}

// ABITypeDef aliases an existing type under a new name.
type ABITypeDef struct {
	NewTypeName string `json:"new_type_name"`
	Type        string `json:"type"`
}

// ABIField is one (name, type) pair in a struct layout.
type ABIField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ABIStruct is a named, ordered field layout, optionally extending a base
// struct whose fields are serialized first.
type ABIStruct struct {
	Name   string     `json:"name"`
	Base   string     `json:"base"`
	Fields []ABIField `json:"fields"`
}

// ABIAction binds an action name to the struct describing its payload.
type ABIAction struct {
	Name              Name   `json:"name"`
	Type              string `json:"type"`
	RicardianContract string `json:"ricardian_contract"`
}

// ABITable describes a contract table layout.
type ABITable struct {
	Name      Name     `json:"name"`
	IndexType string   `json:"index_type"`
	KeyNames  []string `json:"key_names,omitempty"`
	KeyTypes  []string `json:"key_types,omitempty"`
	Type      string   `json:"type"`
}

// ABIClausePair is a ricardian clause entry.
type ABIClausePair struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// ABIErrorMessage maps a contract error code to its message.
type ABIErrorMessage struct {
	ErrorCode    uint64 `json:"error_code"`
	ErrorMessage string `json:"error_msg"`
}

// ABIExtension is a tagged ABI extension entry.
type ABIExtension struct {
	Tag  uint16   `json:"tag"`
	Data HexBytes `json:"value"`
}

// ABIVariant is a tagged union of the listed types, addressed on the wire by
// a leading index.
type ABIVariant struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// ABIFromJSON parses an abi_def JSON document.
func ABIFromJSON(data []byte) (*ABI, error) {
	var abi ABI
	if err := json.Unmarshal(data, &abi); err != nil {
		return nil, fmt.Errorf("invalid ABI JSON: %w", err)
	}

	return &abi, nil
}

// ActionStruct returns the struct name bound to an action, or the empty string
// when the ABI does not declare the action.
func (a *ABI) ActionStruct(action Name) string {
	for _, def := range a.Actions {
		if def.Name == action {
			return def.Type
		}
	}

	return ""
}

// StructDef looks up a struct layout by name.
func (a *ABI) StructDef(name string) *ABIStruct {
	for i := range a.Structs {
		if a.Structs[i].Name == name {
			return &a.Structs[i]
		}
	}

	return nil
}

// VariantDef looks up a variant by name.
func (a *ABI) VariantDef(name string) *ABIVariant {
	for i := range a.Variants {
		if a.Variants[i].Name == name {
			return &a.Variants[i]
		}
	}

	return nil
}

// ResolveAlias chases type aliases to the underlying type name. Alias chains
// are bounded to guard against self-referential definitions in a hostile ABI.
func (a *ABI) ResolveAlias(name string) string {
	for i := 0; i < len(a.Types)+1; i++ {
		resolved := name
		for _, def := range a.Types {
			if def.NewTypeName == name {
				resolved = def.Type

				break
			}
		}
		if resolved == name {
			return name
		}
		name = resolved
	}

	return name
}
