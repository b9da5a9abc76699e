package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// nameCharset is the base-32 alphabet used by Antelope account, action and
// permission names. Index 0 is the padding character.
const nameCharset = ".12345abcdefghijklmnopqrstuvwxyz"

// Name is an Antelope name: up to 13 characters from the base-32 alphabet,
// packed into a uint64. Account names, action names, table names, permission
// names and proposal names all share this encoding.
type Name uint64

// NewName parses the string form of a name. Names longer than 13 characters,
// names with characters outside the alphabet, and 13th characters that do not
// fit the trailing 4 bits are rejected.
func NewName(s string) (Name, error) {
	if len(s) > 13 {
		return 0, fmt.Errorf("name %q is longer than 13 characters", s)
	}

	var n uint64
	for i := 0; i <= 12; i++ {
		var c uint64
		if i < len(s) {
			sym, err := charToSymbol(s[i])
			if err != nil {
				return 0, fmt.Errorf("name %q: %w", s, err)
			}
			c = sym
		}

		if i < 12 {
			c &= 0x1f
			c <<= uint(64 - 5*(i+1))
		} else {
			if c > 0x0f {
				return 0, fmt.Errorf("name %q: 13th character out of range", s)
			}
			c &= 0x0f
		}
		n |= c
	}

	return Name(n), nil
}

// MustNewName parses the string form of a name and panics on failure. Reserved
// for package-level well-known names.
func MustNewName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(err)
	}

	return n
}

func charToSymbol(c byte) (uint64, error) {
	switch {
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 6, nil
	case c >= '1' && c <= '5':
		return uint64(c-'1') + 1, nil
	case c == '.':
		return 0, nil
	default:
		return 0, fmt.Errorf("invalid character %q", c)
	}
}

// String renders the packed name back to its string form, with trailing
// padding dots removed.
func (n Name) String() string {
	buf := []byte(".............")
	tmp := uint64(n)
	for i := 0; i <= 12; i++ {
		var c byte
		if i == 0 {
			c = nameCharset[tmp&0x0f]
			tmp >>= 4
		} else {
			c = nameCharset[tmp&0x1f]
			tmp >>= 5
		}
		buf[12-i] = c
	}

	return strings.TrimRight(string(buf), ".")
}

// MarshalJSON renders the name as a JSON string.
func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON parses a name from a JSON string.
func (n *Name) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := NewName(s)
	if err != nil {
		return err
	}
	*n = parsed

	return nil
}

// PermissionLevel identifies an authorization as an actor and one of its
// permissions.
type PermissionLevel struct {
	Actor      Name `json:"actor"`
	Permission Name `json:"permission"`
}

// String renders the level in the conventional actor@permission form.
func (p PermissionLevel) String() string {
	return p.Actor.String() + "@" + p.Permission.String()
}
