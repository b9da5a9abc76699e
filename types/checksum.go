package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HexBytes is a byte slice rendered as a lowercase hex string in JSON, the way
// chain APIs transport opaque payloads.
type HexBytes []byte

func (h HexBytes) String() string {
	return hex.EncodeToString(h)
}

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex payload: %w", err)
	}
	*h = decoded

	return nil
}

// Checksum256 is a sha256 digest.
type Checksum256 [32]byte

// Sha256Checksum hashes data with sha256.
func Sha256Checksum(data []byte) Checksum256 {
	return sha256.Sum256(data)
}

func (c Checksum256) String() string {
	return hex.EncodeToString(c[:])
}

func (c Checksum256) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Checksum256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid checksum: %w", err)
	}
	if len(decoded) != len(c) {
		return fmt.Errorf("invalid checksum length %d", len(decoded))
	}
	copy(c[:], decoded)

	return nil
}
