package antelope

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // chain key checksums are defined over ripemd160
)

const (
	publicKeyDataLen = 33
	signatureDataLen = 65
)

var curveNames = map[uint8]string{
	0: "K1",
	1: "R1",
}

func (d *abiDecoder) decodePublicKey() (string, error) {
	tag, err := d.dec.ReadUint8()
	if err != nil {
		return "", err
	}
	curve, ok := curveNames[tag]
	if !ok {
		return "", fmt.Errorf("unsupported public key type %d", tag)
	}

	data, err := d.dec.ReadNBytes(publicKeyDataLen)
	if err != nil {
		return "", err
	}

	return "PUB_" + curve + "_" + base58Check(data, curve), nil
}

func (d *abiDecoder) decodeSignature() (string, error) {
	tag, err := d.dec.ReadUint8()
	if err != nil {
		return "", err
	}
	curve, ok := curveNames[tag]
	if !ok {
		return "", fmt.Errorf("unsupported signature type %d", tag)
	}

	data, err := d.dec.ReadNBytes(signatureDataLen)
	if err != nil {
		return "", err
	}

	return "SIG_" + curve + "_" + base58Check(data, curve), nil
}

// base58Check renders key material in the modern string form: base58 of the
// payload followed by the first four bytes of ripemd160(payload || curve).
func base58Check(data []byte, curve string) string {
	sum := keyChecksum(data, curve)

	return base58.Encode(append(append([]byte{}, data...), sum...))
}

func keyChecksum(data []byte, curve string) []byte {
	h := ripemd160.New()
	h.Write(data)
	h.Write([]byte(curve))

	return h.Sum(nil)[:4]
}

// parseKeyMaterial is the inverse of base58Check rendering: it returns the
// curve tag byte and the raw payload, verifying length and checksum.
func parseKeyMaterial(s, kind string, dataLen int) (uint8, []byte, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 || parts[0] != kind {
		return 0, nil, fmt.Errorf("invalid %s string %q", kind, s)
	}

	var tag uint8
	var found bool
	for t, curve := range curveNames {
		if curve == parts[1] {
			tag, found = t, true

			break
		}
	}
	if !found {
		return 0, nil, fmt.Errorf("unsupported curve %q in %q", parts[1], s)
	}

	raw, err := base58.Decode(parts[2])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid base58 in %q: %w", s, err)
	}
	if len(raw) != dataLen+4 {
		return 0, nil, fmt.Errorf("invalid payload length %d in %q", len(raw), s)
	}

	data, sum := raw[:dataLen], raw[dataLen:]
	if !bytes.Equal(sum, keyChecksum(data, parts[1])) {
		return 0, nil, fmt.Errorf("checksum mismatch in %q", s)
	}

	return tag, data, nil
}
