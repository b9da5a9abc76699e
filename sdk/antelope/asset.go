package antelope

import (
	"fmt"
	"strconv"
	"strings"
)

// symbolCode unpacks the 7 byte, zero padded currency code.
func symbolCode(raw uint64) string {
	var code []byte
	for i := 0; i < 7; i++ {
		c := byte(raw >> (8 * i))
		if c == 0 {
			break
		}
		code = append(code, c)
	}

	return string(code)
}

// formatSymbol renders a raw symbol as "precision,CODE".
func formatSymbol(raw uint64) (string, error) {
	precision := raw & 0xff
	code := symbolCode(raw >> 8)
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", fmt.Errorf("invalid symbol code %q", code)
		}
	}

	return fmt.Sprintf("%d,%s", precision, code), nil
}

// parseSymbol is the inverse of formatSymbol.
func parseSymbol(s string) (uint64, error) {
	precisionStr, code, ok := strings.Cut(s, ",")
	if !ok {
		return 0, fmt.Errorf("invalid symbol %q", s)
	}

	precision, err := strconv.ParseUint(precisionStr, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid symbol precision %q: %w", precisionStr, err)
	}
	if len(code) == 0 || len(code) > 7 {
		return 0, fmt.Errorf("invalid symbol code %q", code)
	}

	raw := precision
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return 0, fmt.Errorf("invalid symbol code %q", code)
		}
		raw |= uint64(code[i]) << (8 * (i + 1))
	}

	return raw, nil
}

// formatAsset renders an amount and raw symbol as the canonical quantity
// string, e.g. "1.0000 EOS".
func formatAsset(amount int64, rawSymbol uint64) (string, error) {
	symbol, err := formatSymbol(rawSymbol)
	if err != nil {
		return "", err
	}
	precisionStr, code, _ := strings.Cut(symbol, ",")
	precision, _ := strconv.Atoi(precisionStr)

	sign := ""
	magnitude := uint64(amount)
	if amount < 0 {
		sign = "-"
		magnitude = uint64(-(amount + 1)) + 1
	}

	digits := strconv.FormatUint(magnitude, 10)
	if len(digits) <= precision {
		digits = strings.Repeat("0", precision-len(digits)+1) + digits
	}

	whole := digits[:len(digits)-precision]
	if precision == 0 {
		return sign + whole + " " + code, nil
	}

	return sign + whole + "." + digits[len(digits)-precision:] + " " + code, nil
}

// parseAsset is the inverse of formatAsset, returning the amount and the raw
// symbol.
func parseAsset(s string) (int64, uint64, error) {
	quantity, code, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return 0, 0, fmt.Errorf("invalid asset %q", s)
	}

	whole, frac, _ := strings.Cut(quantity, ".")
	rawSymbol, err := parseSymbol(fmt.Sprintf("%d,%s", len(frac), code))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid asset %q: %w", s, err)
	}

	amount, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid asset amount %q: %w", quantity, err)
	}

	return amount, rawSymbol, nil
}
