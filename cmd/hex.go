/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// parseHexInput converts hex strings to bytes. Supports
// space separated ("48 65 6C"), continuous ("48656C") and 0x prefixed
// ("0x48 0x65") input.
func parseHexInput(hexStr string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", "\t", "", "0x", "", "0X", "").Replace(strings.TrimSpace(hexStr))
	if clean == "" {
		return nil, errors.New("empty input")
	}

	// Must be even number of hex digits to form complete bytes
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even number of digits (got %d)", len(clean))
	}

	data, err := hex.DecodeString(clean)
	if err != nil {
		var invalid hex.InvalidByteError
		if errors.As(err, &invalid) {
			return nil, fmt.Errorf("invalid hex character '%c'", rune(invalid))
		}
		return nil, err
	}
	return data, nil
}
