// Package encoding provides text encoding utilities for tileset data files.
package encoding

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DecodeText converts a text file to UTF-8. A UTF-16 byte order mark selects
// UTF-16 decoding; a UTF-8 byte order mark is dropped. Other input is
// assumed to be UTF-8 and returned as is.
func DecodeText(data []byte) ([]byte, error) {
	if !hasBOM(data) {
		return data, nil
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, fmt.Errorf("decoding text: %w", err)
	}
	return result, nil
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xef, 0xbb, 0xbf}) ||
		bytes.HasPrefix(data, []byte{0xfe, 0xff}) ||
		bytes.HasPrefix(data, []byte{0xff, 0xfe})
}

// NormalizeID returns the NFC form of an identifier, so ids typed with
// composed or decomposed accents compare equal.
func NormalizeID(id string) string {
	return norm.NFC.String(id)
}
