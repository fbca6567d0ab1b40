package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrDecode = errors.New("cannot decode position")

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// DecodeFEN decodes a base64 FEN in any of the standard, URL-safe or unpadded forms.
func DecodeFEN(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", ErrDecode
	}
	for _, enc := range encodings {
		raw, err := enc.DecodeString(encoded)
		if err != nil || !utf8.Valid(raw) {
			continue
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return "", ErrDecode
}

// ParseInput accepts either a plain FEN or a base64-encoded one. A FEN always has
// spaces between its fields and base64 never does.
func ParseInput(input string) (string, error) {
	input = strings.TrimSpace(input)
	if strings.ContainsRune(input, ' ') {
		return input, nil
	}
	return DecodeFEN(input)
}
