package editor

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
)

// Encode returns the standard, padded base64 encoding of the UTF-8 bytes
// of content. Encode never fails.
func Encode(content string) models.EncodedContent {
	return models.EncodedContent(base64.StdEncoding.EncodeToString([]byte(content)))
}

// Decode reverses Encode.
//
// ASCII whitespace anywhere in the input is ignored and missing trailing
// padding is accepted, so blobs copied through mail clients or terminals
// still decode. Any other malformed input, or a payload that is not valid
// UTF-8, yields a *domain.DecodeError.
func Decode(encoded models.EncodedContent) (string, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			return -1
		}
		return r
	}, string(encoded))

	switch len(compact) % 4 {
	case 2:
		compact += "=="
	case 3:
		compact += "="
	case 1:
		return "", &domain.DecodeError{Reason: "truncated base64 input"}
	}

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", &domain.DecodeError{Reason: "malformed base64", Err: err}
	}
	if !utf8.Valid(raw) {
		return "", &domain.DecodeError{Reason: "payload is not valid UTF-8"}
	}
	return string(raw), nil
}
