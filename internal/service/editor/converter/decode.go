package converter

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/BitOnUranus/base64/internal/service/editor/converter/sanitizer"
)

// decodeText reads uploaded text as UTF-8, honouring a UTF-8 or UTF-16 byte
// order mark, and sanitizes the result. Invalid UTF-8 sequences become U+FFFD.
func decodeText(input []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, input)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return sanitizer.Sanitize(string(decoded)), nil
}
