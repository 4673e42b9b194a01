package editor

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/BitOnUranus/base64/internal/domain"
)

// MaxSlotNameLength mirrors config.MaxSlotNameLength; kept here so stores
// can validate without importing config.
const MaxSlotNameLength = 255

var slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateSlotName checks that a slot name is safe to use as a file name,
// table key or redis key component.
func ValidateSlotName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, MaxSlotNameLength),
		validation.Match(slotNamePattern).Error("may only contain letters, digits, '.', '_' and '-'"),
		validation.NotIn(".", ".."),
	)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid slot name %q: %v", name, err)}
	}
	return nil
}
