package sanitizer

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes dangerous HTML elements and attributes from uploaded
// HTML before it becomes editor content.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer with safe HTML policies.
// Uses a UGC (User Generated Content) policy that allows common formatting
// while stripping scripts, event handlers and javascript: URLs.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()

	// Pasted documents often inline images as data URIs
	policy.AllowDataURIImages()

	return &HTMLSanitizer{policy: policy}
}

// NewStrictHTMLSanitizer creates a sanitizer that strips all HTML,
// leaving only text.
func NewStrictHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.StrictPolicy()}
}

// NewHTMLSanitizerForPolicy returns the sanitizer for a named policy
// ("ugc" or "strict"). It returns nil for "none" or an empty name,
// meaning HTML is kept as uploaded.
func NewHTMLSanitizerForPolicy(name string) (*HTMLSanitizer, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "ugc":
		return NewHTMLSanitizer(), nil
	case "strict":
		return NewStrictHTMLSanitizer(), nil
	default:
		return nil, fmt.Errorf("unknown HTML policy %q", name)
	}
}

// Sanitize removes dangerous HTML while preserving safe content.
//
// Preserves basic formatting, headings, lists, links, images, tables and
// code blocks; removes <script>, event handlers, javascript: URLs and other
// XSS vectors.
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
