package sanitizer

import (
	"strings"
	"testing"
)

func TestHTMLSanitizer_UGC(t *testing.T) {
	s := NewHTMLSanitizer()

	got := s.Sanitize(`<p onclick="steal()">Hello <strong>world</strong></p><script>alert(1)</script><a href="javascript:alert(1)">x</a>`)

	for _, forbidden := range []string{"<script", "onclick", "javascript:"} {
		if strings.Contains(got, forbidden) {
			t.Errorf("sanitized output still contains %q: %s", forbidden, got)
		}
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Errorf("sanitized output lost formatting: %s", got)
	}
}

func TestHTMLSanitizer_Strict(t *testing.T) {
	s := NewStrictHTMLSanitizer()

	got := s.Sanitize("<h1>Title</h1><p>Body</p>")
	if strings.Contains(got, "<") {
		t.Errorf("strict policy kept markup: %s", got)
	}
	if !strings.Contains(got, "Title") || !strings.Contains(got, "Body") {
		t.Errorf("strict policy lost text: %s", got)
	}
}

func TestNewHTMLSanitizerForPolicy(t *testing.T) {
	tests := []struct {
		policy  string
		wantNil bool
		wantErr bool
	}{
		{policy: "", wantNil: true},
		{policy: "none", wantNil: true},
		{policy: "ugc"},
		{policy: "strict"},
		{policy: "lenient", wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			s, err := NewHTMLSanitizerForPolicy(tt.policy)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if (s == nil) != tt.wantNil {
				t.Errorf("sanitizer nil = %v, want %v", s == nil, tt.wantNil)
			}
		})
	}
}
