package sanitizer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "Hello, world",
			want:  "Hello, world",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "leading BOM removed",
			input: "\uFEFFHello",
			want:  "Hello",
		},
		{
			name:  "inner BOM kept",
			input: "Hel\uFEFFlo",
			want:  "Hel\uFEFFlo",
		},
		{
			name:  "tab newline and carriage return kept",
			input: "a\tb\r\nc\n",
			want:  "a\tb\r\nc\n",
		},
		{
			name:  "C0 controls removed",
			input: "a\x00b\x01c\x08d\x0Be\x0Cf\x1Bg\x1Fh",
			want:  "abcdefgh",
		},
		{
			name:  "DEL removed",
			input: "a\x7Fb",
			want:  "ab",
		},
		{
			name:  "C1 controls removed",
			input: "a\u0080b\u0085c\u009Fd",
			want:  "abcd",
		},
		{
			name:  "characters just outside C1 kept",
			input: "\u00A0é",
			want:  "\u00A0é",
		},
		{
			name:  "BOM behind a control is leading",
			input: "\x01\uFEFFtext",
			want:  "text",
		},
		{
			name:  "repeated leading BOMs removed",
			input: "\uFEFF\uFEFFtext",
			want:  "text",
		},
		{
			name:  "markup preserved",
			input: "<p>Hi <strong>there</strong></p>",
			want:  "<p>Hi <strong>there</strong></p>",
		},
		{
			name:  "non-latin text preserved",
			input: "日本語 🚀 ñ",
			want:  "日本語 🚀 ñ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"\uFEFF\uFEFF\x00\uFEFFx",
		"\x01\x02\uFEFF\x03",
		"a\x80\x81b\tc\r\n",
		"\xff\xfe invalid bytes \xc3",
		"\uFEFF",
		strings.Repeat("\x07\uFEFF", 10) + "end",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestSanitize_RemovesEveryControl(t *testing.T) {
	var b strings.Builder
	for r := rune(0); r <= 0x9F; r++ {
		b.WriteRune(r)
	}

	got := Sanitize(b.String())

	for _, r := range got {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			t.Errorf("control character %U survived sanitizing", r)
		}
	}
	// Printable ASCII plus the three whitespace controls survive
	if want := (0x7F - 0x20) + 3; utf8.RuneCountInString(got) != want {
		t.Errorf("rune count = %d, want %d", utf8.RuneCountInString(got), want)
	}
}

func TestSanitize_InvalidUTF8(t *testing.T) {
	got := Sanitize("ok\xffok")
	if !utf8.ValidString(got) {
		t.Fatalf("Sanitize returned invalid UTF-8: %q", got)
	}
	if got != "ok\uFFFDok" {
		t.Errorf("Sanitize = %q, want replacement character", got)
	}
}
