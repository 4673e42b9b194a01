package editor

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"plain", "Dear team,\nBest regards,", 4},
		{"markup ignored", "<p>Hello <strong>big</strong> world</p>", 3},
		{"inline tag inside word", "<p>un<em>believ</em>able</p>", 1},
		{"block boundary", "<p>one</p><p>two</p>", 2},
		{"line break", "first<br/>second", 2},
		{"markdown markers", "# Title\n\n- item one\n- item two", 5},
		{"entities", "<p>fish &amp; chips</p>", 2},
		{"non latin", "Привет мир", 2},
		{"attributes ignored", `<a href="https://example.com/a b">link</a>`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countWords(tt.content); got != tt.want {
				t.Errorf("countWords(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestHasMarkup(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"", false},
		{"Dear team,\nBest regards,", false},
		{"# Title\n\n- item *one*\n", false},
		{"a < b and c > d", false},
		{"<not-a-tag> stays text", false},
		{"<p>Hello</p>", true},
		{"line<br/>break", true},
		{"# Title with <em>html</em>", true},
	}

	for _, tt := range tests {
		if got := hasMarkup(tt.content); got != tt.want {
			t.Errorf("hasMarkup(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}
