package editor

// Snippet is a predefined piece of text offered for insertion.
// Snippets come from a fixed catalog and are never mutated.
type Snippet struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}
