package entity

import (
	"strings"
	"time"
)

// Vocab is a single vocabulary entry.
type Vocab struct {
	ID        int64     `json:"id"`
	Word      string    `json:"word"`
	Context   string    `json:"context,omitempty"`
	Source    string    `json:"source,omitempty"`
	Freq      float64   `json:"freq"`
	CreatedAt time.Time `json:"created_at"`
}

// Cursor marks the last row of a previously emitted page. Listing resumes
// strictly after it in (freq DESC, id DESC) order, so rows inserted or removed
// between requests never duplicate or skip the already-traversed window.
type Cursor struct {
	Freq float64
	ID   int64
}

// NormalizeWord trims surrounding whitespace from a candidate word.
func NormalizeWord(word string) string {
	return strings.TrimSpace(word)
}
