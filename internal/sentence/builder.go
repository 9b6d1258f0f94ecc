// Package sentence owns the accumulated text state of a recognition
// session: the sentence buffer itself and the first-letter bookmark
// used for word suggestions.
package sentence

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ayusman/mudra/internal/classifier"
)

// Builder accumulates stabilized gesture labels into a sentence.
// The zero value is an empty sentence ready for use.
type Builder struct {
	text        []rune
	firstLetter rune // 0 until the first letter after a clear
}

// Apply interprets one accepted gesture label and mutates the sentence.
// It returns true when the sentence changed.
//
// Interpretation:
//   - delete: remove the last character (no-op when empty)
//   - space: append a space
//   - a single printable character: append it; the first alphabetic
//     character since the last clear is recorded, uppercased, as the
//     suggestion-lookup letter
//   - anything else (e.g. the "nothing" sentinel): no mutation
func (b *Builder) Apply(label string) bool {
	switch {
	case strings.EqualFold(label, classifier.LabelDelete):
		if len(b.text) == 0 {
			return false
		}
		b.text = b.text[:len(b.text)-1]
		return true

	case strings.EqualFold(label, classifier.LabelSpace):
		b.text = append(b.text, ' ')
		return true
	}

	r, size := utf8.DecodeRuneInString(label)
	if size != len(label) || r == utf8.RuneError || !unicode.IsGraphic(r) || unicode.IsSpace(r) {
		return false
	}

	b.text = append(b.text, r)
	if b.firstLetter == 0 && unicode.IsLetter(r) {
		b.firstLetter = unicode.ToUpper(r)
	}
	return true
}

// String returns the current sentence.
func (b *Builder) String() string {
	return string(b.text)
}

// Len returns the sentence length in characters.
func (b *Builder) Len() int {
	return len(b.text)
}

// Empty reports whether the sentence contains anything speakable.
func (b *Builder) Empty() bool {
	return strings.TrimSpace(string(b.text)) == ""
}

// FirstLetter returns the uppercased first alphabetic character
// appended since the last clear, or 0 if none.
func (b *Builder) FirstLetter() rune {
	return b.firstLetter
}

// Clear resets the sentence and the first-letter bookmark.
func (b *Builder) Clear() {
	b.text = b.text[:0]
	b.firstLetter = 0
}
