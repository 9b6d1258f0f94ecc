// Package suggest provides first-letter word suggestions for the
// accumulated sentence.
package suggest

import "unicode"

// MaxSuggestions is the most words a lookup returns.
const MaxSuggestions = 4

// defaultWords is the built-in suggestion dictionary, used when no
// dictionary has been configured or persisted.
var defaultWords = []string{
	"about", "all", "and", "any", "ask",
	"bad", "be", "big", "but", "bye",
	"call", "can", "come", "cool",
	"day", "do", "down", "drink",
	"eat", "end", "enjoy",
	"family", "fine", "food", "friend",
	"give", "go", "good", "great",
	"happy", "have", "hello", "help", "home", "how",
	"if", "in", "is", "it",
	"join", "just",
	"keep", "know",
	"later", "like", "love",
	"make", "me", "more", "my",
	"name", "need", "nice", "no", "now",
	"of", "ok", "open", "out",
	"please", "put",
	"question", "quick",
	"read", "rest", "right",
	"see", "sorry", "stop",
	"take", "thanks", "time", "to",
	"under", "up", "use",
	"very", "visit",
	"want", "water", "we", "what", "when",
	"yes", "you",
	"zero", "zoom",
}

// Engine looks up suggestions in a fixed, ordered dictionary.
type Engine struct {
	words []string
}

// New creates an Engine over the given dictionary. Word order is
// preserved: earlier entries win when a lookup overflows.
func New(words []string) *Engine {
	return &Engine{words: words}
}

// Default creates an Engine over the built-in dictionary.
func Default() *Engine {
	return New(defaultWords)
}

// DefaultWords returns a copy of the built-in dictionary, for seeding a
// persistent word list.
func DefaultWords() []string {
	words := make([]string, len(defaultWords))
	copy(words, defaultWords)
	return words
}

// Lookup returns up to MaxSuggestions dictionary words starting with
// the given letter, case-insensitively, in dictionary order.
// A zero letter returns nil.
func (e *Engine) Lookup(letter rune) []string {
	if letter == 0 {
		return nil
	}

	want := unicode.ToLower(letter)

	var matches []string
	for _, word := range e.words {
		if word == "" {
			continue
		}
		if unicode.ToLower([]rune(word)[0]) != want {
			continue
		}
		matches = append(matches, word)
		if len(matches) == MaxSuggestions {
			break
		}
	}

	return matches
}

// Size returns the number of words in the dictionary.
func (e *Engine) Size() int {
	return len(e.words)
}
