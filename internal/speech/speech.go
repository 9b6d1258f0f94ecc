// Package speech provides text-to-speech invocation for the accumulated
// sentence, delegating synthesis to an external engine.
package speech

import "errors"

// ErrNoEngine is returned when no supported TTS engine is installed.
var ErrNoEngine = errors.New("no text-to-speech engine found")

// Speaker defines the interface for text-to-speech implementations.
type Speaker interface {
	// Speak synthesizes and plays the given text, blocking until the
	// engine finishes or times out. Callers are expected to never pass
	// empty text.
	Speak(text string) error

	// Close releases any resources held by the speaker.
	Close() error
}

// NullSpeaker discards everything it is asked to speak. Used when no
// engine is available so the rest of the pipeline keeps working.
type NullSpeaker struct{}

// Speak is a no-op.
func (NullSpeaker) Speak(text string) error { return nil }

// Close is a no-op.
func (NullSpeaker) Close() error { return nil }
