// Package stabilize turns a noisy stream of per-frame classifier
// predictions into a low-frequency stream of confident gesture
// decisions, plus two edge-triggered timeout events (auto-speak on
// idle, auto-clear on a held gesture).
package stabilize

import (
	"strings"
	"time"
)

// Default stabilizer settings.
const (
	// DefaultBufferSize is the number of raw predictions collected
	// before a decision is made.
	DefaultBufferSize = 5
	// DefaultThreshold is the minimum confidence a window winner needs
	// to be emitted.
	DefaultThreshold = 0.6
	// DefaultHoldTimeout is how long the hold gesture must be held
	// before an auto-clear fires.
	DefaultHoldTimeout = 5 * time.Second
	// DefaultIdleTimeout is how long the stream must stay silent
	// before an auto-speak fires.
	DefaultIdleTimeout = 6 * time.Second
)

// Prediction is one frame's raw classifier output.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Gesture is the debounced, thresholded decision emitted per full window.
type Gesture struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Event is a timeout-driven signal produced by Tick.
type Event int

const (
	// EventAutoSpeak fires once per idle period with no predictions.
	EventAutoSpeak Event = iota
	// EventAutoClear fires once when the hold gesture has been held
	// past the hold timeout.
	EventAutoClear
)

// Config holds stabilizer tuning. Zero fields fall back to defaults.
type Config struct {
	BufferSize  int
	Threshold   float64
	HoldLabel   string
	HoldTimeout time.Duration
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with the default tuning and "space"
// as the hold label.
func DefaultConfig() Config {
	return Config{
		BufferSize:  DefaultBufferSize,
		Threshold:   DefaultThreshold,
		HoldLabel:   "space",
		HoldTimeout: DefaultHoldTimeout,
		IdleTimeout: DefaultIdleTimeout,
	}
}

// Stabilizer accumulates raw predictions into a bounded window and
// reduces each full window to at most one Gesture. It also tracks the
// idle and hold clocks behind the auto-speak and auto-clear events.
//
// A Stabilizer is not safe for concurrent use; the owner must
// serialize Submit and Tick (one mutex or a single event loop).
type Stabilizer struct {
	config Config
	window []Prediction
	idleAt time.Time // last prediction, or last auto-speak
	holdAt time.Time // zero while no hold gesture is running
}

// New creates a Stabilizer. now seeds the idle clock so that an empty
// stream still produces its first auto-speak one idle period after start.
func New(config Config, now time.Time) *Stabilizer {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	if config.HoldLabel == "" {
		config.HoldLabel = "space"
	}
	if config.HoldTimeout <= 0 {
		config.HoldTimeout = DefaultHoldTimeout
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}

	return &Stabilizer{
		config: config,
		window: make([]Prediction, 0, config.BufferSize),
		idleAt: now,
	}
}

// Submit appends one raw prediction to the window and resets the idle
// clock. When the window is full it is reduced to the entry with the
// highest confidence (first-seen wins ties) and cleared. The winner is
// returned only when its confidence clears the threshold; otherwise
// Submit returns nil.
//
// Out-of-range confidences are clamped to [0,1], not rejected.
func (s *Stabilizer) Submit(p Prediction, now time.Time) *Gesture {
	if p.Confidence < 0 {
		p.Confidence = 0
	} else if p.Confidence > 1 {
		p.Confidence = 1
	}

	s.window = append(s.window, p)
	s.idleAt = now

	if len(s.window) < s.config.BufferSize {
		return nil
	}

	// Stable argmax: strictly-greater keeps the first maximum.
	best := s.window[0]
	for _, candidate := range s.window[1:] {
		if candidate.Confidence > best.Confidence {
			best = candidate
		}
	}

	// The window is always cleared after a decision, whether or not
	// the winner is emitted.
	s.window = s.window[:0]

	if best.Confidence < s.config.Threshold {
		return nil
	}

	// Accepted decisions drive the hold clock: the hold label starts
	// (or continues) it, everything else cancels it.
	if strings.EqualFold(best.Label, s.config.HoldLabel) {
		if s.holdAt.IsZero() {
			s.holdAt = now
		}
	} else {
		s.holdAt = time.Time{}
	}

	return &Gesture{Label: best.Label, Confidence: best.Confidence}
}

// Tick checks the hold and idle clocks against now and returns the
// events that fired. Both events are edge-triggered: auto-clear unsets
// the hold clock and cannot refire until a new hold gesture is
// accepted, auto-speak resets the idle clock to now so a full idle
// period must elapse again.
func (s *Stabilizer) Tick(now time.Time) []Event {
	var events []Event

	if !s.holdAt.IsZero() && now.Sub(s.holdAt) >= s.config.HoldTimeout {
		events = append(events, EventAutoClear)
		s.holdAt = time.Time{}
	}

	if now.Sub(s.idleAt) >= s.config.IdleTimeout {
		events = append(events, EventAutoSpeak)
		s.idleAt = now
	}

	return events
}

// WindowLen returns the number of predictions awaiting a decision.
func (s *Stabilizer) WindowLen() int {
	return len(s.window)
}

// HoldActive reports whether a hold gesture is currently being tracked.
func (s *Stabilizer) HoldActive() bool {
	return !s.holdAt.IsZero()
}

// Reset discards the window and the hold clock and restarts the idle
// clock at now. Used when a session's text state is cleared.
func (s *Stabilizer) Reset(now time.Time) {
	s.window = s.window[:0]
	s.holdAt = time.Time{}
	s.idleAt = now
}
