package stabilize

import (
	"testing"
	"time"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStabilizer() *Stabilizer {
	return New(DefaultConfig(), testStart)
}

func TestStabilizer_HighestConfidenceWins(t *testing.T) {
	s := newTestStabilizer()
	now := testStart

	predictions := []Prediction{
		{Label: "A", Confidence: 0.9},
		{Label: "A", Confidence: 0.5},
		{Label: "B", Confidence: 0.95},
		{Label: "A", Confidence: 0.92},
		{Label: "A", Confidence: 0.3},
	}

	var gesture *Gesture
	for i, p := range predictions {
		gesture = s.Submit(p, now)
		if i < len(predictions)-1 && gesture != nil {
			t.Fatalf("got a decision after %d predictions, want none before the window fills", i+1)
		}
	}

	if gesture == nil {
		t.Fatal("expected a decision after a full window")
	}
	if gesture.Label != "B" {
		t.Errorf("winner label = %q, want %q", gesture.Label, "B")
	}
	if gesture.Confidence != 0.95 {
		t.Errorf("winner confidence = %v, want 0.95", gesture.Confidence)
	}
}

func TestStabilizer_TieKeepsFirstMaximum(t *testing.T) {
	s := newTestStabilizer()

	var gesture *Gesture
	for _, p := range []Prediction{
		{Label: "C", Confidence: 0.8},
		{Label: "D", Confidence: 0.8},
		{Label: "E", Confidence: 0.8},
		{Label: "F", Confidence: 0.2},
		{Label: "G", Confidence: 0.2},
	} {
		gesture = s.Submit(p, testStart)
	}

	if gesture == nil {
		t.Fatal("expected a decision")
	}
	if gesture.Label != "C" {
		t.Errorf("tie should keep the first-seen maximum, got %q", gesture.Label)
	}
}

func TestStabilizer_BelowThresholdDiscarded(t *testing.T) {
	s := newTestStabilizer()

	var gesture *Gesture
	for i := 0; i < DefaultBufferSize; i++ {
		gesture = s.Submit(Prediction{Label: "A", Confidence: 0.4}, testStart)
	}

	if gesture != nil {
		t.Errorf("window of 0.4-confidence predictions emitted %+v, want nil", gesture)
	}
	if s.WindowLen() != 0 {
		t.Errorf("window length = %d after a decision, want 0", s.WindowLen())
	}
}

func TestStabilizer_WindowAlwaysClears(t *testing.T) {
	s := newTestStabilizer()

	// Accepted decision.
	for i := 0; i < DefaultBufferSize; i++ {
		s.Submit(Prediction{Label: "A", Confidence: 0.9}, testStart)
	}
	if s.WindowLen() != 0 {
		t.Errorf("window length = %d after accepted decision, want 0", s.WindowLen())
	}

	// Discarded decision.
	for i := 0; i < DefaultBufferSize; i++ {
		s.Submit(Prediction{Label: "A", Confidence: 0.1}, testStart)
	}
	if s.WindowLen() != 0 {
		t.Errorf("window length = %d after discarded decision, want 0", s.WindowLen())
	}
}

func TestStabilizer_ConfidenceClamped(t *testing.T) {
	s := newTestStabilizer()

	var gesture *Gesture
	for _, p := range []Prediction{
		{Label: "A", Confidence: 3.5},
		{Label: "B", Confidence: -2},
		{Label: "B", Confidence: -2},
		{Label: "B", Confidence: -2},
		{Label: "B", Confidence: -2},
	} {
		gesture = s.Submit(p, testStart)
	}

	if gesture == nil {
		t.Fatal("expected a decision")
	}
	if gesture.Label != "A" {
		t.Errorf("winner = %q, want the clamped-to-1.0 entry %q", gesture.Label, "A")
	}
	if gesture.Confidence != 1.0 {
		t.Errorf("confidence = %v, want clamped 1.0", gesture.Confidence)
	}
}

func TestStabilizer_IdleAutoSpeakEdgeTriggered(t *testing.T) {
	s := newTestStabilizer()

	// Tick every 250ms for two full idle periods with no predictions:
	// exactly two auto-speaks, one per elapsed idle timeout.
	speaks := 0
	step := 250 * time.Millisecond
	for elapsed := step; elapsed <= 2*DefaultIdleTimeout; elapsed += step {
		for _, ev := range s.Tick(testStart.Add(elapsed)) {
			if ev == EventAutoSpeak {
				speaks++
			}
		}
	}

	if speaks != 2 {
		t.Errorf("auto-speak fired %d times over two idle periods, want 2", speaks)
	}
}

func TestStabilizer_IdleSingleTimeout(t *testing.T) {
	s := newTestStabilizer()

	// Scenario: 6001ms of silence, one auto-speak.
	events := s.Tick(testStart.Add(6001 * time.Millisecond))
	if len(events) != 1 || events[0] != EventAutoSpeak {
		t.Fatalf("events = %v, want exactly [EventAutoSpeak]", events)
	}

	// The very next tick must not refire.
	if events := s.Tick(testStart.Add(6100 * time.Millisecond)); len(events) != 0 {
		t.Errorf("auto-speak refired on the next tick: %v", events)
	}
}

func TestStabilizer_SubmitResetsIdleClock(t *testing.T) {
	s := newTestStabilizer()

	// Any prediction counts as activity, confident or not.
	s.Submit(Prediction{Label: "nothing", Confidence: 0.05}, testStart.Add(5*time.Second))

	if events := s.Tick(testStart.Add(7 * time.Second)); len(events) != 0 {
		t.Errorf("idle fired %v only 2s after a prediction", events)
	}
	events := s.Tick(testStart.Add(11*time.Second + time.Millisecond))
	if len(events) != 1 || events[0] != EventAutoSpeak {
		t.Errorf("events = %v, want [EventAutoSpeak] one idle period after the prediction", events)
	}
}

// acceptHold pushes a full window of confident hold-label predictions.
func acceptHold(t *testing.T, s *Stabilizer, now time.Time) {
	t.Helper()
	var gesture *Gesture
	for i := 0; i < DefaultBufferSize; i++ {
		gesture = s.Submit(Prediction{Label: "space", Confidence: 0.9}, now)
	}
	if gesture == nil || gesture.Label != "space" {
		t.Fatalf("expected an accepted space decision, got %+v", gesture)
	}
}

func TestStabilizer_HoldAutoClear(t *testing.T) {
	s := newTestStabilizer()

	acceptHold(t, s, testStart)
	if !s.HoldActive() {
		t.Fatal("hold clock should be running after an accepted space decision")
	}

	// Repeated accepted holds keep the original start time.
	acceptHold(t, s, testStart.Add(2*time.Second))
	acceptHold(t, s, testStart.Add(4*time.Second))

	events := s.Tick(testStart.Add(DefaultHoldTimeout))
	if len(events) == 0 || events[0] != EventAutoClear {
		t.Fatalf("events = %v, want EventAutoClear after the hold timeout", events)
	}
	if s.HoldActive() {
		t.Error("hold clock should be unset after auto-clear")
	}

	// Idempotent: later ticks must not refire until a fresh hold.
	for _, ev := range s.Tick(testStart.Add(DefaultHoldTimeout + time.Second)) {
		if ev == EventAutoClear {
			t.Error("auto-clear refired without a new hold gesture")
		}
	}
}

func TestStabilizer_NonHoldDecisionResetsHold(t *testing.T) {
	s := newTestStabilizer()

	acceptHold(t, s, testStart)

	// One interleaved non-hold decision unsets the hold clock.
	for i := 0; i < DefaultBufferSize; i++ {
		s.Submit(Prediction{Label: "A", Confidence: 0.9}, testStart.Add(time.Second))
	}
	if s.HoldActive() {
		t.Fatal("non-hold decision should cancel the hold clock")
	}

	for _, ev := range s.Tick(testStart.Add(DefaultHoldTimeout + time.Second)) {
		if ev == EventAutoClear {
			t.Error("auto-clear fired after the hold was cancelled")
		}
	}
}

func TestStabilizer_DiscardedWindowDoesNotTouchHold(t *testing.T) {
	s := newTestStabilizer()

	acceptHold(t, s, testStart)

	// A below-threshold window produces no decision and must not
	// cancel the running hold.
	for i := 0; i < DefaultBufferSize; i++ {
		s.Submit(Prediction{Label: "A", Confidence: 0.1}, testStart.Add(time.Second))
	}
	if !s.HoldActive() {
		t.Error("discarded window cancelled the hold clock")
	}
}

func TestStabilizer_HoldLabelCaseInsensitive(t *testing.T) {
	s := newTestStabilizer()

	for i := 0; i < DefaultBufferSize; i++ {
		s.Submit(Prediction{Label: "SPACE", Confidence: 0.9}, testStart)
	}
	if !s.HoldActive() {
		t.Error("hold label match should be case-insensitive")
	}
}

func TestStabilizer_Reset(t *testing.T) {
	s := newTestStabilizer()

	acceptHold(t, s, testStart)
	s.Submit(Prediction{Label: "A", Confidence: 0.9}, testStart)

	resetAt := testStart.Add(10 * time.Second)
	s.Reset(resetAt)

	if s.WindowLen() != 0 {
		t.Errorf("window length = %d after reset, want 0", s.WindowLen())
	}
	if s.HoldActive() {
		t.Error("hold clock should be unset after reset")
	}
	if events := s.Tick(resetAt.Add(DefaultIdleTimeout - time.Second)); len(events) != 0 {
		t.Errorf("idle clock was not restarted by reset: %v", events)
	}
}

func TestStabilizer_ConfigDefaults(t *testing.T) {
	s := New(Config{}, testStart)

	if s.config.BufferSize != DefaultBufferSize {
		t.Errorf("BufferSize = %d, want %d", s.config.BufferSize, DefaultBufferSize)
	}
	if s.config.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %v, want %v", s.config.Threshold, DefaultThreshold)
	}
	if s.config.HoldLabel != "space" {
		t.Errorf("HoldLabel = %q, want %q", s.config.HoldLabel, "space")
	}
}
