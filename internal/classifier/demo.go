package classifier

import (
	"math/rand"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// demoVocabulary is the label set the demo classifier draws from:
// the alphabet plus the reserved labels.
var demoVocabulary = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	LabelSpace, LabelDelete, LabelNothing,
}

// DemoClassifier produces synthetic predictions without a model. It
// dwells on one label for a few frames before hopping to another, so
// downstream smoothing sees a stream shaped like real inference output.
type DemoClassifier struct {
	rng       *rand.Rand
	current   string
	remaining int
	mu        sync.Mutex
}

// NewDemoClassifier creates a DemoClassifier seeded from the clock.
func NewDemoClassifier() *DemoClassifier {
	d := &DemoClassifier{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	d.hop()
	return d
}

// Classify ignores the frame content and returns the current synthetic
// label with a jittered confidence.
func (d *DemoClassifier) Classify(frame *gocv.Mat) (Prediction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.remaining <= 0 {
		d.hop()
	}
	d.remaining--

	// Mostly confident, with occasional weak frames mixed in.
	confidence := 0.7 + d.rng.Float64()*0.3
	if d.rng.Float64() < 0.15 {
		confidence = d.rng.Float64() * 0.5
	}

	return Prediction{Label: d.current, Confidence: confidence}, nil
}

// Close is a no-op for the demo classifier.
func (d *DemoClassifier) Close() error {
	return nil
}

// hop picks the next label and how many frames to dwell on it.
func (d *DemoClassifier) hop() {
	d.current = demoVocabulary[d.rng.Intn(len(demoVocabulary))]
	d.remaining = 6 + d.rng.Intn(10)
}
