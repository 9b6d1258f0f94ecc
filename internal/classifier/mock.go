package classifier

import (
	"gocv.io/x/gocv"
)

// MockClassifier is a test implementation of the Classifier interface.
// It plays back a scripted sequence of predictions.
type MockClassifier struct {
	queue []Prediction
	index int
	err   error
}

// NewMockClassifier creates a new MockClassifier instance.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// SetPredictions sets the sequence returned by Classify. The last
// entry repeats once the sequence is exhausted.
func (m *MockClassifier) SetPredictions(predictions []Prediction) {
	m.queue = predictions
	m.index = 0
}

// SetError sets the error that will be returned by Classify.
func (m *MockClassifier) SetError(err error) {
	m.err = err
}

// Classify returns the next scripted prediction or the configured error.
func (m *MockClassifier) Classify(frame *gocv.Mat) (Prediction, error) {
	if m.err != nil {
		return Prediction{}, m.err
	}
	if len(m.queue) == 0 {
		return Prediction{Label: LabelNothing, Confidence: 0}, nil
	}

	p := m.queue[m.index]
	if m.index < len(m.queue)-1 {
		m.index++
	}
	return p, nil
}

// Close is a no-op for the mock classifier.
func (m *MockClassifier) Close() error {
	return nil
}

// Repeat builds a scripted sequence of n identical predictions, enough
// to fill one smoothing window in tests.
func Repeat(label string, confidence float64, n int) []Prediction {
	out := make([]Prediction, n)
	for i := range out {
		out[i] = Prediction{Label: label, Confidence: confidence}
	}
	return out
}
