// Package classifier provides frame classification interfaces and types
// for sign-language letter recognition.
package classifier

import "gocv.io/x/gocv"

// Reserved labels in the classifier vocabulary. Everything else is a
// single letter. Label comparison is case-insensitive throughout.
const (
	// LabelSpace is the word-separator gesture; holding it triggers
	// the auto-clear timeout downstream.
	LabelSpace = "space"
	// LabelDelete removes the last character from the sentence.
	LabelDelete = "del"
	// LabelNothing is the uncertain/no-hand sentinel. It never
	// mutates the sentence.
	LabelNothing = "nothing"
)

// Prediction is one frame's classifier output.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier defines the interface for frame classification implementations.
type Classifier interface {
	// Classify analyzes a video frame and returns the predicted gesture.
	// A frame with no recognizable hand yields LabelNothing.
	Classify(frame *gocv.Mat) (Prediction, error)

	// Close releases any resources held by the classifier.
	Close() error
}

// Config holds configuration options for frame classification.
type Config struct {
	// ScriptPath overrides the model service script location.
	ScriptPath string

	// MinConfidence is the minimum confidence the model service
	// reports before falling back to LabelNothing (0.0-1.0).
	MinConfidence float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.2,
	}
}
