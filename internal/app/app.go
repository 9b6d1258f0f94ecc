// Package app provides the main application logic for the Mudra sign
// language recognition system.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/sentence"
	"github.com/ayusman/mudra/internal/speech"
	"github.com/ayusman/mudra/internal/stabilize"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/suggest"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no motion is detected.
	IdleFPS = 2
	// ActiveFPS is the frame rate during active recognition.
	ActiveFPS = 15
	// ActiveTimeoutMs is the time in milliseconds without motion before
	// switching back to idle sampling.
	ActiveTimeoutMs = 2000
)

// ErrNothingToSpeak is returned when a speak request finds an empty sentence.
var ErrNothingToSpeak = errors.New("nothing to speak")

// SettingRecognitionEnabled is the settings key holding the last
// recognition toggle state.
const SettingRecognitionEnabled = "recognition.enabled"

// Config holds configuration options for the application.
type Config struct {
	Store               *store.Store
	CameraID            int
	MotionThresh        float64
	SampleIntervalMs    int
	BufferSize          int
	PredictionThreshold float64
	HoldTimeoutMs       int
	IdleTimeoutMs       int
	ModelScript         string
	DemoMode            bool
	SpeechTimeoutMs     int
}

// EventType identifies a recognition event pushed to subscribers.
type EventType string

const (
	// EventLetter is an accepted stabilized gesture.
	EventLetter EventType = "letter"
	// EventSentence is a sentence state change without a new gesture
	// (manual clear, external edit).
	EventSentence EventType = "sentence"
	// EventAutoSpeak is the idle-timeout speak trigger.
	EventAutoSpeak EventType = "autospeak"
	// EventAutoClear is the held-gesture clear trigger.
	EventAutoClear EventType = "autoclear"
	// EventSpoken reports a sentence handed to the speech engine.
	EventSpoken EventType = "spoken"
)

// Event is one recognition event with the sentence state after it.
type Event struct {
	Type        EventType `json:"type"`
	Label       string    `json:"label,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
	Sentence    string    `json:"sentence"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Timestamp   int64     `json:"timestamp"`
}

// App orchestrates the recognition pipeline: camera frames in,
// stabilized letters into the sentence, speech and events out.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	classifier classifier.Classifier
	stabilizer *stabilize.Stabilizer
	builder    *sentence.Builder
	suggester  *suggest.Engine
	speaker    speech.Speaker

	enabled   bool
	sessionID string
	mu        sync.Mutex // guards all recognition state above
	stopCh    chan struct{}

	subscribers map[chan Event]struct{}
	subMu       sync.RWMutex
}

// New creates a new App instance with the given configuration. The
// camera, classifier and speech engine are probed from the host.
func New(config Config) *App {
	var cls classifier.Classifier

	// Try the model service first, fall back to the demo classifier
	if config.DemoMode {
		cls = classifier.NewDemoClassifier()
		log.Println("Demo mode: using synthetic predictions")
	} else {
		clsConfig := classifier.DefaultConfig()
		clsConfig.ScriptPath = config.ModelScript
		if svc, err := classifier.NewServiceClassifier(clsConfig); err == nil {
			cls = svc
			log.Println("Using sign model service")
		} else {
			log.Printf("Model service not available (%v), using demo classifier", err)
			cls = classifier.NewDemoClassifier()
		}
	}

	if config.SpeechTimeoutMs <= 0 {
		config.SpeechTimeoutMs = 15000
	}

	// Try a system TTS engine, fall back to silence
	var speaker speech.Speaker
	if spk, err := speech.NewExecSpeaker(config.SpeechTimeoutMs); err == nil {
		speaker = spk
		log.Printf("Using %s for speech", spk.Engine())
	} else {
		log.Printf("No speech engine available (%v), speech disabled", err)
		speaker = speech.NullSpeaker{}
	}

	return NewWithComponents(config, capture.NewCamera(config.CameraID), cls, speaker)
}

// NewWithComponents creates an App with explicit camera, classifier and
// speaker implementations.
func NewWithComponents(config Config, camera capture.Camera, cls classifier.Classifier, speaker speech.Speaker) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}
	if config.SampleIntervalMs <= 0 {
		config.SampleIntervalMs = 500
	}

	a := &App{
		config:      config,
		camera:      camera,
		motion:      capture.NewMotionDetector(motionThreshold),
		classifier:  cls,
		speaker:     speaker,
		builder:     &sentence.Builder{},
		suggester:   loadSuggester(config.Store),
		subscribers: make(map[chan Event]struct{}),
	}

	a.stabilizer = stabilize.New(a.stabilizerConfig(), time.Now())
	return a
}

func (a *App) stabilizerConfig() stabilize.Config {
	cfg := stabilize.DefaultConfig()
	if a.config.BufferSize > 0 {
		cfg.BufferSize = a.config.BufferSize
	}
	if a.config.PredictionThreshold > 0 {
		cfg.Threshold = a.config.PredictionThreshold
	}
	if a.config.HoldTimeoutMs > 0 {
		cfg.HoldTimeout = time.Duration(a.config.HoldTimeoutMs) * time.Millisecond
	}
	if a.config.IdleTimeoutMs > 0 {
		cfg.IdleTimeout = time.Duration(a.config.IdleTimeoutMs) * time.Millisecond
	}
	cfg.HoldLabel = classifier.LabelSpace
	return cfg
}

// loadSuggester builds the suggestion engine from the persisted
// dictionary, falling back to the built-in word list.
func loadSuggester(s *store.Store) *suggest.Engine {
	if s == nil {
		return suggest.Default()
	}

	words, err := s.Words().List()
	if err != nil || len(words) == 0 {
		return suggest.Default()
	}

	list := make([]string, len(words))
	for i, w := range words {
		list[i] = w.Word
	}
	return suggest.New(list)
}

// ReloadSuggestions rebuilds the suggestion engine from the store,
// picking up dictionary edits made over the API.
func (a *App) ReloadSuggestions() {
	engine := loadSuggester(a.config.Store)
	a.mu.Lock()
	a.suggester = engine
	a.mu.Unlock()
}

// SetEnabled enables or disables recognition. Enabling starts a fresh
// session with a fresh stabilizer and sentence; disabling ends the
// session and keeps the sentence for review.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	if a.enabled == enabled {
		a.mu.Unlock()
		return
	}
	a.enabled = enabled

	if enabled {
		a.sessionID = uuid.New().String()
		a.stabilizer = stabilize.New(a.stabilizerConfig(), time.Now())
		a.builder.Clear()
		if a.config.Store != nil {
			if err := a.config.Store.Sessions().Start(&store.Session{ID: a.sessionID}); err != nil {
				log.Printf("Failed to record session start: %v", err)
			}
		}
	} else {
		if a.config.Store != nil && a.sessionID != "" {
			if err := a.config.Store.Sessions().End(a.sessionID); err != nil {
				log.Printf("Failed to record session end: %v", err)
			}
		}
		a.sessionID = ""
	}
	a.mu.Unlock()

	if a.config.Store != nil {
		value := "false"
		if enabled {
			value = "true"
		}
		if err := a.config.Store.Settings().Set(SettingRecognitionEnabled, value); err != nil {
			log.Printf("Failed to persist recognition state: %v", err)
		}
	}
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// SetClassifier sets the classifier implementation to use.
func (a *App) SetClassifier(c classifier.Classifier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.classifier = c
}

// SetSpeaker sets the speech implementation to use.
func (a *App) SetSpeaker(s speech.Speaker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speaker = s
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Sentence returns the current sentence, the recorded first letter
// (0 if none) and the suggestion list for it.
func (a *App) Sentence() (string, rune, []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	first := a.builder.FirstLetter()
	return a.builder.String(), first, a.suggester.Lookup(first)
}

// Speak speaks the current sentence with the given transcript trigger
// (store.TriggerManual or store.TriggerAuto). Returns ErrNothingToSpeak
// when the sentence is empty; the speech engine is never invoked then.
func (a *App) Speak(trigger string) error {
	a.mu.Lock()
	if a.builder.Empty() {
		a.mu.Unlock()
		return ErrNothingToSpeak
	}
	text := a.builder.String()
	speaker := a.speaker
	a.mu.Unlock()

	// TTS blocks; never hold the recognition lock across it.
	if err := speaker.Speak(text); err != nil {
		return err
	}

	a.recordTranscript(text, trigger)
	a.notify(a.event(EventSpoken, "", 0))
	return nil
}

// Clear resets the sentence, the suggestion state and the stabilizer clocks.
func (a *App) Clear() {
	a.mu.Lock()
	a.builder.Clear()
	a.stabilizer.Reset(time.Now())
	a.mu.Unlock()

	a.notify(a.event(EventSentence, "", 0))
}

// Start begins the recognition pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Recognition pipeline started")
	return nil
}

// Stop halts the recognition pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.classifier != nil {
		if err := a.classifier.Close(); err != nil {
			log.Printf("Error closing classifier: %v", err)
		}
	}

	if err := a.speaker.Close(); err != nil {
		log.Printf("Error closing speaker: %v", err)
	}

	log.Println("Recognition pipeline stopped")
}

// Subscribe registers an event channel. The returned function
// unsubscribes and closes it.
func (a *App) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	a.subMu.Lock()
	a.subscribers[ch] = struct{}{}
	a.subMu.Unlock()

	return ch, func() {
		a.subMu.Lock()
		if _, ok := a.subscribers[ch]; ok {
			delete(a.subscribers, ch)
			close(ch)
		}
		a.subMu.Unlock()
	}
}

// notify fans an event out to all subscribers. Slow subscribers drop
// events rather than stalling the pipeline.
func (a *App) notify(ev Event) {
	a.subMu.RLock()
	defer a.subMu.RUnlock()

	for ch := range a.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// event snapshots the sentence state into an Event. Callers must not
// hold a.mu.
func (a *App) event(t EventType, label string, confidence float64) Event {
	text, _, suggestions := a.Sentence()
	return Event{
		Type:        t,
		Label:       label,
		Confidence:  confidence,
		Sentence:    text,
		Suggestions: suggestions,
		Timestamp:   time.Now().UnixMilli(),
	}
}

func (a *App) recordTranscript(text, trigger string) {
	if a.config.Store == nil {
		return
	}
	err := a.config.Store.Transcripts().Create(&store.Transcript{
		ID:       uuid.New().String(),
		Sentence: text,
		Trigger:  trigger,
	})
	if err != nil {
		log.Printf("Failed to record transcript: %v", err)
	}
}
