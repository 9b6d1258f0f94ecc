package app

import (
	"log"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/stabilize"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the main processing loop. It samples frames at a fixed
// interval, raises the camera FPS while motion is present and feeds
// frames to the classifier only during motion.
func (a *App) runPipeline() {
	a.mu.Lock()
	stopCh := a.stopCh
	interval := time.Duration(a.config.SampleIntervalMs) * time.Millisecond
	a.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastMotion time.Time
	active := false

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			a.handleTimeouts(now)

			frame, err := a.camera.ReadFrame()
			if err != nil {
				continue
			}

			if moved, _ := a.motion.Detect(frame); moved {
				lastMotion = now
				if !active {
					active = true
					a.camera.SetFPS(ActiveFPS)
				}
			} else if active && now.Sub(lastMotion) > ActiveTimeoutMs*time.Millisecond {
				active = false
				a.camera.SetFPS(IdleFPS)
			}

			if active {
				a.classifyFrame(frame, now)
			}

			frame.Close()
		}
	}
}

// classifyFrame runs one frame through the classifier and submits the
// prediction to the stabilizer.
func (a *App) classifyFrame(frame *gocv.Mat, now time.Time) {
	a.mu.Lock()
	cls := a.classifier
	a.mu.Unlock()

	pred, err := cls.Classify(frame)
	if err != nil {
		log.Printf("Classification error: %v", err)
		return
	}

	a.handlePrediction(pred, now)
}

// handlePrediction feeds one prediction to the stabilizer and applies
// an accepted gesture to the sentence.
func (a *App) handlePrediction(pred classifier.Prediction, now time.Time) {
	a.mu.Lock()
	gesture := a.stabilizer.Submit(stabilize.Prediction{
		Label:      pred.Label,
		Confidence: pred.Confidence,
	}, now)
	if gesture == nil {
		a.mu.Unlock()
		return
	}

	applied := a.builder.Apply(gesture.Label)
	sessionID := a.sessionID
	a.mu.Unlock()

	// A decision the sentence ignored, like "nothing", is not news.
	if !applied {
		return
	}

	isLetter := !strings.EqualFold(gesture.Label, classifier.LabelSpace) &&
		!strings.EqualFold(gesture.Label, classifier.LabelDelete)
	if isLetter && sessionID != "" && a.config.Store != nil {
		if err := a.config.Store.Sessions().AddLetters(sessionID, 1); err != nil {
			log.Printf("Failed to record session letter: %v", err)
		}
	}

	a.notify(a.event(EventLetter, gesture.Label, gesture.Confidence))
}

// handleTimeouts fires the stabilizer's auto-speak and auto-clear
// clocks. Speech runs in its own goroutine so a slow TTS engine never
// stalls the sampling loop.
func (a *App) handleTimeouts(now time.Time) {
	a.mu.Lock()
	events := a.stabilizer.Tick(now)
	if len(events) == 0 {
		a.mu.Unlock()
		return
	}

	var speakText string
	for _, ev := range events {
		switch ev {
		case stabilize.EventAutoClear:
			a.builder.Clear()
		case stabilize.EventAutoSpeak:
			if !a.builder.Empty() {
				speakText = a.builder.String()
			}
		}
	}
	speaker := a.speaker
	a.mu.Unlock()

	for _, ev := range events {
		switch ev {
		case stabilize.EventAutoClear:
			log.Println("Auto-clear: space gesture held")
			a.notify(a.event(EventAutoClear, "", 0))
		case stabilize.EventAutoSpeak:
			a.notify(a.event(EventAutoSpeak, "", 0))
			if speakText == "" {
				continue
			}
			text := speakText
			go func() {
				if err := speaker.Speak(text); err != nil {
					log.Printf("Auto-speak failed: %v", err)
					return
				}
				a.recordTranscript(text, store.TriggerAuto)
				a.notify(a.event(EventSpoken, "", 0))
			}()
		}
	}
}
