package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// engine describes one supported system TTS binary and how to pass it
// text. Engines are probed in order; the first one on PATH wins.
type engine struct {
	name string
	args func(text string) []string
}

var engines = []engine{
	{name: "say", args: func(text string) []string { return []string{text} }},
	{name: "espeak-ng", args: func(text string) []string { return []string{text} }},
	{name: "espeak", args: func(text string) []string { return []string{text} }},
	{name: "flite", args: func(text string) []string { return []string{"-t", text} }},
}

// ExecSpeaker speaks by running a system TTS binary with a timeout.
type ExecSpeaker struct {
	engine    engine
	path      string
	timeoutMs int
}

// NewExecSpeaker detects an installed TTS engine and returns a speaker
// using it. Returns ErrNoEngine when none of the supported binaries
// are on PATH.
func NewExecSpeaker(timeoutMs int) (*ExecSpeaker, error) {
	for _, e := range engines {
		path, err := exec.LookPath(e.name)
		if err != nil {
			continue
		}
		return &ExecSpeaker{
			engine:    e,
			path:      path,
			timeoutMs: timeoutMs,
		}, nil
	}
	return nil, ErrNoEngine
}

// Engine returns the name of the detected TTS binary.
func (s *ExecSpeaker) Engine() string {
	return s.engine.name
}

// Speak runs the TTS binary with the given text and waits for it to
// finish, killing it after the configured timeout.
func (s *ExecSpeaker) Speak(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.path, s.engine.args(text)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("speech timeout after %dms", s.timeoutMs)
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return fmt.Errorf("speech engine failed: %w, stderr: %s", err, stderrStr)
		}
		return fmt.Errorf("speech engine failed: %w", err)
	}

	return nil
}

// Close is a no-op; each Speak runs its own short-lived process.
func (s *ExecSpeaker) Close() error {
	return nil
}
