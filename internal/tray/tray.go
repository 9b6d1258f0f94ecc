// Package tray provides the system tray interface for the Mudra sign
// language recognition system.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onSpeak    func()
	onClear    func()
	onSettings func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuSentence *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSpeak sets the callback function to be called when "Speak Now" is clicked.
func (t *Tray) OnSpeak(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSpeak = fn
}

// OnClear sets the callback function to be called when "Clear Sentence" is clicked.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	// Set the tray title and tooltip
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Sign Language Recognition")

	// Create menu items
	t.mu.RLock()
	toggleTitle := "● Enabled"
	if !t.enabled {
		toggleTitle = "○ Disabled"
	}
	t.mu.RUnlock()
	t.menuToggle = systray.AddMenuItem(toggleTitle, "Toggle sign recognition")
	systray.AddSeparator()

	t.menuSentence = systray.AddMenuItem("Sentence: (empty)", "Current sentence")
	t.menuSentence.Disable()
	systray.AddSeparator()

	menuSpeak := systray.AddMenuItem("Speak Now", "Speak the current sentence")
	menuClear := systray.AddMenuItem("Clear Sentence", "Discard the current sentence")
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSpeak.ClickedCh:
				t.handleSpeak()
			case <-menuClear.ClickedCh:
				t.handleClear()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
// It performs cleanup tasks.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	// Update menu item text based on new state
	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Disabled")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleSpeak handles the speak menu item click.
func (t *Tray) handleSpeak() {
	t.mu.RLock()
	callback := t.onSpeak
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleClear handles the clear menu item click.
func (t *Tray) handleClear() {
	t.mu.RLock()
	callback := t.onClear
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetSentence updates the sentence display in the menu. Long sentences
// are truncated to keep the menu readable.
func (t *Tray) SetSentence(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuSentence == nil {
		return
	}

	if text == "" {
		t.menuSentence.SetTitle("Sentence: (empty)")
		return
	}
	if len(text) > 40 {
		text = text[:37] + "..."
	}
	t.menuSentence.SetTitle("Sentence: " + text)
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// SetEnabled updates the enabled state and menu text without firing the
// toggle callback. Used when the state changes over the API.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle == nil {
		return
	}
	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Disabled")
	}
}
