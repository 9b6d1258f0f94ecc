package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/suggest"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Sign Language Recognition")

	cfg := config.Load()

	// Initialize the store
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dbDir := filepath.Join(homeDir, ".mudra")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "mudra.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Seed the suggestion dictionary on first run
	if err := st.Words().Seed(suggest.DefaultWords()); err != nil {
		log.Printf("Failed to seed suggestion dictionary: %v", err)
	}

	a := app.New(app.Config{
		Store:               st,
		CameraID:            cfg.CameraID,
		MotionThresh:        cfg.MotionThresh,
		SampleIntervalMs:    cfg.SampleIntervalMs,
		BufferSize:          cfg.BufferSize,
		PredictionThreshold: cfg.PredictionThreshold,
		HoldTimeoutMs:       cfg.HoldTimeoutMs,
		IdleTimeoutMs:       cfg.IdleTimeoutMs,
		ModelScript:         cfg.ModelScript,
		DemoMode:            cfg.DemoMode,
		SpeechTimeoutMs:     cfg.SpeechTimeoutMs,
	})

	// Restore the last recognition toggle state
	enabled := true
	if v, err := st.Settings().Get(app.SettingRecognitionEnabled); err == nil && v == "false" {
		enabled = false
	}

	if err := a.Start(); err != nil {
		log.Printf("Failed to start recognition pipeline: %v", err)
		log.Println("Running without camera; the API stays available")
	} else {
		a.SetEnabled(enabled)
		defer a.Stop()
	}

	// Find web directory
	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Keep the tray sentence line in sync with recognition events
	events, unsubscribe := a.Subscribe()
	defer unsubscribe()

	tr := tray.New()
	tr.SetEnabled(enabled)
	tr.OnToggle(a.SetEnabled)
	tr.OnSpeak(func() {
		if err := a.Speak(store.TriggerManual); err != nil {
			log.Printf("Speak failed: %v", err)
		}
	})
	tr.OnClear(a.Clear)
	tr.OnSettings(func() {
		openBrowser("http://localhost" + cfg.Addr)
	})
	tr.OnQuit(func() {
		a.SetEnabled(false)
	})

	go func() {
		for ev := range events {
			tr.SetSentence(ev.Sentence)
		}
	}()

	// Blocks until Quit is selected
	tr.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL with the platform's default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
