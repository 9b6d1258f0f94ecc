package classifier

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ServiceClassifier implements Classifier using an external model
// service subprocess. Frames are sent as length-prefixed JPEG and the
// service answers one JSON prediction per line.
type ServiceClassifier struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewServiceClassifier creates a new model service classifier.
// The subprocess is started lazily on first classification.
func NewServiceClassifier(config Config) (*ServiceClassifier, error) {
	if findServiceScript(config.ScriptPath) == "" {
		return nil, fmt.Errorf("sign_model_service.py not found")
	}

	return &ServiceClassifier{
		config: config,
	}, nil
}

// Classify encodes the frame as JPEG, ships it to the model service
// and parses the predicted label and confidence.
func (c *ServiceClassifier) Classify(frame *gocv.Mat) (Prediction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureStarted(); err != nil {
		return Prediction{}, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return Prediction{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := c.stdin.Write(length); err != nil {
		return Prediction{}, fmt.Errorf("write length: %w", err)
	}
	if _, err := c.stdin.Write(data); err != nil {
		return Prediction{}, fmt.Errorf("write data: %w", err)
	}

	line, err := c.stdout.ReadString('\n')
	if err != nil {
		return Prediction{}, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return Prediction{}, fmt.Errorf("parse response: %w", err)
	}

	c.lastUsed = time.Now()
	c.resetIdleTimer()

	p := Prediction{
		Label:      strings.ToLower(response.Label),
		Confidence: response.Confidence,
	}

	// The model always names its best class; below the floor we treat
	// the frame as uncertain rather than surfacing a wild guess.
	if p.Label == "" || p.Confidence < c.config.MinConfidence {
		return Prediction{Label: LabelNothing, Confidence: p.Confidence}, nil
	}

	return p, nil
}

// Close shuts down the model service subprocess.
func (c *ServiceClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutdown()
}

func (c *ServiceClassifier) ensureStarted() error {
	if c.started {
		return nil
	}

	scriptPath := findServiceScript(c.config.ScriptPath)
	if scriptPath == "" {
		return fmt.Errorf("sign_model_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	c.cmd = exec.Command(pythonPath, scriptPath)

	stdin, err := c.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	c.cmd.Stderr = os.Stderr

	if err := c.cmd.Start(); err != nil {
		return fmt.Errorf("start model service: %w", err)
	}

	c.stdin = stdin
	c.stdout = bufio.NewReader(stdout)
	c.started = true
	c.lastUsed = time.Now()

	return nil
}

func (c *ServiceClassifier) shutdown() error {
	if !c.started {
		return nil
	}

	if c.idleTimer != nil {
		c.idleTimer.Stop()
		c.idleTimer = nil
	}

	if c.stdin != nil {
		c.stdin.Close()
	}

	err := c.cmd.Wait()
	c.started = false
	c.cmd = nil
	c.stdin = nil
	c.stdout = nil

	return err
}

func (c *ServiceClassifier) resetIdleTimer() {
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.idleTimer = time.AfterFunc(30*time.Second, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.shutdown()
	})
}

func findServiceScript(override string) string {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
		return ""
	}

	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/sign_model_service.py",
		"../scripts/sign_model_service.py",
		filepath.Join(execDir, "scripts/sign_model_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/sign_model_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
