// Package logging appends diagnostics to a single log file. The interactive
// screen owns the terminal, so nothing is ever written to stdout or stderr
// except when the log file itself is unusable.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "streampane.log"

var sink = struct {
	mu      sync.Mutex
	path    string
	tracing bool
}{path: defaultLogFile}

// Configure sets the log destination. An empty value falls back to the
// default path; missing parent directories are created.
func Configure(path string) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if strings.TrimSpace(path) == "" {
		sink.path = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		sink.path = defaultLogFile
		return
	}
	sink.path = path
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	sink.mu.Lock()
	sink.tracing = enabled
	sink.mu.Unlock()
}

// Error records an error. A nil error is ignored.
func Error(err error) {
	if err == nil {
		return
	}
	appendLine(fmt.Sprintf("%s ERROR %v\n", time.Now().Format(time.RFC3339), err))
}

// Trace records a structured JSON entry when tracing is enabled.
func Trace(event string, payload interface{}) {
	sink.mu.Lock()
	enabled := sink.tracing
	sink.mu.Unlock()
	if !enabled {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trace encoding failed: %v\n", err)
		return
	}
	appendLine(string(encoded) + "\n")
}

func appendLine(line string) {
	sink.mu.Lock()
	path := sink.path
	sink.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
	}
}
