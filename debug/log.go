// Package debug is a lightweight category logger for chasing routing
// problems on live hardware. It stays silent until enabled, so leaving
// log calls on hot paths costs almost nothing in normal runs.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type sink struct {
	mu       sync.Mutex
	w        io.Writer
	closer   io.Closer
	counters map[string]int
}

var log = sink{counters: make(map[string]int)}

// Enable starts logging to ~/.config/go-surface/debug.log
func Enable() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".config", "go-surface")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"),
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	log.mu.Lock()
	log.w = f
	log.closer = f
	log.mu.Unlock()

	Log("debug", "=== logging started ===")
	return nil
}

// EnableWriter routes log output to an arbitrary writer (tests, or
// miditest's stdout).
func EnableWriter(w io.Writer) {
	log.mu.Lock()
	log.w = w
	log.closer = nil
	log.mu.Unlock()
}

// Disable stops logging
func Disable() {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.closer != nil {
		log.closer.Close()
	}
	log.w = nil
	log.closer = nil
}

// Log writes one line: timestamp, category, message
func Log(category, format string, args ...any) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.w == nil {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(log.w, "[%s] %-10s %s\n", ts, category, fmt.Sprintf(format, args...))
	if f, ok := log.w.(*os.File); ok {
		f.Sync() // flush immediately so we see logs even on crash
	}
}

// LogEvery logs only every n-th call with the same category+format,
// for events too frequent to log individually.
func LogEvery(n int, category, format string, args ...any) {
	log.mu.Lock()
	key := category + format
	log.counters[key]++
	count := log.counters[key]
	log.mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (count=%d)", append(args, count)...)
	}
}
