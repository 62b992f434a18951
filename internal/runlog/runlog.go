// Package runlog writes the per-run deployment transcript: every entry is
// appended to a timestamped file in the invocation directory and mirrored
// to the console with a colored level prefix.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level classifies a log entry
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ANSI color codes for the console mirror
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

func (l Level) color() string {
	switch l {
	case LevelWarning:
		return colorYellow
	case LevelError:
		return colorRed
	default:
		return colorGreen
	}
}

// Log is an append-only run transcript. One Log exists per orchestrator
// run; it is never rotated mid-run.
type Log struct {
	mu      sync.Mutex
	file    io.WriteCloser
	console io.Writer
	path    string
	mask    func(string) string
	noColor bool
}

// New creates the run log file in dir. The filename embeds the run start
// time so successive runs never clobber each other.
func New(dir string) (*Log, error) {
	name := fmt.Sprintf("shipward-%s.log", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log: %w", err)
	}

	return &Log{
		file:    f,
		console: os.Stdout,
		path:    path,
	}, nil
}

// NewForTesting builds a log that writes to the provided writers only.
func NewForTesting(file io.WriteCloser, console io.Writer) *Log {
	return &Log{file: file, console: console, noColor: true}
}

// Path returns the log artifact location
func (l *Log) Path() string {
	return l.path
}

// SetMask installs a masking function applied to every entry before it is
// written anywhere. Used to keep the access token out of the transcript.
func (l *Log) SetMask(fn func(string) string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mask = fn
}

// SetConsole redirects the console mirror (tests)
func (l *Log) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

// Info logs an informational entry
func (l *Log) Info(format string, args ...interface{}) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs a warning entry
func (l *Log) Warn(format string, args ...interface{}) {
	l.write(LevelWarning, fmt.Sprintf(format, args...))
}

// Error logs an error entry
func (l *Log) Error(format string, args ...interface{}) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}

// Output logs raw command output, one entry per non-empty line, so remote
// output interleaves cleanly with orchestrator entries.
func (l *Log) Output(text string) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.write(LevelInfo, "  | "+line)
	}
}

func (l *Log) write(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.mask != nil {
		msg = l.mask(msg)
	}

	ts := time.Now().Format("2006-01-02 15:04:05")

	if l.file != nil {
		fmt.Fprintf(l.file, "%s [%s] %s\n", ts, level, msg)
	}
	if l.console != nil {
		if l.noColor {
			fmt.Fprintf(l.console, "[%s] %s\n", level, msg)
		} else {
			fmt.Fprintf(l.console, "%s[%s]%s %s\n", level.color(), level, colorReset, msg)
		}
	}
}

// Close flushes and closes the log artifact
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
