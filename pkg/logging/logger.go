package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level orders log severities. Messages below a logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelOff
)

// ParseVerbosity maps a verbosity name (quiet, normal, verbose, debug) to the
// minimum level written.
func ParseVerbosity(verbosity string) (Level, error) {
	switch strings.ToLower(verbosity) {
	case "quiet":
		return LevelError, nil
	case "", "normal":
		return LevelInfo, nil
	case "verbose", "debug":
		return LevelDebug, nil
	default:
		return LevelInfo, fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", verbosity)
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "OFF"
	}
}

// Logger writes leveled, component-tagged lines for one bootstrap run.
// All loggers created in the same process share a run ID and log file.
type Logger struct {
	runID     string
	component string
	level     Level
	file      *os.File
	out       io.Writer
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	runID     string
	runIDOnce sync.Once
)

// getRunID returns or creates the run ID for this process
func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// DefaultDirectory returns ~/.pwsession/logs.
func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pwsession", "logs"), nil
}

// NewLogger creates a logger for component writing to
// <dir>/<run-id>-pwsession.log. An empty dir means DefaultDirectory.
//
// If the directory or file cannot be opened, the returned logger writes to
// stderr and the error is returned alongside it so callers can warn.
func NewLogger(component, dir string, level Level) (*Logger, error) {
	if dir == "" {
		d, err := DefaultDirectory()
		if err != nil {
			return newFallbackLogger(component, level, err), err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		err = fmt.Errorf("failed to create log directory: %w", err)
		return newFallbackLogger(component, level, err), err
	}

	id := getRunID()
	logPath := filepath.Join(dir, fmt.Sprintf("%s-pwsession.log", id))

	// Append mode: every component of a run shares the file.
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, level, err), err
	}

	return &Logger{
		runID:     id,
		component: component,
		level:     level,
		file:      file,
		out:       file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(component string, level Level, err error) *Logger {
	l := &Logger{
		runID:     getRunID(),
		component: component,
		level:     level,
		out:       os.Stderr,
		logger:    log.New(os.Stderr, "", 0),
	}
	l.Warnf("file logging unavailable, using stderr: %v", err)
	return l
}

// New returns a logger writing to w instead of a file.
func New(component string, w io.Writer, level Level) *Logger {
	return &Logger{
		runID:     getRunID(),
		component: component,
		level:     level,
		out:       w,
		logger:    log.New(w, "", 0),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New("discard", io.Discard, levelOff)
}

func (l *Logger) write(level Level, format string, v ...any) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...any) { l.write(LevelDebug, format, v...) }

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...any) { l.write(LevelInfo, format, v...) }

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...any) { l.write(LevelWarn, format, v...) }

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...any) { l.write(LevelError, format, v...) }

// Writer returns the destination log lines go to: the log file, stderr for
// fallback loggers, or the writer given to New. The install subprocess output
// is redirected here.
func (l *Logger) Writer() io.Writer {
	return l.out
}

// RunID returns the process-wide run ID.
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the path to the log file, or "" when not file backed.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
