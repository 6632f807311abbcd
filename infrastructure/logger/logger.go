// Package logger provides the per-subsystem tagged loggers used across the
// node. Every long-lived component is handed its own *Logger at construction
// time rather than reaching for a package-level global, so that the process
// entry point is the only place that wires logging output.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// Level is a logging severity level
type Level uint8

// The supported logging levels, most to least verbose
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelNames = [...]string{"TRC", "DBG", "INF", "WRN", "ERR", "CRT", "OFF"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// LevelFromString parses a level name, defaulting to LevelInfo on no match
func LevelFromString(s string) (Level, bool) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// Logger writes tagged, leveled log lines for a single subsystem
type Logger struct {
	subsystem string
	backend   *Backend
	mtx       sync.Mutex
	level     Level
}

func (l *Logger) SetLevel(level Level) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.level = level
}

func (l *Logger) Level() Level {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.level
}

func (l *Logger) write(level Level, s string) {
	if level < l.Level() {
		return
	}
	line := fmt.Sprintf("%s [%s] %s %s\n", time.Now().Format("2006-01-02 15:04:05.000"), level, l.subsystem, s)
	l.backend.write(level, line)
}

func (l *Logger) Tracef(format string, args ...interface{})    { l.write(LevelTrace, fmt.Sprintf(format, args...)) }
func (l *Logger) Debugf(format string, args ...interface{})    { l.write(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})     { l.write(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})     { l.write(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{})    { l.write(LevelError, fmt.Sprintf(format, args...)) }
func (l *Logger) Criticalf(format string, args ...interface{}) { l.write(LevelCritical, fmt.Sprintf(format, args...)) }

// LogAndMeasureExecutionTime logs entry at Trace level and returns a closure
// that, when deferred, logs the elapsed wall time the caller spent inside it.
// Used to bracket expensive manager calls (GHOSTDAG resolution, reachability
// reindex, virtual-state updates) without littering them with timing code.
func (l *Logger) LogAndMeasureExecutionTime(methodName string) func() {
	start := time.Now()
	l.Tracef("%s start", methodName)
	return func() {
		l.Tracef("%s done in %s", methodName, time.Since(start))
	}
}

// Backend fans a formatted line out to every registered writer (stdout plus,
// once initialized, a rotating log file)
type Backend struct {
	mtx     sync.Mutex
	writers []func(level Level, line string)
}

func NewBackend() *Backend {
	b := &Backend{}
	b.writers = append(b.writers, func(level Level, line string) {
		if level >= LevelError {
			fmt.Fprint(os.Stderr, line)
		} else {
			fmt.Fprint(os.Stdout, line)
		}
	})
	return b
}

func (b *Backend) write(level Level, line string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	for _, w := range b.writers {
		w(level, line)
	}
}

// AttachRotator adds a rotating log file as an additional sink for every
// subsystem logger created from this backend
func (b *Backend) AttachRotator(logFile string) error {
	logDir := filepath.Dir(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return errors.Wrapf(err, "failed to create log directory %s", logDir)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return errors.Wrapf(err, "failed to create log rotator for %s", logFile)
	}
	b.mtx.Lock()
	b.writers = append(b.writers, func(_ Level, line string) {
		_, _ = r.Write([]byte(line))
	})
	b.mtx.Unlock()
	return nil
}

// Logger returns the named subsystem's logger, creating it if needed
func (b *Backend) Logger(subsystem string) *Logger {
	return &Logger{subsystem: subsystem, backend: b, level: LevelInfo}
}
