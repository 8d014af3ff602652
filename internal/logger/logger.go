package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// Logger prints status lines for the user. When a log file path is set, every line it is
// given is also appended to that file with a timestamp.
type Logger struct {
	mu   sync.Mutex
	out  *termenv.Output
	path string
}

// New returns a Logger writing status lines to w. Colour is only used when w is a terminal.
// path may be empty to disable the log file; otherwise its directory is created.
func New(w io.Writer, path string) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{out: termenv.NewOutput(w), path: path}
}

// Log records a line in the log file without printing it. Each entry is prefixed with [timestamp].
func (l *Logger) Log(line string) {
	if l.path == "" {
		return
	}
	stamped := "[" + time.Now().Format("2006-01-02 15:04:05") + "] " + line

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Logf records a formatted line.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Print writes msg as a plain status line and records it.
func (l *Logger) Print(msg string) {
	fmt.Fprintln(l.out, msg)
	l.Log(msg)
}

// Success prints "Success: msg" in green and records it.
func (l *Logger) Success(msg string) {
	l.status("Success: ", "2", msg)
}

// Error prints "Error: msg" in red and records it.
func (l *Logger) Error(msg string) {
	l.status("Error: ", "1", msg)
}

func (l *Logger) status(prefix, color, msg string) {
	tag := l.out.String(prefix).Foreground(l.out.Color(color)).Bold()
	fmt.Fprintln(l.out, tag.String()+msg)
	l.Log(prefix + msg)
}
