package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	outMu sync.Mutex
	// stdout receives DEBUG to WARN, stderr receives ERROR and FATAL.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects log output. A nil writer leaves the stream unchanged.
// It returns a function restoring the previous writers.
func SetOutput(out, errOut io.Writer) (restore func()) {
	outMu.Lock()
	defer outMu.Unlock()

	prevOut, prevErr := stdout, stderr
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
	return func() {
		outMu.Lock()
		stdout, stderr = prevOut, prevErr
		outMu.Unlock()
	}
}

// format renders a line as "[ts] [LEVEL] name: msg | k=v ...", fields
// sorted by key.
func (l *Logger) format(level LogLevel, msg string, fields map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s: %s", GetTimestamp(), level, l.name, msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	return b.String()
}

func (l *Logger) write(level LogLevel, msg string, extra ...LogField) {
	fields := extractContextFields(l.ctx)
	if fields == nil && (len(l.fields) > 0 || len(extra) > 0) {
		fields = make(map[string]interface{}, len(l.fields)+len(extra))
	}
	for k, v := range l.fields {
		fields[k] = v
	}
	for _, f := range extra {
		fields[f.Key] = f.Value
	}

	line := l.format(level, msg, fields)

	outMu.Lock()
	defer outMu.Unlock()
	w := stdout
	if level >= ERROR {
		w = stderr
	}
	fmt.Fprintln(w, line)
}

func (l *Logger) logf(level LogLevel, msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.write(level, msg)
}

func (l *Logger) logWithFields(level LogLevel, msg string, fields ...LogField) {
	l.write(level, msg, fields...)
}

// GetTimestamp returns the RFC3339 timestamp of a log line. LOG_TIMESTAMP
// overrides it for deterministic output.
func GetTimestamp() string {
	if override := os.Getenv("LOG_TIMESTAMP"); override != "" {
		return override
	}
	return time.Now().Format(time.RFC3339)
}
