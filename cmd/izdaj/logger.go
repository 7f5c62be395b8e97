package main

import (
	"fmt"
	"os"
	"strings"
)

// stderrLogger writes progress as level-prefixed key=value lines on stderr,
// keeping stdout free for the summary output that scripts consume.
type stderrLogger struct {
	quiet bool
}

func (l *stderrLogger) Debug(msg string, keysAndValues ...interface{}) {}

func (l *stderrLogger) Info(msg string, keysAndValues ...interface{}) {
	if l.quiet {
		return
	}
	l.emit("INFO", msg, keysAndValues)
}

func (l *stderrLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.emit("WARN", msg, keysAndValues)
}

func (l *stderrLogger) Error(msg string, keysAndValues ...interface{}) {
	l.emit("ERROR", msg, keysAndValues)
}

func (l *stderrLogger) emit(level, msg string, keysAndValues []interface{}) {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %s", level, msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	fmt.Fprintln(os.Stderr, b.String())
}
