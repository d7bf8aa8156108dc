// pkg/logger/console.go

package logger

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap/zapcore"
)

// consoleCore renders human-facing output: a coloured level tag, the message,
// and any fields in parentheses. Debug entries never reach the console; quiet
// mode raises the threshold to error.
type consoleCore struct {
	zapcore.LevelEnabler
	w      io.Writer
	colour bool
	fields []zapcore.Field
}

func newConsoleCore(w io.Writer, colour, quiet bool) zapcore.Core {
	threshold := zapcore.InfoLevel
	if quiet {
		threshold = zapcore.ErrorLevel
	}
	return &consoleCore{LevelEnabler: threshold, w: w, colour: colour}
}

func (c *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &consoleCore{LevelEnabler: c.LevelEnabler, w: c.w, colour: c.colour}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *consoleCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *consoleCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var sb strings.Builder
	sb.WriteString(LevelTag(entry.Level, c.colour))
	sb.WriteString("  ")
	sb.WriteString(entry.Message)
	if suffix := renderFields(append(c.fields, fields...)); suffix != "" {
		fmt.Fprintf(&sb, " (%s)", suffix)
	}
	sb.WriteString("\n")
	_, err := io.WriteString(c.w, sb.String())
	return err
}

func (c *consoleCore) Sync() error {
	return nil
}
