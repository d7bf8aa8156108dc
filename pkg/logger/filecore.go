// pkg/logger/filecore.go

package logger

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

// fileCore renders every entry to the run log file as
// `[<timestamp>] [<LEVEL>] - <message>`, one line per event, with structured
// fields appended as key=value pairs. The file always captures debug level
// regardless of console verbosity.
type fileCore struct {
	zapcore.LevelEnabler
	w      io.Writer
	fields []zapcore.Field
}

const fileTimeLayout = "2006-01-02 15:04:05"

func newFileCore(w io.Writer) zapcore.Core {
	return &fileCore{LevelEnabler: zapcore.DebugLevel, w: w}
}

func (c *fileCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &fileCore{LevelEnabler: c.LevelEnabler, w: c.w}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *fileCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *fileCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] [%s] - %s",
		entry.Time.Format(fileTimeLayout),
		entry.Level.CapitalString(),
		entry.Message,
	)
	if suffix := renderFields(append(c.fields, fields...)); suffix != "" {
		sb.WriteString(" ")
		sb.WriteString(suffix)
	}
	sb.WriteString("\n")
	_, err := io.WriteString(c.w, sb.String())
	return err
}

func (c *fileCore) Sync() error {
	if syncer, ok := c.w.(interface{ Sync() error }); ok {
		return syncer.Sync()
	}
	return nil
}

func renderFields(fields []zapcore.Field) string {
	if len(fields) == 0 {
		return ""
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for key := range enc.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, enc.Fields[key]))
	}
	return strings.Join(parts, " ")
}
