// pkg/logger/colour.go

package logger

import (
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"
)

var (
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleFatal = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// LevelTag renders a level label, coloured when colour output is enabled.
func LevelTag(level zapcore.Level, colour bool) string {
	label := level.CapitalString()
	if !colour {
		return label
	}
	switch level {
	case zapcore.DebugLevel:
		return styleDebug.Render(label)
	case zapcore.InfoLevel:
		return styleInfo.Render(label)
	case zapcore.WarnLevel:
		return styleWarn.Render(label)
	case zapcore.ErrorLevel:
		return styleError.Render(label)
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return styleFatal.Render(label)
	default:
		return label
	}
}
