// Package logging builds the application's zap logger.
package logging

import (
	"github.com/fleetyard/fleetdash/internal/config"
	"github.com/fleetyard/fleetdash/internal/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger for cfg. Entries are also forwarded to the frontend
// debug panel when debug logging is enabled.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	base, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return zap.New(NewDebugCore(base.Core(), debug.Log), zap.AddCaller()), nil
}

// LogFunc receives forwarded entries.
type LogFunc func(category, message string, details map[string]interface{})

// DebugCore tees every entry into a LogFunc. The category is taken from the
// logger name, so zap.Logger.Named("storage") lands in the storage category.
type DebugCore struct {
	zapcore.Core
	forward LogFunc
}

// NewDebugCore wraps base.
func NewDebugCore(base zapcore.Core, forward LogFunc) zapcore.Core {
	return &DebugCore{Core: base, forward: forward}
}

// With keeps the wrapper around derived cores.
func (c *DebugCore) With(fields []zapcore.Field) zapcore.Core {
	return &DebugCore{Core: c.Core.With(fields), forward: c.forward}
}

// Check decides if we should log this level
func (c *DebugCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write forwards the entry and then writes it to the wrapped core.
func (c *DebugCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	enc.Fields["level"] = entry.Level.String()

	category := entry.LoggerName
	if category == "" {
		category = debug.CategoryUI
	}
	c.forward(category, entry.Message, enc.Fields)

	return c.Core.Write(entry, fields)
}
