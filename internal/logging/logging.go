// Package logging defines the Logger interface shared by every layer of the
// client and a logrus-backed implementation of it.
package logging

// Logger is the interface for logging
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
}

// Config controls the behaviour of loggers built with New
type Config struct {
	Level  string   `mapstructure:"level"`
	Format string   `mapstructure:"format"`
	File   *FileOpt `mapstructure:"file"`
}

// FileOpt configures rotating file output
type FileOpt struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
	}
}

// nopLogger is a logger that doesn't log anything
type nopLogger struct{}

// NewNop creates a logger that doesn't log
func NewNop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(format string, args ...interface{}) {}
func (nopLogger) Info(format string, args ...interface{})  {}
func (nopLogger) Warn(format string, args ...interface{})  {}
func (nopLogger) Error(format string, args ...interface{}) {}

func (n nopLogger) WithField(key string, value interface{}) Logger { return n }
