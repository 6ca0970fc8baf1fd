/*
File: logger.go
Description: Logging setup for the XAU toolkit. Builds a logrus logger that
writes to the console and a timestamped file under the data directory, with
retention-based cleanup of old files.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel is the minimum level a logger emits.
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat selects the output formatter.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// filePrefix names the log files this package owns.
const filePrefix = "xau_"

// Config holds the logging configuration.
type Config struct {
	Level     LogLevel  `json:"level"`
	Format    LogFormat `json:"format"`
	OutputDir string    `json:"output_dir"`
	MaxFiles  int       `json:"max_files"`
	Colors    bool      `json:"colors"`
}

// DefaultConfig returns the configuration used when nothing is specified:
// colored text at info level, files under dir/logs, ten files retained.
func DefaultConfig(dir string) *Config {
	return &Config{
		Level:     LogLevelInfo,
		Format:    LogFormatText,
		OutputDir: filepath.Join(dir, "logs"),
		MaxFiles:  10,
		Colors:    true,
	}
}

// Validate reports the first invalid field of the config.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// Logger wraps a configured logrus logger and its file handle.
type Logger struct {
	config     *Config
	logger     *logrus.Logger
	fileHandle *os.File
}

// NewLogger builds a logger from config, opening a fresh timestamped log
// file and pruning files past the retention count.
func NewLogger(config *Config) (*Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	l := &Logger{
		config: config,
		logger: logrus.New(),
	}

	level, err := logrus.ParseLevel(string(config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)

	switch config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		l.logger.SetFormatter(&ConsoleFormatter{Timestamp: true, Colors: config.Colors})
	}

	if err := l.openFile(); err != nil {
		return nil, err
	}
	if err := l.cleanup(); err != nil {
		l.logger.Warnf("Log cleanup failed: %v", err)
	}
	return l, nil
}

// openFile starts a new timestamped log file and tees output to it.
func (l *Logger) openFile() error {
	if err := os.MkdirAll(l.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("%s%s.log", filePrefix, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(l.config.OutputDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileHandle = file
	l.logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return nil
}

// cleanup prunes the oldest log files past the retention count.
func (l *Logger) cleanup() error {
	files, err := filepath.Glob(filepath.Join(l.config.OutputDir, filePrefix+"*.log"))
	if err != nil {
		return err
	}
	if len(files) <= l.config.MaxFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		statI, _ := os.Stat(files[i])
		statJ, _ := os.Stat(files[j])
		return statI.ModTime().Before(statJ.ModTime())
	})
	for _, file := range files[:len(files)-l.config.MaxFiles] {
		if err := os.Remove(file); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.fileHandle != nil {
		return l.fileHandle.Close()
	}
	return nil
}

// GetLogger returns the underlying logrus logger.
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}
