/*
File: logger_test.go
Description: Tests for logging configuration validation, file creation, and
retention cleanup.
*/

package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig(t.TempDir())
	assert.NoError(t, valid.Validate())

	cases := map[string]func(*Config){
		"empty output dir": func(c *Config) { c.OutputDir = "" },
		"zero max files":   func(c *Config) { c.MaxFiles = 0 },
		"unknown format":   func(c *Config) { c.Format = "xml" },
		"unknown level":    func(c *Config) { c.Level = "verbose" },
	}
	for name, mutate := range cases {
		c := DefaultConfig(t.TempDir())
		mutate(c)
		assert.Error(t, c.Validate(), name)
	}
}

func TestNewLoggerCreatesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	config := DefaultConfig(dir)

	logger, err := NewLogger(config)
	require.NoError(t, err)
	defer logger.Close()

	logger.GetLogger().Info("hello")

	files, err := filepath.Glob(filepath.Join(config.OutputDir, "xau_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello")
}

func TestCleanupRespectsRetention(t *testing.T) {
	dir := t.TempDir()
	config := DefaultConfig(dir)
	config.MaxFiles = 2
	require.NoError(t, os.MkdirAll(config.OutputDir, 0o755))

	for i := 0; i < 4; i++ {
		name := filepath.Join(config.OutputDir, "xau_old_"+string(rune('a'+i))+".log")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
		past := time.Now().Add(-time.Duration(10-i) * time.Hour)
		require.NoError(t, os.Chtimes(name, past, past))
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)
	defer logger.Close()

	files, err := filepath.Glob(filepath.Join(config.OutputDir, "xau_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, config.MaxFiles)
}

func TestConsoleFormatterFieldsAreSorted(t *testing.T) {
	formatter := &ConsoleFormatter{Timestamp: false, Colors: false}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.InfoLevel,
		Message: "request completed",
		Data: logrus.Fields{
			"status": 200,
			"op":     "load games",
		},
	}

	out, err := formatter.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "INFO request completed op=load games status=200\n", string(out))
}

func TestConsoleFormatterTruncatesLongValues(t *testing.T) {
	formatter := &ConsoleFormatter{Colors: false}
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.DebugLevel,
		Message: "body",
		Data:    logrus.Fields{"payload": string(long)},
	}

	out, err := formatter.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "...")
	assert.Less(t, len(out), 120)
}
