// Package logging builds the logrus logger used by the command line.
// Logs go to stderr, and optionally to a size-rotated file, so that stdout
// only carries the rendered report.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config holds logger configuration
type Config struct {
	Level        string    // logrus level name (default: warn)
	Output       io.Writer // Console output (default: stderr)
	OutputFile   string    // Path to log file (empty = console only)
	MaxSize      int64     // Max size in bytes before rotation (default: 10MB)
	MaxBackups   int       // Number of old log files to keep (default: 3)
	JSONFormat   bool      // Use JSON format instead of text
	ReportCaller bool      // Add calling function and line
}

// Logger wraps logrus.Logger with the log file it writes to
type Logger struct {
	*logrus.Logger

	config Config
	file   *os.File
	mu     sync.Mutex
}

// NewLogger creates a new logger instance with the given configuration
func NewLogger(config Config) (*Logger, error) {
	// Set defaults
	if config.Level == "" {
		config.Level = "warn"
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}
	if config.MaxSize == 0 {
		config.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 3
	}

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}

	logger := &Logger{
		Logger: logrus.New(),
		config: config,
	}

	writers := []io.Writer{config.Output}

	// Add file output if specified
	if config.OutputFile != "" {
		dir := filepath.Dir(config.OutputFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}

		if err := logger.rotateIfNeeded(); err != nil {
			return nil, fmt.Errorf("failed to rotate logs: %w", err)
		}

		file, err := os.OpenFile(config.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", config.OutputFile, err)
		}
		logger.file = file
		writers = append(writers, file)
	}

	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetLevel(level)
	logger.SetReportCaller(config.ReportCaller)

	if config.JSONFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: config.OutputFile == "",
		})
	}

	return logger, nil
}

// rotateIfNeeded checks if log file needs rotation and performs it
func (l *Logger) rotateIfNeeded() error {
	if l.config.OutputFile == "" || l.config.MaxSize < 0 {
		return nil
	}

	info, err := os.Stat(l.config.OutputFile)
	if os.IsNotExist(err) {
		return nil // File doesn't exist yet
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if info.Size() < l.config.MaxSize {
		return nil // No rotation needed
	}

	// Drop the oldest backup, then shift the others up by one
	os.Remove(fmt.Sprintf("%s.%d", l.config.OutputFile, l.config.MaxBackups))
	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", l.config.OutputFile, i)
		newPath := fmt.Sprintf("%s.%d", l.config.OutputFile, i+1)
		if _, err := os.Stat(oldPath); err == nil {
			os.Rename(oldPath, newPath)
		}
	}

	// Rotate current file to .1
	backupPath := fmt.Sprintf("%s.1", l.config.OutputFile)
	if err := os.Rename(l.config.OutputFile, backupPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	return nil
}

// FilePath returns the log file path, if any
func (l *Logger) FilePath() string {
	return l.config.OutputFile
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.SetOutput(l.config.Output)
		return err
	}
	return nil
}

// DebugConfig returns a configuration for -v runs
func DebugConfig() Config {
	return Config{
		Level:        "debug",
		ReportCaller: false,
	}
}
