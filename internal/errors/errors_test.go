package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_UnwrapsCause(t *testing.T) {
	err := FileSystemError(os.ErrNotExist, "failed to read target")

	assert.Equal(t, "failed to read target: file does not exist", err.Error())
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Equal(t, SeverityHigh, GetSeverity(err))
	assert.Equal(t, ErrorTypeFileSystem, GetType(err))
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeStorage, SeverityLow, "ignored"))
}

func TestIsType_ThroughFmtWrapping(t *testing.T) {
	parseErr := ParseErrorAt(3, 4, "invalid syntax near %q", "def")
	wrapped := fmt.Errorf("analyze sample.py: %w", parseErr)

	assert.True(t, IsType(wrapped, ErrorTypeParse))
	assert.False(t, IsType(wrapped, ErrorTypeConfig))
	assert.Equal(t, ErrorTypeParse, GetType(wrapped))
	assert.Equal(t, 3, parseErr.Context["line"])
	assert.Equal(t, 4, parseErr.Context["col"])
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ConfigError("missing renderer")))
	assert.True(t, IsFatal(fmt.Errorf("wrapped: %w", InternalError("boom"))))
	assert.False(t, IsFatal(ValidationError("bad flag")))
	assert.False(t, IsFatal(stderrors.New("plain")))
	assert.False(t, IsFatal(nil))
}

func TestGetSeverity_PlainError(t *testing.T) {
	assert.Equal(t, SeverityMedium, GetSeverity(stderrors.New("plain")))
	assert.Equal(t, SeverityLow, GetSeverity(nil))
	assert.Equal(t, ErrorTypeInternal, GetType(stderrors.New("plain")))
}

func TestDetailedString(t *testing.T) {
	err := StorageErrorf(stderrors.New("database is locked"), "failed to save run %s", "abc").
		WithContext("path", "/tmp/history.db")

	detail := err.DetailedString()
	require.NotEmpty(t, detail)
	assert.Contains(t, detail, "[MEDIUM] [STORAGE] failed to save run abc")
	assert.Contains(t, detail, "Caused by: database is locked")
	assert.Contains(t, detail, "path: /tmp/history.db")
	assert.Contains(t, detail, "Stack trace:")
	assert.NotEmpty(t, err.StackTrace())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "HIGH", GetSeverity(ParseErrorAt(1, 0, "invalid syntax")).String())
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "UNKNOWN", Severity(42).String())
}
