package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelInfo, IsJSON: true})

	logger.WithFields(port.Fields{"component": "test"}).Error("boom", errors.New("db is down"), port.Fields{"agreement_id": "a1"})
	logger.Debug("hidden", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "boom", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "test", record["component"])
	assert.Equal(t, "a1", record["agreement_id"])
	assert.Equal(t, "db is down", record["err"])
}

type mockPoster struct{ mock.Mock }

func (m *mockPoster) Post(tag string, message interface{}) error {
	return m.Called(tag, message).Error(0)
}

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &mockPoster{}
	var posted map[string]interface{}
	poster.On("Post", "warn", mock.Anything).
		Run(func(args mock.Arguments) { posted = args.Get(1).(map[string]interface{}) }).
		Return(nil)

	adapter, err := NewFluentLoggerAdapter(poster, slog.LevelInfo)
	require.NoError(t, err)

	id := uuid.New()
	adapter.WithFields(port.Fields{"user_id": id}).Warn("careful", port.Fields{"count": 3})
	adapter.Debug("below level", nil)

	poster.AssertNumberOfCalls(t, "Post", 1)
	assert.Equal(t, id.String(), posted["user_id"])
	assert.Equal(t, 3, posted["count"])
	assert.Equal(t, "careful", posted["message"])
	assert.Equal(t, "WARN", posted["level"])
	assert.NotEmpty(t, posted["timestamp"])
}

func TestNewFluentLoggerAdapter_NilClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

type countingLogger struct {
	port.LoggerPort
	infos int
}

func (c *countingLogger) Info(string, port.Fields) {
	c.infos++
}

func (c *countingLogger) WithFields(port.Fields) port.LoggerPort {
	return c
}

func TestMultiLoggerAdapter(t *testing.T) {
	_, err := NewMultiloggerAdapter(nil)
	assert.Error(t, err)

	single := &countingLogger{}
	got, err := NewMultiloggerAdapter(single, nil)
	require.NoError(t, err)
	assert.Same(t, single, got)

	first, second := &countingLogger{}, &countingLogger{}
	multi, err := NewMultiloggerAdapter(first, second)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"k": "v"}).Info("hello", nil)

	assert.Equal(t, 1, first.infos)
	assert.Equal(t, 1, second.infos)
}
