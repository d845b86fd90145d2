package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	lg, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, lg.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, lg.Formatter)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	lg, err := New(Config{Level: "debug", Format: "JSON", Output: &buf})
	require.NoError(t, err)

	lg.WithField("body", 3).Debug("sphere created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sphere created", line["msg"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, float64(3), line["body"])
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)

	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	lg := Discard()
	require.NotNil(t, lg)
	lg.WithField("k", "v").Error("dropped")
}
