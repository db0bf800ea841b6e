package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerPrefixesAppName(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	initLogger(l, &buf, "allocation-service", "debug", "json")

	l.WithField("block", "A").Info("allocation finished")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "[allocation-service] allocation finished", entry["msg"])
	assert.Equal(t, "A", entry["block"])
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestInitLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	initLogger(l, &buf, "svc", "loud", "")

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "Invalid LOG_LEVEL 'loud'")
}

func TestInitLoggerTwiceDoesNotDoublePrefix(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	initLogger(l, &buf, "svc", "info", "json")
	initLogger(l, &buf, "svc", "info", "json")
	buf.Reset()

	l.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "[svc] hello", entry["msg"])
}
