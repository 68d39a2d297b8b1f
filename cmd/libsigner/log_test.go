package main

import (
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	fixtures := []struct {
		in       string
		expected btclog.Level
	}{
		{"", btclog.LevelOff},
		{"debug", btclog.LevelDebug},
		{"WARN", btclog.LevelWarn},
		{"trace", btclog.LevelTrace},
		{"verbose", btclog.LevelOff},
	}

	for _, fixture := range fixtures {
		assert.Equal(t, fixture.expected, logLevel(fixture.in), fixture.in)
	}
}

func TestSetLogLevels(t *testing.T) {
	setLogLevels(btclog.LevelInfo)
	for tag, logger := range subsystemLoggers {
		assert.Equal(t, btclog.LevelInfo, logger.Level(), tag)
	}
	setLogLevels(btclog.LevelOff)
}
