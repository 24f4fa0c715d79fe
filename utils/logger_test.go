package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("error, debug")
	require.NoError(t, err)
	require.Equal(t, LogLevelError|LogLevelDebug, level)

	level, err = ParseLogLevel("all")
	require.NoError(t, err)
	require.Equal(t, LogLevelError|LogLevelInfo|LogLevelNotice|LogLevelDebug, level)

	_, err = ParseLogLevel("verbose")
	require.Error(t, err)
}

func TestLogLevelFilter(t *testing.T) {
	var out bytes.Buffer
	oldOutput, oldLevel := LogOutput, GlobalLogLevel
	defer func() {
		LogOutput, GlobalLogLevel = oldOutput, oldLevel
	}()
	LogOutput = &out
	GlobalLogLevel = LogLevelInfo

	Debugf("Wallet", "hidden %d", 1)
	require.Zero(t, out.Len())

	Logf("Wallet", "tracked %d subaddresses", 42)
	line := out.String()
	require.True(t, strings.HasSuffix(line, "\n"))
	require.Contains(t, line, "[Wallet] INFO tracked 42 subaddresses")
}
