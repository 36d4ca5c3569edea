package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThroughputWriter(t *testing.T) {
	var buf bytes.Buffer
	tw := NewThroughputWriter(&buf)
	assert.Zero(t, tw.FirstByteLatency())

	_, err := tw.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = tw.Write([]byte("world"))
	require.NoError(t, err)

	assert.Equal(t, int64(11), tw.Bytes())
	assert.Equal(t, "hello world", buf.String())
	assert.GreaterOrEqual(t, tw.FirstByteLatency().Nanoseconds(), int64(0))
	assert.Greater(t, tw.BytesPerSecond(), 0.0)
}
