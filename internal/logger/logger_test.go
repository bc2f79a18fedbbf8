package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferLogger(t *testing.T) {
	buf := NewBufferLogger()

	buf.Debug("dbg %d", 1)
	buf.Info("hello %s", "world")
	buf.Warn("careful")

	assert.Len(t, buf.Messages, 3)
	assert.Equal(t, "hello world", buf.Messages[1].Message)
	assert.True(t, buf.HasLevel("debug"))
	assert.True(t, buf.HasLevel("warn"))
	assert.False(t, buf.HasLevel("error"))

	buf.Clear()
	assert.Empty(t, buf.Messages)
}

func TestNoop(t *testing.T) {
	log := Noop()
	log.Debug("ignored")
	log.Info("ignored")
	log.Warn("ignored")
	log.Error("ignored")
}
