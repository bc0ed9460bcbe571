package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsole_WritesAndLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var buf bytes.Buffer
	c := NewConsole(&buf, zap.New(core))

	c.Alert("out of stock")
	c.Warn("login first")
	c.Success("done")
	c.Error("boom")

	assert.Equal(t, "[!!] out of stock\n[warn] login first\n[ok] done\n[error] boom\n", buf.String())
	entries := logs.FilterMessage("notification").All()
	if assert.Len(t, entries, 4) {
		assert.Equal(t, "warning", entries[1].ContextMap()["level"])
	}
}

func TestConsole_NilLogger(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, nil).Success("fine")
	assert.Equal(t, "[ok] fine\n", buf.String())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Warn("a")
	r.Error("b")

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Notification{Level: LevelError, Message: "b"}, last)
	assert.Equal(t, []Notification{{LevelWarning, "a"}, {LevelError, "b"}}, r.All())
}
