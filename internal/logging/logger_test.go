package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Level(false))
	log.Debug("tetgen", slog.String("out", "Delaunizing vertices..."))
	assert.Empty(t, buf.String())

	log.Warn("mesher failed", slog.Any("error", errors.New("exit status 3")))
	assert.Equal(t, "level=WARN msg=\"mesher failed\" err=\"exit status 3\"\n", buf.String())

	buf.Reset()
	New(&buf, Level(true)).Debug("tetgen", slog.String("out", "done"))
	assert.Equal(t, "level=DEBUG msg=tetgen out=done\n", buf.String())
}

func TestNewNop(t *testing.T) {
	assert.False(t, NewNop().Enabled(context.Background(), slog.LevelError))
}
