package headless_test

import (
	"testing"

	"github.com/astrid-emu/gbcore/backend"
	"github.com/astrid-emu/gbcore/backend/headless"
	"github.com/astrid-emu/gbcore/video"
	"github.com/stretchr/testify/assert"
)

func TestHeadlessBackend(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		h := headless.New(3, headless.SnapshotConfig{})

		err := h.Init(backend.Config{Title: "Test"})
		assert.NoError(t, err)

		frame := video.NewFrameBuffer()

		for i := 0; i < 3; i++ {
			events, err := h.Update(frame)
			assert.NoError(t, err)

			if i < 2 {
				assert.Empty(t, events)
			} else {
				assert.Len(t, events, 1)
				assert.Equal(t, backend.Quit, events[0].Button)
				assert.Equal(t, backend.Press, events[0].Type)
			}
		}

		assert.NoError(t, h.Cleanup())
	})

	t.Run("test pattern mode quits immediately", func(t *testing.T) {
		h := headless.New(1, headless.SnapshotConfig{})

		err := h.Init(backend.Config{Title: "Test", TestPattern: true})
		assert.NoError(t, err)

		frame := video.NewFrameBuffer()
		events, err := h.Update(frame)
		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, backend.Quit, events[0].Button)

		assert.NoError(t, h.Cleanup())
	})
}

func TestHeadlessImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*headless.Backend)(nil)
}
