package terminal

import (
	"testing"

	"github.com/astrid-emu/gbcore/backend"
	"github.com/astrid-emu/gbcore/video"
	"github.com/stretchr/testify/assert"
)

func TestPixelToShadeCoversDMGPalette(t *testing.T) {
	assert.Equal(t, 0, pixelToShade(video.ColorWhite))
	assert.Equal(t, 1, pixelToShade(video.ColorLightGray))
	assert.Equal(t, 2, pixelToShade(video.ColorDarkGray))
	assert.Equal(t, 3, pixelToShade(video.ColorBlack))
}

func TestHalfBlockCharSameShadeUsesFullBlock(t *testing.T) {
	char, _, _ := halfBlockChar(2, 2)
	assert.Equal(t, '█', char)
}

func TestHalfBlockCharDifferentShadesUsesUpperHalfBlock(t *testing.T) {
	char, _, _ := halfBlockChar(0, 3)
	assert.Equal(t, '▀', char)
}

func TestTerminalImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*Backend)(nil)
}
