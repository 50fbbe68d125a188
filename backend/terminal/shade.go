package terminal

import (
	"github.com/astrid-emu/gbcore/video"
	"github.com/gdamore/tcell/v2"
)

// pixelToShade maps one of the four DMG palette colors to a 0 (white) - 3
// (black) shade index.
func pixelToShade(c video.GBColor) int {
	switch c {
	case video.ColorWhite:
		return 0
	case video.ColorLightGray:
		return 1
	case video.ColorDarkGray:
		return 2
	case video.ColorBlack:
		return 3
	default:
		return 0
	}
}

var shadeColors = [4]tcell.Color{
	tcell.ColorWhite,
	tcell.ColorSilver,
	tcell.ColorGray,
	tcell.ColorBlack,
}

// halfBlockChar packs two vertically-adjacent pixels into one terminal cell
// using a half-block glyph, returning the glyph plus its foreground and
// background color.
func halfBlockChar(topShade, bottomShade int) (rune, tcell.Color, tcell.Color) {
	top := shadeColors[topShade]
	bottom := shadeColors[bottomShade]

	if topShade == bottomShade {
		return '█', top, tcell.ColorDefault
	}
	return '▀', top, bottom
}
