package video

import (
	"testing"

	"github.com/astrid-emu/gbcore/addr"
	"github.com/stretchr/testify/assert"
)

func TestPaletteShadeResolution(t *testing.T) {
	bgp := Palette(0b11_10_01_00) // color0->0, color1->1, color2->2, color3->3
	assert.Equal(t, uint8(0), bgp.Shade(0))
	assert.Equal(t, uint8(1), bgp.Shade(1))
	assert.Equal(t, uint8(2), bgp.Shade(2))
	assert.Equal(t, uint8(3), bgp.Shade(3))
}

func TestFifoMixSpriteTransparentNeverOverwrites(t *testing.T) {
	var f Fifo
	var bg [8]uint8
	bg[0] = 1
	f.PushBG(bg, 0, false)

	var sprite [8]uint8 // all zero: fully transparent
	f.MixSprite(sprite, 0, 0, false, ByCoord, 0)

	px := f.Pop()
	assert.Equal(t, PixelBackground, px.Kind)
}

func TestFifoMixSpriteWinsOverBGColorZero(t *testing.T) {
	var f Fifo
	var bg [8]uint8 // background color 0 everywhere
	f.PushBG(bg, 0, false)

	var sprite [8]uint8
	sprite[0] = 2
	f.MixSprite(sprite, 5, 1, false, ByCoord, 0)

	px := f.Pop()
	assert.Equal(t, PixelSprite, px.Kind)
	assert.Equal(t, uint8(2), px.Color)
	assert.Equal(t, uint8(1), px.Palette)
}

func TestFifoBGPriorityBlocksSprite(t *testing.T) {
	var f Fifo
	var bg [8]uint8
	bg[0] = 3
	f.PushBG(bg, 0, true) // bg tile requests priority over sprites

	var sprite [8]uint8
	sprite[0] = 1
	f.MixSprite(sprite, 0, 0, false, ByCoord, 0)

	px := f.Pop()
	assert.Equal(t, PixelBackground, px.Kind, "non-zero bg pixel with priority bit set hides the sprite")
}

func TestFifoSpriteBGPriorityFlagHidesBehindNonZeroBG(t *testing.T) {
	var f Fifo
	var bg [8]uint8
	bg[0] = 2
	f.PushBG(bg, 0, false)

	var sprite [8]uint8
	sprite[0] = 1
	f.MixSprite(sprite, 0, 0, true, ByCoord, 0) // sprite itself requests bg-over-obj

	px := f.Pop()
	assert.Equal(t, PixelBackground, px.Kind)
}

func TestFifoSpriteVsSpriteByCoordKeepsFirstDrawn(t *testing.T) {
	var f Fifo
	var bg [8]uint8
	f.PushBG(bg, 0, false)

	var first [8]uint8
	first[0] = 1
	f.MixSprite(first, 3, 0, false, ByCoord, 0)

	var second [8]uint8
	second[0] = 2
	f.MixSprite(second, 1, 0, false, ByCoord, 0)

	px := f.Pop()
	assert.Equal(t, 3, px.SpriteIndex, "ByCoord mode never lets a later sprite replace an opaque earlier one")
}

func TestFifoSpriteVsSpriteByIndexPrefersLowerOAMIndex(t *testing.T) {
	var f Fifo
	var bg [8]uint8
	f.PushBG(bg, 0, false)

	var first [8]uint8
	first[0] = 1
	f.MixSprite(first, 5, 0, false, ByIndex, 0)

	var second [8]uint8
	second[0] = 2
	f.MixSprite(second, 1, 0, false, ByIndex, 0)

	px := f.Pop()
	assert.Equal(t, 1, px.SpriteIndex, "ByIndex mode lets a lower OAM index win even if drawn later")
}

func TestSpriteScreenCoordinates(t *testing.T) {
	s := Sprite{Y: 16, X: 8}
	assert.Equal(t, 0, s.ScreenY())
	assert.Equal(t, 0, s.ScreenX())
}

func TestSpriteTileIndexForTallSprite(t *testing.T) {
	s := Sprite{Tile: 5}
	assert.Equal(t, uint8(4), s.TileIndexFor(0, 16))
	assert.Equal(t, uint8(5), s.TileIndexFor(8, 16))
}

func newTestPPU() *PPU {
	p := New()
	p.lcdc = 0x91
	var fired []addr.Interrupt
	p.RequestInterrupt = func(i addr.Interrupt) { fired = append(fired, i) }
	return p
}

func TestOAMScanSelectsAtMostTenSprites(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 40; i++ {
		base := i * 4
		p.oam[base] = 16 // Y=16 -> screen Y 0, visible on line 0
		p.oam[base+1] = 8
	}
	p.ly = 0
	p.scanOAM()

	assert.Len(t, p.spritesThisLine, maxSpritesRow)
}

func TestOAMScanSkipsSpritesOutOfRange(t *testing.T) {
	p := newTestPPU()
	p.oam[0] = 200 // far off screen for line 0
	p.oam[1] = 8
	p.ly = 0
	p.scanOAM()

	assert.Len(t, p.spritesThisLine, 0)
}

func TestLYIncrementsAtEndOfLine(t *testing.T) {
	p := newTestPPU()
	p.mode = ModeHBlank
	p.dot = dotsPerLine - 1
	p.Tick()

	assert.Equal(t, uint8(1), p.ly)
	assert.Equal(t, ModeOAM, p.mode)
}

func TestEnteringVBlankRequestsVBlankInterrupt(t *testing.T) {
	p := newTestPPU()
	var got []addr.Interrupt
	p.RequestInterrupt = func(i addr.Interrupt) { got = append(got, i) }
	p.mode = ModeHBlank
	p.ly = vblankStartLn - 1
	p.dot = dotsPerLine - 1

	p.Tick()

	assert.Equal(t, uint8(vblankStartLn), p.ly)
	assert.Equal(t, ModeVBlank, p.mode)
	assert.Contains(t, got, addr.VBlank)
}

func TestLYCMatchSetsStatFlagAndFiresOnce(t *testing.T) {
	p := newTestPPU()
	p.stat = statLYCEnable
	p.lyc = 5

	var count int
	p.RequestInterrupt = func(i addr.Interrupt) {
		if i == addr.LCDSTAT {
			count++
		}
	}

	p.ly = 5
	p.checkLYC()
	assert.NotZero(t, p.stat&statLYCEqual)
	assert.Equal(t, 1, count)

	p.checkLYC() // level stays high: must not refire
	assert.Equal(t, 1, count)
}

func TestFrameTakesExactlyOneFrameWorthOfDots(t *testing.T) {
	p := newTestPPU()
	p.mode = ModeOAM
	p.dot = 0
	p.ly = 0

	totalDots := 0
	for p.ly != 0 || totalDots == 0 {
		p.Tick()
		totalDots++
		if totalDots > linesPerFrame*dotsPerLine*2 {
			t.Fatal("frame never wrapped back to line 0")
		}
	}

	assert.Equal(t, linesPerFrame*dotsPerLine, totalDots)
}
