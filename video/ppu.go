// Package video implements the DMG picture processing unit: a dot-stepped
// background/window fetcher and pixel FIFO feeding a mode state machine,
// rather than the scanline-at-a-time blitter a simpler emulator might use.
// The PPU is ticked once per dot (T-cycle); the owning bus is responsible
// for calling Tick four times per CPU machine cycle.
package video

import "github.com/astrid-emu/gbcore/addr"

// Mode is one of the four PPU scan states, also the value STAT bits 0-1 read.
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeDraw   Mode = 3
)

const (
	dotsPerLine   = 456
	oamScanDots   = 80
	linesPerFrame = 154
	vblankStartLn = 144
	maxSpritesRow = 10
)

// LCDC bits.
const (
	lcdcEnable       = 0x80
	lcdcWindowMap    = 0x40
	lcdcWindowEnable = 0x20
	lcdcBGWinTiles   = 0x10
	lcdcBGMap        = 0x08
	lcdcObjSize      = 0x04
	lcdcObjEnable    = 0x02
	lcdcBGEnable     = 0x01
)

// STAT bits.
const (
	statLYCEnable  = 0x40
	statOAMEnable  = 0x20
	statVBlEnable  = 0x10
	statHBlEnable  = 0x08
	statLYCEqual   = 0x04
	statModeMask   = 0x03
)

type fetchStage int

const (
	stageGetTile fetchStage = iota
	stageGetDataLow
	stageGetDataHigh
	stagePush
)

// PPU is the picture processing unit: VRAM, OAM, the LCD registers, and the
// fetcher/FIFO pixel pipeline that renders into a FrameBuffer.
type PPU struct {
	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx uint8

	vram [0x2000]uint8
	oam  [0xA0]uint8

	mode Mode
	dot  int

	fifo         Fifo
	fetchStage   fetchStage
	fetchDotTime int
	fetchX       int // tile column being fetched, 0-31 wrapping
	tileID       uint8
	rowLow       uint8
	rowHigh      uint8

	lx          int // next pixel column to output, 0-159
	discard     int // pixels to drop at line start for fine X scroll
	windowLine  int // internal window line counter, only advances on drawn lines
	windowDrawn bool
	usingWindow bool

	spritesThisLine []Sprite
	fetchingSprite  bool
	pendingSprite   Sprite

	fb *FrameBuffer

	statLine bool // last STAT interrupt line level, for edge detection

	RequestInterrupt func(addr.Interrupt)
}

// New returns a PPU with a fresh framebuffer and registers in their
// post-boot-ROM state.
func New() *PPU {
	p := &PPU{fb: NewFrameBuffer()}
	p.lcdc = 0x91
	p.bgp = 0xFC
	p.mode = ModeOAM
	return p
}

// FrameBuffer returns the frame buffer the PPU renders into.
func (p *PPU) FrameBuffer() *FrameBuffer { return p.fb }

// Read handles a CPU read of a PPU-mapped address (VRAM, OAM, or a register).
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		if p.mode == ModeDraw {
			return 0xFF
		}
		return p.vram[address-0x8000]
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		if p.mode == ModeOAM || p.mode == ModeDraw {
			return 0xFF
		}
		return p.oam[address-addr.OAMStart]
	case address == addr.LCDC:
		return p.lcdc
	case address == addr.STAT:
		return 0x80 | p.stat | uint8(p.mode)
	case address == addr.SCY:
		return p.scy
	case address == addr.SCX:
		return p.scx
	case address == addr.LY:
		return p.ly
	case address == addr.LYC:
		return p.lyc
	case address == addr.BGP:
		return p.bgp
	case address == addr.OBP0:
		return p.obp0
	case address == addr.OBP1:
		return p.obp1
	case address == addr.WY:
		return p.wy
	case address == addr.WX:
		return p.wx
	}
	return 0xFF
}

// Write handles a CPU write to a PPU-mapped address.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		if p.mode != ModeDraw {
			p.vram[address-0x8000] = value
		}
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		if p.mode != ModeOAM && p.mode != ModeDraw {
			p.oam[address-addr.OAMStart] = value
		}
	case address == addr.LCDC:
		p.setLCDC(value)
	case address == addr.STAT:
		p.stat = value &^ (statLYCEqual | statModeMask) // bits 0-2 are read-only
	case address == addr.SCY:
		p.scy = value
	case address == addr.SCX:
		p.scx = value
	case address == addr.LY:
		// read-only on real hardware
	case address == addr.LYC:
		p.lyc = value
		p.checkLYC()
	case address == addr.BGP:
		p.bgp = value
	case address == addr.OBP0:
		p.obp0 = value
	case address == addr.OBP1:
		p.obp1 = value
	case address == addr.WY:
		p.wy = value
	case address == addr.WX:
		p.wx = value
	}
}

// WriteOAMByte writes directly into OAM bypassing the mode-lock check, used
// by the DMA transfer which has its own access rules.
func (p *PPU) WriteOAMByte(offset uint8, value uint8) {
	p.oam[offset] = value
}

func (p *PPU) setLCDC(value uint8) {
	wasEnabled := p.lcdc&lcdcEnable != 0
	p.lcdc = value
	if wasEnabled && value&lcdcEnable == 0 {
		p.ly = 0
		p.dot = 0
		p.mode = ModeHBlank
		p.fb.Clear()
	}
	if !wasEnabled && value&lcdcEnable != 0 {
		p.dot = 0
		p.mode = ModeOAM
		p.windowLine = 0
	}
}

// Tick advances the PPU by one dot (one quarter of a CPU machine cycle).
func (p *PPU) Tick() {
	if p.lcdc&lcdcEnable == 0 {
		return
	}

	switch p.mode {
	case ModeOAM:
		if p.dot == 0 {
			p.scanOAM()
		}
		p.dot++
		if p.dot >= oamScanDots {
			p.enterDraw()
		}
	case ModeDraw:
		p.dot++
		p.stepFetcher()
		if p.lx >= ScreenWidth {
			p.enterMode(ModeHBlank)
		}
	case ModeHBlank:
		p.dot++
		if p.dot >= dotsPerLine {
			p.endLine()
		}
	case ModeVBlank:
		p.dot++
		if p.dot >= dotsPerLine {
			p.endLine()
		}
	}
}

func (p *PPU) enterMode(m Mode) {
	p.mode = m
	p.updateStatLine()
}

func (p *PPU) scanOAM() {
	height := 8
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}
	p.spritesThisLine = p.spritesThisLine[:0]
	for i := 0; i < 40 && len(p.spritesThisLine) < maxSpritesRow; i++ {
		s := ReadSprite(p.oam[:], i)
		top := s.ScreenY()
		if int(p.ly) >= top && int(p.ly) < top+height {
			p.spritesThisLine = append(p.spritesThisLine, s)
		}
	}
}

func (p *PPU) enterDraw() {
	p.enterMode(ModeDraw)
	p.fifo.Clear()
	p.fetchStage = stageGetTile
	p.fetchDotTime = 0
	p.fetchX = 0
	p.lx = 0
	p.discard = int(p.scx) % 8
	p.usingWindow = false
	p.windowDrawn = false
	p.fetchingSprite = false
}

func (p *PPU) windowVisible() bool {
	return p.lcdc&lcdcWindowEnable != 0 && int(p.ly) >= int(p.wy) && int(p.wx) <= 166
}

func (p *PPU) spriteHeight() int {
	if p.lcdc&lcdcObjSize != 0 {
		return 16
	}
	return 8
}

func (p *PPU) stepFetcher() {
	if p.tryStartSpriteFetch() {
		p.runSpriteFetch()
		return
	}

	if p.fifo.Len() > 0 {
		px := p.fifo.Pop()
		if p.discard > 0 {
			p.discard--
		} else if p.lx < ScreenWidth {
			p.plot(px)
			p.lx++
		}
	}

	if !p.usingWindow && p.windowVisible() && int(p.lx)+7 >= int(p.wx) {
		p.usingWindow = true
		p.windowDrawn = true
		p.fifo.Clear()
		p.fetchX = 0
		p.fetchStage = stageGetTile
		p.fetchDotTime = 0
		return
	}

	p.fetchDotTime++
	if p.fetchDotTime < 2 {
		return
	}
	p.fetchDotTime = 0

	switch p.fetchStage {
	case stageGetTile:
		p.tileID = p.fetchTileID()
		p.fetchStage = stageGetDataLow
	case stageGetDataLow:
		p.rowLow = p.fetchTileByte(false)
		p.fetchStage = stageGetDataHigh
	case stageGetDataHigh:
		p.rowHigh = p.fetchTileByte(true)
		p.fetchStage = stagePush
	case stagePush:
		if p.fifo.Len() <= 8 {
			p.pushBGRow()
			p.fetchX++
			p.fetchStage = stageGetTile
		}
	}
}

func (p *PPU) fetchTileID() uint8 {
	var mapBase uint16 = addr.TileMap0
	var row, col int
	if p.usingWindow {
		if p.lcdc&lcdcWindowMap != 0 {
			mapBase = addr.TileMap1
		}
		row = p.windowLine / 8
		col = p.fetchX
	} else {
		if p.lcdc&lcdcBGMap != 0 {
			mapBase = addr.TileMap1
		}
		row = (int(p.ly) + int(p.scy)) / 8 % 32
		col = (int(p.scx)/8 + p.fetchX) % 32
	}
	offset := uint16(row*32+col) & 0x3FF
	return p.vram[mapBase-0x8000+offset]
}

func (p *PPU) tileDataAddress() uint16 {
	var line int
	if p.usingWindow {
		line = p.windowLine % 8
	} else {
		line = (int(p.ly) + int(p.scy)) % 8
	}
	if p.lcdc&lcdcBGWinTiles != 0 {
		base := addr.TileData0 + uint16(p.tileID)*16
		return base + uint16(line)*2
	}
	base := uint16(int(addr.TileData2) + int(int8(p.tileID))*16)
	return base + uint16(line)*2
}

func (p *PPU) fetchTileByte(high bool) uint8 {
	a := p.tileDataAddress()
	if high {
		a++
	}
	return p.vram[a-0x8000]
}

func (p *PPU) pushBGRow() {
	if p.lcdc&lcdcBGEnable == 0 {
		var zero [8]uint8
		p.fifo.PushBG(zero, 0, false)
		return
	}
	row := TileRow{Low: p.rowLow, High: p.rowHigh}
	var colors [8]uint8
	for i := 0; i < 8; i++ {
		colors[i] = uint8(row.GetPixel(i))
	}
	p.fifo.PushBG(colors, 0, false)
}

// tryStartSpriteFetch reports whether a not-yet-drawn sprite's left edge has
// reached the current output column, and if so begins fetching it.
func (p *PPU) tryStartSpriteFetch() bool {
	if p.fetchingSprite || p.lcdc&lcdcObjEnable == 0 {
		return false
	}
	for i, s := range p.spritesThisLine {
		if s.OAMIndex < 0 {
			continue
		}
		if s.ScreenX() <= p.lx && s.ScreenX()+8 > p.lx {
			p.pendingSprite = s
			p.spritesThisLine[i].OAMIndex = -1 - s.OAMIndex // mark drawn, keep original via offset below
			p.fetchingSprite = true
			return true
		}
	}
	return false
}

func (p *PPU) runSpriteFetch() {
	height := p.spriteHeight()
	s := p.pendingSprite
	actualIndex := s.OAMIndex
	if actualIndex < 0 {
		actualIndex = -1 - actualIndex
	}
	row := s.RowWithinSprite(int(p.ly), height)
	tile := s.TileIndexFor(row, height)
	base := addr.TileData0 + uint16(tile)*16 + uint16(row%8)*2
	low := p.vram[base-0x8000]
	high := p.vram[base+1-0x8000]

	tr := TileRow{Low: low, High: high}
	var colors [8]uint8
	for i := 0; i < 8; i++ {
		if s.Flags.XFlip() {
			colors[i] = uint8(tr.GetPixelFlipped(i))
		} else {
			colors[i] = uint8(tr.GetPixel(i))
		}
	}

	offset := 0
	screenX := s.ScreenX()
	if screenX < p.lx {
		offset = p.lx - screenX
	}

	palette := s.Flags.DMGPalette()
	p.fifo.MixSprite(colors, actualIndex, palette, s.Flags.BGPriority(), ByCoord, offset)
	p.fetchingSprite = false
}

func (p *PPU) plot(px FifoPixel) {
	var shade uint8
	switch px.Kind {
	case PixelBackground:
		shade = Palette(p.bgp).Shade(px.Color)
	case PixelSprite:
		pal := Palette(p.obp0)
		if px.Palette == 1 {
			pal = Palette(p.obp1)
		}
		shade = pal.Shade(px.Color)
	}
	p.fb.Set(p.lx, int(p.ly), ByteToColor(shade))
}

func (p *PPU) endLine() {
	p.dot = 0
	if p.usingWindow {
		p.windowLine++
	}
	p.ly++
	if p.ly == vblankStartLn {
		p.enterMode(ModeVBlank)
		if p.RequestInterrupt != nil {
			p.RequestInterrupt(addr.VBlank)
		}
	} else if int(p.ly) >= linesPerFrame {
		p.ly = 0
		p.windowLine = 0
		p.enterMode(ModeOAM)
	} else if p.mode != ModeVBlank {
		p.enterMode(ModeOAM)
	}
	p.checkLYC()
}

func (p *PPU) checkLYC() {
	if p.ly == p.lyc {
		p.stat |= statLYCEqual
	} else {
		p.stat &^= statLYCEqual
	}
	p.updateStatLine()
}

// updateStatLine recomputes the level-triggered STAT interrupt signal and
// fires on a 0-to-1 transition, matching real hardware's "STAT blocking"
// behavior where multiple simultaneous sources do not queue extra requests.
func (p *PPU) updateStatLine() {
	line := false
	if p.stat&statLYCEqual != 0 && p.stat&statLYCEnable != 0 {
		line = true
	}
	switch p.mode {
	case ModeHBlank:
		line = line || p.stat&statHBlEnable != 0
	case ModeVBlank:
		line = line || p.stat&statVBlEnable != 0
	case ModeOAM:
		line = line || p.stat&statOAMEnable != 0
	}

	if line && !p.statLine && p.RequestInterrupt != nil {
		p.RequestInterrupt(addr.LCDSTAT)
	}
	p.statLine = line
}

// LY returns the current scanline, for frontends/tests that want it without
// going through the bus read path.
func (p *PPU) LY() uint8 { return p.ly }

// CurrentMode returns the PPU's current mode.
func (p *PPU) CurrentMode() Mode { return p.mode }
