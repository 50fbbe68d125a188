package video

// SpriteFlags is the fourth OAM attribute byte.
type SpriteFlags uint8

const (
	FlagPriority    SpriteFlags = 0x80 // 1 = sprite hidden behind background colors 1-3
	FlagYFlip       SpriteFlags = 0x40
	FlagXFlip       SpriteFlags = 0x20
	FlagPalette     SpriteFlags = 0x10 // DMG: 0 = OBP0, 1 = OBP1
	FlagBank        SpriteFlags = 0x08 // CGB only: VRAM bank
	FlagCGBPalette  SpriteFlags = 0x07 // CGB only: OBP0-7
)

func (f SpriteFlags) has(bitVal SpriteFlags) bool { return f&bitVal != 0 }

// BGPriority reports whether background colors 1-3 are drawn over this sprite.
func (f SpriteFlags) BGPriority() bool { return f.has(FlagPriority) }

// YFlip reports whether the sprite is flipped vertically.
func (f SpriteFlags) YFlip() bool { return f.has(FlagYFlip) }

// XFlip reports whether the sprite is flipped horizontally.
func (f SpriteFlags) XFlip() bool { return f.has(FlagXFlip) }

// DMGPalette returns 0 or 1, selecting OBP0 or OBP1.
func (f SpriteFlags) DMGPalette() uint8 {
	if f.has(FlagPalette) {
		return 1
	}
	return 0
}

// Sprite is one 4-byte OAM entry as read from object attribute memory.
type Sprite struct {
	Y     uint8
	X     uint8
	Tile  uint8
	Flags SpriteFlags

	// OAMIndex is the sprite's position (0-39) in object attribute memory,
	// used to resolve sprite overlap under ByIndex priority and to mark which
	// of the line's sprites have already been fetched.
	OAMIndex int
}

// ScreenY returns the sprite's top edge in screen coordinates; OAM stores Y
// offset by 16 so a sprite can be scrolled fully off the top of the screen.
func (s Sprite) ScreenY() int { return int(s.Y) - 16 }

// ScreenX returns the sprite's left edge in screen coordinates; OAM stores X
// offset by 8 for the same off-screen-scrolling reason.
func (s Sprite) ScreenX() int { return int(s.X) - 8 }

// ReadSprite parses one 4-byte OAM entry at the given sprite index (0-39).
func ReadSprite(oam []byte, index int) Sprite {
	base := index * 4
	return Sprite{
		Y:        oam[base],
		X:        oam[base+1],
		Tile:     oam[base+2],
		Flags:    SpriteFlags(oam[base+3]),
		OAMIndex: index,
	}
}

// RowWithinSprite returns the tile row index (0-7 for 8px sprites, 0-15 for
// tall sprites) to fetch for scanline ly, accounting for Y-flip.
func (s Sprite) RowWithinSprite(ly int, height int) int {
	row := ly - s.ScreenY()
	if s.Flags.YFlip() {
		row = height - 1 - row
	}
	return row
}

// TileIndexFor returns the effective tile index to fetch pixel data from,
// handling the 8x16 mode's forced parity (bit 0 of the tile index is ignored;
// the top half uses the even tile, the bottom half the odd one).
func (s Sprite) TileIndexFor(row int, height int) uint8 {
	if height == 8 {
		return s.Tile
	}
	base := s.Tile &^ 0x01
	if row >= 8 {
		return base | 0x01
	}
	return base
}
