package video

// SpritePriorityMode controls how two opaque sprite pixels competing for the
// same dot are resolved. DMG always uses ByCoord; CGB (not wired to the
// frontend here, but modeled since the fetcher is otherwise CGB-shaped)
// uses ByIndex.
type SpritePriorityMode int

const (
	ByCoord SpritePriorityMode = iota
	ByIndex
)

// PixelKind distinguishes a background/window pixel from a sprite pixel
// sitting in the FIFO; sprite pixels carry the metadata mix_sprite needs to
// resolve later overlaps.
type PixelKind int

const (
	PixelBackground PixelKind = iota
	PixelSprite
)

// FifoPixel is one pixel sitting in the pixel FIFO, still unresolved to a
// final display color.
type FifoPixel struct {
	Color   uint8 // raw 2-bit tile color, 0-3
	Kind    PixelKind
	Palette uint8 // BGP index for background pixels, OBP0/OBP1 index for sprites

	// BGPriority is the background tile attribute's priority bit (CGB) for
	// background pixels, or the sprite's OBJ-to-BG priority bit for sprites.
	BGPriority bool

	// SpriteIndex is the OAM index of the sprite that produced this pixel,
	// used to resolve sprite-vs-sprite overlap under ByIndex priority.
	SpriteIndex int
}

// Fifo is a fixed-capacity ring buffer of up to 16 pending pixels, matching
// the real pixel FIFO's hardware depth (a fetch can run up to 8 pixels
// ahead of the 8 the shifter has yet to drain).
type Fifo struct {
	buf   [16]FifoPixel
	head  int
	count int
}

// Len returns the number of pixels currently queued.
func (f *Fifo) Len() int { return f.count }

// Clear empties the FIFO, used on mode transitions and window activation.
func (f *Fifo) Clear() {
	f.head = 0
	f.count = 0
}

func (f *Fifo) at(i int) *FifoPixel {
	return &f.buf[(f.head+i)%len(f.buf)]
}

// Pop removes and returns the front pixel.
func (f *Fifo) Pop() FifoPixel {
	p := *f.at(0)
	f.head = (f.head + 1) % len(f.buf)
	f.count--
	return p
}

// PushBG appends one freshly-fetched row of 8 background or window pixels.
// colors[0] is the leftmost pixel. Called when the FIFO holds at most 8
// pixels, so the push never exceeds its 16-pixel capacity.
func (f *Fifo) PushBG(colors [8]uint8, palette uint8, bgPriority bool) {
	for _, color := range colors {
		f.push(FifoPixel{Color: color, Kind: PixelBackground, Palette: palette, BGPriority: bgPriority})
	}
}

func (f *Fifo) push(p FifoPixel) {
	idx := (f.head + f.count) % len(f.buf)
	f.buf[idx] = p
	f.count++
}

// MixSprite overlays a freshly-fetched sprite row onto the pixels already
// queued in the FIFO, applying DMG's pixel-by-pixel priority rules:
//
//   - A sprite pixel is transparent (color 0) and never drawn regardless of
//     any other rule.
//   - Against a background pixel, the sprite wins unless the background
//     pixel is non-zero AND either the sprite's own OBJ-to-BG priority bit
//     or the background tile's priority bit asks for the background to win.
//   - Against another sprite pixel already in the FIFO, the new sprite only
//     overwrites it if the existing slot is transparent, or (ByIndex mode
//     only) the existing sprite has a higher OAM index than the new one.
//
// colors must have at least 8 entries (padding entries for columns that run
// off the right edge of a partially off-screen sprite should be 0); offset
// is how many of the leading columns to skip (non-zero only for sprites
// whose X coordinate puts part of them off the left edge of the screen).
func (f *Fifo) MixSprite(colors [8]uint8, spriteIndex int, palette uint8, spriteBGPriority bool, mode SpritePriorityMode, offset int) {
	for i := offset; i < 8; i++ {
		slot := i - offset
		if slot >= f.count {
			break
		}
		spriteColor := colors[i]
		if spriteColor == 0 {
			continue
		}

		existing := f.at(slot)
		switch existing.Kind {
		case PixelBackground:
			bgWins := existing.Color != 0 && (spriteBGPriority || existing.BGPriority)
			if bgWins {
				continue
			}
			*existing = FifoPixel{
				Color:       spriteColor,
				Kind:        PixelSprite,
				Palette:     palette,
				BGPriority:  spriteBGPriority,
				SpriteIndex: spriteIndex,
			}
		case PixelSprite:
			overwrite := existing.Color == 0 || (mode == ByIndex && existing.SpriteIndex > spriteIndex)
			if !overwrite {
				continue
			}
			*existing = FifoPixel{
				Color:       spriteColor,
				Kind:        PixelSprite,
				Palette:     palette,
				BGPriority:  spriteBGPriority,
				SpriteIndex: spriteIndex,
			}
		}
	}
}
