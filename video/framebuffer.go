package video

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// GBColor is an RGBA8888 packed color, stored high-to-low as R,G,B,A.
type GBColor uint32

// The classic four-shade DMG palette, from lightest to darkest.
const (
	ColorWhite     GBColor = 0xE0F8D0FF
	ColorLightGray GBColor = 0x88C070FF
	ColorDarkGray  GBColor = 0x346856FF
	ColorBlack     GBColor = 0x081820FF
)

// shades maps a raw 2-bit palette index (0-3) to its display color.
var shades = [4]GBColor{ColorWhite, ColorLightGray, ColorDarkGray, ColorBlack}

// ByteToColor converts a palette-resolved 2-bit shade index into a display color.
func ByteToColor(shade uint8) GBColor {
	return shades[shade&0x03]
}

// FrameBuffer holds one rendered 160x144 frame as packed RGBA colors.
type FrameBuffer struct {
	pixels [ScreenWidth * ScreenHeight]GBColor
}

// NewFrameBuffer returns a frame buffer cleared to white.
func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Clear()
	return fb
}

// Set writes the color of the pixel at (x, y).
func (f *FrameBuffer) Set(x, y int, c GBColor) {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return
	}
	f.pixels[y*ScreenWidth+x] = c
}

// Get returns the color of the pixel at (x, y).
func (f *FrameBuffer) Get(x, y int) GBColor {
	return f.pixels[y*ScreenWidth+x]
}

// Clear resets every pixel to white.
func (f *FrameBuffer) Clear() {
	for i := range f.pixels {
		f.pixels[i] = ColorWhite
	}
}

// ToRGBA writes the frame buffer out as a flat byte slice of R,G,B,A bytes,
// the layout most display backends (SDL textures, image.RGBA) expect.
func (f *FrameBuffer) ToRGBA(dst []byte) {
	for i, c := range f.pixels {
		o := i * 4
		dst[o] = byte(c >> 24)
		dst[o+1] = byte(c >> 16)
		dst[o+2] = byte(c >> 8)
		dst[o+3] = byte(c)
	}
}

// ToGrayscale renders the buffer down to one luminance byte per pixel,
// handy for terminal backends that have no color channel to spare.
func (f *FrameBuffer) ToGrayscale(dst []byte) {
	for i, c := range f.pixels {
		switch c {
		case ColorWhite:
			dst[i] = 255
		case ColorLightGray:
			dst[i] = 170
		case ColorDarkGray:
			dst[i] = 85
		default:
			dst[i] = 0
		}
	}
}
