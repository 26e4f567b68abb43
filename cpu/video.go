package cpu

import "strings"

const (
	// DisplayWidth is the width of the Chip8 screen in pixels.
	DisplayWidth = 64
	// DisplayHeight is the height of the Chip8 screen in pixels.
	DisplayHeight = 32

	bytesPerRow     = DisplayWidth / 8
	videoMemorySize = bytesPerRow * DisplayHeight
)

// Frame holds the 64x32px Chip8 screen in a semi-authentic way: every bit is one pixel.
//
// Every group of 8 bytes represents one 64px row of the screen, there are 32 rows, so
// 32*8 = 256 bytes total. The screen uses a top-left coordinate space: the highest bit
// of the first byte is the pixel at coordinate 0,0.
//
// A Frame is a plain value; the copy handed to a display is never touched by the Chip8 again.
type Frame [videoMemorySize]byte

// Pixel reports whether the pixel at x,y is lit.
// Coordinates outside the screen are never lit.
func (f Frame) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return f[y*bytesPerRow+x/8]&(0x80>>(x%8)) != 0
}

// String draws the frame as ASCII art inside a border, one line per screen row.
func (f Frame) String() string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", DisplayWidth) + "+\n"

	sb.WriteString(border)
	for y := 0; y < DisplayHeight; y++ {
		sb.WriteByte('|')
		for x := 0; x < DisplayWidth; x++ {
			if f.Pixel(x, y) {
				sb.WriteByte('*')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)

	return sb.String()
}

func (f *Frame) clear() {
	*f = Frame{}
}

// drawSprite XORs the sprite onto the screen with its top-left corner at x,y.
//
// Pixels of the sprite that fall outside of the screen are not drawn at all; they do not
// wrap around to the opposite edge. This includes the whole sprite if x or y are outside
// of the screen.
//
// drawSprite returns true if the sprite was drawn on top of any pixels already lit.
func (f *Frame) drawSprite(sprite []byte, x, y byte) bool {
	/*
	* We can only XOR whole bytes of video memory, not single bits. If x falls between two
	* bytes of a row, each sprite byte is split in two bytes aligned with the video memory:
	*
	* 	spriteLeftByte = spriteByte >> x%8        (if x=35, spriteByte >> 3)
	* 	spriteRightByte = spriteByte << 8-(x%8)   (if x=35, spriteByte << 5)
	*
	*			pixel 35      42
	*				   |       |
	*              |___01010|101_____|          <- sprite byte from bits 35 to 42
	*              |00001010|10100000|          <- spriteLeftByte and spriteRightByte
	*      00000000|00001111|00001111|00000000  <- screen row
	*      00000000|00000101|10101111|00000000  <- new screen row
	*     ---------+--------+--------+--------
	*     |   3    |    4   |    5   |    6   | <- bytes (0-indexed)
	*
	* spriteLeftByte goes into byte x/8 of the row and spriteRightByte into byte x/8+1.
	* When x/8 is the last byte of the row, spriteRightByte is past the right edge and is
	* dropped.
	 */
	if int(x) >= DisplayWidth || int(y) >= DisplayHeight {
		return false
	}

	column := int(x / 8)
	shift := x % 8

	var occluded bool
	for i, spriteByte := range sprite {
		row := int(y) + i
		if row >= DisplayHeight {
			break
		}
		offset := row*bytesPerRow + column

		if f.xor(offset, spriteByte>>shift) {
			occluded = true
		}
		if shift != 0 && column+1 < bytesPerRow {
			if f.xor(offset+1, spriteByte<<(8-shift)) {
				occluded = true
			}
		}
	}

	return occluded
}

// xor flips the bits of the video memory byte at offset that are set in b.
// It returns true if any of those bits were lit before.
func (f *Frame) xor(offset int, b byte) bool {
	occluded := f[offset]&b != 0
	f[offset] ^= b
	return occluded
}
