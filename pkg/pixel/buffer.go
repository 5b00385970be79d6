package pixel

import (
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ErrMalformed is returned for buffers whose dimensions or length are invalid
var ErrMalformed = errors.New("pixel: malformed buffer")

// Pixel is a single straight-alpha RGBA quadruple
type Pixel struct {
	R, G, B, A uint8
}

// Buffer is a flat row-major RGBA pixel buffer with the origin at the top-left.
// Pix holds Width*Height*4 bytes of non-premultiplied color.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a transparent w x h buffer
func New(w, h int) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrMalformed, w, h)
	}
	return &Buffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}, nil
}

// FromPix wraps an existing byte slice, validating its length
func FromPix(w, h int, pix []uint8) (*Buffer, error) {
	b := &Buffer{Width: w, Height: h, Pix: pix}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromImage copies any image into a new buffer
func FromImage(img image.Image) (*Buffer, error) {
	r := img.Bounds()
	b, err := New(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}
	if src, ok := img.(*image.NRGBA); ok && src.Stride == r.Dx()*4 && src.Rect.Min == (image.Point{}) {
		copy(b.Pix, src.Pix)
		return b, nil
	}
	xdraw.Draw(b.Image(), b.Image().Bounds(), img, r.Min, xdraw.Src)
	return b, nil
}

// Validate checks the buffer invariants
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrMalformed)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrMalformed, b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("%w: length %d, want %d for %dx%d", ErrMalformed, len(b.Pix), want, b.Width, b.Height)
	}
	return nil
}

// Image returns an NRGBA view sharing the buffer's bytes
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Offset returns the byte index of (x, y)
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// In reports whether (x, y) lies inside the buffer
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

func (b *Buffer) At(x, y int) Pixel {
	i := b.Offset(x, y)
	s := b.Pix[i : i+4 : i+4]
	return Pixel{R: s[0], G: s[1], B: s[2], A: s[3]}
}

func (b *Buffer) Set(x, y int, p Pixel) {
	i := b.Offset(x, y)
	s := b.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = p.R, p.G, p.B, p.A
}

// Clone returns a deep copy
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Equal reports whether both buffers have the same shape and bytes
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height || len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// InvertColors returns a copy with RGB replaced by 255-RGB, alpha unchanged
func InvertColors(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out := b.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255 - out.Pix[i]
		out.Pix[i+1] = 255 - out.Pix[i+1]
		out.Pix[i+2] = 255 - out.Pix[i+2]
	}
	return out, nil
}
