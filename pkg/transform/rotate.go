// Package transform rotates pixel buffers into padded working canvases and back.
//
// Sampling is nearest-neighbour on pixel centres in both directions, so no new
// colors are introduced. Quarter turns round-trip exactly only when width and
// height share parity. The rotation is about the geometric centre, which for
// a 4x3 image sits on a pixel edge along one axis and on a pixel centre along
// the other, so a quarter turn lands half a pixel off the grid and the
// nearest-neighbour rounding may move pixels. Pad such images to matching
// parity first when exactness matters.
package transform

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/jpfielding/pixsort.go/pkg/pixel"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// RotationContext records how a working buffer was produced from the original
type RotationContext struct {
	Angle          float64 // degrees
	PaddingX       int
	PaddingY       int
	WorkingWidth   int
	WorkingHeight  int
	OriginalWidth  int
	OriginalHeight int
}

// WorkingSize returns a canvas large enough to hold a w x h image at any
// angle. Each side is at least the diagonal and has the parity of the matching
// original side so the padding is integral.
func WorkingSize(w, h int) (int, int) {
	d := int(math.Ceil(math.Hypot(float64(w), float64(h))))
	return d + (d-w)%2, d + (d-h)%2
}

// Normalize maps an angle in degrees into [0, 360)
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Rotate draws buf rotated by angle degrees (clockwise on screen) into the
// centre of a transparent working canvas.
func Rotate(buf *pixel.Buffer, angle float64) (*pixel.Buffer, RotationContext, error) {
	if err := buf.Validate(); err != nil {
		return nil, RotationContext{}, err
	}
	ww, wh := WorkingSize(buf.Width, buf.Height)
	work, err := pixel.New(ww, wh)
	if err != nil {
		return nil, RotationContext{}, err
	}
	rotateInto(work, buf, angle)
	rc := RotationContext{
		Angle:          angle,
		PaddingX:       (ww - buf.Width) / 2,
		PaddingY:       (wh - buf.Height) / 2,
		WorkingWidth:   ww,
		WorkingHeight:  wh,
		OriginalWidth:  buf.Width,
		OriginalHeight: buf.Height,
	}
	slog.Debug("rotated into working canvas",
		slog.Float64("angle", angle),
		slog.Int("workingWidth", ww),
		slog.Int("workingHeight", wh),
		slog.Int("paddingX", rc.PaddingX),
		slog.Int("paddingY", rc.PaddingY))
	return work, rc, nil
}

// Unrotate reverses Rotate: the working buffer is rotated by -angle into
// another canvas of the working size and the symmetric padding is cropped.
func Unrotate(work *pixel.Buffer, rc RotationContext) (*pixel.Buffer, error) {
	if err := work.Validate(); err != nil {
		return nil, err
	}
	if work.Width != rc.WorkingWidth || work.Height != rc.WorkingHeight {
		return nil, fmt.Errorf("%w: working buffer is %dx%d, rotation context expects %dx%d",
			pixel.ErrMalformed, work.Width, work.Height, rc.WorkingWidth, rc.WorkingHeight)
	}
	back, err := pixel.New(rc.WorkingWidth, rc.WorkingHeight)
	if err != nil {
		return nil, err
	}
	rotateInto(back, work, -rc.Angle)
	return Crop(back, rc.PaddingX, rc.PaddingY, rc.OriginalWidth, rc.OriginalHeight)
}

// Crop copies the w x h region at (x, y)
func Crop(buf *pixel.Buffer, x, y, w, h int) (*pixel.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if x < 0 || y < 0 || x+w > buf.Width || y+h > buf.Height {
		return nil, fmt.Errorf("%w: crop %dx%d+%d+%d exceeds %dx%d",
			pixel.ErrMalformed, w, h, x, y, buf.Width, buf.Height)
	}
	out, err := pixel.New(w, h)
	if err != nil {
		return nil, err
	}
	rowLen := w * 4
	for row := 0; row < h; row++ {
		src := buf.Offset(x, y+row)
		copy(out.Pix[row*rowLen:(row+1)*rowLen], buf.Pix[src:src+rowLen])
	}
	return out, nil
}

// ToOriginal maps a working-buffer pixel back to the original pixel that
// Rotate sampled for it. The result may lie outside the original extent.
func (rc RotationContext) ToOriginal(x, y int) (int, int) {
	sin, cos := math.Sincos(rc.Angle * math.Pi / 180)
	cx, cy := float64(rc.WorkingWidth)/2, float64(rc.WorkingHeight)/2
	dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
	ox := cos*dx + sin*dy + cx - float64(rc.PaddingX)
	oy := -sin*dx + cos*dy + cy - float64(rc.PaddingY)
	return int(math.Floor(ox)), int(math.Floor(oy))
}

// rotateInto maps src onto dst rotating about both centres
func rotateInto(dst, src *pixel.Buffer, angle float64) {
	xdraw.NearestNeighbor.Transform(dst.Image(), rotation(dst, src, angle), src.Image(), src.Image().Bounds(), xdraw.Src, nil)
}

// rotation is the source-to-destination affine matrix
func rotation(dst, src *pixel.Buffer, angle float64) f64.Aff3 {
	sin, cos := math.Sincos(angle * math.Pi / 180)
	scx, scy := float64(src.Width)/2, float64(src.Height)/2
	dcx, dcy := float64(dst.Width)/2, float64(dst.Height)/2
	return f64.Aff3{
		cos, -sin, dcx - cos*scx + sin*scy,
		sin, cos, dcy - sin*scx - cos*scy,
	}
}
