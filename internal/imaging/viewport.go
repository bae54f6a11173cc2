package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	// ErrEmptySurface reports a zero or negative image or container dimension.
	ErrEmptySurface = errors.New("empty render surface")

	// ErrEncodingFailure reports that a surface could not be rendered or encoded.
	ErrEncodingFailure = errors.New("encoding failure")
)

// snapEpsilon absorbs floating point drift when a scaled edge should land on
// an integer pixel boundary.
const snapEpsilon = 1e-6

// Viewport is the rendered size of an image after fitting it into a container.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Pixels returns the raster size used to draw the viewport. Fractional sizes
// are truncated, never below one pixel.
func (v Viewport) Pixels() (int, int) {
	w, h := int(v.Width), int(v.Height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Point is a position in viewport space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp limits the point to the viewport bounds.
func (p Point) Clamp(v Viewport) Point {
	return Point{X: clampFloat(p.X, 0, v.Width), Y: clampFloat(p.Y, 0, v.Height)}
}

// Scale multiplies both coordinates by the given factors.
func (p Point) Scale(fx, fy float64) Point {
	return Point{X: p.X * fx, Y: p.Y * fy}
}

// Rect is an axis-aligned rectangle in viewport space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoundingBox returns the smallest Rect containing both points.
func BoundingBox(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Scale multiplies the position and size by the given factors.
func (r Rect) Scale(fx, fy float64) Rect {
	return Rect{X: r.X * fx, Y: r.Y * fy, Width: r.Width * fx, Height: r.Height * fy}
}

// Clamp limits the rectangle to the viewport bounds.
func (r Rect) Clamp(v Viewport) Rect {
	x0 := clampFloat(r.X, 0, v.Width)
	y0 := clampFloat(r.Y, 0, v.Height)
	x1 := clampFloat(r.X+r.Width, 0, v.Width)
	y1 := clampFloat(r.Y+r.Height, 0, v.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// PixelBounds returns the integer raster rectangle covering r.
func (r Rect) PixelBounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)),
		int(math.Ceil(r.Y+r.Height)),
	)
}

// Fit computes the largest rectangle with the image's aspect ratio that fits
// inside the container.
//
// When the container is relatively wider than the image, the height is the
// binding constraint; otherwise the width is. Any non-positive dimension
// returns ErrEmptySurface and the caller should skip rendering.
func Fit(imageW, imageH int, containerW, containerH float64) (Viewport, error) {
	if imageW <= 0 || imageH <= 0 {
		return Viewport{}, fmt.Errorf("%w: image is %dx%d", ErrEmptySurface, imageW, imageH)
	}
	if containerW <= 0 || containerH <= 0 {
		return Viewport{}, fmt.Errorf("%w: container is %gx%g", ErrEmptySurface, containerW, containerH)
	}

	imageAspect := float64(imageW) / float64(imageH)
	if containerW/containerH > imageAspect {
		return Viewport{
			Width:  math.Min(containerH*imageAspect, containerW),
			Height: containerH,
		}, nil
	}
	return Viewport{
		Width:  containerW,
		Height: math.Min(containerW/imageAspect, containerH),
	}, nil
}

// ToSource maps a viewport rectangle into source pixel space.
//
// The near edges are floored and the far edges rounded to the nearest pixel,
// so the far edge stays within one pixel of the exact scaled edge and
// Min + size always equals Max. The result is clipped to the image.
func ToSource(r Rect, imageW, imageH int, v Viewport) image.Rectangle {
	if v.Empty() || imageW <= 0 || imageH <= 0 {
		return image.Rectangle{}
	}
	sx := float64(imageW) / v.Width
	sy := float64(imageH) / v.Height

	x0 := int(math.Floor(r.X*sx + snapEpsilon))
	y0 := int(math.Floor(r.Y*sy + snapEpsilon))
	x1 := int(math.Round((r.X + r.Width) * sx))
	y1 := int(math.Round((r.Y + r.Height) * sy))

	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, imageW, imageH))
}

// ToViewport maps a source pixel rectangle back into viewport space.
func ToViewport(r image.Rectangle, imageW, imageH int, v Viewport) Rect {
	if imageW <= 0 || imageH <= 0 {
		return Rect{}
	}
	fx := v.Width / float64(imageW)
	fy := v.Height / float64(imageH)
	return Rect{
		X:      float64(r.Min.X) * fx,
		Y:      float64(r.Min.Y) * fy,
		Width:  float64(r.Dx()) * fx,
		Height: float64(r.Dy()) * fy,
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
