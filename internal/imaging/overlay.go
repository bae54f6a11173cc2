package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// OverlayStyle controls how the selection preview is composited.
type OverlayStyle struct {
	// DimAlpha is the opacity of the black layer over the unselected area (0-1).
	DimAlpha float64

	// BorderColor is the stroke drawn around the selection.
	BorderColor color.RGBA

	// BorderWidth is the stroke width in viewport pixels. Zero disables it.
	BorderWidth int
}

// DefaultOverlayStyle returns a half-transparent dim with a 2px blue border.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		DimAlpha:    0.5,
		BorderColor: color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
		BorderWidth: 2,
	}
}

// DimmedFrame scales img into the viewport raster and darkens the whole frame
// as if a black layer of the given opacity were composited over it.
func DimmedFrame(img image.Image, v Viewport, alpha float64) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: no image to render", ErrEncodingFailure)
	}
	if v.Empty() {
		return nil, fmt.Errorf("%w: viewport is %gx%g", ErrEncodingFailure, v.Width, v.Height)
	}

	w, h := v.Pixels()
	scaled := imaging.Resize(img, w, h, imaging.Linear)
	return adjust.Brightness(scaled, -clampFloat(alpha, 0, 1)), nil
}

// RevealSelection repaints the selected area of frame from the source image at
// full brightness and strokes its border. frame must be the raster of v.
func RevealSelection(frame *image.RGBA, img image.Image, v Viewport, sel Rect, style OverlayStyle) {
	sel = sel.Clamp(v)
	if sel.Empty() {
		return
	}

	dst := sel.PixelBounds().Intersect(frame.Bounds())
	bounds := img.Bounds()
	src := ToSource(sel, bounds.Dx(), bounds.Dy(), v).Add(bounds.Min)
	if !dst.Empty() && !src.Empty() {
		xdraw.ApproxBiLinear.Scale(frame, dst, img, src, draw.Src, nil)
	}

	strokeRect(frame, sel.PixelBounds(), style.BorderColor, style.BorderWidth)
}

// RenderSelection produces a full preview frame: the dimmed image with the
// selection (if any) restored and outlined.
func RenderSelection(img image.Image, v Viewport, sel *Rect, style OverlayStyle) (*image.RGBA, error) {
	frame, err := DimmedFrame(img, v, style.DimAlpha)
	if err != nil {
		return nil, err
	}
	if sel != nil {
		RevealSelection(frame, img, v, *sel, style)
	}
	return frame, nil
}

// CloneFrame returns a copy of an RGBA frame.
func CloneFrame(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// strokeRect draws a band of the given width centred on the edges of r,
// clipped to the image.
func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA, width int) {
	if width <= 0 {
		return
	}
	outer := r.Inset(-width / 2)
	inner := outer.Inset(width)
	bounds := img.Bounds()

	for y := outer.Min.Y; y < outer.Max.Y; y++ {
		for x := outer.Min.X; x < outer.Max.X; x++ {
			if image.Pt(x, y).In(inner) {
				continue
			}
			if image.Pt(x, y).In(bounds) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
