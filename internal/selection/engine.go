package selection

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/screen-speak-mcp/internal/imaging"
)

// DefaultMinSize is the smallest selection width and height, in viewport
// pixels, that Confirm accepts.
const DefaultMinSize = 10

var (
	// ErrSelectionTooSmall is returned by Confirm when there is no selection
	// or it is below the minimum size. The engine state is not changed.
	ErrSelectionTooSmall = errors.New("selection too small")

	// ErrNoImage is returned when an operation needs a loaded source image.
	ErrNoImage = errors.New("no source image loaded")

	// ErrNotDragging is returned by Move when no gesture is in progress.
	ErrNotDragging = errors.New("no drag gesture in progress")
)

// Options configures an Engine.
type Options struct {
	// MinSize is the minimum selection width and height in viewport pixels.
	// Zero means DefaultMinSize.
	MinSize float64

	// Style controls the preview overlay. The zero value means
	// imaging.DefaultOverlayStyle.
	Style imaging.OverlayStyle

	// OnRedraw, if set, is called with every new preview frame. The frame
	// must not be modified.
	OnRedraw func(frame *image.RGBA)
}

// Engine tracks one source image and the selection drawn over it.
type Engine struct {
	opts Options

	img        image.Image
	containerW float64
	containerH float64
	viewport   imaging.Viewport

	state  State
	region *imaging.Rect

	// base is the dimmed image for the current viewport; frame is base with
	// the selection revealed.
	base  *image.RGBA
	frame *image.RGBA
}

// New creates an engine with no image loaded.
func New(opts Options) *Engine {
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultMinSize
	}
	if opts.Style == (imaging.OverlayStyle{}) {
		opts.Style = imaging.DefaultOverlayStyle()
	}
	return &Engine{
		opts:  opts,
		state: Idle{},
	}
}

// Load installs a new source image, dropping any previous image and
// selection. If a container size is already known the image is fitted and
// drawn immediately.
func (e *Engine) Load(img image.Image) error {
	if img == nil {
		return ErrNoImage
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("%w: image is %dx%d", imaging.ErrEmptySurface, img.Bounds().Dx(), img.Bounds().Dy())
	}

	e.img = img
	e.state = Idle{}
	e.region = nil
	e.viewport = imaging.Viewport{}
	e.base = nil
	e.frame = nil

	if e.containerW > 0 && e.containerH > 0 {
		return e.Resize(e.containerW, e.containerH)
	}
	return nil
}

// Resize refits the image into a container of the given size and redraws.
//
// The selection and any drag anchor are rescaled by the change in viewport
// size, so they cover the same source pixels as before. A container with no
// area returns imaging.ErrEmptySurface and leaves the last viewport and
// selection in place.
func (e *Engine) Resize(containerW, containerH float64) error {
	if e.img == nil {
		e.containerW, e.containerH = containerW, containerH
		return nil
	}

	b := e.img.Bounds()
	v, err := imaging.Fit(b.Dx(), b.Dy(), containerW, containerH)
	if err != nil {
		return err
	}
	e.containerW, e.containerH = containerW, containerH

	if old := e.viewport; !old.Empty() {
		fx, fy := v.Width/old.Width, v.Height/old.Height
		if e.region != nil {
			r := e.region.Scale(fx, fy)
			if !inside(r, v) {
				r = r.Clamp(v)
			}
			e.region = &r
		}
		if d, ok := e.state.(Dragging); ok {
			e.state = Dragging{Anchor: d.Anchor.Scale(fx, fy).Clamp(v)}
		}
	}

	base, err := imaging.DimmedFrame(e.img, v, e.opts.Style.DimAlpha)
	if err != nil {
		return err
	}
	e.viewport = v
	e.base = base
	e.redraw()
	return nil
}

// Start begins a drag gesture at p. The point is clamped to the viewport
// and the selection becomes a zero-size rectangle at it.
func (e *Engine) Start(p imaging.Point) error {
	if err := e.ready(); err != nil {
		return err
	}

	anchor := p.Clamp(e.viewport)
	e.state = Dragging{Anchor: anchor}
	e.region = &imaging.Rect{X: anchor.X, Y: anchor.Y}
	e.redraw()
	return nil
}

// Move updates the selection to the box between the anchor and p. p is
// clamped to the viewport first, since the pointer may leave the surface
// during a drag.
func (e *Engine) Move(p imaging.Point) error {
	d, ok := e.state.(Dragging)
	if !ok {
		return ErrNotDragging
	}

	r := imaging.BoundingBox(d.Anchor, p.Clamp(e.viewport))
	e.region = &r
	e.redraw()
	return nil
}

// End finishes the gesture. The selection is kept as the candidate for
// Confirm. Calling End while idle does nothing.
func (e *Engine) End() {
	e.state = Idle{}
}

// Confirm crops the selected source region and returns it PNG-encoded.
//
// The selection is mapped with the current viewport. A missing selection or
// one narrower or shorter than the minimum size returns
// ErrSelectionTooSmall without touching the engine state.
func (e *Engine) Confirm() (*imaging.CropResult, error) {
	if e.img == nil {
		return nil, ErrNoImage
	}
	if e.region == nil {
		return nil, fmt.Errorf("%w: nothing selected", ErrSelectionTooSmall)
	}
	if e.region.Width < e.opts.MinSize || e.region.Height < e.opts.MinSize {
		return nil, fmt.Errorf("%w: %.0fx%.0f, need at least %.0fx%.0f",
			ErrSelectionTooSmall, e.region.Width, e.region.Height, e.opts.MinSize, e.opts.MinSize)
	}

	src, ok := e.SourceRegion()
	if !ok || src.Empty() {
		return nil, fmt.Errorf("%w: selection maps to an empty source region", imaging.ErrEncodingFailure)
	}
	return imaging.Crop(e.img, src)
}

// Cancel discards the selection and the source image. The container size is
// kept so the next Load is drawn straight away.
func (e *Engine) Cancel() {
	e.img = nil
	e.state = Idle{}
	e.region = nil
	e.viewport = imaging.Viewport{}
	e.base = nil
	e.frame = nil
}

// State returns the current gesture state.
func (e *Engine) State() State {
	return e.state
}

// Image returns the loaded source image, or nil.
func (e *Engine) Image() image.Image {
	return e.img
}

// Viewport returns the fitted viewport. It is empty until both an image and
// a container size are known.
func (e *Engine) Viewport() imaging.Viewport {
	return e.viewport
}

// Region returns the current selection in viewport coordinates.
func (e *Engine) Region() (imaging.Rect, bool) {
	if e.region == nil {
		return imaging.Rect{}, false
	}
	return *e.region, true
}

// SourceRegion returns the current selection in source pixel coordinates,
// recomputed from the selection and the current viewport.
func (e *Engine) SourceRegion() (image.Rectangle, bool) {
	if e.img == nil || e.region == nil || e.viewport.Empty() {
		return image.Rectangle{}, false
	}
	b := e.img.Bounds()
	return imaging.ToSource(*e.region, b.Dx(), b.Dy(), e.viewport), true
}

// HasSelection reports whether there is a candidate selection large enough
// to confirm.
func (e *Engine) HasSelection() bool {
	return e.img != nil && e.region != nil &&
		e.region.Width >= e.opts.MinSize && e.region.Height >= e.opts.MinSize
}

// Render returns a copy of the current preview frame.
func (e *Engine) Render() (*image.RGBA, error) {
	if e.img == nil {
		return nil, ErrNoImage
	}
	if e.frame == nil {
		return nil, fmt.Errorf("%w: no viewport, resize first", imaging.ErrEncodingFailure)
	}
	return imaging.CloneFrame(e.frame), nil
}

// Preview returns the current preview frame encoded as PNG.
func (e *Engine) Preview() ([]byte, error) {
	frame, err := e.Render()
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(frame)
}

func (e *Engine) ready() error {
	if e.img == nil {
		return ErrNoImage
	}
	if e.viewport.Empty() {
		return fmt.Errorf("%w: no viewport, resize first", imaging.ErrEmptySurface)
	}
	return nil
}

// redraw repaints the preview from the dimmed base and the last known
// selection.
func (e *Engine) redraw() {
	if e.base == nil {
		return
	}
	frame := imaging.CloneFrame(e.base)
	if e.region != nil {
		imaging.RevealSelection(frame, e.img, e.viewport, *e.region, e.opts.Style)
	}
	e.frame = frame
	if e.opts.OnRedraw != nil {
		e.opts.OnRedraw(frame)
	}
}

func inside(r imaging.Rect, v imaging.Viewport) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= v.Width && r.Y+r.Height <= v.Height
}
