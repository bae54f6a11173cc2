// Package capture grabs the screen as a source image for region selection.
package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// AllDisplays selects the union of every active display.
const AllDisplays = -1

// ErrNoDisplay is returned when there is nothing to capture.
var ErrNoDisplay = errors.New("no active displays found")

// Displays returns the bounds of every active display in virtual screen
// coordinates.
func Displays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}

// Capture grabs one display, or all of them when display is AllDisplays.
func Capture(display int) (*image.RGBA, error) {
	displays := Displays()
	if len(displays) == 0 {
		return nil, ErrNoDisplay
	}

	bounds, err := captureBounds(displays, display)
	if err != nil {
		return nil, err
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	return img, nil
}

// captureBounds picks the rectangle to grab from the display list.
func captureBounds(displays []image.Rectangle, display int) (image.Rectangle, error) {
	if display == AllDisplays {
		union := displays[0]
		for _, b := range displays[1:] {
			union = union.Union(b)
		}
		return union, nil
	}
	if display < 0 || display >= len(displays) {
		return image.Rectangle{}, fmt.Errorf("display %d out of range: %d active", display, len(displays))
	}
	return displays[display], nil
}
