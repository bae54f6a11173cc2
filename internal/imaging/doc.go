// Package imaging provides the image side of region selection: fitting a source
// image into a presentation viewport, mapping rectangles between viewport and
// source pixel space, cropping, and compositing the selection preview.
//
// # Coordinate Spaces
//
// Two coordinate spaces are used throughout this package:
//   - Source space: integer pixels of the decoded image, origin (0,0) at the
//     top-left, X rightward, Y downward. Regions are image.Rectangle values
//     with inclusive Min and exclusive Max.
//   - Viewport space: float64 units of the letterboxed, aspect-preserving
//     rectangle the image is rendered into. Selections are Rect values
//     (X, Y, Width, Height) in this space.
//
// The scale factors between them are sx = imageWidth / Viewport.Width and
// sy = imageHeight / Viewport.Height.
//
// # Rounding
//
// ToSource floors the near edge and rounds the far edge to the nearest pixel,
// then derives width and height from the two edges. Edges within 1e-6 of an
// integer snap to it so that a selection rescaled after a viewport change maps
// to the same source rectangle.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless; the images passed to them must not be mutated concurrently.
//
// # Error Handling
//
// ErrEmptySurface is returned when a viewport cannot be fitted (zero-sized
// image or container). ErrEncodingFailure is returned when a surface cannot be
// rendered or encoded. Both are sentinel values for use with errors.Is.
package imaging
