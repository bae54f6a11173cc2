package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains the cropped region encoded as PNG
type CropResult struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Bounds      image.Rectangle `json:"bounds"`
	ImageBase64 string          `json:"image_base64"`
	MimeType    string          `json:"mime_type"`
	Data        []byte          `json:"-"`
}

// Crop renders a source-space region of img into a new surface of the same
// size and returns it PNG encoded. The region is relative to the image's
// top-left corner, not to img.Bounds().Min.
func Crop(img image.Image, region image.Rectangle) (*CropResult, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if region.Min.X < 0 || region.Min.Y < 0 || region.Max.X > w || region.Max.Y > h {
		return nil, fmt.Errorf("crop region %v outside image bounds (0,0)-(%d,%d)", region, w, h)
	}
	if region.Empty() {
		return nil, fmt.Errorf("%w: crop region %v is empty", ErrEncodingFailure, region)
	}

	cropped := imaging.Crop(img, region.Add(bounds.Min))

	data, err := EncodePNG(cropped)
	if err != nil {
		return nil, err
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		Bounds:      region,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
		Data:        data,
	}, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: nothing to encode", ErrEncodingFailure)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: failed to encode png: %v", ErrEncodingFailure, err)
	}
	return buf.Bytes(), nil
}
