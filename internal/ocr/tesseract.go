package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/screen-speak-mcp/internal/imaging"
)

// DefaultLanguage is used when no language is given.
const DefaultLanguage = "eng"

// ErrNoImage is returned when there is no image data to read.
var ErrNoImage = errors.New("no image data")

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Offset shifts the box by dx, dy.
func (b Bounds) Offset(dx, dy int) Bounds {
	return Bounds{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}

// TextRegion is a recognized word with its location and confidence.
type TextRegion struct {
	// Text is the recognized word.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around the word.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the text recognized in an image.
type OCRResult struct {
	// FullText is all recognized text with its original line breaks, trimmed.
	FullText string `json:"full_text"`

	// Language is the Tesseract language that was used.
	Language string `json:"language"`

	// Regions lists the individual words. It may be empty when bounding
	// boxes are unavailable; FullText is still set.
	Regions []TextRegion `json:"regions"`
}

// Recognize runs OCR on encoded image data (PNG, JPEG, ...).
//
// Word bounds are relative to the image. Empty words are dropped.
func Recognize(data []byte, language string) (*OCRResult, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	if language == "" {
		language = DefaultLanguage
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &OCRResult{
		FullText: strings.TrimSpace(text),
		Language: language,
		Regions:  []TextRegion{},
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		result.Regions = append(result.Regions, TextRegion{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return result, nil
}

// RecognizeCrop runs OCR on a confirmed region and reports word bounds in
// the coordinates of the source image the region was cut from.
func RecognizeCrop(crop *imaging.CropResult, language string) (*OCRResult, error) {
	if crop == nil {
		return nil, ErrNoImage
	}

	result, err := Recognize(crop.Data, language)
	if err != nil {
		return nil, err
	}
	offsetRegions(result, crop.Bounds.Min.X, crop.Bounds.Min.Y)
	return result, nil
}

func offsetRegions(result *OCRResult, dx, dy int) {
	for i := range result.Regions {
		result.Regions[i].Bounds = result.Regions[i].Bounds.Offset(dx, dy)
	}
}
