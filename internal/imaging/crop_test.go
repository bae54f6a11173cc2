package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, image.Rect(0, 0, 50, 50))
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}

	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	if !bytes.Equal(decoded, result.Data) {
		t.Error("ImageBase64 and Data disagree")
	}
}

func TestCrop_VerifyContent(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name    string
		region  image.Rectangle
		wantHex string
	}{
		{"top-left", image.Rect(0, 0, 50, 50), "#FF0000"},
		{"top-right", image.Rect(50, 0, 100, 50), "#00FF00"},
		{"bottom-left", image.Rect(0, 50, 50, 100), "#0000FF"},
		{"bottom-right", image.Rect(50, 50, 100, 100), "#FFFFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Crop(img, tt.region)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}

			croppedImg, err := png.Decode(bytes.NewReader(result.Data))
			if err != nil {
				t.Fatalf("failed to decode PNG: %v", err)
			}

			if got := HexString(croppedImg.At(result.Width/2, result.Height/2)); got != tt.wantHex {
				t.Errorf("color: got %s, want %s", got, tt.wantHex)
			}
		})
	}
}

func TestCrop_OffsetBounds(t *testing.T) {
	// Screen captures spanning several displays can start at negative coordinates
	base := createPatternImage(100, 100)
	shifted := base.SubImage(image.Rect(50, 0, 100, 50)).(*image.RGBA)

	result, err := Crop(shifted, image.Rect(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	croppedImg, _ := png.Decode(bytes.NewReader(result.Data))
	if got := HexString(croppedImg.At(5, 5)); got != "#00FF00" {
		t.Errorf("color: got %s, want #00FF00", got)
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name   string
		region image.Rectangle
	}{
		{"x1 negative", image.Rectangle{Min: image.Pt(-1, 0), Max: image.Pt(50, 50)}},
		{"y1 negative", image.Rectangle{Min: image.Pt(0, -1), Max: image.Pt(50, 50)}},
		{"x2 too large", image.Rect(0, 0, 101, 50)},
		{"y2 too large", image.Rect(0, 0, 50, 101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.region); err == nil {
				t.Error("Crop should fail for out-of-bounds coordinates")
			}
		})
	}
}

func TestCrop_EmptyRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	_, err := Crop(img, image.Rect(50, 50, 50, 80))
	if !errors.Is(err, ErrEncodingFailure) {
		t.Errorf("Crop of empty region: got %v, want ErrEncodingFailure", err)
	}
}

func TestEncodePNG_Empty(t *testing.T) {
	_, err := EncodePNG(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if !errors.Is(err, ErrEncodingFailure) {
		t.Errorf("EncodePNG of empty image: got %v, want ErrEncodingFailure", err)
	}
}
