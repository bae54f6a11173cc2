package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates a solid-color image in memory for testing
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.RGBA
	}{
		{"#3b82f6", color.RGBA{0x3b, 0x82, 0xf6, 0xff}},
		{"3b82f6", color.RGBA{0x3b, 0x82, 0xf6, 0xff}},
		{"#FF0000", color.RGBA{255, 0, 0, 255}},
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"#FF0000FF", color.RGBA{255, 0, 0, 255}},
		{"#FF000000", color.RGBA{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if err != nil {
				t.Fatalf("ParseHexColor(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHexColor_Invalid(t *testing.T) {
	invalid := []string{"", "#", "#GG0000", "#12345", "blue", "#FF0000ZZ"}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseHexColor(input); err == nil {
				t.Errorf("ParseHexColor(%q) should fail", input)
			}
		})
	}
}

func TestHexString(t *testing.T) {
	if got := HexString(color.RGBA{0x3b, 0x82, 0xf6, 0xff}); got != "#3B82F6" {
		t.Errorf("HexString: got %s, want #3B82F6", got)
	}
}
