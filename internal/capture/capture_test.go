package capture

import (
	"image"
	"testing"
)

func TestCaptureBounds(t *testing.T) {
	displays := []image.Rectangle{
		image.Rect(0, 0, 1920, 1080),
		image.Rect(-1280, 0, 0, 1024),
	}

	tests := []struct {
		name    string
		display int
		want    image.Rectangle
		wantErr bool
	}{
		{"primary", 0, image.Rect(0, 0, 1920, 1080), false},
		{"secondary left of primary", 1, image.Rect(-1280, 0, 0, 1024), false},
		{"all displays", AllDisplays, image.Rect(-1280, 0, 1920, 1080), false},
		{"out of range", 2, image.Rectangle{}, true},
		{"negative", -2, image.Rectangle{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := captureBounds(displays, tt.display)
			if tt.wantErr {
				if err == nil {
					t.Error("captureBounds should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("captureBounds failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("bounds: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapture(t *testing.T) {
	if len(Displays()) == 0 {
		t.Skip("no display available")
	}

	img, err := Capture(0)
	if err != nil {
		t.Skipf("screen capture not permitted here: %v", err)
	}
	if img.Bounds().Empty() {
		t.Error("captured image is empty")
	}
}
