package imaging

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		imgW, imgH   int
		contW, contH float64
		wantW, wantH float64
	}{
		{"wide container, height binds", 1000, 500, 1200, 300, 600, 300},
		{"tall container, width binds", 1000, 500, 400, 800, 400, 200},
		{"same aspect", 1920, 1080, 960, 540, 960, 540},
		{"square image in wide container", 100, 100, 300, 200, 200, 200},
		{"upscale small image", 10, 20, 100, 100, 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Fit(tt.imgW, tt.imgH, tt.contW, tt.contH)
			if err != nil {
				t.Fatalf("Fit failed: %v", err)
			}
			if math.Abs(v.Width-tt.wantW) > 1e-9 || math.Abs(v.Height-tt.wantH) > 1e-9 {
				t.Errorf("Fit: got %gx%g, want %gx%g", v.Width, v.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFit_EmptySurface(t *testing.T) {
	tests := []struct {
		name         string
		imgW, imgH   int
		contW, contH float64
	}{
		{"zero container width", 100, 100, 0, 100},
		{"zero container height", 100, 100, 100, 0},
		{"negative container", 100, 100, -5, 100},
		{"zero image", 0, 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.imgW, tt.imgH, tt.contW, tt.contH)
			if !errors.Is(err, ErrEmptySurface) {
				t.Errorf("Fit: got err %v, want ErrEmptySurface", err)
			}
		})
	}
}

func TestFit_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		w := 1 + rng.Intn(5000)
		h := 1 + rng.Intn(5000)
		cw := 1 + rng.Float64()*3000
		ch := 1 + rng.Float64()*3000

		v, err := Fit(w, h, cw, ch)
		if err != nil {
			t.Fatalf("Fit(%d,%d,%g,%g) failed: %v", w, h, cw, ch, err)
		}
		if v.Width <= 0 || v.Height <= 0 {
			t.Fatalf("Fit(%d,%d,%g,%g) produced empty viewport %gx%g", w, h, cw, ch, v.Width, v.Height)
		}
		if v.Width > cw || v.Height > ch {
			t.Fatalf("Fit(%d,%d,%g,%g) = %gx%g exceeds container", w, h, cw, ch, v.Width, v.Height)
		}
		want := float64(w) / float64(h)
		got := v.Width / v.Height
		if math.Abs(got-want)/want > 1e-9 {
			t.Fatalf("Fit(%d,%d,%g,%g) aspect: got %g, want %g", w, h, cw, ch, got, want)
		}
	}
}

func TestToSource(t *testing.T) {
	v := Viewport{Width: 500, Height: 250}

	got := ToSource(Rect{X: 100, Y: 50, Width: 200, Height: 100}, 1000, 500, v)
	want := image.Rect(200, 100, 600, 300)
	if got != want {
		t.Errorf("ToSource: got %v, want %v", got, want)
	}
}

func TestToSource_Rounding(t *testing.T) {
	// sx = sy = 3
	v := Viewport{Width: 100, Height: 100}

	got := ToSource(Rect{X: 10.5, Y: 10.9, Width: 20.2, Height: 20.1}, 300, 300, v)
	// near edges floored: 31.5 -> 31, 32.7 -> 32
	// far edges rounded: 92.1 -> 92, 93.0 -> 93
	want := image.Rect(31, 32, 92, 93)
	if got != want {
		t.Errorf("ToSource: got %v, want %v", got, want)
	}
	if got.Min.X+got.Dx() != got.Max.X {
		t.Error("x + width must equal the far edge")
	}
}

func TestToSource_ClippedToImage(t *testing.T) {
	v := Viewport{Width: 100, Height: 100}

	got := ToSource(Rect{X: 90, Y: 90, Width: 20, Height: 20}, 100, 100, v)
	want := image.Rect(90, 90, 100, 100)
	if got != want {
		t.Errorf("ToSource: got %v, want %v", got, want)
	}
}

func TestToSource_EmptyViewport(t *testing.T) {
	got := ToSource(Rect{X: 1, Y: 1, Width: 10, Height: 10}, 100, 100, Viewport{})
	if !got.Empty() {
		t.Errorf("ToSource with empty viewport: got %v, want empty", got)
	}
}

func TestToSource_InverseWithinOnePixel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		imgW := 200 + rng.Intn(4000)
		imgH := 200 + rng.Intn(4000)
		v, err := Fit(imgW, imgH, 50+rng.Float64()*150, 50+rng.Float64()*150)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}

		x := rng.Float64() * v.Width
		y := rng.Float64() * v.Height
		r := Rect{
			X:      x,
			Y:      y,
			Width:  rng.Float64() * (v.Width - x),
			Height: rng.Float64() * (v.Height - y),
		}

		back := ToViewport(ToSource(r, imgW, imgH, v), imgW, imgH, v)

		// compare edges, width error is the sum of both edge errors
		if math.Abs(back.X-r.X) > 1 || math.Abs(back.Y-r.Y) > 1 ||
			math.Abs((back.X+back.Width)-(r.X+r.Width)) > 1 ||
			math.Abs((back.Y+back.Height)-(r.Y+r.Height)) > 1 {
			t.Fatalf("round trip of %+v in %dx%d/%gx%g drifted to %+v", r, imgW, imgH, v.Width, v.Height, back)
		}
	}
}

func TestToSource_StableAcrossRescale(t *testing.T) {
	const imgW, imgH = 1000, 500

	v1, _ := Fit(imgW, imgH, 500, 500)
	sel := Rect{X: 100, Y: 50, Width: 200, Height: 100}
	want := ToSource(sel, imgW, imgH, v1)

	for _, size := range [][2]float64{{777, 900}, {1000, 1000}, {333.3, 120}, {1920, 1080}} {
		v2, err := Fit(imgW, imgH, size[0], size[1])
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		rescaled := sel.Scale(v2.Width/v1.Width, v2.Height/v1.Height)
		if got := ToSource(rescaled, imgW, imgH, v2); got != want {
			t.Errorf("container %gx%g: got %v, want %v", size[0], size[1], got, want)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want Rect
	}{
		{"down-right", Point{10, 10}, Point{30, 40}, Rect{10, 10, 20, 30}},
		{"up-left", Point{30, 40}, Point{10, 10}, Rect{10, 10, 20, 30}},
		{"up-right", Point{10, 40}, Point{30, 10}, Rect{10, 10, 20, 30}},
		{"zero", Point{5, 5}, Point{5, 5}, Rect{5, 5, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundingBox(tt.a, tt.b); got != tt.want {
				t.Errorf("BoundingBox: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPointClamp(t *testing.T) {
	v := Viewport{Width: 100, Height: 50}

	tests := []struct {
		in, want Point
	}{
		{Point{-10, 20}, Point{0, 20}},
		{Point{120, 20}, Point{100, 20}},
		{Point{50, -1}, Point{50, 0}},
		{Point{50, 80}, Point{50, 50}},
		{Point{25, 25}, Point{25, 25}},
	}

	for _, tt := range tests {
		if got := tt.in.Clamp(v); got != tt.want {
			t.Errorf("Clamp(%+v): got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRectClamp(t *testing.T) {
	v := Viewport{Width: 100, Height: 100}

	got := Rect{X: 80, Y: -10, Width: 40, Height: 30}.Clamp(v)
	want := Rect{X: 80, Y: 0, Width: 20, Height: 20}
	if got != want {
		t.Errorf("Clamp: got %+v, want %+v", got, want)
	}
}

func TestViewportPixels(t *testing.T) {
	w, h := Viewport{Width: 533.33, Height: 0.4}.Pixels()
	if w != 533 || h != 1 {
		t.Errorf("Pixels: got %dx%d, want 533x1", w, h)
	}
}
