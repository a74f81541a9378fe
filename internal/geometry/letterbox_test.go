package geometry

import (
	"math"
	"testing"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fault"
)

func TestLetterboxRoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		box           Box
	}{
		{"landscape", 640, 480, Box{100, 100, 200, 200}},
		{"portrait", 480, 800, Box{50, 300, 120, 450}},
		{"square", 640, 640, Box{0, 0, 640, 640}},
		{"tiny", 33, 17, Box{1, 1, 30, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransform(tt.width, tt.height, 640, Letterbox)
			if err != nil {
				t.Fatalf("NewTransform failed: %v", err)
			}

			got := tr.ToOriginal(tr.ToCanvas(tt.box))
			checkClose(t, "X1", got.X1, tt.box.X1)
			checkClose(t, "Y1", got.Y1, tt.box.Y1)
			checkClose(t, "X2", got.X2, tt.box.X2)
			checkClose(t, "Y2", got.Y2, tt.box.Y2)
		})
	}
}

func TestStretchRoundTrip(t *testing.T) {
	tr, err := NewTransform(320, 800, 640, Stretch)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	if px, py := tr.Padding(); px != 0 || py != 0 {
		t.Errorf("stretch mode must not pad, got (%f, %f)", px, py)
	}

	box := Box{10, 20, 200, 700}
	got := tr.ToOriginal(tr.ToCanvas(box))
	checkClose(t, "X1", got.X1, box.X1)
	checkClose(t, "Y1", got.Y1, box.Y1)
	checkClose(t, "X2", got.X2, box.X2)
	checkClose(t, "Y2", got.Y2, box.Y2)
}

func TestLetterboxPadding(t *testing.T) {
	// 640x480 onto 640: scale 1.0, 80px bands top and bottom
	tr, err := NewTransform(640, 480, 640, Letterbox)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}
	if tr.Scale() != 1.0 {
		t.Errorf("expected scale 1.0, got %f", tr.Scale())
	}
	px, py := tr.Padding()
	if px != 0 || py != 80 {
		t.Errorf("expected padding (0, 80), got (%f, %f)", px, py)
	}
}

func TestToOriginalClamps(t *testing.T) {
	tr, err := NewTransform(640, 480, 640, Letterbox)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	// Box reaching into the padding bands must clamp to the image
	got := tr.ToOriginal(Box{-50, 0, 700, 640})
	if got.X1 != 0 || got.Y1 != 0 || got.X2 != 640 || got.Y2 != 480 {
		t.Errorf("expected clamp to image bounds, got %+v", got)
	}
}

func TestZeroAreaRejected(t *testing.T) {
	for _, dims := range [][2]int{{0, 480}, {640, 0}, {0, 0}, {-1, 10}} {
		_, err := NewTransform(dims[0], dims[1], 640, Letterbox)
		if err == nil {
			t.Errorf("expected error for %dx%d", dims[0], dims[1])
			continue
		}
		if !fault.Is(err, fault.InvalidImageGeometry) {
			t.Errorf("expected InvalidImageGeometry, got %v", err)
		}
	}
}

func checkClose(t *testing.T, name string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > 1.0 {
		t.Errorf("%s: got %f, want %f (off by more than a pixel)", name, got, want)
	}
}
