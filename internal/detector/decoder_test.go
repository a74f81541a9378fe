package detector

import (
	"testing"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fault"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/geometry"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/inference"
)

// makeOutput packs predictions into the attribute-major tensor layout.
// Each row is [cx, cy, w, h, conf0..conf4].
func makeOutput(rows [][]float32) *inference.Output {
	preds := len(rows)
	attrs := len(rows[0])
	data := make([]float32, attrs*preds)
	for i, row := range rows {
		for a, v := range row {
			data[a*preds+i] = v
		}
	}
	return &inference.Output{Data: data, Attrs: attrs, Preds: preds}
}

func identityTransform(t *testing.T) geometry.Transform {
	t.Helper()
	tr, err := geometry.NewTransform(640, 640, 640, geometry.Letterbox)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}
	return tr
}

func TestDecodeSinglePrediction(t *testing.T) {
	// One prediction: box (100,100,200,200), class 2 at 0.9, rest below floor
	out := makeOutput([][]float32{
		{150, 150, 100, 100, 0.1, 0.2, 0.9, 0.0, 0.3},
	})

	cands, err := Decode(out, identityTransform(t), 0.5)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}

	c := cands[0]
	if c.ClassID != 2 || c.ClassName != "EXPOSED_BUTTOCKS" {
		t.Errorf("wrong class: %d %s", c.ClassID, c.ClassName)
	}
	if c.Confidence != 0.9 {
		t.Errorf("wrong confidence: %f", c.Confidence)
	}
	want := geometry.Box{X1: 100, Y1: 100, X2: 200, Y2: 200}
	if c.Box != want {
		t.Errorf("wrong box: %+v, want %+v", c.Box, want)
	}
}

func TestDecodeMultiLabelFanOut(t *testing.T) {
	// Two classes clear the floor on the same prediction: both are emitted
	out := makeOutput([][]float32{
		{320, 320, 100, 100, 0.8, 0.1, 0.0, 0.7, 0.2},
	})

	cands, err := Decode(out, identityTransform(t), 0.5)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates from one prediction, got %d", len(cands))
	}
	if cands[0].ClassID != 0 || cands[1].ClassID != 3 {
		t.Errorf("wrong classes: %d, %d", cands[0].ClassID, cands[1].ClassID)
	}
	if cands[0].Box != cands[1].Box {
		t.Errorf("fan-out candidates must share the box")
	}
}

func TestDecodeConfidenceFloor(t *testing.T) {
	out := makeOutput([][]float32{
		{100, 100, 50, 50, 0.49, 0.5, 0.51, 0.1, 0.0},
		{300, 300, 50, 50, 0.2, 0.3, 0.1, 0.05, 0.45},
	})

	for _, floor := range []float32{0.1, 0.3, 0.5, 0.9} {
		cands, err := Decode(out, identityTransform(t), floor)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		for _, c := range cands {
			if c.Confidence < floor {
				t.Errorf("floor %f: emitted confidence %f", floor, c.Confidence)
			}
		}
	}

	// Floor is inclusive: exactly 0.5 survives
	cands, _ := Decode(out, identityTransform(t), 0.5)
	if len(cands) != 2 {
		t.Errorf("expected 2 candidates at floor 0.5 (inclusive), got %d", len(cands))
	}
}

func TestDecodeLetterboxedImage(t *testing.T) {
	// 640x480 source letterboxed onto 640: scale 1.0, 80px vertical padding.
	// A canvas box at y 180..280 lands at y 100..200 in the original.
	tr, err := geometry.NewTransform(640, 480, 640, geometry.Letterbox)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	out := makeOutput([][]float32{
		{150, 230, 100, 100, 0.0, 0.0, 0.9, 0.0, 0.0},
	})

	cands, err := Decode(out, tr, 0.5)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	want := geometry.Box{X1: 100, Y1: 100, X2: 200, Y2: 200}
	if cands[0].Box != want {
		t.Errorf("wrong box after inverse letterbox: %+v, want %+v", cands[0].Box, want)
	}
}

func TestDecodeSchemaMismatch(t *testing.T) {
	out := &inference.Output{Data: make([]float32, 8), Attrs: 8, Preds: 1}

	_, err := Decode(out, identityTransform(t), 0.5)
	if err == nil {
		t.Fatal("expected error for 8-attribute tensor")
	}
	if !fault.Is(err, fault.SchemaMismatch) {
		t.Errorf("expected SchemaMismatch, got %v", err)
	}
}
