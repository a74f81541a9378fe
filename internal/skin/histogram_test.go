package skin

import (
	"math"
	"testing"
)

func TestNormalizeSumsToOne(t *testing.T) {
	counts := make([]float32, HistogramBins)
	counts[10] = 30
	counts[200] = 70

	p := Normalize(counts)
	var sum float64
	for _, v := range p {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("bins sum to %f, want 1.0", sum)
	}
	if math.Abs(p[10]-0.3) > 1e-6 || math.Abs(p[200]-0.7) > 1e-6 {
		t.Errorf("wrong bin values: %f, %f", p[10], p[200])
	}
}

func TestNormalizeEmptyMask(t *testing.T) {
	p := Normalize(make([]float32, HistogramBins))
	for i, v := range p {
		if v != 0 {
			t.Fatalf("bin %d = %f, want 0 for empty mask", i, v)
		}
	}
	if c := Concentration(p); c != 0 {
		t.Errorf("empty histogram concentration = %f, want 0", c)
	}
}

func TestConcentrationUniform(t *testing.T) {
	p := make([]float64, HistogramBins)
	for i := range p {
		p[i] = 1.0 / HistogramBins
	}
	if c := Concentration(p); math.Abs(c) > 1e-9 {
		t.Errorf("uniform distribution concentration = %f, want 0", c)
	}
}

func TestConcentrationSingleBin(t *testing.T) {
	p := make([]float64, HistogramBins)
	p[42] = 1.0
	if c := Concentration(p); math.Abs(c-1.0) > 1e-9 {
		t.Errorf("single-bin concentration = %f, want 1", c)
	}
}

func TestConcentrationMonotoneCollapse(t *testing.T) {
	// Concentration rises as mass collapses toward one bin
	prev := -1.0
	for _, share := range []float64{0.25, 0.5, 0.75, 0.95, 0.999} {
		p := make([]float64, HistogramBins)
		p[0] = share
		rest := (1 - share) / float64(HistogramBins-1)
		for i := 1; i < HistogramBins; i++ {
			p[i] = rest
		}
		c := Concentration(p)
		if c <= prev {
			t.Errorf("concentration not increasing: %f after %f (share %f)", c, prev, share)
		}
		prev = c
	}
}

func TestEntropyBits(t *testing.T) {
	// Two equal bins: exactly 1 bit
	p := make([]float64, HistogramBins)
	p[0] = 0.5
	p[1] = 0.5
	if h := EntropyBits(p); math.Abs(h-1.0) > 1e-9 {
		t.Errorf("entropy = %f bits, want 1", h)
	}
}
