package skin

import "math"

// HistogramBins is the number of bins of a chroma-channel histogram.
const HistogramBins = 256

// Normalize turns raw bin counts into a probability distribution. A zero-sum
// input (empty mask) yields all-zero bins rather than NaNs.
func Normalize(counts []float32) []float64 {
	p := make([]float64, len(counts))
	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	if sum == 0 {
		return p
	}
	for i, c := range counts {
		p[i] = float64(c) / sum
	}
	return p
}

// EntropyBits computes Shannon entropy in bits over the nonzero bins.
func EntropyBits(p []float64) float64 {
	var h float64
	for _, v := range p {
		if v > 0 {
			h -= v * math.Log2(v)
		}
	}
	return h
}

// Concentration maps a histogram to [0,1]: 1 for a distribution collapsed
// into a single bin, 0 for a perfectly uniform one. An all-zero histogram
// (empty mask) is defined as concentration 0.
func Concentration(p []float64) float64 {
	var nonzero bool
	for _, v := range p {
		if v > 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		return 0
	}

	c := 1.0 - EntropyBits(p)/math.Log2(float64(len(p)))
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
