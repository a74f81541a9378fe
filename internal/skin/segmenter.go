// Package skin scores skin-toned pixel regions in YCrCb space: two chroma
// masks, per-channel histograms restricted to the narrow mask, and an
// entropy-based concentration score.
package skin

import (
	"image"
	"time"

	"gocv.io/x/gocv"
)

// ChromaRange is an inclusive YCrCb band (Y, Cr, Cb order, 0-255).
type ChromaRange struct {
	Low  [3]float64 `yaml:"low"`
	High [3]float64 `yaml:"high"`
}

// Record is the immutable result of one skin analysis. Ratios and
// concentrations are fractions in [0,1].
type Record struct {
	TotalSkinRatio    float64 `yaml:"skin_ratio"`
	ExtendedSkinRatio float64 `yaml:"skin_ratio_extended"`
	CrConcentration   float64 `yaml:"cr_concentration"`
	CbConcentration   float64 `yaml:"cb_concentration"`
	CrMean            float64 `yaml:"cr_mean"`
	CbMean            float64 `yaml:"cb_mean"`

	Threshold25 bool     `yaml:"threshold_25"`
	Threshold40 bool     `yaml:"threshold_40"`
	Judgment    Judgment `yaml:"judgment"`

	TotalPixels    int `yaml:"total_pixels"`
	SkinPixels     int `yaml:"skin_pixels"`
	ExtendedPixels int `yaml:"extended_pixels"`

	// Kept for audit/display; not exported to the report.
	CrHistogram []float64 `yaml:"-"`
	CbHistogram []float64 `yaml:"-"`

	ProcessingMs int64 `yaml:"processing_ms"`
}

// Analyzer holds the configured chroma bands and cut lines. Stateless across
// calls; safe for concurrent use.
type Analyzer struct {
	Narrow   ChromaRange
	Extended ChromaRange
	PassLow  float64 // fraction of image area, default 0.25
	PassHigh float64 // default 0.40
}

// DefaultNarrow is the hand-tuned skin band in YCrCb.
func DefaultNarrow() ChromaRange {
	return ChromaRange{Low: [3]float64{0, 133, 77}, High: [3]float64{255, 173, 127}}
}

// DefaultExtended is the looser band used for the secondary ratio.
func DefaultExtended() ChromaRange {
	return ChromaRange{Low: [3]float64{0, 120, 70}, High: [3]float64{255, 180, 135}}
}

// Analyze segments and scores one BGR image. A zero-pixel image yields a
// zero record rather than an error.
func (a *Analyzer) Analyze(img gocv.Mat) (*Record, error) {
	start := time.Now()

	rec := &Record{
		Judgment:    JudgmentNone,
		CrHistogram: make([]float64, HistogramBins),
		CbHistogram: make([]float64, HistogramBins),
	}
	total := img.Total()
	if img.Empty() || total == 0 {
		rec.ProcessingMs = time.Since(start).Milliseconds()
		return rec, nil
	}
	rec.TotalPixels = total

	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	gocv.CvtColor(img, &ycrcb, gocv.ColorBGRToYCrCb)

	mask := a.narrowMask(ycrcb)
	defer mask.Close()
	maskExt := a.extendedMask(ycrcb)
	defer maskExt.Close()

	rec.SkinPixels = gocv.CountNonZero(mask)
	rec.ExtendedPixels = gocv.CountNonZero(maskExt)
	rec.TotalSkinRatio = float64(rec.SkinPixels) / float64(total)
	rec.ExtendedSkinRatio = float64(rec.ExtendedPixels) / float64(total)

	channels := gocv.Split(ycrcb)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()
	cr := channels[1]
	cb := channels[2]

	rec.CrHistogram = maskedHistogram(cr, mask)
	rec.CbHistogram = maskedHistogram(cb, mask)
	rec.CrConcentration = Concentration(rec.CrHistogram)
	rec.CbConcentration = Concentration(rec.CbHistogram)

	if rec.SkinPixels > 0 {
		rec.CrMean = cr.MeanWithMask(mask).Val1 / 255.0
		rec.CbMean = cb.MeanWithMask(mask).Val1 / 255.0
	}

	rec.Threshold25 = rec.TotalSkinRatio >= a.PassLow
	rec.Threshold40 = rec.TotalSkinRatio >= a.PassHigh
	rec.Judgment = Judge(rec.TotalSkinRatio, rec.CrConcentration, rec.CbConcentration,
		a.PassLow, a.PassHigh)

	rec.ProcessingMs = time.Since(start).Milliseconds()
	return rec, nil
}

// narrowMask thresholds the tight band, then opens and closes with a small
// ellipse to drop speckle and fill pinholes.
func (a *Analyzer) narrowMask(ycrcb gocv.Mat) gocv.Mat {
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(ycrcb,
		scalar(a.Narrow.Low), scalar(a.Narrow.High), &mask)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(3, 3))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	return mask
}

// extendedMask thresholds the loose band; opening only, the wide band is
// already permissive.
func (a *Analyzer) extendedMask(ycrcb gocv.Mat) gocv.Mat {
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(ycrcb,
		scalar(a.Extended.Low), scalar(a.Extended.High), &mask)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(5, 5))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	return mask
}

// maskedHistogram builds the 256-bin probability distribution of one channel
// over the pixels the mask selects.
func maskedHistogram(channel, mask gocv.Mat) []float64 {
	hist := gocv.NewMat()
	defer hist.Close()
	gocv.CalcHist([]gocv.Mat{channel}, []int{0}, mask, &hist,
		[]int{HistogramBins}, []float64{0, 256}, false)

	counts := make([]float32, HistogramBins)
	for i := 0; i < HistogramBins; i++ {
		counts[i] = hist.GetFloatAt(i, 0)
	}
	return Normalize(counts)
}

func scalar(v [3]float64) gocv.Scalar {
	return gocv.NewScalar(v[0], v[1], v[2], 0)
}
