package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/config"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/detector"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fusion"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/geometry"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/imaging"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/inference"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/skin"
)

// Analyzer produces one analysis record per image. The batch runner only
// depends on this seam, so tests can substitute a stub.
type Analyzer interface {
	Analyze(ctx context.Context, name string, data []byte) (*Result, error)
}

// ImageAnalyzer is the production pipeline: decode, then the detection path
// and the skin path concurrently, then fusion. Stateless apart from the
// engine handle, which serializes itself.
type ImageAnalyzer struct {
	Detector *detector.Detector
	Skin     *skin.Analyzer
	Weights  fusion.Weights

	canvasSize int
	scaleMode  geometry.Mode
}

// NewImageAnalyzer wires the pipeline from the flat config and an engine
// handle.
func NewImageAnalyzer(cfg *config.Config, eng inference.Engine) *ImageAnalyzer {
	mode := geometry.Letterbox
	if cfg.ScaleMode == "stretch" {
		mode = geometry.Stretch
	}
	return &ImageAnalyzer{
		Detector: &detector.Detector{
			Engine:        eng,
			ConfidenceMin: float32(cfg.ConfidenceMin),
			IoUThreshold:  float32(cfg.IoUThreshold),
			CanvasSize:    cfg.CanvasSize,
			ScaleMode:     mode,
		},
		Skin: &skin.Analyzer{
			Narrow:   cfg.NarrowRange,
			Extended: cfg.ExtendedRange,
			PassLow:  cfg.PassLow,
			PassHigh: cfg.PassHigh,
		},
		Weights:    cfg.Fusion,
		canvasSize: cfg.CanvasSize,
		scaleMode:  mode,
	}
}

// Analyze runs the full pipeline for one image. Both signal paths read
// independent buffers (the canvas and the source Mat), so they run in
// parallel; fusion waits for both.
func (a *ImageAnalyzer) Analyze(ctx context.Context, name string, data []byte) (*Result, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	width := img.Cols()
	height := img.Rows()

	canvas, err := imaging.Canvas(img, a.canvasSize, a.scaleMode)
	if err != nil {
		return nil, err
	}
	defer canvas.Close()

	var (
		set *detector.Set
		rec *skin.Record
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var derr error
		set, derr = a.Detector.Detect(canvas, width, height)
		return derr
	})
	g.Go(func() error {
		var serr error
		rec, serr = a.Skin.Analyze(img)
		return serr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	verdict := fusion.Fuse(float64(set.MaxConfidence()), rec.TotalSkinRatio, a.Weights)

	res := &Result{
		File:            name,
		Width:           width,
		Height:          height,
		Detections:      set.Candidates,
		DetectedClasses: set.ClassList(),
		Skin:            rec,
		Verdict:         &verdict,
	}
	maxima := set.ClassMaxima()
	res.ClassConfidences = make(map[string]float32, detector.NumClasses)
	for i, name := range detector.ClassNames {
		res.ClassConfidences[name] = maxima[i]
	}
	return res, nil
}
