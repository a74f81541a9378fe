// Package detector turns raw model output into a de-duplicated set of
// labeled detections in original-image coordinates.
package detector

import (
	"strings"

	"gocv.io/x/gocv"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/geometry"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/inference"
)

// ClassNames is the fixed class table of the exposure model. Class ids index
// into it.
var ClassNames = []string{
	"EXPOSED_BREAST_F",
	"EXPOSED_BREAST_M",
	"EXPOSED_BUTTOCKS",
	"EXPOSED_GENITALIA_F",
	"EXPOSED_GENITALIA_M",
}

// NumClasses is the size of the class table.
const NumClasses = 5

// Candidate is one (class, confidence, box) proposal. Box coordinates are in
// original-image pixels, corner form.
type Candidate struct {
	ClassID    int          `yaml:"class_id"`
	ClassName  string       `yaml:"class"`
	Confidence float32      `yaml:"confidence"`
	Box        geometry.Box `yaml:"-"`

	// Flattened for the report sink.
	X1 float32 `yaml:"x1"`
	Y1 float32 `yaml:"y1"`
	X2 float32 `yaml:"x2"`
	Y2 float32 `yaml:"y2"`
}

func newCandidate(classID int, confidence float32, box geometry.Box) Candidate {
	return Candidate{
		ClassID:    classID,
		ClassName:  ClassNames[classID],
		Confidence: confidence,
		Box:        box,
		X1:         box.X1, Y1: box.Y1, X2: box.X2, Y2: box.Y2,
	}
}

// Set is the ordered sequence of candidates surviving suppression. The best
// detection is tracked by index, not duplicated.
type Set struct {
	Candidates []Candidate
	best       int
}

// NewSet builds a Set, locating the best candidate in one pass.
func NewSet(cands []Candidate) *Set {
	s := &Set{Candidates: cands, best: -1}
	for i, c := range cands {
		if s.best < 0 || c.Confidence > cands[s.best].Confidence {
			s.best = i
		}
	}
	return s
}

// Len returns the number of surviving candidates.
func (s *Set) Len() int { return len(s.Candidates) }

// Best returns the highest-confidence candidate, or false when empty.
func (s *Set) Best() (Candidate, bool) {
	if s.best < 0 {
		return Candidate{}, false
	}
	return s.Candidates[s.best], true
}

// MaxConfidence returns the best confidence, 0 when the set is empty.
func (s *Set) MaxConfidence() float32 {
	if s.best < 0 {
		return 0
	}
	return s.Candidates[s.best].Confidence
}

// ClassMaxima returns the per-class maximum confidence, computed in a single
// reduction pass over the set.
func (s *Set) ClassMaxima() [NumClasses]float32 {
	var m [NumClasses]float32
	for _, c := range s.Candidates {
		if c.ClassID >= 0 && c.ClassID < NumClasses && c.Confidence > m[c.ClassID] {
			m[c.ClassID] = c.Confidence
		}
	}
	return m
}

// ClassList returns the detected class names, comma separated, in set order.
func (s *Set) ClassList() string {
	names := make([]string, len(s.Candidates))
	for i, c := range s.Candidates {
		names[i] = c.ClassName
	}
	return strings.Join(names, ", ")
}

// Detector runs the full detection path for one image: inference over the
// square canvas, decoding, then suppression.
type Detector struct {
	Engine        inference.Engine
	ConfidenceMin float32
	IoUThreshold  float32
	CanvasSize    int
	ScaleMode     geometry.Mode
}

// Detect analyzes one image. canvas is the letterboxed/stretched square the
// engine consumes; width and height are the original dimensions.
func (d *Detector) Detect(canvas gocv.Mat, width, height int) (*Set, error) {
	tr, err := geometry.NewTransform(width, height, d.CanvasSize, d.ScaleMode)
	if err != nil {
		return nil, err
	}

	out, err := d.Engine.Infer(canvas)
	if err != nil {
		return nil, err
	}

	cands, err := Decode(out, tr, d.ConfidenceMin)
	if err != nil {
		return nil, err
	}

	return NewSet(Suppress(cands, d.IoUThreshold)), nil
}
