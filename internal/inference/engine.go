// Package inference owns the detector model handle. Both backends take a
// square BGR canvas and return the raw prediction tensor; everything after
// that (decoding, suppression) is backend-independent.
package inference

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Output is the dense prediction tensor in attribute-major order:
// Data[attr*Preds + i] is attribute attr of prediction i. Attributes are the
// four box parameters (cx, cy, w, h) followed by one confidence per class.
type Output struct {
	Data  []float32
	Attrs int
	Preds int
}

// At returns attribute attr of prediction i.
func (o *Output) At(attr, i int) float32 {
	return o.Data[attr*o.Preds+i]
}

// Engine is the inference collaborator. Implementations serialize Infer and
// LoadModel internally; the model swap is an explicit, exclusive operation.
type Engine interface {
	Infer(canvas gocv.Mat) (*Output, error)
	LoadModel(path string) error
	ModelPath() string
	Close() error
}

// Options carries what a backend needs to size its tensors.
type Options struct {
	ModelPath string
	InputSize int // square canvas side, e.g. 640
	NumAttrs  int // 4 + number of classes
}

// NewEngine creates an inference backend for the given variant.
func NewEngine(variant string, opts Options) (Engine, error) {
	switch variant {
	case "opencv", "":
		return newOpenCVEngine(opts)
	case "onnx":
		return newOnnxEngine(opts)
	default:
		return nil, fmt.Errorf("unknown engine variant: %s", variant)
	}
}
