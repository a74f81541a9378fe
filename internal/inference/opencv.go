package inference

import (
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fault"
)

// openCVEngine runs the ONNX model through the OpenCV DNN module.
type openCVEngine struct {
	mu        sync.Mutex
	net       gocv.Net
	modelPath string
	inputSize int
}

func newOpenCVEngine(opts Options) (*openCVEngine, error) {
	e := &openCVEngine{inputSize: opts.InputSize}
	if err := e.LoadModel(opts.ModelPath); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadModel swaps the active model. Exclusive with Infer.
func (e *openCVEngine) LoadModel(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		return fault.New(fault.ModelLoadError, "model file not found: %s", path)
	}

	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return fault.New(fault.ModelLoadError, "failed to load network from %s", path)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return fault.Wrap(fault.ModelLoadError, err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return fault.Wrap(fault.ModelLoadError, err)
	}

	if e.modelPath != "" {
		e.net.Close()
	}
	e.net = net
	e.modelPath = path
	return nil
}

func (e *openCVEngine) ModelPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modelPath
}

// Infer runs one forward pass over the square canvas. The DNN net is not
// safe for concurrent calls, so the whole pass holds the lock.
func (e *openCVEngine) Infer(canvas gocv.Mat) (*Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.net.Empty() {
		return nil, fault.New(fault.ModelLoadError, "no model loaded")
	}

	blob := gocv.BlobFromImage(canvas, 1.0/255.0,
		image.Pt(e.inputSize, e.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	e.net.SetInput(blob, "")
	out := e.net.Forward("")
	defer out.Close()

	sz := out.Size()
	if len(sz) != 3 || sz[0] != 1 {
		return nil, fault.New(fault.InferenceError,
			"unexpected output rank %v", sz)
	}

	src, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fault.Wrap(fault.InferenceError, err)
	}

	// Copy out: the Mat is released when this call returns.
	data := make([]float32, len(src))
	copy(data, src)

	return &Output{Data: data, Attrs: sz[1], Preds: sz[2]}, nil
}

func (e *openCVEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.net.Close()
}
