package inference

import (
	"image"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fault"
)

var ortInit sync.Once

// onnxEngine runs the model through ONNX Runtime directly. Tensor shapes
// follow the YOLOv8 export: input [1,3,S,S] named "images", output
// [1,attrs,preds] named "output0", preds = (S/8)^2 + (S/16)^2 + (S/32)^2.
type onnxEngine struct {
	mu        sync.Mutex
	session   *ort.AdvancedSession
	input     *ort.Tensor[float32]
	output    *ort.Tensor[float32]
	modelPath string
	inputSize int
	numAttrs  int
	numPreds  int
}

func newOnnxEngine(opts Options) (*onnxEngine, error) {
	var initErr error
	ortInit.Do(func() {
		if lib := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY"); lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, fault.Wrap(fault.ModelLoadError, initErr)
	}

	s := opts.InputSize
	e := &onnxEngine{
		inputSize: s,
		numAttrs:  opts.NumAttrs,
		numPreds:  (s/8)*(s/8) + (s/16)*(s/16) + (s/32)*(s/32),
	}
	if err := e.LoadModel(opts.ModelPath); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadModel tears down the current session and builds one for the new model.
func (e *onnxEngine) LoadModel(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		return fault.New(fault.ModelLoadError, "model file not found: %s", path)
	}

	inShape := ort.NewShape(1, 3, int64(e.inputSize), int64(e.inputSize))
	input, err := ort.NewEmptyTensor[float32](inShape)
	if err != nil {
		return fault.Wrap(fault.ModelLoadError, err)
	}

	outShape := ort.NewShape(1, int64(e.numAttrs), int64(e.numPreds))
	output, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		input.Destroy()
		return fault.Wrap(fault.ModelLoadError, err)
	}

	session, err := ort.NewAdvancedSession(path,
		[]string{"images"}, []string{"output0"},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return fault.Wrap(fault.ModelLoadError, err)
	}

	e.teardown()
	e.session = session
	e.input = input
	e.output = output
	e.modelPath = path
	return nil
}

func (e *onnxEngine) ModelPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modelPath
}

// Infer fills the session input from the canvas and runs the model. The
// session owns its tensors, so calls are serialized.
func (e *onnxEngine) Infer(canvas gocv.Mat) (*Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, fault.New(fault.ModelLoadError, "no model loaded")
	}

	// Let OpenCV do the HWC->CHW + BGR->RGB + 1/255 packing, then hand the
	// plane data to the runtime.
	blob := gocv.BlobFromImage(canvas, 1.0/255.0,
		image.Pt(e.inputSize, e.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	src, err := blob.DataPtrFloat32()
	if err != nil {
		return nil, fault.Wrap(fault.InferenceError, err)
	}
	dst := e.input.GetData()
	if len(src) != len(dst) {
		return nil, fault.New(fault.InferenceError,
			"blob size %d does not match input tensor %d", len(src), len(dst))
	}
	copy(dst, src)

	if err := e.session.Run(); err != nil {
		return nil, fault.Wrap(fault.InferenceError, err)
	}

	raw := e.output.GetData()
	data := make([]float32, len(raw))
	copy(data, raw)

	return &Output{Data: data, Attrs: e.numAttrs, Preds: e.numPreds}, nil
}

func (e *onnxEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardown()
	return nil
}

func (e *onnxEngine) teardown() {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.input != nil {
		e.input.Destroy()
		e.input = nil
	}
	if e.output != nil {
		e.output.Destroy()
		e.output = nil
	}
}
