package detector

import (
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fault"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/geometry"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/inference"
)

// Decode turns the raw prediction tensor into candidates above the confidence
// floor. One prediction row yields one candidate per class clearing the floor
// (multi-label exposure is possible), producing a flat sequence for the
// suppressor. Boxes arrive in center/width/height canvas form and leave in
// corner original-image form.
func Decode(out *inference.Output, tr geometry.Transform, floor float32) ([]Candidate, error) {
	if out.Attrs != 4+NumClasses {
		return nil, fault.New(fault.SchemaMismatch,
			"model output has %d attributes, expected %d (4 box + %d classes)",
			out.Attrs, 4+NumClasses, NumClasses)
	}

	var cands []Candidate
	for i := 0; i < out.Preds; i++ {
		cx := out.At(0, i)
		cy := out.At(1, i)
		w := out.At(2, i)
		h := out.At(3, i)

		for classID := 0; classID < NumClasses; classID++ {
			conf := out.At(4+classID, i)
			if conf < floor {
				continue
			}
			box := tr.ToOriginal(geometry.Box{
				X1: cx - w/2,
				Y1: cy - h/2,
				X2: cx + w/2,
				Y2: cy + h/2,
			})
			cands = append(cands, newCandidate(classID, conf, box))
		}
	}
	return cands, nil
}
