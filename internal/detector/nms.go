package detector

import (
	"sort"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/geometry"
)

// IoU computes intersection over union of two boxes. Degenerate boxes (zero
// area) contribute no overlap, so a pair of them scores 0.
func IoU(a, b geometry.Box) float32 {
	x1 := max32(a.X1, b.X1)
	y1 := max32(a.Y1, b.Y1)
	x2 := min32(a.X2, b.X2)
	y2 := min32(a.Y2, b.Y2)

	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	inter := (x2 - x1) * (y2 - y1)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Suppress removes duplicate detections of the same object. Candidates are
// ordered by confidence descending (stable, ties keep input order); each kept
// candidate suppresses every remaining same-class candidate overlapping it at
// IoU >= thresh. Different classes never suppress each other: co-occurring
// detections are signal, not duplicates. The returned slice keeps the
// confidence-descending order, so index 0 is the strongest detection.
func Suppress(cands []Candidate, thresh float32) []Candidate {
	if len(cands) == 0 {
		return nil
	}

	ordered := make([]Candidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	kept := make([]Candidate, 0, len(ordered))
	suppressed := make([]bool, len(ordered))

	for i := 0; i < len(ordered); i++ {
		if suppressed[i] {
			continue
		}
		current := ordered[i]
		kept = append(kept, current)

		for j := i + 1; j < len(ordered); j++ {
			if suppressed[j] || ordered[j].ClassID != current.ClassID {
				continue
			}
			if IoU(current.Box, ordered[j].Box) >= thresh {
				suppressed[j] = true
			}
		}
	}
	return kept
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
