// Package fusion combines the strongest detection confidence with the skin
// ratio into one calibrated verdict.
package fusion

// RiskTier is the discretized band of the combined score.
type RiskTier string

const (
	RiskHigh   RiskTier = "HIGH"
	RiskMedium RiskTier = "MEDIUM"
	RiskLow    RiskTier = "LOW"
)

// Recommendation is the action policy derived from the tier.
type Recommendation string

const (
	ActionBlock  Recommendation = "BLOCK"
	ActionReview Recommendation = "REVIEW"
	ActionAllow  Recommendation = "ALLOW"
)

// Weights are the fusion coefficients and tier cut lines.
type Weights struct {
	Detection float64 `yaml:"detection"` // default 0.6
	Skin      float64 `yaml:"skin"`      // default 0.4
	HighCut   float64 `yaml:"high_cut"`  // default 0.7
	MediumCut float64 `yaml:"medium_cut"` // default 0.4
}

// DefaultWeights returns the tuned coefficients.
func DefaultWeights() Weights {
	return Weights{Detection: 0.6, Skin: 0.4, HighCut: 0.7, MediumCut: 0.4}
}

// Verdict is the fused, deterministic output for one image. Never mutated
// after construction.
type Verdict struct {
	CombinedScore  float64        `yaml:"combined_score"`
	RiskTier       RiskTier       `yaml:"risk_tier"`
	Recommendation Recommendation `yaml:"recommendation"`
}

// Fuse computes the verdict from the maximum detection confidence (0 when no
// detections survived) and the narrow-mask skin ratio, both fractions.
func Fuse(maxConfidence, skinRatio float64, w Weights) Verdict {
	score := w.Detection*maxConfidence + w.Skin*skinRatio

	var tier RiskTier
	switch {
	case score >= w.HighCut:
		tier = RiskHigh
	case score >= w.MediumCut:
		tier = RiskMedium
	default:
		tier = RiskLow
	}

	return Verdict{
		CombinedScore:  score,
		RiskTier:       tier,
		Recommendation: recommend(tier),
	}
}

func recommend(tier RiskTier) Recommendation {
	switch tier {
	case RiskHigh:
		return ActionBlock
	case RiskMedium:
		return ActionReview
	default:
		return ActionAllow
	}
}
