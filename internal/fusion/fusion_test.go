package fusion

import (
	"math"
	"testing"
)

func TestFuse(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		name      string
		maxConf   float64
		skinRatio float64
		wantScore float64
		wantTier  RiskTier
		wantRec   Recommendation
	}{
		{"empty set no skin", 0.0, 0.0, 0.0, RiskLow, ActionAllow},
		{"strong both", 0.95, 0.5, 0.77, RiskHigh, ActionBlock},
		{"detector only", 0.8, 0.0, 0.48, RiskMedium, ActionReview},
		{"skin only", 0.0, 0.9, 0.36, RiskLow, ActionAllow},
		{"exactly high cut", 0.9, 0.4, 0.70, RiskHigh, ActionBlock},
		{"exactly medium cut", 0.6, 0.1, 0.40, RiskMedium, ActionReview},
		{"just below medium", 0.6, 0.09, 0.396, RiskLow, ActionAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Fuse(tt.maxConf, tt.skinRatio, w)
			if math.Abs(v.CombinedScore-tt.wantScore) > 1e-9 {
				t.Errorf("score = %f, want %f", v.CombinedScore, tt.wantScore)
			}
			if v.RiskTier != tt.wantTier {
				t.Errorf("tier = %s, want %s", v.RiskTier, tt.wantTier)
			}
			if v.Recommendation != tt.wantRec {
				t.Errorf("recommendation = %s, want %s", v.Recommendation, tt.wantRec)
			}
		})
	}
}

func TestFuseDeterministic(t *testing.T) {
	w := DefaultWeights()
	a := Fuse(0.73, 0.31, w)
	b := Fuse(0.73, 0.31, w)
	if a != b {
		t.Errorf("same inputs produced different verdicts: %+v vs %+v", a, b)
	}
}
