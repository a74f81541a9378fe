package skin

import "testing"

func TestJudge(t *testing.T) {
	tests := []struct {
		name          string
		ratio, cr, cb float64
		want          Judgment
	}{
		{"high ratio both concentrated", 0.50, 0.35, 0.40, JudgmentDetected},
		{"high ratio one flat channel", 0.45, 0.50, 0.10, JudgmentSuspected},
		{"high ratio both flat", 0.60, 0.05, 0.05, JudgmentSuspected},
		{"mid ratio cr concentrated", 0.30, 0.50, 0.20, JudgmentSuspected},
		{"mid ratio cb concentrated", 0.30, 0.10, 0.45, JudgmentSuspected},
		{"mid ratio both flat", 0.30, 0.20, 0.20, JudgmentNone},
		{"low ratio", 0.10, 0.90, 0.90, JudgmentNone},
		{"exactly at high line", 0.40, 0.30, 0.30, JudgmentDetected},
		{"exactly at low line", 0.25, 0.40, 0.00, JudgmentSuspected},
		{"just under low line", 0.249, 0.90, 0.90, JudgmentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Judge(tt.ratio, tt.cr, tt.cb, 0.25, 0.40)
			if got != tt.want {
				t.Errorf("Judge(%f, %f, %f) = %q, want %q",
					tt.ratio, tt.cr, tt.cb, got, tt.want)
			}
		})
	}
}

func TestThresholdFlagsScenario(t *testing.T) {
	// 30% skin, Cr 0.5, Cb 0.2, pass lines 0.25/0.40:
	// threshold25 passes, threshold40 does not, judgment is "skin suspected"
	a := &Analyzer{PassLow: 0.25, PassHigh: 0.40}

	ratio := 0.30
	t25 := ratio >= a.PassLow
	t40 := ratio >= a.PassHigh
	if !t25 || t40 {
		t.Errorf("flags = (%v, %v), want (true, false)", t25, t40)
	}
	if got := Judge(ratio, 0.5, 0.2, a.PassLow, a.PassHigh); got != JudgmentSuspected {
		t.Errorf("judgment = %q, want %q", got, JudgmentSuspected)
	}
}
