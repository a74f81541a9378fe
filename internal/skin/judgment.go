package skin

// Judgment is the color-heuristic label. It is independent of the fusion
// risk tier; the two disagree by design and are reported side by side.
type Judgment string

const (
	JudgmentDetected  Judgment = "skin detected"
	JudgmentSuspected Judgment = "skin suspected"
	JudgmentNone      Judgment = "no skin"
)

// Concentration cut lines of the judgment rules. The high-ratio rule wants
// both channels mildly concentrated; the mid-ratio rule accepts either
// channel strongly concentrated.
const (
	bothChannelsCut  = 0.3
	eitherChannelCut = 0.4
)

// Judge labels an image from the narrow-mask skin ratio and the two channel
// concentrations. passLow/passHigh are the configured cut lines (0.25/0.40
// of image area by default); both comparisons are inclusive.
func Judge(ratio, crConc, cbConc, passLow, passHigh float64) Judgment {
	switch {
	case ratio >= passHigh:
		if crConc >= bothChannelsCut && cbConc >= bothChannelsCut {
			return JudgmentDetected
		}
		return JudgmentSuspected
	case ratio >= passLow:
		if crConc >= eitherChannelCut || cbConc >= eitherChannelCut {
			return JudgmentSuspected
		}
		return JudgmentNone
	default:
		return JudgmentNone
	}
}
