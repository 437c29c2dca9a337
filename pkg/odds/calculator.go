package odds

import "math"

// DefaultDiscrepancyThreshold is the percentage-point gap between the
// detected and the implied boost beyond which a calculation is flagged.
const DefaultDiscrepancyThreshold = 10.0

// Calculation compares an OCR-detected boost percentage against the
// percentage implied by the detected odds pair. Read-only, derived per
// observation.
type Calculation struct {
	DetectedPct   float64 `json:"detected_pct"`
	CalculatedPct float64 `json:"calculated_pct"`
	Discrepancy   float64 `json:"discrepancy"`
	Significant   bool    `json:"significant"`
}

// Verify computes the boost percentage implied by pre/post decimal odds and
// its absolute distance from the detected percentage. threshold <= 0 falls
// back to DefaultDiscrepancyThreshold.
func Verify(detectedPct float64, pre, post Value, threshold float64) Calculation {
	if threshold <= 0 {
		threshold = DefaultDiscrepancyThreshold
	}
	preDec := pre.Decimal()
	postDec := post.Decimal()
	calc := round2(((postDec - preDec) / preDec) * 100)
	disc := round2(math.Abs(calc - detectedPct))
	return Calculation{
		DetectedPct:   detectedPct,
		CalculatedPct: calc,
		Discrepancy:   disc,
		Significant:   disc >= threshold,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
