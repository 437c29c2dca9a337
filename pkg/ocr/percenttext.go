package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

// Percentage extraction. Strategies are tried in order; the first one that
// produces any in-range candidate wins, and the maximum of its candidates is
// returned. OCR noise drops digits far more often than it invents extra
// percentage mentions, and the real banner is the largest text on the crop,
// so the biggest plausible number beats stray smaller matches.

const (
	// minPercent..maxPercent bound any accepted candidate. The book runs
	// promotional boosts up to 1000%.
	minPercent = 1
	maxPercent = 1000

	// bareScanMin is the tighter lower bound for the unlabeled token scan;
	// tiny numbers without a % or Boost anchor are almost always noise.
	bareScanMin = 5
)

var (
	boostAlt = labelAlternation(boostMisreads)

	reNumThenBoost = regexp.MustCompile(`(?i)\b([0-9]{1,4}(?:\.[0-9]+)?) ?%? ?(?:` + boostAlt + `)\b`)
	reBoostThenNum = regexp.MustCompile(`(?i)\b(?:` + boostAlt + `)(?:ed)?[:\s]*([0-9]{1,4}(?:\.[0-9]+)?) ?%?`)
	rePercentNum   = regexp.MustCompile(`\b([0-9]{1,4}(?:\.[0-9]+)?) ?%`)
)

// ParseBoostPercent extracts the boost percentage from raw OCR text.
// Returns ErrNoPercentage when no candidate survives the range filter.
func ParseBoostPercent(raw string) (float64, error) {
	text := normalizeText(raw)
	if text == "" {
		return 0, ErrNoPercentage
	}
	strategies := []func(string) []float64{
		labeledPercents,
		signedPercents,
		bareScanPercents,
	}
	for _, s := range strategies {
		cands := inRange(s(text))
		if len(cands) > 0 {
			return maxOf(cands), nil
		}
	}
	return 0, ErrNoPercentage
}

// labeledPercents collects numbers adjacent to the word "Boost" (either
// order), including the enumerated misspellings.
func labeledPercents(text string) []float64 {
	var out []float64
	for _, re := range []*regexp.Regexp{reNumThenBoost, reBoostThenNum} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				out = append(out, v)
			}
		}
	}
	return out
}

// signedPercents collects any number immediately followed by a % sign.
func signedPercents(text string) []float64 {
	var out []float64
	for _, m := range rePercentNum.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// bareScanPercents walks the tokens: a numeric token in [5,1000] counts when
// the following token is a Boost word or the token itself carries a %.
func bareScanPercents(text string) []float64 {
	fields := strings.Fields(text)
	var out []float64
	for i, tok := range fields {
		hasPct := strings.Contains(tok, "%")
		numStr := strings.Trim(tok, "%.,:;()!")
		v, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			continue
		}
		if v < bareScanMin || v > maxPercent {
			continue
		}
		if hasPct || (i+1 < len(fields) && isBoostWord(fields[i+1])) {
			out = append(out, v)
		}
	}
	return out
}

func inRange(cands []float64) []float64 {
	out := cands[:0]
	for _, v := range cands {
		if v >= minPercent && v <= maxPercent {
			out = append(out, v)
		}
	}
	return out
}

func maxOf(vals []float64) float64 {
	best := vals[0]
	for _, v := range vals[1:] {
		if v > best {
			best = v
		}
	}
	return best
}
