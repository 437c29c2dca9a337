package ocr

import (
	"log"
	"regexp"
	"strings"

	"boostwatch/pkg/odds"
)

// Odds extraction runs an ordered cascade of strategies over the raw OCR
// text, most confident first. Each strategy returns (pair, true) on a hit;
// the driver stops at the first hit. Labeled strategies go through the
// pre/post sanity check; the bare dual-number fallback does not, because it
// has no labels to swap.

const oddsToken = `([+-]?[0-9]{2,5})\b`

var (
	wasAlt = labelAlternation(wasMisreads)
	nowAlt = labelAlternation(nowMisreads)
	sepAlt = `(?:->|→|»|>|~)`

	reLabeledSepPair = regexp.MustCompile(`(?i)\b(?:` + wasAlt + `)[:\s]*` + oddsToken + `\s*` + sepAlt + `\s*(?:` + nowAlt + `)?[:\s]*` + oddsToken)
	reWasValue       = regexp.MustCompile(`(?i)\b(?:` + wasAlt + `)[:\s]*` + oddsToken)
	reNowValue       = regexp.MustCompile(`(?i)\b(?:` + nowAlt + `)[:\s]*` + oddsToken)
	reNumberRun      = regexp.MustCompile(`[+-]?[0-9]+`)
)

// ParseOddsPair extracts a Was/Now odds pair from raw OCR text. Returns
// ErrNoOdds when nothing plausible is found or when a labeled candidate is
// nonsensical even after one swap attempt.
func ParseOddsPair(raw string) (odds.Pair, error) {
	text := normalizeText(raw)
	if text == "" {
		return odds.Pair{}, ErrNoOdds
	}
	type strategy struct {
		name string
		fn   func(string) (odds.Pair, bool)
	}
	labeled := []strategy{
		{"labeled-separator", labeledSeparatorPair},
		{"labeled-loose", labeledLoosePair},
		{"garble-correction", correctedPair},
	}
	for _, s := range labeled {
		p, ok := s.fn(text)
		if !ok {
			continue
		}
		fixed, sane := sanitize(p)
		if !sane {
			// Known-nonsense pair: never emit it, and don't let a looser
			// strategy resurrect the same numbers.
			log.Printf("odds parse: %s rejected %s (text=%q)", s.name, p, snippet(text, 120))
			return odds.Pair{}, ErrNoOdds
		}
		return fixed, nil
	}
	if p, ok := barePair(text); ok {
		return p, nil
	}
	return odds.Pair{}, ErrNoOdds
}

// sanitize applies the boost sanity check with exactly one swap attempt.
func sanitize(p odds.Pair) (odds.Pair, bool) {
	if p.Valid() {
		return p, true
	}
	if sw := p.Swapped(); sw.Valid() {
		return sw, true
	}
	return p, false
}

// labeledSeparatorPair matches "Was <odds> > Now <odds>" with one of the
// known separator glyphs. Highest confidence.
func labeledSeparatorPair(text string) (odds.Pair, bool) {
	m := reLabeledSepPair.FindStringSubmatch(text)
	if len(m) < 3 {
		return odds.Pair{}, false
	}
	return pairFromTokens(m[1], m[2])
}

// labeledLoosePair matches a "Was <odds>" anywhere followed, not necessarily
// adjacently, by a "Now <odds>".
func labeledLoosePair(text string) (odds.Pair, bool) {
	wasLoc := reWasValue.FindStringSubmatchIndex(text)
	if wasLoc == nil {
		return odds.Pair{}, false
	}
	wasTok := text[wasLoc[2]:wasLoc[3]]
	rest := text[wasLoc[1]:]
	m := reNowValue.FindStringSubmatch(rest)
	if len(m) < 2 {
		return odds.Pair{}, false
	}
	return pairFromTokens(wasTok, m[1])
}

// correctedPair recovers a second value the OCR garbled: after a recognized
// "Was <odds>", the next token (skipping separators and Now labels) is run
// through the digitFixes table — but only when it fails to parse as-is.
// Tokens that parse cleanly are left to the other strategies.
func correctedPair(text string) (odds.Pair, bool) {
	wasLoc := reWasValue.FindStringSubmatchIndex(text)
	if wasLoc == nil {
		return odds.Pair{}, false
	}
	wasTok := text[wasLoc[2]:wasLoc[3]]
	for _, tok := range strings.Fields(text[wasLoc[1]:]) {
		if isSeparator(tok) || isNowLabel(tok) {
			continue
		}
		tok = strings.Trim(tok, "()[].,:;")
		if tok == "" {
			continue
		}
		if _, err := odds.Parse(tok); err == nil {
			return odds.Pair{}, false
		}
		fixed, ok := fixDigits(tok)
		if !ok {
			return odds.Pair{}, false
		}
		if _, err := odds.Parse(fixed); err != nil {
			return odds.Pair{}, false
		}
		log.Printf("odds parse: garble correction %q -> %q", tok, fixed)
		return pairFromTokens(wasTok, fixed)
	}
	return odds.Pair{}, false
}

// barePair takes the first two unlabeled numeric runs of plausible odds
// magnitude (3–5 digits, optionally signed) in document order. Longer runs
// (timestamps, transaction ids) never qualify because the full run is
// matched before filtering.
func barePair(text string) (odds.Pair, bool) {
	var toks []string
	for _, run := range reNumberRun.FindAllString(text, -1) {
		digits := strings.TrimLeft(run, "+-")
		if len(digits) >= 3 && len(digits) <= 5 {
			toks = append(toks, run)
			if len(toks) == 2 {
				break
			}
		}
	}
	if len(toks) < 2 {
		return odds.Pair{}, false
	}
	return pairFromTokens(toks[0], toks[1])
}

func pairFromTokens(preTok, postTok string) (odds.Pair, bool) {
	pre, err := odds.Parse(preTok)
	if err != nil {
		return odds.Pair{}, false
	}
	post, err := odds.Parse(postTok)
	if err != nil {
		return odds.Pair{}, false
	}
	return odds.Pair{Pre: pre, Post: post}, true
}
