package ocr

import "strings"

// Correction tables for OCR garbles observed on the sportsbook's boost UI.
// These are finite, empirically collected lookups — not fuzzy matching. Each
// entry exists because Tesseract produced it on a real capture; do not
// generalize them.

// wasMisreads are accepted spellings of the "Was" label.
var wasMisreads = []string{"was", "wos", "vas", "wa5"}

// nowMisreads are accepted spellings of the "Now" label.
var nowMisreads = []string{"now", "n0w", "naw"}

// pairSeparators are the glyphs seen between the Was and Now halves. The
// banner renders an arrow; Tesseract reads it as one of these.
var pairSeparators = []string{"->", "→", "»", ">", "~"}

// digitFixes maps letters that stand in for digits in odds tokens. Applied
// only to the token following a recognized "Was <odds>", and only when the
// uncorrected token fails to parse.
var digitFixes = map[rune]rune{
	'I': '1', 'l': '1', 'i': '1',
	'Z': '2', 'z': '2',
	'S': '5', 's': '5',
	'O': '0', 'o': '0',
	'B': '8',
	'G': '6', 'b': '6',
}

// boostMisreads are accepted spellings of the word "Boost" on the banner.
var boostMisreads = []string{"boost", "bo0st", "b00st", "8oost", "boosr", "boos", "bqost"}

// fixDigits rewrites a garbled odds token using digitFixes. Returns false
// when the token contains a character no rule covers (signs pass through).
func fixDigits(tok string) (string, bool) {
	var b strings.Builder
	for i, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r == '+' || r == '-') && i == 0:
			b.WriteRune(r)
		default:
			fixed, ok := digitFixes[r]
			if !ok {
				return "", false
			}
			b.WriteRune(fixed)
		}
	}
	return b.String(), true
}

// isBoostWord reports whether tok (lowercased, punctuation-trimmed) is the
// word "Boost" or a known misread of it.
func isBoostWord(tok string) bool {
	tok = strings.Trim(strings.ToLower(tok), ".,:;!()")
	for _, w := range boostMisreads {
		if tok == w {
			return true
		}
	}
	return false
}

// isNowLabel reports whether tok is the "Now" label or a known misread.
func isNowLabel(tok string) bool {
	tok = strings.Trim(strings.ToLower(tok), ".,:;()")
	for _, w := range nowMisreads {
		if tok == w {
			return true
		}
	}
	return false
}

// isSeparator reports whether tok is one of the known Was/Now separators.
func isSeparator(tok string) bool {
	for _, s := range pairSeparators {
		if tok == s {
			return true
		}
	}
	return false
}

func labelAlternation(words []string) string {
	return strings.Join(words, "|")
}
