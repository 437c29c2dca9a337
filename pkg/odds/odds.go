package odds

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is an American-odds quotation, e.g. +950 or -200. Zero is never a
// valid quotation; parsers treat it as a miss.
type Value int

// Pair holds the pre-boost ("Was") and post-boost ("Now") quotations as
// displayed together in the sportsbook UI.
type Pair struct {
	Pre  Value `json:"pre"`
	Post Value `json:"post"`
}

// Parse normalizes an odds token into a Value. A missing sign is treated as
// positive ("5000" -> +5000). Returns an error for zero, non-numeric input,
// or digit counts outside [2,5] which would indicate a timestamp/score/id.
func Parse(tok string) (Value, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, fmt.Errorf("empty odds token")
	}
	neg := false
	switch tok[0] {
	case '+':
		tok = tok[1:]
	case '-':
		neg = true
		tok = tok[1:]
	}
	if len(tok) < 2 || len(tok) > 5 {
		return 0, fmt.Errorf("odds token %q: digit count out of range", tok)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("odds token %q: %w", tok, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("odds token %q: zero is not a quotation", tok)
	}
	if neg {
		n = -n
	}
	return Value(n), nil
}

// Decimal converts American odds to decimal odds: +150 -> 2.50, -200 -> 1.50.
func (v Value) Decimal() float64 {
	if v >= 0 {
		return 1 + float64(v)/100
	}
	return 1 + 100/float64(-v)
}

// String renders the canonical form with an explicit sign.
func (v Value) String() string {
	if v >= 0 {
		return fmt.Sprintf("+%d", int(v))
	}
	return strconv.Itoa(int(v))
}

// Valid reports whether the pair passes the boost sanity check: the post
// odds must pay out at least as well as the pre odds.
func (p Pair) Valid() bool {
	return p.Post.Decimal() >= p.Pre.Decimal()
}

// Swapped returns the pair with pre and post exchanged.
func (p Pair) Swapped() Pair {
	return Pair{Pre: p.Post, Post: p.Pre}
}

func (p Pair) String() string {
	return p.Pre.String() + " -> " + p.Post.String()
}
