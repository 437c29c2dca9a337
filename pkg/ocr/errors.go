package ocr

import "errors"

// ErrNoOdds is returned when no plausible Was/Now odds pair can be extracted.
var ErrNoOdds = errors.New("no odds pair detected")

// ErrNoPercentage is returned when no plausible boost percentage can be extracted.
var ErrNoPercentage = errors.New("no boost percentage detected")
