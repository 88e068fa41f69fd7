package pipeline

import "errors"

// Sentinel errors for snapshot rendering.
var (
	// ErrHTMLConversion indicates goldmark failed on a body. Callers degrade
	// to showing the raw markup instead of failing.
	ErrHTMLConversion = errors.New("HTML conversion failed")

	ErrInvalidMathMode  = errors.New("invalid math mode")
	ErrNoTeXRenderer    = errors.New("static math mode requires a TeX renderer")
	ErrSnapshotTemplate = errors.New("snapshot template rendering failed")
	ErrTeXCommand       = errors.New("TeX command failed")
)
