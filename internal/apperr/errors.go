package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// Oracle failure taxonomy. Every one is per-call and non-fatal:
	// extraction skips the image, chat yields a fallback transcript entry,
	// search yields an empty-result state.
	ErrExtraction = errors.New("extraction failed")
	ErrChat       = errors.New("chat failed")
	ErrSearch     = errors.New("search failed")
)
