package g2p

import "errors"

var (
	// ErrInvalidToneValues indicates a phrase whose tone pattern cannot be
	// reduced to the canonical binary encoding.
	ErrInvalidToneValues = errors.New("invalid tone values")

	// ErrMismatchedPhoneme indicates that the katakana-derived phoneme
	// sequence diverged from the prosody-derived one during alignment.
	ErrMismatchedPhoneme = errors.New("mismatched phoneme")

	// ErrNotKatakana indicates a reading that is neither katakana nor pure
	// punctuation.
	ErrNotKatakana = errors.New("input must be katakana only")

	// ErrEmptyReading indicates a morpheme the analyzer produced no
	// pronunciation for.
	ErrEmptyReading = errors.New("empty reading")

	// ErrUnknownPhoneme indicates a phoneme outside the vocoder's symbol
	// inventory.
	ErrUnknownPhoneme = errors.New("unknown phoneme")
)
