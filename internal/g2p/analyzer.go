// Package g2p turns the morphological analyzer's output for one utterance
// into the aligned phoneme, tone, and word-to-phoneme sequences the vocoder
// consumes.
package g2p

import "context"

// MoraPosition carries the accent-position fields of one label's mora.
type MoraPosition struct {
	// RelativeAccentPosition is the signed distance from the accent nucleus.
	RelativeAccentPosition int
	// PositionForward counts morae from the accent-phrase start, 1-based.
	PositionForward int
	// PositionBackward counts morae to the accent-phrase end, 1-based.
	PositionBackward int
}

// AccentPhrase carries the accent-phrase fields referenced by the prosody
// lookahead rules.
type AccentPhrase struct {
	MoraCount       int
	IsInterrogative bool
}

// Label is one unit of the analyzer's full-context label stream. Optional
// fields are nil when the analyzer emits no value for them (silence and
// pause labels have no mora).
type Label struct {
	Phoneme          string
	Mora             *MoraPosition
	AccentPhraseCurr *AccentPhrase
	AccentPhrasePrev *AccentPhrase
}

// Word is one morpheme: its surface text and its katakana reading.
type Word struct {
	Surface string
	Reading string
}

// Analysis is the analyzer's complete output for one utterance. Labels
// always begin and end with a silence label.
type Analysis struct {
	Words  []Word
	Labels []Label
}

// Analyzer is the external morphological front-end. Implementations are
// shared, read-only resources; concurrent per-utterance calls are safe.
type Analyzer interface {
	// Analyze runs the full linguistic front-end over normalized text.
	Analyze(ctx context.Context, text string) (*Analysis, error)

	// NormalizeNumbers rewrites numerals into their spoken word form.
	NormalizeNumbers(ctx context.Context, text string) (string, error)
}
