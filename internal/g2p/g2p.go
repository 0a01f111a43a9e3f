package g2p

import (
	"strings"
	"unicode/utf8"

	"github.com/kanade-tts/kanade/internal/norm"
)

// boundaryMarker frames every utterance's phoneme sequence on both sides.
const boundaryMarker = "_"

// Result is the aligned output of the grapheme-to-phoneme pipeline for one
// utterance. Phones and Tones include the leading and trailing boundary
// markers; Word2Ph maps every output character (plus one boundary unit on
// each side) to the number of phonemes it expands into; Text is the joined
// normalized surface the embedding model is fed.
type Result struct {
	Phones  []string
	Tones   []int
	Word2Ph []int
	Text    string
}

// Sequence runs the full grapheme-to-phoneme pipeline over one analyzed
// utterance: prosody extraction and tone validation, katakana phoneme
// decomposition with long-vowel resolution, tone alignment, and word-level
// phoneme distribution.
func Sequence(analysis *Analysis) (*Result, error) {
	phoneTones, err := phraseTones(analysis.Labels)
	if err != nil {
		return nil, err
	}

	surfaces, readings, err := wordReadings(analysis.Words)
	if err != nil {
		return nil, err
	}

	segments := make([][]string, len(readings))
	for i, reading := range readings {
		segment, kataErr := KataToPhonemes(reading)
		if kataErr != nil {
			return nil, kataErr
		}

		segments[i] = segment
	}

	segments = resolveLongVowels(segments)

	var phonesWithPunct []string
	for _, segment := range segments {
		phonesWithPunct = append(phonesWithPunct, segment...)
	}

	aligned, err := alignTones(phonesWithPunct, phoneTones)
	if err != nil {
		return nil, err
	}

	word2ph := make([]int, 0, len(surfaces)+2)
	word2ph = append(word2ph, 1)

	for i, surface := range surfaces {
		units := 1
		if !norm.IsPunctuation(surface) {
			units = utf8.RuneCountInString(surface)
		}

		word2ph = append(word2ph, distributePhones(len(segments[i]), units)...)
	}

	word2ph = append(word2ph, 1)

	phones := make([]string, 0, len(aligned)+2)
	tones := make([]int, 0, len(aligned)+2)

	phones = append(phones, boundaryMarker)
	tones = append(tones, 0)

	for _, pt := range aligned {
		phones = append(phones, pt.Phone)
		tones = append(tones, pt.Tone)
	}

	phones = append(phones, boundaryMarker)
	tones = append(tones, 0)

	return &Result{
		Phones:  phones,
		Tones:   tones,
		Word2Ph: word2ph,
		Text:    strings.Join(surfaces, ""),
	}, nil
}
