package g2p

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kanade-tts/kanade/internal/core"
	"github.com/kanade-tts/kanade/internal/norm"
)

// wordReadings rewrites each morpheme's surface and reading into the forms
// the phoneme decomposition expects. The analyzer reads every comma-class
// morpheme as "、" and every question mark as "？"; those readings are
// replaced so punctuation flows through the phoneme sequence verbatim.
func wordReadings(words []Word) (surfaces, readings []string, err error) {
	surfaces = make([]string, 0, len(words))
	readings = make([]string, 0, len(words))

	for _, word := range words {
		reading := strings.ReplaceAll(word.Reading, "’", "")
		surface := norm.ReplacePunctuation(word.Surface)

		if reading == "" {
			return nil, nil, fmt.Errorf("%w for %q", ErrEmptyReading, surface)
		}

		switch reading {
		case "、":
			if norm.IsAllPunctuation(surface) {
				reading = surface
			} else {
				reading = strings.Repeat("'", utf8.RuneCountInString(surface))
			}

		case "？":
			if surface != "?" {
				return nil, nil, fmt.Errorf(
					"%w: question-mark reading for surface %q",
					core.ErrInternalInconsistency, surface,
				)
			}

			reading = "?"
		}

		surfaces = append(surfaces, surface)
		readings = append(readings, reading)
	}

	return surfaces, readings, nil
}
