package g2p

import (
	"fmt"
	"strings"

	"github.com/kanade-tts/kanade/internal/norm"
)

// alignTones merges the punctuation-bearing phoneme sequence with the
// punctuation-free tone-bearing one. Both sequences must list the same
// phonemes in the same order once punctuation is set aside; any divergence
// is a hard data-integrity failure, not a recoverable condition.
func alignTones(phonesWithPunct []string, phoneTones []PhoneTone) ([]PhoneTone, error) {
	result := make([]PhoneTone, 0, len(phonesWithPunct))
	toneIndex := 0

	for _, phone := range phonesWithPunct {
		switch {
		case toneIndex >= len(phoneTones):
			result = append(result, PhoneTone{Phone: phone, Tone: 0})

		case phone == phoneTones[toneIndex].Phone:
			result = append(result, phoneTones[toneIndex])
			toneIndex++

		case norm.IsPunctuation(phone):
			result = append(result, PhoneTone{Phone: phone, Tone: 0})

		default:
			return nil, fmt.Errorf(
				"%w: %q at position %d (phonemes %v, tones %s)",
				ErrMismatchedPhoneme, phone, toneIndex,
				phonesWithPunct, phoneToneString(phoneTones),
			)
		}
	}

	return result, nil
}

// distributePhones spreads nPhones across nWords slots as evenly as
// possible, always topping up the leftmost least-loaded slot first.
func distributePhones(nPhones, nWords int) []int {
	counts := make([]int, nWords)

	for range nPhones {
		minIndex := 0
		for i, c := range counts {
			if c < counts[minIndex] {
				minIndex = i
			}
		}

		counts[minIndex]++
	}

	return counts
}

func phoneToneString(phoneTones []PhoneTone) string {
	parts := make([]string, len(phoneTones))
	for i, pt := range phoneTones {
		parts[i] = fmt.Sprintf("%s/%d", pt.Phone, pt.Tone)
	}

	return strings.Join(parts, " ")
}
