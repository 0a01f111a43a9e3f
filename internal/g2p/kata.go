package g2p

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kanade-tts/kanade/internal/mora"
	"github.com/kanade-tts/kanade/internal/norm"
)

// longVowelMark is the katakana elongation mark. It survives decomposition
// as a literal phoneme only when no preceding vowel can resolve it.
const longVowelMark = "ー"

var (
	katakanaPattern = regexp.MustCompile(`[\x{30A0}-\x{30FF}]`)

	// longVowelPattern captures one phoneme character and the run of
	// elongation marks that follows it. After mora replacement the text is
	// ASCII phonemes, spaces and elongation marks, so \w is sufficient.
	longVowelPattern = regexp.MustCompile(`(\w)(ー*)`)
)

// KataToPhonemes decomposes one katakana reading into its phoneme sequence.
// A reading consisting purely of punctuation is returned split into single
// characters; anything else must contain katakana.
func KataToPhonemes(text string) ([]string, error) {
	if norm.IsAllPunctuation(text) {
		return splitRunes(text), nil
	}

	if !katakanaPattern.MatchString(text) {
		return nil, fmt.Errorf("%w: %q", ErrNotKatakana, text)
	}

	for _, kana := range mora.KeysLongestFirst() {
		if !strings.Contains(text, kana) {
			continue
		}

		m, _ := mora.Lookup(kana)
		if m.Consonant == "" {
			text = strings.ReplaceAll(text, kana, " "+m.Vowel)
		} else {
			text = strings.ReplaceAll(text, kana, " "+m.Consonant+" "+m.Vowel)
		}
	}

	// Expand elongation marks into repeats of the captured phoneme.
	text = longVowelPattern.ReplaceAllStringFunc(text, func(match string) string {
		head := match[:1]
		marks := strings.Count(match, longVowelMark)

		var builder strings.Builder

		builder.WriteString(head)

		for range marks {
			builder.WriteString(" ")
			builder.WriteString(head)
		}

		return builder.String()
	})

	return strings.Fields(text), nil
}

// resolveLongVowels fixes elongation marks that ended up at a segment
// start, where the vowel to repeat lives in the previous segment. A mark
// with no usable predecessor stays literal.
func resolveLongVowels(segments [][]string) [][]string {
	for i := range segments {
		if len(segments[i]) == 0 {
			continue
		}

		if segments[i][0] == longVowelMark && i > 0 {
			prev := segments[i-1]
			if len(prev) > 0 && mora.IsVowel(prev[len(prev)-1]) {
				segments[i][0] = prev[len(prev)-1]
			}
		}

		for e := 1; e < len(segments[i]); e++ {
			if segments[i][e] == longVowelMark {
				previous := segments[i][e-1]
				segments[i][e] = lastRune(previous)
			}
		}
	}

	return segments
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}

	return out
}

func lastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	return string(runes[len(runes)-1])
}
