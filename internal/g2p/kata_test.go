package g2p_test

import (
	"errors"
	"testing"

	"github.com/kanade-tts/kanade/internal/g2p"
)

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestKataToPhonemes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "bare vowels", input: "アメ", expected: []string{"a", "m", "e"}},
		{name: "palatalized with geminate", input: "キャット", expected: []string{"ky", "a", "q", "t", "o"}},
		{name: "long vowel repeats", input: "コーヒー", expected: []string{"k", "o", "o", "h", "i", "i"}},
		{name: "moraic nasal", input: "ニホン", expected: []string{"n", "i", "h", "o", "N"}},
		{name: "loan combination", input: "パーティー", expected: []string{"p", "a", "a", "t", "i", "i"}},
		{name: "punctuation only", input: "...", expected: []string{".", ".", "."}},
		{name: "single question mark", input: "?", expected: []string{"?"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result, err := g2p.KataToPhonemes(testCase.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if !equalStrings(result, testCase.expected) {
				t.Errorf("KataToPhonemes(%q) = %v, want %v", testCase.input, result, testCase.expected)
			}
		})
	}
}

func TestKataToPhonemes_RejectsNonKatakana(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"ひらがな", "hello", "漢字"} {
		_, err := g2p.KataToPhonemes(input)
		if !errors.Is(err, g2p.ErrNotKatakana) {
			t.Errorf("KataToPhonemes(%q): expected ErrNotKatakana, got %v", input, err)
		}
	}
}
