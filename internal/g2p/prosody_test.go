package g2p

import (
	"errors"
	"testing"
)

func toneValues(phrase []PhoneTone) []int {
	tones := make([]int, len(phrase))
	for i, pt := range phrase {
		tones[i] = pt.Tone
	}

	return tones
}

func equalInts(a, b []int) bool {
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

func TestFixPhoneTones(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tones    []int
		expected []int
		wantErr  bool
	}{
		{name: "flat phrase kept", tones: []int{0, 0, 0}, expected: []int{0, 0, 0}},
		{name: "binary phrase kept", tones: []int{0, 1, 1, 0}, expected: []int{0, 1, 1, 0}},
		{name: "downstepped phrase shifted", tones: []int{0, 0, -1, -1}, expected: []int{1, 1, 0, 0}},
		{name: "three levels rejected", tones: []int{-1, 0, 1}, wantErr: true},
		{name: "stray high tone rejected", tones: []int{1, 1}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			phrase := make([]PhoneTone, len(testCase.tones))
			for i, tone := range testCase.tones {
				phrase[i] = PhoneTone{Phone: "a", Tone: tone}
			}

			fixed, err := fixPhoneTones(phrase)
			if testCase.wantErr {
				if !errors.Is(err, ErrInvalidToneValues) {
					t.Fatalf("Expected ErrInvalidToneValues, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if len(fixed) != len(phrase) {
				t.Fatalf("Expected %d phones, got %d", len(phrase), len(fixed))
			}

			if !equalInts(toneValues(fixed), testCase.expected) {
				t.Errorf("Expected tones %v, got %v", testCase.expected, toneValues(fixed))
			}
		})
	}
}

func TestFixPhoneTones_EmptyPhrase(t *testing.T) {
	t.Parallel()

	fixed, err := fixPhoneTones(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(fixed) != 0 {
		t.Errorf("Expected no phones, got %v", fixed)
	}
}

func label(phoneme string, moraPos *MoraPosition) Label {
	return Label{Phoneme: phoneme, Mora: moraPos}
}

func TestPhraseTones_FlatUtterance(t *testing.T) {
	t.Parallel()

	labels := []Label{
		label("sil", nil),
		label("a", nil),
		label("m", nil),
		label("e", nil),
		{Phoneme: "sil", AccentPhrasePrev: &AccentPhrase{MoraCount: 2}},
	}

	result, err := phraseTones(labels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("Expected 3 phones, got %d", len(result))
	}

	for i, pt := range result {
		if pt.Tone != 0 {
			t.Errorf("Phone %d: expected tone 0, got %d", i, pt.Tone)
		}
	}
}

func TestPhraseTones_ToneRise(t *testing.T) {
	t.Parallel()

	// The first mora sits at position 1 and the next at position 2, which
	// raises the tone for the rest of the phrase.
	labels := []Label{
		label("sil", nil),
		label("a", &MoraPosition{RelativeAccentPosition: -1, PositionForward: 1, PositionBackward: 3}),
		label("m", &MoraPosition{RelativeAccentPosition: -1, PositionForward: 2, PositionBackward: 2}),
		label("e", &MoraPosition{RelativeAccentPosition: -1, PositionForward: 2, PositionBackward: 2}),
		{Phoneme: "sil", AccentPhrasePrev: &AccentPhrase{MoraCount: 2}},
	}

	result, err := phraseTones(labels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !equalInts(toneValues(result), []int{0, 1, 1}) {
		t.Errorf("Expected tones [0 1 1], got %v", toneValues(result))
	}
}

func TestPhraseTones_DevoicedVowelLowercased(t *testing.T) {
	t.Parallel()

	labels := []Label{
		label("sil", nil),
		label("U", nil),
		label("sil", nil),
	}

	result, err := phraseTones(labels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result) != 1 || result[0].Phone != "u" {
		t.Errorf("Expected devoiced vowel to be lowercased, got %v", result)
	}
}

func TestPhraseTones_GeminateRemapped(t *testing.T) {
	t.Parallel()

	labels := []Label{
		label("sil", nil),
		label("k", nil),
		label("i", nil),
		label("cl", nil),
		label("t", nil),
		label("e", nil),
		label("sil", nil),
	}

	result, err := phraseTones(labels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	phones := make([]string, len(result))
	for i, pt := range result {
		phones[i] = pt.Phone
	}

	expected := []string{"k", "i", "q", "t", "e"}
	for i := range expected {
		if phones[i] != expected[i] {
			t.Fatalf("Expected phones %v, got %v", expected, phones)
		}
	}
}

func TestPhraseTones_MisplacedSilence(t *testing.T) {
	t.Parallel()

	labels := []Label{
		label("sil", nil),
		label("a", nil),
		label("sil", nil),
		label("e", nil),
		label("sil", nil),
	}

	_, err := phraseTones(labels)
	if err == nil {
		t.Fatal("Expected an error for silence in the middle of the utterance")
	}
}

func TestPhraseTones_PauseSplitsPhrases(t *testing.T) {
	t.Parallel()

	// Each side of the pause is validated as its own phrase; the second
	// phrase starts back at tone zero.
	labels := []Label{
		label("sil", nil),
		label("a", &MoraPosition{RelativeAccentPosition: -1, PositionForward: 1, PositionBackward: 1}),
		label("pau", nil),
		label("o", &MoraPosition{RelativeAccentPosition: -1, PositionForward: 1, PositionBackward: 1}),
		label("sil", nil),
	}

	result, err := phraseTones(labels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !equalInts(toneValues(result), []int{0, 0}) {
		t.Errorf("Expected tones [0 0], got %v", toneValues(result))
	}
}
