package g2p

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kanade-tts/kanade/internal/core"
)

// PhoneTone pairs one phoneme with its pitch-accent tone. After validation
// the tone is always 0 or 1.
type PhoneTone struct {
	Phone string
	Tone  int
}

// prosodyKind tags one symbol of the extracted prosody stream.
type prosodyKind int

const (
	symPhone prosodyKind = iota
	// symPhraseStart marks the leading silence; it may only appear first.
	symPhraseStart
	// symUtteranceEnd marks the trailing silence; it may only appear last.
	symUtteranceEnd
	symPause
	// symBoundary is an accent-phrase boundary inside the utterance.
	symBoundary
	symToneUp
	symToneDown
)

type prosodySymbol struct {
	kind          prosodyKind
	phone         string
	interrogative bool
}

// absentPosition stands in for any missing accent-position field so the
// lookahead comparisons below can never match it.
const absentPosition = -50

// boundaryPhoneClass lists the phones eligible for the accent-phrase
// boundary lookahead: vowels, the moraic nasal, and the geminate placeholder.
const boundaryPhoneClass = "aeiouAEIOUNcl"

// prosodySymbols interprets the label stream into a prosody symbol stream.
// Tone movements and phrase boundaries become dedicated symbols; everything
// else is a phone, lowercased when it is a devoiced vowel and with the
// analyzer's geminate placeholder "cl" remapped to "q".
func prosodySymbols(labels []Label) ([]prosodySymbol, error) {
	symbols := make([]prosodySymbol, 0, len(labels))

	for i, label := range labels {
		phone := label.Phoneme
		if len(phone) == 1 && strings.Contains("AIUEO", phone) {
			phone = strings.ToLower(phone)
		}

		switch phone {
		case "sil":
			if i != 0 && i != len(labels)-1 {
				return nil, fmt.Errorf(
					"%w: silence label at position %d of %d",
					core.ErrInternalInconsistency, i, len(labels),
				)
			}

			if i == 0 {
				symbols = append(symbols, prosodySymbol{kind: symPhraseStart})
			} else {
				interrogative := label.AccentPhrasePrev != nil &&
					label.AccentPhrasePrev.IsInterrogative
				symbols = append(symbols, prosodySymbol{
					kind:          symUtteranceEnd,
					interrogative: interrogative,
				})
			}

			continue

		case "pau":
			symbols = append(symbols, prosodySymbol{kind: symPause})

			continue
		}

		if phone == "cl" {
			symbols = append(symbols, prosodySymbol{kind: symPhone, phone: "q"})
		} else {
			symbols = append(symbols, prosodySymbol{kind: symPhone, phone: phone})
		}

		if sym, ok := lookaheadSymbol(labels, i, label.Phoneme); ok {
			symbols = append(symbols, sym)
		}
	}

	return symbols, nil
}

// lookaheadSymbol applies the three accent lookahead rules to the label at
// index i. The rules are mutually exclusive and checked in fixed priority
// order; the conditions are analyzer-specific and kept literal.
func lookaheadSymbol(labels []Label, i int, rawPhone string) (prosodySymbol, bool) {
	a1, a2, a3 := absentPosition, absentPosition, absentPosition
	if labels[i].Mora != nil {
		a1 = labels[i].Mora.RelativeAccentPosition
		a2 = labels[i].Mora.PositionForward
		a3 = labels[i].Mora.PositionBackward
	}

	f1 := absentPosition
	if labels[i].AccentPhraseCurr != nil {
		f1 = labels[i].AccentPhraseCurr.MoraCount
	}

	a2Next := absentPosition
	if i+1 < len(labels) && labels[i+1].Mora != nil {
		a2Next = labels[i+1].Mora.PositionForward
	}

	switch {
	case a3 == 1 && a2Next == 1 && phoneInClass(rawPhone, boundaryPhoneClass):
		return prosodySymbol{kind: symBoundary}, true
	case a1 == 0 && a2Next == a2+1 && a2 != f1:
		return prosodySymbol{kind: symToneDown}, true
	case a2 == 1 && a2Next == 2:
		return prosodySymbol{kind: symToneUp}, true
	}

	return prosodySymbol{}, false
}

func phoneInClass(phone, class string) bool {
	return phone != "" && strings.Contains(class, phone)
}

// phraseTones walks the prosody symbol stream with a running tone counter
// and returns the flat punctuation-free phoneme/tone sequence, one
// validated phrase at a time.
func phraseTones(labels []Label) ([]PhoneTone, error) {
	symbols, err := prosodySymbols(labels)
	if err != nil {
		return nil, err
	}

	var (
		results       []PhoneTone
		currentPhrase []PhoneTone
		currentTone   int
	)

	for i, sym := range symbols {
		switch sym.kind {
		case symPhraseStart:
			if i != 0 {
				return nil, fmt.Errorf(
					"%w: phrase start at symbol %d", core.ErrInternalInconsistency, i,
				)
			}

		case symUtteranceEnd, symPause, symBoundary:
			fixed, fixErr := fixPhoneTones(currentPhrase)
			if fixErr != nil {
				return nil, fixErr
			}

			results = append(results, fixed...)

			if sym.kind == symUtteranceEnd && i != len(symbols)-1 {
				return nil, fmt.Errorf(
					"%w: utterance end at symbol %d of %d",
					core.ErrInternalInconsistency, i, len(symbols),
				)
			}

			currentPhrase = nil
			currentTone = 0

		case symToneUp:
			currentTone++

		case symToneDown:
			currentTone--

		case symPhone:
			currentPhrase = append(currentPhrase, PhoneTone{
				Phone: sym.phone,
				Tone:  currentTone,
			})
		}
	}

	return results, nil
}

// fixPhoneTones normalizes one phrase's tones to the canonical {0,1}
// encoding. A phrase carrying exactly {0} or {0,1} is kept; {-1,0} is
// shifted up; anything else is rejected.
func fixPhoneTones(phrase []PhoneTone) ([]PhoneTone, error) {
	if len(phrase) == 0 {
		return nil, nil
	}

	distinct := make(map[int]struct{})
	for _, pt := range phrase {
		distinct[pt.Tone] = struct{}{}
	}

	switch {
	case hasExactly(distinct, 0):
		return phrase, nil

	case hasExactly(distinct, 0, 1):
		return phrase, nil

	case hasExactly(distinct, -1, 0):
		fixed := make([]PhoneTone, len(phrase))
		for i, pt := range phrase {
			tone := 1
			if pt.Tone == -1 {
				tone = 0
			}

			fixed[i] = PhoneTone{Phone: pt.Phone, Tone: tone}
		}

		return fixed, nil

	default:
		return nil, fmt.Errorf(
			"%w: phrase %s has tones %v",
			ErrInvalidToneValues, phraseString(phrase), toneSet(distinct),
		)
	}
}

func hasExactly(set map[int]struct{}, values ...int) bool {
	if len(set) != len(values) {
		return false
	}

	for _, v := range values {
		if _, ok := set[v]; !ok {
			return false
		}
	}

	return true
}

func toneSet(set map[int]struct{}) []int {
	values := make([]int, 0, len(set))
	for v := range set {
		values = append(values, v)
	}

	sort.Ints(values)

	return values
}

func phraseString(phrase []PhoneTone) string {
	phones := make([]string, len(phrase))
	for i, pt := range phrase {
		phones[i] = pt.Phone
	}

	return strings.Join(phones, " ")
}
