package g2p

import "fmt"

// symbolInventory is the vocoder's phoneme symbol table, in model order.
// Index 0 is the pad symbol used for the sequence boundaries and for the
// interleaved blanks.
var symbolInventory = []string{
	"_",
	"N", "a", "b", "by", "ch", "d", "dy", "e", "f", "g", "gy", "h", "hy",
	"i", "j", "k", "ky", "m", "my", "n", "ny", "o", "p", "py", "q", "r",
	"ry", "s", "sh", "t", "ts", "ty", "u", "v", "w", "y", "z",
	"!", "?", "…", ",", ".", "'", "-",
	"SP", "UNK",
}

var symbolIDs = func() map[string]int64 {
	ids := make(map[string]int64, len(symbolInventory))
	for i, s := range symbolInventory {
		ids[s] = int64(i)
	}

	return ids
}()

const (
	// japaneseToneOffset shifts the binary Japanese tones into the model's
	// shared tone id space.
	japaneseToneOffset = 6
	// japaneseLanguageID is the model's language id for Japanese.
	japaneseLanguageID = 1
)

// ToSequence maps phonemes and validated tones onto the vocoder's id
// spaces: symbol ids, offset tone ids, and a constant language id per
// position.
func ToSequence(phones []string, tones []int) (phoneIDs, toneIDs, langIDs []int64, err error) {
	phoneIDs = make([]int64, len(phones))
	for i, phone := range phones {
		id, ok := symbolIDs[phone]
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownPhoneme, phone)
		}

		phoneIDs[i] = id
	}

	toneIDs = make([]int64, len(tones))
	for i, tone := range tones {
		toneIDs[i] = int64(tone + japaneseToneOffset)
	}

	langIDs = make([]int64, len(phones))
	for i := range langIDs {
		langIDs[i] = japaneseLanguageID
	}

	return phoneIDs, toneIDs, langIDs, nil
}
