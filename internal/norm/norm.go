// Package norm provides Japanese text normalization for the synthesis
// front-end: Unicode NFKC folding, punctuation unification, and the
// punctuation inventory shared with the grapheme-to-phoneme pipeline.
package norm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Punctuations is the canonical punctuation inventory. Every punctuation
// character surviving normalization is one of these, and the phoneme
// aligner treats exactly these as tone-neutral symbols.
var Punctuations = []string{"!", "?", "…", ",", ".", "'", "-"}

var punctuationSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Punctuations))
	for _, p := range Punctuations {
		set[p] = struct{}{}
	}

	return set
}()

// replacer folds the long tail of CJK and typographic punctuation onto the
// canonical inventory.
var replacer = strings.NewReplacer(
	"：", ",",
	"；", ",",
	"，", ",",
	"。", ".",
	"！", "!",
	"？", "?",
	"\n", ".",
	"．", ".",
	"…", "...",
	"···", "...",
	"・・・", "...",
	"·", ",",
	"・", ",",
	"、", ",",
	"$", ".",
	"“", "'",
	"”", "'",
	"\"", "'",
	"‘", "'",
	"’", "'",
	"（", "'",
	"）", "'",
	"(", "'",
	")", "'",
	"「", "'",
	"」", "'",
	"《", "'",
	"》", "'",
	"【", "'",
	"】", "'",
	"[", "'",
	"]", "'",
	"—", "-",
	"−", "-",
	"～", "-",
	"~", "-",
)

// disallowedPattern matches every run of characters that is neither
// Japanese text (hiragana, katakana, kanji, iteration mark) nor canonical
// punctuation.
var disallowedPattern = regexp.MustCompile(
	`[^\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}\x{3400}-\x{4DBF}\x{3005}` +
		`!?,.'\-]+`,
)

// Normalize folds text to NFKC form and unifies punctuation. The result
// contains only Japanese characters and canonical punctuation.
func Normalize(text string) string {
	return ReplacePunctuation(norm.NFKC.String(text))
}

// ReplacePunctuation rewrites punctuation variants onto the canonical
// inventory and strips characters the pipeline cannot voice.
func ReplacePunctuation(text string) string {
	return disallowedPattern.ReplaceAllString(replacer.Replace(text), "")
}

// IsPunctuation reports whether s is one canonical punctuation symbol.
func IsPunctuation(s string) bool {
	_, ok := punctuationSet[s]

	return ok
}

// IsAllPunctuation reports whether every rune of s is canonical punctuation.
// The empty string is not considered punctuation.
func IsAllPunctuation(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !IsPunctuation(string(r)) {
			return false
		}
	}

	return true
}
