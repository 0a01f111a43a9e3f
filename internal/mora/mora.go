// Package mora holds the static lookup from katakana mora units to phoneme
// pairs. A mora decomposes into at most one consonant plus exactly one
// vowel-class phoneme; the moraic nasal and the geminate stop are recorded
// as bare vowel-class entries ("N" and "q").
package mora

import "sort"

// Mora is one table entry: the phoneme pair a katakana unit expands to.
// Consonant is empty for bare vowels, the moraic nasal and the geminate.
type Mora struct {
	Consonant string
	Vowel     string
}

// table lists every supported katakana mora. Multi-character units (yoon
// and loan-word combinations) coexist with their constituent single kana;
// callers must try longer units first.
var table = map[string]Mora{
	// Bare vowels.
	"ア": {"", "a"}, "イ": {"", "i"}, "ウ": {"", "u"}, "エ": {"", "e"}, "オ": {"", "o"},
	// K row.
	"カ": {"k", "a"}, "キ": {"k", "i"}, "ク": {"k", "u"}, "ケ": {"k", "e"}, "コ": {"k", "o"},
	"ガ": {"g", "a"}, "ギ": {"g", "i"}, "グ": {"g", "u"}, "ゲ": {"g", "e"}, "ゴ": {"g", "o"},
	// S row.
	"サ": {"s", "a"}, "シ": {"sh", "i"}, "ス": {"s", "u"}, "セ": {"s", "e"}, "ソ": {"s", "o"},
	"ザ": {"z", "a"}, "ジ": {"j", "i"}, "ズ": {"z", "u"}, "ゼ": {"z", "e"}, "ゾ": {"z", "o"},
	// T row.
	"タ": {"t", "a"}, "チ": {"ch", "i"}, "ツ": {"ts", "u"}, "テ": {"t", "e"}, "ト": {"t", "o"},
	"ダ": {"d", "a"}, "ヂ": {"j", "i"}, "ヅ": {"z", "u"}, "デ": {"d", "e"}, "ド": {"d", "o"},
	// N row.
	"ナ": {"n", "a"}, "ニ": {"n", "i"}, "ヌ": {"n", "u"}, "ネ": {"n", "e"}, "ノ": {"n", "o"},
	// H row.
	"ハ": {"h", "a"}, "ヒ": {"h", "i"}, "フ": {"f", "u"}, "ヘ": {"h", "e"}, "ホ": {"h", "o"},
	"バ": {"b", "a"}, "ビ": {"b", "i"}, "ブ": {"b", "u"}, "ベ": {"b", "e"}, "ボ": {"b", "o"},
	"パ": {"p", "a"}, "ピ": {"p", "i"}, "プ": {"p", "u"}, "ペ": {"p", "e"}, "ポ": {"p", "o"},
	// M row.
	"マ": {"m", "a"}, "ミ": {"m", "i"}, "ム": {"m", "u"}, "メ": {"m", "e"}, "モ": {"m", "o"},
	// Y row.
	"ヤ": {"y", "a"}, "ユ": {"y", "u"}, "ヨ": {"y", "o"},
	// R row.
	"ラ": {"r", "a"}, "リ": {"r", "i"}, "ル": {"r", "u"}, "レ": {"r", "e"}, "ロ": {"r", "o"},
	// W row and archaic kana.
	"ワ": {"w", "a"}, "ヰ": {"", "i"}, "ヱ": {"", "e"}, "ヲ": {"", "o"},
	// Moraic nasal, geminate, voiced u.
	"ン": {"", "N"}, "ッ": {"", "q"}, "ヴ": {"v", "u"},
	// Small vowels appearing standalone in analyzer readings.
	"ァ": {"", "a"}, "ィ": {"", "i"}, "ゥ": {"", "u"}, "ェ": {"", "e"}, "ォ": {"", "o"},
	// Yoon.
	"キャ": {"ky", "a"}, "キュ": {"ky", "u"}, "キェ": {"ky", "e"}, "キョ": {"ky", "o"},
	"ギャ": {"gy", "a"}, "ギュ": {"gy", "u"}, "ギェ": {"gy", "e"}, "ギョ": {"gy", "o"},
	"シャ": {"sh", "a"}, "シュ": {"sh", "u"}, "シェ": {"sh", "e"}, "ショ": {"sh", "o"},
	"ジャ": {"j", "a"}, "ジュ": {"j", "u"}, "ジェ": {"j", "e"}, "ジョ": {"j", "o"},
	"チャ": {"ch", "a"}, "チュ": {"ch", "u"}, "チェ": {"ch", "e"}, "チョ": {"ch", "o"},
	"ニャ": {"ny", "a"}, "ニュ": {"ny", "u"}, "ニェ": {"ny", "e"}, "ニョ": {"ny", "o"},
	"ヒャ": {"hy", "a"}, "ヒュ": {"hy", "u"}, "ヒェ": {"hy", "e"}, "ヒョ": {"hy", "o"},
	"ビャ": {"by", "a"}, "ビュ": {"by", "u"}, "ビョ": {"by", "o"},
	"ピャ": {"py", "a"}, "ピュ": {"py", "u"}, "ピョ": {"py", "o"},
	"ミャ": {"my", "a"}, "ミュ": {"my", "u"}, "ミョ": {"my", "o"},
	"リャ": {"ry", "a"}, "リュ": {"ry", "u"}, "リョ": {"ry", "o"},
	// Loan-word combinations.
	"イェ": {"y", "e"},
	"ウィ": {"w", "i"}, "ウェ": {"w", "e"}, "ウォ": {"w", "o"},
	"ヴァ": {"v", "a"}, "ヴィ": {"v", "i"}, "ヴェ": {"v", "e"}, "ヴォ": {"v", "o"},
	"ティ": {"t", "i"}, "トゥ": {"t", "u"}, "テュ": {"ty", "u"},
	"ディ": {"d", "i"}, "ドゥ": {"d", "u"}, "デュ": {"dy", "u"},
	"ファ": {"f", "a"}, "フィ": {"f", "i"}, "フェ": {"f", "e"}, "フォ": {"f", "o"},
	"ツァ": {"ts", "a"}, "ツィ": {"ts", "i"}, "ツェ": {"ts", "e"}, "ツォ": {"ts", "o"},
}

// keysLongestFirst caches the table keys sorted by descending length so
// multi-character morae are always matched before their first kana.
var keysLongestFirst = func() []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}

		return keys[i] < keys[j]
	})

	return keys
}()

// vowels is the vowel-class phoneme set used for long-vowel resolution.
var vowels = map[string]struct{}{
	"a": {}, "i": {}, "u": {}, "e": {}, "o": {}, "N": {},
}

// Lookup returns the phoneme pair for one katakana mora.
func Lookup(kana string) (Mora, bool) {
	m, ok := table[kana]

	return m, ok
}

// KeysLongestFirst returns every mora key ordered so that longer units sort
// before shorter ones. The returned slice is shared; callers must not
// mutate it.
func KeysLongestFirst() []string {
	return keysLongestFirst
}

// IsVowel reports whether phoneme belongs to the vowel class, including the
// moraic nasal.
func IsVowel(phoneme string) bool {
	_, ok := vowels[phoneme]

	return ok
}
