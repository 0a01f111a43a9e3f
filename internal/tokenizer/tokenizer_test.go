package tokenizer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tok "github.com/kanade-tts/kanade/internal/tokenizer"
)

const vocabJSON = `{
	"model": {
		"vocab": {
			"[UNK]": 0,
			"[CLS]": 1,
			"[SEP]": 2,
			"雨": 10,
			"が": 11,
			"降": 12,
			"る": 13,
			".": 14
		},
		"unk_token": "[UNK]"
	}
}`

func TestTokenize(t *testing.T) {
	t.Parallel()

	tk, err := tok.NewFromBytes([]byte(vocabJSON))
	require.NoError(t, err)

	ids, mask, err := tk.Tokenize("雨が降る.")
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 10, 11, 12, 13, 14, 2}, ids)
	assert.Equal(t, []int64{1, 1, 1, 1, 1, 1, 1}, mask)
}

func TestTokenize_UnknownCharacter(t *testing.T) {
	t.Parallel()

	tk, err := tok.NewFromBytes([]byte(vocabJSON))
	require.NoError(t, err)

	ids, _, err := tk.Tokenize("雪")
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 0, 2}, ids)
}

func TestTokenize_Empty(t *testing.T) {
	t.Parallel()

	tk, err := tok.NewFromBytes([]byte(vocabJSON))
	require.NoError(t, err)

	ids, mask, err := tk.Tokenize("")
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, ids)
	assert.Len(t, mask, 2)
}

func TestNewFromBytes_Invalid(t *testing.T) {
	t.Parallel()

	_, err := tok.NewFromBytes([]byte("not json"))
	require.Error(t, err)

	_, err = tok.NewFromBytes([]byte(`{"model": {"vocab": {}, "unk_token": "[UNK]"}}`))
	require.Error(t, err)

	_, err = tok.NewFromBytes([]byte(`{"model": {"vocab": {"a": 3}, "unk_token": "[UNK]"}}`))
	require.Error(t, err)
}

func TestNewFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokenizer.json")
	require.NoError(t, os.WriteFile(path, []byte(vocabJSON), 0o644))

	tk, err := tok.NewFromFile(path)
	require.NoError(t, err)
	require.NotNil(t, tk)

	_, err = tok.NewFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
