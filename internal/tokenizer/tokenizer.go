// Package tokenizer maps normalized text to the token ids consumed by the
// text encoder, one token per character.
package tokenizer

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	clsTokenID int64 = 1
	sepTokenID int64 = 2
)

// tokenizerFile is the subset of a HuggingFace tokenizer.json this
// tokenizer reads.
type tokenizerFile struct {
	Model struct {
		Vocab    map[string]int64 `json:"vocab"`
		UnkToken string           `json:"unk_token"`
	} `json:"model"`
}

// CharTokenizer tokenizes character by character against a fixed
// vocabulary, substituting the unknown token for unmapped characters.
type CharTokenizer struct {
	vocab map[string]int64
	unkID int64
}

// NewFromBytes parses a tokenizer vocabulary from raw tokenizer.json
// contents.
func NewFromBytes(raw []byte) (*CharTokenizer, error) {
	var file tokenizerFile

	err := json.Unmarshal(raw, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tokenizer: %w", err)
	}

	if len(file.Model.Vocab) == 0 {
		return nil, fmt.Errorf("tokenizer has an empty vocabulary")
	}

	unkID, ok := file.Model.Vocab[file.Model.UnkToken]
	if !ok {
		return nil, fmt.Errorf("unknown token %q is not in the vocabulary", file.Model.UnkToken)
	}

	return &CharTokenizer{vocab: file.Model.Vocab, unkID: unkID}, nil
}

// NewFromFile loads a tokenizer vocabulary from disk.
func NewFromFile(path string) (*CharTokenizer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer file: %w", err)
	}

	return NewFromBytes(raw)
}

// Tokenize converts text into token ids framed by the classifier and
// separator tokens, with an all-ones attention mask of the same length.
func (t *CharTokenizer) Tokenize(text string) ([]int64, []int64, error) {
	runes := []rune(text)

	tokenIDs := make([]int64, 0, len(runes)+2)
	tokenIDs = append(tokenIDs, clsTokenID)

	for _, r := range runes {
		id, ok := t.vocab[string(r)]
		if !ok {
			id = t.unkID
		}

		tokenIDs = append(tokenIDs, id)
	}

	tokenIDs = append(tokenIDs, sepTokenID)

	mask := make([]int64, len(tokenIDs))
	for i := range mask {
		mask[i] = 1
	}

	return tokenIDs, mask, nil
}
