// Package core defines the shared interfaces and the error taxonomy of the
// kanade synthesis engine.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// Tokenizer converts text into the embedding model's token id space, one
// token per input character, framed by the fixed start and end markers.
type Tokenizer interface {
	Tokenize(text string) (tokenIDs []int64, attentionMask []int64, err error)
}

// TextEncoder is the contextual embedding model: given token ids and an
// attention mask it returns one feature row per input token.
type TextEncoder interface {
	Encode(tokenIDs, attentionMask []int64) ([][]float32, error)
	Close() error
}

// VocoderInput carries the named tensors of one vocoder invocation.
// Features is laid out feature-dimension first: Features[d][p] is the value
// of feature d at phoneme p, aligned 1:1 with Phones.
type VocoderInput struct {
	Features  [][]float32
	Phones    []int64
	Tones     []int64
	Languages []int64
	SpeakerID int64
	Style     []float32

	SDPRatio    float32
	LengthScale float32
	NoiseScale  float32
	NoiseScaleW float32
}

// Vocoder renders an aligned phoneme/tone/feature sequence into raw mono
// waveform samples.
type Vocoder interface {
	Infer(in VocoderInput) ([]float32, error)
	Close() error
}
