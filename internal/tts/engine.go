// Package tts orchestrates synthesis: it turns raw text into aligned
// phoneme, tone and feature sequences and drives a voice's vocoder over
// them.
package tts

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/book-expert/logger"

	"github.com/kanade-tts/kanade/internal/core"
	"github.com/kanade-tts/kanade/internal/g2p"
	"github.com/kanade-tts/kanade/internal/norm"
	"github.com/kanade-tts/kanade/internal/voices"
)

// SampleRate is the output sample rate of every vocoder in the model
// family.
const SampleRate = 44100

// Fixed sampling parameters of the vocoder family.
const (
	noiseScale  float32 = 0.677
	noiseScaleW float32 = 0.8
)

// Options are the per-request synthesis knobs.
type Options struct {
	// SDPRatio mixes the stochastic duration predictor into phoneme
	// timing. Valid range is 0 to 1.
	SDPRatio float32

	// LengthScale stretches phoneme durations; larger is slower speech.
	LengthScale float32

	// StyleWeight scales the chosen style away from the voice's baseline.
	StyleWeight float32

	// SplitSentences renders each input line separately with a pause
	// between lines.
	SplitSentences bool
}

// DefaultOptions returns the standard synthesis settings.
func DefaultOptions() Options {
	return Options{
		SDPRatio:       0.0,
		LengthScale:    1.0,
		StyleWeight:    1.0,
		SplitSentences: true,
	}
}

// Engine wires the linguistic front end to the voice cache.
type Engine struct {
	analyzer  g2p.Analyzer
	tokenizer core.Tokenizer
	encoder   core.TextEncoder
	voices    *voices.Cache
	log       *logger.Logger
}

// NewEngine creates a synthesis engine over an already populated voice
// cache.
func NewEngine(
	analyzer g2p.Analyzer,
	tok core.Tokenizer,
	encoder core.TextEncoder,
	cache *voices.Cache,
	log *logger.Logger,
) *Engine {
	return &Engine{
		analyzer:  analyzer,
		tokenizer: tok,
		encoder:   encoder,
		voices:    cache,
		log:       log,
	}
}

// Voices lists the identifiers of every registered voice.
func (e *Engine) Voices() []string {
	return e.voices.Idents()
}

// Synthesize renders text with the named voice and returns mono samples
// at SampleRate. With sentence splitting enabled, each non-empty input
// line is rendered separately and one second of silence is inserted
// between consecutive lines.
func (e *Engine) Synthesize(
	ctx context.Context,
	voiceIdent, text string,
	styleID int,
	speakerID int64,
	opts Options,
) ([]float32, error) {
	voice, err := e.voices.EnsureReady(voiceIdent)
	if err != nil {
		return nil, err
	}

	styleVec, err := voice.Styles().Blend(styleID, opts.StyleWeight)
	if err != nil {
		return nil, fmt.Errorf("voice %q: %w", voiceIdent, err)
	}

	segments := []string{text}
	if opts.SplitSentences {
		segments = splitLines(text)
	}

	var samples []float32

	for i, segment := range segments {
		if i > 0 {
			samples = append(samples, make([]float32, SampleRate)...)
		}

		rendered, renderErr := e.renderSegment(ctx, voice, segment, speakerID, styleVec, opts)
		if renderErr != nil {
			return nil, renderErr
		}

		samples = append(samples, rendered...)
	}

	return samples, nil
}

// renderSegment synthesizes one line of text with a prepared style vector.
func (e *Engine) renderSegment(
	ctx context.Context,
	voice *voices.Voice,
	text string,
	speakerID int64,
	styleVec []float32,
	opts Options,
) ([]float32, error) {
	phones, tones, langs, features, err := e.parseText(ctx, text)
	if err != nil {
		return nil, err
	}

	input := core.VocoderInput{
		Features:    features,
		Phones:      phones,
		Tones:       tones,
		Languages:   langs,
		SpeakerID:   speakerID,
		Style:       styleVec,
		SDPRatio:    opts.SDPRatio,
		LengthScale: opts.LengthScale,
		NoiseScale:  noiseScale,
		NoiseScaleW: noiseScaleW,
	}

	samples, err := voice.Session().Infer(input)
	if err != nil {
		return nil, fmt.Errorf("voice %q: %w", voice.Ident(), err)
	}

	e.log.Info("Rendered %d samples for %d phonemes with voice %s",
		len(samples), len(phones), voice.Ident())

	return samples, nil
}

// parseText runs the full linguistic front end over one segment: number
// expansion, normalization, morphological analysis, phoneme extraction,
// and feature broadcasting onto the interspersed phoneme grid.
func (e *Engine) parseText(
	ctx context.Context,
	text string,
) (phones, tones, langs []int64, features [][]float32, err error) {
	expanded, err := e.analyzer.NormalizeNumbers(ctx, text)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("number normalization failed: %w", err)
	}

	normalized := norm.Normalize(expanded)

	analysis, err := e.analyzer.Analyze(ctx, normalized)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("analysis failed: %w", err)
	}

	seq, err := g2p.Sequence(analysis)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	phoneIDs, toneIDs, langIDs, err := g2p.ToSequence(seq.Phones, seq.Tones)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	phones = intersperse(phoneIDs, 0)
	tones = intersperse(toneIDs, 0)
	langs = intersperse(langIDs, 0)

	counts := broadcastCounts(seq.Word2Ph)
	if len(counts) != utf8.RuneCountInString(seq.Text)+2 {
		return nil, nil, nil, nil, fmt.Errorf(
			"%w: %d phoneme groups for %d tokenized characters",
			core.ErrInternalInconsistency, len(counts), utf8.RuneCountInString(seq.Text)+2,
		)
	}

	tokenIDs, attentionMask, err := e.tokenizer.Tokenize(seq.Text)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("tokenization failed: %w", err)
	}

	hidden, err := e.encoder.Encode(tokenIDs, attentionMask)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("text encoding failed: %w", err)
	}

	features, err = broadcastFeatures(hidden, counts)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if len(features[0]) != len(phones) {
		return nil, nil, nil, nil, fmt.Errorf(
			"%w: %d feature frames for %d phonemes",
			core.ErrInternalInconsistency, len(features[0]), len(phones),
		)
	}

	return phones, tones, langs, features, nil
}

// splitLines breaks text on newlines, dropping empty lines.
func splitLines(text string) []string {
	var lines []string

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}
