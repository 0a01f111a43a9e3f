// main package for the kanade command line synthesizer
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/book-expert/logger"

	"github.com/kanade-tts/kanade/internal/audio"
	"github.com/kanade-tts/kanade/internal/jtalk"
	"github.com/kanade-tts/kanade/internal/onnx"
	"github.com/kanade-tts/kanade/internal/tokenizer"
	"github.com/kanade-tts/kanade/internal/tts"
	"github.com/kanade-tts/kanade/internal/voices"
)

type cliOptions struct {
	voicePath     string
	encoderPath   string
	tokenizerPath string
	analyzerURL   string
	text          string
	textFile      string
	outPath       string
	styleID       int
	speakerID     int64
	sdpRatio      float64
	lengthScale   float64
	styleWeight   float64
	noSplit       bool
}

func parseFlags() *cliOptions {
	opts := &cliOptions{}

	flag.StringVar(&opts.voicePath, "voice", "", "path to a voice package (.kvp)")
	flag.StringVar(&opts.encoderPath, "encoder", "", "path to the text encoder model (.onnx)")
	flag.StringVar(&opts.tokenizerPath, "tokenizer", "", "path to tokenizer.json")
	flag.StringVar(&opts.analyzerURL, "analyzer", "http://localhost:8500", "analyzer sidecar URL")
	flag.StringVar(&opts.text, "text", "", "text to synthesize")
	flag.StringVar(&opts.textFile, "file", "", "read text from a file instead of -text")
	flag.StringVar(&opts.outPath, "out", "out.wav", "output WAV path")
	flag.IntVar(&opts.styleID, "style", 0, "style id")
	flag.Int64Var(&opts.speakerID, "speaker", 0, "speaker id")
	flag.Float64Var(&opts.sdpRatio, "sdp-ratio", 0.0, "stochastic duration predictor ratio")
	flag.Float64Var(&opts.lengthScale, "length-scale", 1.0, "duration scale, larger is slower")
	flag.Float64Var(&opts.styleWeight, "style-weight", 1.0, "style blend weight")
	flag.BoolVar(&opts.noSplit, "no-split", false, "render the whole input as one segment")
	flag.Parse()

	return opts
}

func loadText(opts *cliOptions) (string, error) {
	if opts.textFile != "" {
		raw, err := os.ReadFile(opts.textFile)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}

		return string(raw), nil
	}

	if opts.text == "" {
		return "", fmt.Errorf("either -text or -file is required")
	}

	return opts.text, nil
}

func run() error {
	opts := parseFlags()

	if opts.voicePath == "" || opts.encoderPath == "" || opts.tokenizerPath == "" {
		flag.Usage()

		return fmt.Errorf("-voice, -encoder and -tokenizer are required")
	}

	text, err := loadText(opts)
	if err != nil {
		return err
	}

	log, err := logger.New(os.TempDir(), "kanade-cli.log")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer func() {
		_ = log.Close()
	}()

	err = onnx.Initialize()
	if err != nil {
		return err
	}

	defer func() {
		_ = onnx.Shutdown()
	}()

	tok, err := tokenizer.NewFromFile(opts.tokenizerPath)
	if err != nil {
		return err
	}

	encoder, err := onnx.NewEncoder(opts.encoderPath)
	if err != nil {
		return err
	}

	defer func() {
		_ = encoder.Close()
	}()

	cache := voices.NewCache(onnx.NewVocoder, 0)
	defer cache.Close()

	ident := strings.TrimSuffix(filepath.Base(opts.voicePath), filepath.Ext(opts.voicePath))

	err = cache.RegisterPackageFile(ident, opts.voicePath)
	if err != nil {
		return err
	}

	analyzer := jtalk.NewHTTPClient(opts.analyzerURL, 30*time.Second)
	engine := tts.NewEngine(analyzer, tok, encoder, cache, log)

	synthesisOpts := tts.Options{
		SDPRatio:       float32(opts.sdpRatio),
		LengthScale:    float32(opts.lengthScale),
		StyleWeight:    float32(opts.styleWeight),
		SplitSentences: !opts.noSplit,
	}

	start := time.Now()

	samples, err := engine.Synthesize(
		context.Background(), ident, text, opts.styleID, opts.speakerID, synthesisOpts,
	)
	if err != nil {
		return err
	}

	err = audio.WriteFile(opts.outPath, samples, tts.SampleRate)
	if err != nil {
		return err
	}

	audioSeconds := float64(len(samples)) / float64(tts.SampleRate)
	fmt.Printf("Wrote %s: %.2fs of audio in %.2fs\n",
		opts.outPath, audioSeconds, time.Since(start).Seconds())

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
