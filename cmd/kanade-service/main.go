// main package for the kanade-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/kanade-tts/kanade/internal/config"
	"github.com/kanade-tts/kanade/internal/jtalk"
	"github.com/kanade-tts/kanade/internal/objectstore"
	"github.com/kanade-tts/kanade/internal/onnx"
	"github.com/kanade-tts/kanade/internal/tokenizer"
	"github.com/kanade-tts/kanade/internal/tts"
	"github.com/kanade-tts/kanade/internal/voices"
	"github.com/kanade-tts/kanade/internal/worker"
)

const voicePackageExtension = ".kvp"

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "kanade-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	return runService(cfg, finalLog)
}

func runService(cfg *config.Config, log *logger.Logger) error {
	err := onnx.Initialize()
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := onnx.Shutdown()
		if shutdownErr != nil {
			log.Error("Failed to shut down ONNX Runtime: %v", shutdownErr)
		}
	}()

	engine, cleanup, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	textStore, err := objectstore.New(jetstreamContext, cfg.NATS.TextBucket)
	if err != nil {
		return err
	}

	audioStore, err := objectstore.New(jetstreamContext, cfg.NATS.AudioBucket)
	if err != nil {
		return err
	}

	natsWorker, err := worker.NewNatsWorker(
		natsConnection,
		cfg.NATS.SynthesisSubject,
		textStore,
		audioStore,
		engine,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	log.System(
		"Kanade service initialized. Listening for jobs on subject: %s",
		cfg.NATS.SynthesisSubject,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return natsWorker.Run(ctx)
}

// buildEngine assembles the synthesis engine: analyzer client, tokenizer,
// text encoder, and the voice cache populated from the voice directory.
func buildEngine(cfg *config.Config, log *logger.Logger) (*tts.Engine, func(), error) {
	analyzerTimeout := time.Duration(cfg.Engine.AnalyzerTimeoutSeconds) * time.Second
	analyzer := jtalk.NewHTTPClient(cfg.Engine.AnalyzerURL, analyzerTimeout)

	healthCtx, cancel := context.WithTimeout(context.Background(), analyzerTimeout)
	defer cancel()

	err := analyzer.HealthCheck(healthCtx)
	if err != nil {
		return nil, nil, err
	}

	tok, err := tokenizer.NewFromFile(cfg.Engine.TokenizerPath)
	if err != nil {
		return nil, nil, err
	}

	encoder, err := onnx.NewEncoder(cfg.Engine.EncoderModelPath)
	if err != nil {
		return nil, nil, err
	}

	cache := voices.NewCache(onnx.NewVocoder, cfg.Engine.MaxLoadedModels)

	err = registerVoices(cache, cfg.Engine.VoiceDir, log)
	if err != nil {
		closeErr := encoder.Close()
		if closeErr != nil {
			log.Error("Failed to close text encoder: %v", closeErr)
		}

		return nil, nil, err
	}

	cleanup := func() {
		cache.Close()

		closeErr := encoder.Close()
		if closeErr != nil {
			log.Error("Failed to close text encoder: %v", closeErr)
		}
	}

	return tts.NewEngine(analyzer, tok, encoder, cache, log), cleanup, nil
}

// registerVoices loads every voice package in dir into the cache, keyed by
// file name without the extension.
func registerVoices(cache *voices.Cache, dir string, log *logger.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read voice directory %s: %w", dir, err)
	}

	registered := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), voicePackageExtension) {
			continue
		}

		ident := strings.TrimSuffix(entry.Name(), voicePackageExtension)

		err = cache.RegisterPackageFile(ident, filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}

		log.Info("Registered voice %s", ident)

		registered++
	}

	if registered == 0 {
		return fmt.Errorf("no voice packages found in %s", dir)
	}

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
