// Package worker provides a NATS worker that processes synthesis jobs.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/kanade-tts/kanade/internal/audio"
	"github.com/kanade-tts/kanade/internal/core"
	"github.com/kanade-tts/kanade/internal/events"
	"github.com/kanade-tts/kanade/internal/tts"
)

const handleMessageTimeout = 120 * time.Second

var (
	// ErrVoiceEmpty indicates that the voice identifier is empty.
	ErrVoiceEmpty = errors.New("voice cannot be empty")
	// ErrTextKeyEmpty indicates that the text object key is empty.
	ErrTextKeyEmpty = errors.New("text key cannot be empty")
	// ErrStyleIDNegative indicates a negative style id.
	ErrStyleIDNegative = errors.New("style id must be non-negative")
	// ErrSDPRatioRange indicates that the SDPRatio parameter is out of the valid range [0.0, 1.0].
	ErrSDPRatioRange = errors.New("sdp_ratio must be between 0.0 and 1.0")
	// ErrLengthScaleRange indicates a non-positive length scale.
	ErrLengthScaleRange = errors.New("length_scale must be > 0.0")
	// ErrStyleWeightRange indicates a negative style weight.
	ErrStyleWeightRange = errors.New("style_weight must be >= 0.0")
)

// Synthesizer renders text into mono waveform samples with a registered
// voice. It is implemented by tts.Engine.
type Synthesizer interface {
	Synthesize(
		ctx context.Context,
		voiceIdent, text string,
		styleID int,
		speakerID int64,
		opts tts.Options,
	) ([]float32, error)
}

// NatsWorker listens for synthesis jobs on a NATS subject and processes
// them: download text, synthesize, upload audio, reply.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	textStore      core.ObjectStore
	audioStore     core.ObjectStore
	synth          Synthesizer
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	textStore core.ObjectStore,
	audioStore core.ObjectStore,
	synth Synthesizer,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		textStore:      textStore,
		audioStore:     audioStore,
		synth:          synth,
		log:            log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)

		return
	}

	audioKey, processErr := w.processJob(ctx, event)
	if processErr != nil {
		w.log.Error("Failed to process synthesis job %s: %v", event.JobID, processErr)

		return
	}

	replyEvent := &events.AudioRenderedEvent{
		JobID:      event.JobID,
		AudioKey:   audioKey,
		SampleRate: tts.SampleRate,
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for job %s: %v", event.JobID, err)
	}
}

// processJob handles the core logic of downloading text, synthesizing it,
// and uploading the rendered audio.
func (w *NatsWorker) processJob(ctx context.Context, event *events.SynthesisRequestedEvent) (string, error) {
	textData, err := w.textStore.Download(ctx, event.TextKey)
	if err != nil {
		return "", fmt.Errorf("failed to download text data for key '%s': %w", event.TextKey, err)
	}

	opts := tts.Options{
		SDPRatio:       float32(event.SDPRatio),
		LengthScale:    float32(event.LengthScale),
		StyleWeight:    float32(event.StyleWeight),
		SplitSentences: event.SplitSentences,
	}

	samples, err := w.synth.Synthesize(
		ctx, event.Voice, string(textData), event.StyleID, event.SpeakerID, opts,
	)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize text: %w", err)
	}

	audioData, err := audio.Encode(samples, tts.SampleRate)
	if err != nil {
		return "", fmt.Errorf("failed to encode audio: %w", err)
	}

	audioKey := uuid.NewString() + ".wav"

	err = w.audioStore.Upload(ctx, audioKey, audioData)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio data for key '%s': %w", audioKey, err)
	}

	return audioKey, nil
}

// publishReplyEvent marshals and responds with the AudioRenderedEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *events.AudioRenderedEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*events.SynthesisRequestedEvent, error) {
	var event events.SynthesisRequestedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	err = validateEvent(&event)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// validateEvent ensures the request carries valid and safe values.
func validateEvent(event *events.SynthesisRequestedEvent) error {
	if event.Voice == "" {
		return ErrVoiceEmpty
	}

	if event.TextKey == "" {
		return ErrTextKeyEmpty
	}

	if event.StyleID < 0 {
		return fmt.Errorf("%w: got %d", ErrStyleIDNegative, event.StyleID)
	}

	if event.SDPRatio < 0.0 || event.SDPRatio > 1.0 {
		return fmt.Errorf("%w: got %f", ErrSDPRatioRange, event.SDPRatio)
	}

	if event.LengthScale <= 0.0 {
		return fmt.Errorf("%w: got %f", ErrLengthScaleRange, event.LengthScale)
	}

	if event.StyleWeight < 0.0 {
		return fmt.Errorf("%w: got %f", ErrStyleWeightRange, event.StyleWeight)
	}

	return nil
}
