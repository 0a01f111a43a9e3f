package onnx

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/kanade-tts/kanade/internal/core"
)

// vocoderInputs is the model's named-input order.
var vocoderInputs = []string{
	"x_tst",
	"x_tst_lengths",
	"sid",
	"tones",
	"language",
	"bert",
	"style_vec",
	"sdp_ratio",
	"length_scale",
	"noise_scale",
	"noise_scale_w",
}

// Vocoder wraps one voice's acoustic model session.
type Vocoder struct {
	session *ort.DynamicAdvancedSession
}

// NewVocoder creates a vocoder session from in-memory ONNX weights. Its
// signature matches the voice cache's session factory.
func NewVocoder(weights []byte) (core.Vocoder, error) {
	session, err := ort.NewDynamicAdvancedSessionWithONNXData(
		weights,
		vocoderInputs,
		[]string{"output"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocoder: %w", err)
	}

	return &Vocoder{session: session}, nil
}

// Infer synthesizes one segment of audio samples from the prepared
// phoneme, tone, language and feature sequences.
func (v *Vocoder) Infer(input core.VocoderInput) ([]float32, error) {
	seqLen := int64(len(input.Phones))

	featDim := int64(len(input.Features))
	bertFlat := make([]float32, 0, featDim*seqLen)

	for _, row := range input.Features {
		if int64(len(row)) != seqLen {
			return nil, fmt.Errorf(
				"%w: feature row length %d does not match sequence length %d",
				core.ErrInternalInconsistency, len(row), seqLen,
			)
		}

		bertFlat = append(bertFlat, row...)
	}

	tensors := make([]ort.Value, 0, len(vocoderInputs))

	defer func() {
		for _, tensor := range tensors {
			tensor.Destroy()
		}
	}()

	addInt64 := func(name string, shape []int64, data []int64) error {
		tensor, err := ort.NewTensor(shape, data)
		if err != nil {
			return fmt.Errorf("failed to create %s tensor: %w", name, err)
		}

		tensors = append(tensors, tensor)

		return nil
	}

	addFloat32 := func(name string, shape []int64, data []float32) error {
		tensor, err := ort.NewTensor(shape, data)
		if err != nil {
			return fmt.Errorf("failed to create %s tensor: %w", name, err)
		}

		tensors = append(tensors, tensor)

		return nil
	}

	err := addInt64("x_tst", []int64{1, seqLen}, input.Phones)
	if err == nil {
		err = addInt64("x_tst_lengths", []int64{1}, []int64{seqLen})
	}

	if err == nil {
		err = addInt64("sid", []int64{1}, []int64{input.SpeakerID})
	}

	if err == nil {
		err = addInt64("tones", []int64{1, seqLen}, input.Tones)
	}

	if err == nil {
		err = addInt64("language", []int64{1, seqLen}, input.Languages)
	}

	if err == nil {
		err = addFloat32("bert", []int64{1, featDim, seqLen}, bertFlat)
	}

	if err == nil {
		err = addFloat32("style_vec", []int64{1, int64(len(input.Style))}, input.Style)
	}

	if err == nil {
		err = addFloat32("sdp_ratio", []int64{1}, []float32{input.SDPRatio})
	}

	if err == nil {
		err = addFloat32("length_scale", []int64{1}, []float32{input.LengthScale})
	}

	if err == nil {
		err = addFloat32("noise_scale", []int64{1}, []float32{input.NoiseScale})
	}

	if err == nil {
		err = addFloat32("noise_scale_w", []int64{1}, []float32{input.NoiseScaleW})
	}

	if err != nil {
		return nil, err
	}

	outputs := []ort.Value{nil}

	err = v.session.Run(tensors, outputs)
	if err != nil {
		return nil, fmt.Errorf("vocoder inference failed: %w", err)
	}

	outTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("vocoder returned unexpected output type %T", outputs[0])
	}
	defer outTensor.Destroy()

	data := outTensor.GetData()
	samples := make([]float32, len(data))
	copy(samples, data)

	return samples, nil
}

// Close releases the vocoder session.
func (v *Vocoder) Close() error {
	if v.session == nil {
		return nil
	}

	err := v.session.Destroy()
	v.session = nil

	if err != nil {
		return fmt.Errorf("failed to destroy vocoder session: %w", err)
	}

	return nil
}
