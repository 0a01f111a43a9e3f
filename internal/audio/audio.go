// Package audio renders raw float samples into WAV files and buffers.
package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth    = 16
	numChannels = 1
	wavFormat   = 1
)

// WriteFile writes mono float samples as a 16-bit PCM WAV file.
func WriteFile(path string, samples []float32, sampleRate int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer out.Close()

	encoder := wav.NewEncoder(out, sampleRate, bitDepth, numChannels, wavFormat)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		Data:           quantize(samples),
		SourceBitDepth: bitDepth,
	}

	err = encoder.Write(buf)
	if err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}

	return nil
}

// Encode renders mono float samples into an in-memory WAV payload. The
// encoder needs a seekable target for its header rewrite, so encoding goes
// through a temporary file.
func Encode(samples []float32, sampleRate int) ([]byte, error) {
	tmp, err := os.CreateTemp("", "kanade-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary WAV file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		_ = os.Remove(tmpPath)
	}()

	err = tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to close temporary WAV file: %w", err)
	}

	err = WriteFile(tmpPath, samples, sampleRate)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded WAV data: %w", err)
	}

	return data, nil
}

// quantize clamps float samples to [-1, 1] and scales them to signed
// 16-bit integers.
func quantize(samples []float32) []int {
	out := make([]int, len(samples))

	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}

		out[i] = int(s * 32767)
	}

	return out
}
