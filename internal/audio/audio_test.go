package audio_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanade-tts/kanade/internal/audio"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	samples := []float32{0, 0.5, -0.5, 1, -1}
	path := filepath.Join(t.TempDir(), "out.wav")

	err := audio.WriteFile(path, samples, 44100)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoder := wav.NewDecoder(f)
	buf, err := decoder.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, 44100, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)
	require.Len(t, buf.Data, len(samples))

	assert.Equal(t, 0, buf.Data[0])
	assert.Equal(t, 16383, buf.Data[1])
	assert.Equal(t, -16383, buf.Data[2])
	assert.Equal(t, 32767, buf.Data[3])
	assert.Equal(t, -32767, buf.Data[4])
}

func TestWriteFile_ClampsOutOfRange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clamped.wav")

	err := audio.WriteFile(path, []float32{2.5, -3.0}, 44100)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, 32767, buf.Data[0])
	assert.Equal(t, -32767, buf.Data[1])
}

func TestEncode(t *testing.T) {
	t.Parallel()

	data, err := audio.Encode([]float32{0, 0.25, -0.25}, 44100)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte("RIFF")))
	assert.Contains(t, string(data[:16]), "WAVE")
}
