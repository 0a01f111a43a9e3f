package archive_test

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanade-tts/kanade/internal/archive"
)

// buildPackage assembles a zstd-compressed tar archive from the given
// members.
func buildPackage(t *testing.T, members map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	encoder, err := zstd.NewWriter(&buf)
	require.NoError(t, err)

	writer := tar.NewWriter(encoder)

	for name, data := range members {
		err = writer.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(data)),
			Typeflag: tar.TypeReg,
		})
		require.NoError(t, err)

		_, err = writer.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	require.NoError(t, encoder.Close())

	return buf.Bytes()
}

func TestUnpack(t *testing.T) {
	t.Parallel()

	raw := buildPackage(t, map[string][]byte{
		"model.onnx":         []byte("weights"),
		"style_vectors.json": []byte(`{"shape":[1,1],"data":[[0.0]]}`),
	})

	pkg, err := archive.Unpack(raw)
	require.NoError(t, err)

	assert.Equal(t, []byte("weights"), pkg.Weights)
	assert.JSONEq(t, `{"shape":[1,1],"data":[[0.0]]}`, string(pkg.StyleVectors))
}

func TestUnpack_IgnoresExtraMembers(t *testing.T) {
	t.Parallel()

	raw := buildPackage(t, map[string][]byte{
		"model.onnx":         []byte("weights"),
		"style_vectors.json": []byte("{}"),
		"README.txt":         []byte("ignored"),
	})

	pkg, err := archive.Unpack(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("weights"), pkg.Weights)
}

func TestUnpack_MissingMembers(t *testing.T) {
	t.Parallel()

	raw := buildPackage(t, map[string][]byte{
		"model.onnx": []byte("weights"),
	})

	_, err := archive.Unpack(raw)
	require.ErrorIs(t, err, archive.ErrMemberMissing)
	assert.Contains(t, err.Error(), "style_vectors.json")
	assert.NotContains(t, err.Error(), "model.onnx")
}

func TestUnpack_NotZstd(t *testing.T) {
	t.Parallel()

	_, err := archive.Unpack([]byte("plainly not an archive"))
	require.Error(t, err)
}

func TestUnpackFile(t *testing.T) {
	t.Parallel()

	raw := buildPackage(t, map[string][]byte{
		"model.onnx":         []byte("weights"),
		"style_vectors.json": []byte("{}"),
	})

	path := filepath.Join(t.TempDir(), "voice.kvp")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	pkg, err := archive.UnpackFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("weights"), pkg.Weights)

	_, err = archive.UnpackFile(filepath.Join(t.TempDir(), "missing.kvp"))
	require.Error(t, err)
}
