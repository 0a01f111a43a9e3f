// Package archive unpacks voice packages, which are zstd-compressed tar
// archives bundling a vocoder's ONNX weights with its style vectors.
package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	weightsMember = "model.onnx"
	stylesMember  = "style_vectors.json"
)

// ErrMemberMissing indicates a voice package that does not contain every
// required archive member.
var ErrMemberMissing = errors.New("voice package member missing")

// Package holds the raw contents of an unpacked voice package.
type Package struct {
	Weights      []byte
	StyleVectors []byte
}

// Unpack decompresses and reads a voice package from memory.
func Unpack(raw []byte) (*Package, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to open zstd stream: %w", err)
	}
	defer decoder.Close()

	pkg := &Package{}

	reader := tar.NewReader(decoder)

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read voice package: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := path.Clean(header.Name)

		switch name {
		case weightsMember:
			pkg.Weights, err = io.ReadAll(reader)
		case stylesMember:
			pkg.StyleVectors, err = io.ReadAll(reader)
		default:
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read member %q: %w", name, err)
		}
	}

	var missing []string

	if pkg.Weights == nil {
		missing = append(missing, weightsMember)
	}

	if pkg.StyleVectors == nil {
		missing = append(missing, stylesMember)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMemberMissing, strings.Join(missing, ", "))
	}

	return pkg, nil
}

// UnpackFile reads and unpacks a voice package from disk.
func UnpackFile(filePath string) (*Package, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice package file: %w", err)
	}

	return Unpack(raw)
}
