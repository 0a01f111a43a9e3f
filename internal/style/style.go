// Package style parses a voice's style-vector matrix and blends style rows
// toward the baseline.
package style

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload indicates a style-vector file whose JSON shape
	// does not describe a consistent matrix.
	ErrMalformedPayload = errors.New("malformed style vector payload")

	// ErrStyleOutOfRange indicates a style id with no matching matrix row.
	ErrStyleOutOfRange = errors.New("style id out of range")
)

// payload is the on-disk JSON layout of style_vectors.json.
type payload struct {
	Shape [2]int      `json:"shape"`
	Data  [][]float32 `json:"data"`
}

// Vectors is a voice's style embedding matrix. Row 0 is the baseline
// (mean) style every other row is blended toward.
type Vectors struct {
	rows int
	cols int
	data []float32
}

// Parse decodes and validates a style-vector file.
func Parse(raw []byte) (*Vectors, error) {
	var p payload

	err := json.Unmarshal(raw, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to decode style vectors: %w", err)
	}

	rows, cols := p.Shape[0], p.Shape[1]
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: shape %dx%d", ErrMalformedPayload, rows, cols)
	}

	if len(p.Data) != rows {
		return nil, fmt.Errorf(
			"%w: shape declares %d rows, data has %d", ErrMalformedPayload, rows, len(p.Data),
		)
	}

	data := make([]float32, 0, rows*cols)

	for i, row := range p.Data {
		if len(row) != cols {
			return nil, fmt.Errorf(
				"%w: row %d has %d columns, want %d", ErrMalformedPayload, i, len(row), cols,
			)
		}

		data = append(data, row...)
	}

	return &Vectors{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the number of styles, the baseline included.
func (v *Vectors) Rows() int {
	return v.rows
}

// Dim returns the style embedding dimension.
func (v *Vectors) Dim() int {
	return v.cols
}

// Blend interpolates the requested style row toward the baseline:
// mean + (style − mean) × weight. Style id 0 returns the baseline for any
// weight.
func (v *Vectors) Blend(styleID int, weight float32) ([]float32, error) {
	if styleID < 0 || styleID >= v.rows {
		return nil, fmt.Errorf("%w: %d of %d styles", ErrStyleOutOfRange, styleID, v.rows)
	}

	mean := v.data[:v.cols]
	row := v.data[styleID*v.cols : (styleID+1)*v.cols]

	blended := make([]float32, v.cols)
	for i := range blended {
		blended[i] = mean[i] + (row[i]-mean[i])*weight
	}

	return blended, nil
}
