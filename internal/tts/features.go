package tts

import (
	"fmt"

	"github.com/kanade-tts/kanade/internal/core"
)

// intersperse returns items with sep inserted between and around every
// element, doubling the length plus one.
func intersperse[T any](items []T, sep T) []T {
	out := make([]T, 0, len(items)*2+1)
	out = append(out, sep)

	for _, item := range items {
		out = append(out, item, sep)
	}

	return out
}

// broadcastCounts rescales per-character phoneme counts to the
// interspersed sequence: every count doubles, and the first absorbs the
// one extra separator.
func broadcastCounts(word2ph []int) []int {
	counts := make([]int, len(word2ph))

	for i, n := range word2ph {
		counts[i] = n * 2
	}

	if len(counts) > 0 {
		counts[0]++
	}

	return counts
}

// broadcastFeatures repeats each token's feature row by its phoneme count
// and transposes the result to feature-dimension-first layout.
func broadcastFeatures(rows [][]float32, counts []int) ([][]float32, error) {
	if len(rows) != len(counts) {
		return nil, fmt.Errorf(
			"%w: %d feature rows for %d phoneme counts",
			core.ErrInternalInconsistency, len(rows), len(counts),
		)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	if len(rows) == 0 || total == 0 {
		return nil, fmt.Errorf("%w: empty feature broadcast", core.ErrInternalInconsistency)
	}

	dim := len(rows[0])

	out := make([][]float32, dim)
	for d := range out {
		out[d] = make([]float32, 0, total)
	}

	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf(
				"%w: feature row %d has dimension %d, want %d",
				core.ErrInternalInconsistency, i, len(row), dim,
			)
		}

		for range counts[i] {
			for d, value := range row {
				out[d] = append(out[d], value)
			}
		}
	}

	return out, nil
}
