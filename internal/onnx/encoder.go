package onnx

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// Encoder wraps the contextual text-embedding model. It takes token ids
// with an attention mask and returns one hidden-state vector per token.
type Encoder struct {
	session *ort.DynamicAdvancedSession
}

// NewEncoder loads the text-embedding model from disk.
func NewEncoder(modelPath string) (*Encoder, error) {
	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"output"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load text encoder: %w", err)
	}

	return &Encoder{session: session}, nil
}

// Encode runs the embedding model over one token sequence. The result has
// one row per input token.
func (e *Encoder) Encode(tokenIDs, attentionMask []int64) ([][]float32, error) {
	seqLen := int64(len(tokenIDs))
	shape := []int64{1, seqLen}

	idsTensor, err := ort.NewTensor(shape, tokenIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}

	err = e.session.Run([]ort.Value{idsTensor, maskTensor}, outputs)
	if err != nil {
		return nil, fmt.Errorf("text encoder inference failed: %w", err)
	}

	outTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("text encoder returned unexpected output type %T", outputs[0])
	}
	defer outTensor.Destroy()

	outShape := outTensor.GetShape()
	hidden := int(outShape[len(outShape)-1])
	data := outTensor.GetData()

	if hidden <= 0 || len(data)%hidden != 0 {
		return nil, fmt.Errorf("text encoder output shape %v is not row-aligned", outShape)
	}

	rows := make([][]float32, len(data)/hidden)
	for i := range rows {
		row := make([]float32, hidden)
		copy(row, data[i*hidden:(i+1)*hidden])
		rows[i] = row
	}

	return rows, nil
}

// Close releases the encoder session.
func (e *Encoder) Close() error {
	if e.session == nil {
		return nil
	}

	err := e.session.Destroy()
	e.session = nil

	if err != nil {
		return fmt.Errorf("failed to destroy text encoder session: %w", err)
	}

	return nil
}
