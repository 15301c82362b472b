// Package model implements the recommender inference adapter: loading a
// trained sequence-classifier checkpoint and running forward passes over
// item-id sequences. Training, architecture search and checkpoint export are
// out of scope; this package only consumes an already-trained model.
package model

import (
	"encoding/gob"
	"fmt"
	"io"
)

// Checkpoint holds the trained weights of the sequence classifier: an item
// embedding table, a simple recurrent cell and a linear decoder over recipe
// ids. All weights are read-only after load.
type Checkpoint struct {
	VocabSize  int
	ClassCount int
	EmbedSize  int
	HiddenSize int

	// Embedding is VocabSize x EmbedSize
	Embedding [][]float32
	// InputW is HiddenSize x EmbedSize
	InputW [][]float32
	// HiddenW is HiddenSize x HiddenSize
	HiddenW [][]float32
	// HiddenB is HiddenSize
	HiddenB []float32
	// OutputW is ClassCount x HiddenSize
	OutputW [][]float32
	// OutputB is ClassCount
	OutputB []float32
}

// ReadCheckpoint decodes a gob-encoded checkpoint and validates its shape
func ReadCheckpoint(r io.Reader) (*Checkpoint, error) {
	var ckpt Checkpoint
	if err := gob.NewDecoder(r).Decode(&ckpt); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	if err := ckpt.validate(); err != nil {
		return nil, fmt.Errorf("corrupt checkpoint: %w", err)
	}
	return &ckpt, nil
}

// WriteCheckpoint encodes a checkpoint, used by tooling and tests
func WriteCheckpoint(w io.Writer, ckpt *Checkpoint) error {
	if err := ckpt.validate(); err != nil {
		return err
	}
	return gob.NewEncoder(w).Encode(ckpt)
}

func (c *Checkpoint) validate() error {
	if c.VocabSize <= 0 || c.ClassCount <= 0 || c.EmbedSize <= 0 || c.HiddenSize <= 0 {
		return fmt.Errorf("non-positive dimension (vocab=%d classes=%d embed=%d hidden=%d)",
			c.VocabSize, c.ClassCount, c.EmbedSize, c.HiddenSize)
	}
	if err := checkMatrix("embedding", c.Embedding, c.VocabSize, c.EmbedSize); err != nil {
		return err
	}
	if err := checkMatrix("input weights", c.InputW, c.HiddenSize, c.EmbedSize); err != nil {
		return err
	}
	if err := checkMatrix("hidden weights", c.HiddenW, c.HiddenSize, c.HiddenSize); err != nil {
		return err
	}
	if len(c.HiddenB) != c.HiddenSize {
		return fmt.Errorf("hidden bias has %d entries, want %d", len(c.HiddenB), c.HiddenSize)
	}
	if err := checkMatrix("output weights", c.OutputW, c.ClassCount, c.HiddenSize); err != nil {
		return err
	}
	if len(c.OutputB) != c.ClassCount {
		return fmt.Errorf("output bias has %d entries, want %d", len(c.OutputB), c.ClassCount)
	}
	return nil
}

func checkMatrix(name string, m [][]float32, rows, cols int) error {
	if len(m) != rows {
		return fmt.Errorf("%s has %d rows, want %d", name, len(m), rows)
	}
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("%s row %d has %d columns, want %d", name, i, len(row), cols)
		}
	}
	return nil
}
