package model

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reseptori/backend/internal/infrastructure/config"
)

// tinyCheckpoint builds a small valid checkpoint with deterministic weights
func tinyCheckpoint() *Checkpoint {
	const (
		vocab   = 6
		classes = 4
		embed   = 3
		hidden  = 2
	)
	ckpt := &Checkpoint{
		VocabSize:  vocab,
		ClassCount: classes,
		EmbedSize:  embed,
		HiddenSize: hidden,
		HiddenB:    make([]float32, hidden),
		OutputB:    make([]float32, classes),
	}
	fill := func(rows, cols int, scale float32) [][]float32 {
		m := make([][]float32, rows)
		for i := range m {
			m[i] = make([]float32, cols)
			for j := range m[i] {
				m[i][j] = scale * float32(i*cols+j+1) / float32(rows*cols)
			}
		}
		return m
	}
	ckpt.Embedding = fill(vocab, embed, 0.5)
	ckpt.InputW = fill(hidden, embed, 0.3)
	ckpt.HiddenW = fill(hidden, hidden, 0.2)
	ckpt.OutputW = fill(classes, hidden, 0.7)
	for i := range ckpt.OutputB {
		ckpt.OutputB[i] = float32(i) * 0.01
	}
	return ckpt
}

func TestCheckpointRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCheckpoint(&buf, tinyCheckpoint()))

	got, err := ReadCheckpoint(&buf)
	require.NoError(t, err)
	assert.Equal(t, tinyCheckpoint(), got)
}

func TestCheckpointRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Checkpoint)
	}{
		{"zero vocab", func(c *Checkpoint) { c.VocabSize = 0 }},
		{"negative classes", func(c *Checkpoint) { c.ClassCount = -1 }},
		{"embedding row count", func(c *Checkpoint) { c.Embedding = c.Embedding[:2] }},
		{"embedding column count", func(c *Checkpoint) { c.Embedding[3] = c.Embedding[3][:1] }},
		{"hidden bias length", func(c *Checkpoint) { c.HiddenB = append(c.HiddenB, 0) }},
		{"output bias length", func(c *Checkpoint) { c.OutputB = c.OutputB[:1] }},
		{"output weight rows", func(c *Checkpoint) { c.OutputW = c.OutputW[:3] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ckpt := tinyCheckpoint()
			tt.mutate(ckpt)

			var buf bytes.Buffer
			assert.Error(t, WriteCheckpoint(&buf, ckpt))
		})
	}
}

func TestReadCheckpointRejectsGarbage(t *testing.T) {
	_, err := ReadCheckpoint(bytes.NewReader([]byte("not a checkpoint")))
	require.Error(t, err)
}

func TestInferIsDeterministic(t *testing.T) {
	c := NewClassifier(tinyCheckpoint())

	first, err := c.Infer([]int{1, 4, 2}, 2)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := c.Infer([]int{1, 4, 2}, 2)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestInferPredictionInClassRange(t *testing.T) {
	c := NewClassifier(tinyCheckpoint())

	for step := 1; step <= 3; step++ {
		got, err := c.Infer([]int{0, 5, 3}, step)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0)
		assert.Less(t, got, c.ClassCount())
	}
}

func TestInferClampsDecodeStep(t *testing.T) {
	c := NewClassifier(tinyCheckpoint())

	atOne, err := c.Infer([]int{1, 4, 2}, 1)
	require.NoError(t, err)
	belowOne, err := c.Infer([]int{1, 4, 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, atOne, belowOne)

	atEnd, err := c.Infer([]int{1, 4, 2}, 3)
	require.NoError(t, err)
	beyondEnd, err := c.Infer([]int{1, 4, 2}, 99)
	require.NoError(t, err)
	assert.Equal(t, atEnd, beyondEnd)
}

func TestInferRejectsEmptySequence(t *testing.T) {
	c := NewClassifier(tinyCheckpoint())

	_, err := c.Infer(nil, 1)
	require.Error(t, err)
}

func TestInferRejectsOutOfVocabularyItems(t *testing.T) {
	c := NewClassifier(tinyCheckpoint())

	_, err := c.Infer([]int{0, 6}, 1)
	require.Error(t, err)

	_, err = c.Infer([]int{-1}, 1)
	require.Error(t, err)
}

func TestProviderLoadsCheckpointFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.ckpt")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteCheckpoint(f, tinyCheckpoint()))
	require.NoError(t, f.Close())

	p := NewProvider(config.ModelConfig{CheckpointPath: path}, config.AWSConfig{}, zap.NewNop())

	m, err := p.Model()
	require.NoError(t, err)
	assert.Equal(t, 6, m.VocabSize())
	assert.Equal(t, 4, m.ClassCount())

	again, err := p.Model()
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestSplitS3URI(t *testing.T) {
	bucket, key, err := splitS3URI("s3://models/checkpoints/classifier.ckpt")
	require.NoError(t, err)
	assert.Equal(t, "models", bucket)
	assert.Equal(t, "checkpoints/classifier.ckpt", key)

	for _, uri := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := splitS3URI(uri)
		assert.Error(t, err, "uri %s", uri)
	}
}

func TestProviderCachesLoadFailure(t *testing.T) {
	p := NewProvider(config.ModelConfig{CheckpointPath: "/nonexistent/classifier.ckpt"},
		config.AWSConfig{}, zap.NewNop())

	_, first := p.Model()
	require.Error(t, first)

	_, second := p.Model()
	require.Error(t, second)
	assert.Equal(t, first, second)

	assert.Error(t, p.Warm())
}
