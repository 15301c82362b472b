package model

import (
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/reseptori/backend/internal/infrastructure/config"
	"github.com/reseptori/backend/internal/ports/outbound"
)

// Classifier runs forward inference over a loaded checkpoint. The weights
// are read-only, so one Classifier is shared across concurrent requests
// without locking.
type Classifier struct {
	ckpt *Checkpoint
}

var _ outbound.RecipeModel = (*Classifier)(nil)

// NewClassifier wraps a validated checkpoint
func NewClassifier(ckpt *Checkpoint) *Classifier {
	return &Classifier{ckpt: ckpt}
}

// ClassCount reports the size of the output id range
func (c *Classifier) ClassCount() int { return c.ckpt.ClassCount }

// VocabSize reports the number of item ids the model embeds
func (c *Classifier) VocabSize() int { return c.ckpt.VocabSize }

// Infer embeds the item sequence, runs the recurrence and returns the
// arg-max recipe id of the output distribution at decodeStep. The step is
// 1-based and clamps to the sequence length; the arg-max over logits equals
// the arg-max over the softmax distribution, so no normalization is needed.
func (c *Classifier) Infer(items []int, decodeStep int) (int, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("empty item sequence")
	}
	for _, id := range items {
		if id < 0 || id >= c.ckpt.VocabSize {
			return 0, fmt.Errorf("item id %d outside vocabulary [0,%d)", id, c.ckpt.VocabSize)
		}
	}

	if decodeStep < 1 {
		decodeStep = 1
	}
	if decodeStep > len(items) {
		decodeStep = len(items)
	}

	hidden := make([]float32, c.ckpt.HiddenSize)
	next := make([]float32, c.ckpt.HiddenSize)
	var decoded []float32

	for t, id := range items {
		embedded := c.ckpt.Embedding[id]
		for i := 0; i < c.ckpt.HiddenSize; i++ {
			sum := c.ckpt.HiddenB[i]
			for j, e := range embedded {
				sum += c.ckpt.InputW[i][j] * e
			}
			for j, h := range hidden {
				sum += c.ckpt.HiddenW[i][j] * h
			}
			next[i] = float32(math.Tanh(float64(sum)))
		}
		hidden, next = next, hidden

		if t+1 == decodeStep {
			decoded = append([]float32(nil), hidden...)
		}
	}

	best := 0
	var bestLogit float32 = float32(math.Inf(-1))
	for class := 0; class < c.ckpt.ClassCount; class++ {
		logit := c.ckpt.OutputB[class]
		for j, h := range decoded {
			logit += c.ckpt.OutputW[class][j] * h
		}
		if logit > bestLogit {
			bestLogit = logit
			best = class
		}
	}
	return best, nil
}

// Provider hands out the process-wide classifier singleton. The checkpoint
// is loaded lazily on first use and exactly once; a load failure is cached
// and surfaces on every subsequent request without retrying.
type Provider struct {
	cfg    config.ModelConfig
	awsCfg config.AWSConfig
	logger *zap.Logger

	once       sync.Once
	classifier *Classifier
	err        error
}

var _ outbound.ModelProvider = (*Provider)(nil)

// NewProvider creates the lazy model provider. No I/O happens here.
func NewProvider(cfg config.ModelConfig, awsCfg config.AWSConfig, logger *zap.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		awsCfg: awsCfg,
		logger: logger.Named("model-provider"),
	}
}

// Model returns the shared classifier, loading the checkpoint on first call
func (p *Provider) Model() (outbound.RecipeModel, error) {
	p.once.Do(func() {
		ckpt, err := LoadCheckpoint(p.cfg.CheckpointPath, p.awsCfg)
		if err != nil {
			p.logger.Error("Failed to load model checkpoint",
				zap.String("path", p.cfg.CheckpointPath),
				zap.Error(err),
			)
			p.err = err
			return
		}
		p.logger.Info("Model checkpoint loaded",
			zap.String("path", p.cfg.CheckpointPath),
			zap.Int("vocab_size", ckpt.VocabSize),
			zap.Int("class_count", ckpt.ClassCount),
		)
		p.classifier = NewClassifier(ckpt)
	})
	if p.err != nil {
		return nil, p.err
	}
	return p.classifier, nil
}

// Warm eagerly triggers the checkpoint load, for startup hooks that prefer
// failing fast in environments where the model must be present
func (p *Provider) Warm() error {
	_, err := p.Model()
	return err
}
