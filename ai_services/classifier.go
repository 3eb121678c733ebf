package ai_services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
)

var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Classifier guesses a priority when no keyword matched.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Priority, error)
}

// NoopClassifier is used when no embeddings service is configured.
type NoopClassifier struct{}

func (NoopClassifier) Classify(context.Context, string) (models.Priority, error) {
	return "", ErrClassifierUnavailable
}

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Prototype is a reference phrase whose embedding stands for a priority.
type Prototype struct {
	Priority models.Priority
	Phrase   string
}

var DefaultPrototypes = []Prototype{
	{Priority: models.PriorityHigh, Phrase: "urgent deadline critical now asap"},
	{Priority: models.PriorityMedium, Phrase: "important soon scheduled"},
	{Priority: models.PriorityLow, Phrase: "low optional whenever"},
}

// EmbeddingClassifier picks the prototype closest to the text by cosine similarity.
// Ties go to the earlier prototype.
type EmbeddingClassifier struct {
	embedder   Embedder
	prototypes []Prototype
}

func NewEmbeddingClassifier(embedder Embedder, prototypes []Prototype) *EmbeddingClassifier {
	if len(prototypes) == 0 {
		prototypes = DefaultPrototypes
	}
	return &EmbeddingClassifier{embedder: embedder, prototypes: prototypes}
}

func (c *EmbeddingClassifier) Classify(ctx context.Context, text string) (models.Priority, error) {
	inputs := make([]string, 0, len(c.prototypes)+1)
	inputs = append(inputs, text)
	for _, p := range c.prototypes {
		inputs = append(inputs, p.Phrase)
	}

	vectors, err := c.embedder.Embed(ctx, inputs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrClassifierUnavailable, err)
	}
	if len(vectors) != len(inputs) {
		return "", fmt.Errorf("%w: got %d embeddings for %d inputs", ErrClassifierUnavailable, len(vectors), len(inputs))
	}

	best, bestScore := -1, math.Inf(-1)
	for i := range c.prototypes {
		score, ok := cosine(vectors[0], vectors[i+1])
		if !ok {
			continue
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return "", fmt.Errorf("%w: no comparable embeddings", ErrClassifierUnavailable)
	}
	return c.prototypes[best].Priority, nil
}

// cosine is false when the vectors differ in length or either is zero.
func cosine(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}
