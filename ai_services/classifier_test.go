package ai_services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
)

// fakeEmbeddings serves one-hot vectors: the prototypes map to axes 0..2 and
// the text under classification maps to the vector in target.
func fakeEmbeddings(t *testing.T, target []float64, status int) *httptest.Server {
	t.Helper()

	axes := map[string][]float64{
		DefaultPrototypes[0].Phrase: {1, 0, 0},
		DefaultPrototypes[1].Phrase: {0, 1, 0},
		DefaultPrototypes[2].Phrase: {0, 0, 1},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization=%q, want bearer token", got)
		}
		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}

		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		resp := embedResponse{}
		for _, in := range req.Input {
			if v, ok := axes[in]; ok {
				resp.Embeddings = append(resp.Embeddings, v)
			} else {
				resp.Embeddings = append(resp.Embeddings, target)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbeddingClassifier(t *testing.T) {
	tests := []struct {
		name   string
		target []float64
		want   models.Priority
	}{
		{name: "closest to high", target: []float64{0.9, 0.3, 0.1}, want: models.PriorityHigh},
		{name: "closest to medium", target: []float64{0.2, 0.7, 0.1}, want: models.PriorityMedium},
		{name: "closest to low", target: []float64{0.1, 0.2, 0.8}, want: models.PriorityLow},
		{name: "tie goes to first prototype", target: []float64{1, 1, 1}, want: models.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeEmbeddings(t, tt.target, http.StatusOK)
			c := NewEmbeddingClassifier(NewHTTPEmbedder(srv.URL, "secret"), nil)

			got, err := c.Classify(context.Background(), "refactor the billing module")
			if err != nil {
				t.Fatalf("Classify() err=%v, want nil", err)
			}
			if got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmbeddingClassifier_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("server error", func(t *testing.T) {
		srv := fakeEmbeddings(t, nil, http.StatusInternalServerError)
		_, err := NewEmbeddingClassifier(NewHTTPEmbedder(srv.URL, "secret"), nil).Classify(ctx, "x")
		if !errors.Is(err, ErrClassifierUnavailable) {
			t.Fatalf("Classify() err=%v, want %v", err, ErrClassifierUnavailable)
		}
	})

	t.Run("zero vector", func(t *testing.T) {
		srv := fakeEmbeddings(t, []float64{0, 0, 0}, http.StatusOK)
		_, err := NewEmbeddingClassifier(NewHTTPEmbedder(srv.URL, "secret"), nil).Classify(ctx, "x")
		if !errors.Is(err, ErrClassifierUnavailable) {
			t.Fatalf("Classify() err=%v, want %v", err, ErrClassifierUnavailable)
		}
	})

	t.Run("wrong number of embeddings", func(t *testing.T) {
		short := embedderFunc(func(context.Context, []string) ([][]float64, error) {
			return [][]float64{{1, 0, 0}}, nil
		})
		_, err := NewEmbeddingClassifier(short, nil).Classify(ctx, "x")
		if !errors.Is(err, ErrClassifierUnavailable) {
			t.Fatalf("Classify() err=%v, want %v", err, ErrClassifierUnavailable)
		}
	})

	t.Run("noop", func(t *testing.T) {
		if _, err := (NoopClassifier{}).Classify(ctx, "x"); !errors.Is(err, ErrClassifierUnavailable) {
			t.Fatalf("Classify() err=%v, want %v", err, ErrClassifierUnavailable)
		}
	})
}

type embedderFunc func(context.Context, []string) ([][]float64, error)

func (f embedderFunc) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return f(ctx, texts)
}
