package ai_services

import (
	"context"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/utilities"
)

// Analysis is what gets attached to a task at creation time.
type Analysis struct {
	Summary  string
	Priority models.Priority
}

type Analyzer struct {
	keywords   KeywordTable
	classifier Classifier
	maxWords   int
}

// NewAnalyzer builds an analyzer. A nil classifier means NoopClassifier.
func NewAnalyzer(keywords KeywordTable, classifier Classifier, maxWords int) *Analyzer {
	if classifier == nil {
		classifier = NoopClassifier{}
	}
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}
	return &Analyzer{keywords: keywords, classifier: classifier, maxWords: maxWords}
}

// PredictPriority tries the keyword table, then the classifier, then settles on Medium.
func (a *Analyzer) PredictPriority(ctx context.Context, text string) models.Priority {
	if p, ok := a.keywords.Match(text); ok {
		return p
	}
	p, err := a.classifier.Classify(ctx, text)
	if err != nil {
		utilities.LogDebug("priority classifier failed, using Medium", "error", err)
		return models.PriorityMedium
	}
	if !p.Valid() {
		utilities.LogDebug("priority classifier returned unknown label, using Medium", "label", string(p))
		return models.PriorityMedium
	}
	return p
}

func (a *Analyzer) Summarize(text string) string {
	return Summarize(text, a.maxWords)
}

// Analyze summarizes the description (or the title when there is no
// description) and predicts a priority from both.
func (a *Analyzer) Analyze(ctx context.Context, title, description string) Analysis {
	source := description
	if source == "" {
		source = title
	}
	return Analysis{
		Summary:  a.Summarize(source),
		Priority: a.PredictPriority(ctx, title+" "+description),
	}
}
