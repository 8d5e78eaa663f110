package service

// ClassificationScorer turns classification matches into a confidence summary
type ClassificationScorer struct{}

// NewClassificationScorer creates a scorer
func NewClassificationScorer() *ClassificationScorer {
	return &ClassificationScorer{}
}

// Score keeps the strongest score per canonical term; repeated mentions never add up.
// The implied defaults are merged only when no classification was matched explicitly.
// The result is never nil.
func (s *ClassificationScorer) Score(candidates []MatchCandidate, implied ...map[string]float64) map[string]float64 {
	summary := make(map[string]float64)
	for _, c := range candidates {
		mergeMax(summary, c.Canonical, c.Score)
	}
	if len(summary) > 0 {
		return summary
	}

	for _, defaults := range implied {
		for term, confidence := range defaults {
			mergeMax(summary, term, confidence)
		}
	}
	return summary
}

func mergeMax(summary map[string]float64, term string, score float64) {
	score = clamp01(score)
	if prev, ok := summary[term]; !ok || score > prev {
		summary[term] = score
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
