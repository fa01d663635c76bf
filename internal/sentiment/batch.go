package sentiment

import (
	"math"
	"strings"

	"pumpradar/internal/domain"
)

// WeightedText is a unit of user text plus an engagement weight.
type WeightedText struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type Distribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type BatchResult struct {
	Scores       []domain.SentimentScore `json:"scores"`
	Average      float64                 `json:"average"`
	Distribution Distribution            `json:"distribution"`
	// Combined scores all texts joined together. Informational only.
	Combined domain.SentimentScore `json:"combined"`
}

// WeightedResult carries the blended score and the per-item scores and
// effective weights it was built from.
type WeightedResult struct {
	Score   domain.SentimentScore
	Items   []domain.SentimentScore
	Weights []float64
}

const minWeight = 1.0

func (s *Scorer) Batch(texts []string) BatchResult {
	res := BatchResult{
		Scores:   make([]domain.SentimentScore, 0, len(texts)),
		Combined: s.Score(strings.Join(texts, " ")),
	}
	if len(texts) == 0 {
		return res
	}

	sum := 0.0
	for _, t := range texts {
		sc := s.Score(t)
		res.Scores = append(res.Scores, sc)
		sum += sc.Score
		switch sc.Label {
		case domain.LabelPositive:
			res.Distribution.Positive++
		case domain.LabelNegative:
			res.Distribution.Negative++
		default:
			res.Distribution.Neutral++
		}
	}
	res.Average = sum / float64(len(texts))
	return res
}

// WeightedBatch blends item scores by weight. Weights below 1 are raised to 1.
func (s *Scorer) WeightedBatch(items []WeightedText) domain.SentimentScore {
	return s.WeightedBatchDetail(items).Score
}

func (s *Scorer) WeightedBatchDetail(items []WeightedText) WeightedResult {
	if len(items) == 0 {
		return WeightedResult{Score: domain.NeutralScore()}
	}

	res := WeightedResult{
		Items:   make([]domain.SentimentScore, 0, len(items)),
		Weights: make([]float64, 0, len(items)),
	}
	var total, score float64
	var mass domain.Breakdown
	for _, it := range items {
		w := it.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) || w < minWeight {
			w = minWeight
		}
		sc := s.Score(it.Text)
		res.Items = append(res.Items, sc)
		res.Weights = append(res.Weights, w)

		total += w
		score += sc.Score * w
		mass.Positive += sc.Breakdown.Positive * w
		mass.Neutral += sc.Breakdown.Neutral * w
		mass.Negative += sc.Breakdown.Negative * w
	}

	mean := clamp(score/total, -1, 1)
	res.Score = newScore(mean, domain.Breakdown{
		Positive: mass.Positive / total,
		Neutral:  mass.Neutral / total,
		Negative: mass.Negative / total,
	})
	return res
}
