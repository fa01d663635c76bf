package sentiment

import (
	"math"
	"reflect"
	"testing"

	"pumpradar/internal/domain"
)

func TestBatch(t *testing.T) {
	s := NewScorer()
	texts := []string{"good", "bad", "filing", ""}

	res := s.Batch(texts)
	if len(res.Scores) != 4 {
		t.Fatalf("expected 4 scores, got %d", len(res.Scores))
	}
	want := 0.0
	for i, text := range texts {
		if res.Scores[i] != s.Score(text) {
			t.Fatalf("score %d = %+v, want Score(%q)", i, res.Scores[i], text)
		}
		want += res.Scores[i].Score
	}
	if math.Abs(res.Average-want/4) > 1e-12 {
		t.Fatalf("average = %v, want %v", res.Average, want/4)
	}
	if res.Distribution != (Distribution{Positive: 1, Neutral: 2, Negative: 1}) {
		t.Fatalf("unexpected distribution %+v", res.Distribution)
	}
	if res.Combined != s.Score("good bad filing ") {
		t.Fatalf("unexpected combined score %+v", res.Combined)
	}
}

func TestBatchEmpty(t *testing.T) {
	res := NewScorer().Batch(nil)
	if len(res.Scores) != 0 || res.Average != 0 || res.Distribution != (Distribution{}) {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if res.Combined != domain.NeutralScore() {
		t.Fatalf("expected neutral combined score, got %+v", res.Combined)
	}
}

func TestWeightedBatchEmpty(t *testing.T) {
	if got := NewScorer().WeightedBatch(nil); got != domain.NeutralScore() {
		t.Fatalf("expected neutral zero, got %+v", got)
	}
}

func TestWeightedBatchNonPositiveWeightsGiveUnweightedMean(t *testing.T) {
	s := NewScorer()
	items := []WeightedText{
		{Text: "good", Weight: 0},
		{Text: "bad", Weight: -5},
		{Text: "great", Weight: 0.5},
	}

	got := s.WeightedBatch(items)
	unweighted := s.Batch([]string{"good", "bad", "great"})
	if math.Abs(got.Score-unweighted.Average) > 1e-12 {
		t.Fatalf("weighted = %v, unweighted mean = %v", got.Score, unweighted.Average)
	}
	if got.Label != domain.LabelForScore(got.Score) {
		t.Fatalf("label %s does not match score %v", got.Label, got.Score)
	}
	checkBreakdown(t, "weighted", got.Breakdown)
}

func TestWeightedBatchWeightsScores(t *testing.T) {
	s := NewScorer()
	good := s.Score("good")
	bad := s.Score("bad")

	detail := s.WeightedBatchDetail([]WeightedText{
		{Text: "good", Weight: 3},
		{Text: "bad", Weight: 1},
	})
	wantScore := (good.Score*3 + bad.Score) / 4
	if math.Abs(detail.Score.Score-wantScore) > 1e-12 {
		t.Fatalf("score = %v, want %v", detail.Score.Score, wantScore)
	}
	if math.Abs(detail.Score.Confidence-math.Abs(wantScore)) > 1e-12 {
		t.Fatalf("confidence = %v, want %v", detail.Score.Confidence, math.Abs(wantScore))
	}
	wantPos := (good.Breakdown.Positive*3 + bad.Breakdown.Positive) / 4
	wantNeg := (good.Breakdown.Negative*3 + bad.Breakdown.Negative) / 4
	if math.Abs(detail.Score.Breakdown.Positive-wantPos) > 1e-12 || math.Abs(detail.Score.Breakdown.Negative-wantNeg) > 1e-12 {
		t.Fatalf("unexpected breakdown %+v", detail.Score.Breakdown)
	}
	if !reflect.DeepEqual(detail.Weights, []float64{3, 1}) {
		t.Fatalf("unexpected weights %v", detail.Weights)
	}
	if !reflect.DeepEqual(detail.Items, []domain.SentimentScore{good, bad}) {
		t.Fatalf("unexpected items %+v", detail.Items)
	}
	checkBreakdown(t, "weighted", detail.Score.Breakdown)
}
