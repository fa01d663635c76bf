package advisor

import (
	"fmt"
	"strings"

	"pumpradar/internal/domain"
)

const analystBrief = `You explain the output of a retail pump-and-dump detector for US equities.
You receive one structured analysis: a pump phase (early, mid, late, post or none), a
traffic-light signal, the blended sentiment and the price/volume metrics behind them.

Rules:
- Explain only what the data shows. Never invent prices, news or mentions.
- Say which metrics drove the phase, in plain language.
- Mention low confidence or missing sources when present.
- Three to five sentences. No investment advice and no disclaimers.`

func BuildSystemPrompt() string {
	return analystBrief
}

func pct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

// FormatAnalysisContext renders an analysis as the user message of the prompt.
func FormatAnalysisContext(a *domain.TickerAnalysis) string {
	var sb strings.Builder
	m := a.Pump.Metrics

	fmt.Fprintf(&sb, "Ticker: %s (analyzed %s)\n", a.Ticker, a.AnalyzedAt.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&sb, "Phase: %s  Signal: %s  Confidence: %.2f\n", a.Pump.Phase, a.Pump.Signal, a.Pump.Confidence)
	fmt.Fprintf(&sb, "Sentiment: %.3f (%s), confidence %.2f, trend %s\n",
		a.Sentiment.OverallScore, a.Sentiment.OverallLabel, a.Sentiment.Confidence, m.SentimentTrend)
	fmt.Fprintf(&sb, "Mentions: %d, trend %s\n", m.MentionVolume, m.MentionTrend)
	fmt.Fprintf(&sb, "Price momentum: %.2f  Volume ratio: %.2f\n", m.PriceMomentum, m.VolumeRatio)

	if p := a.Price; p != nil {
		fmt.Fprintf(&sb, "Price: $%.2f  1d %s  1w %s  1m %s  3m %s\n",
			p.CurrentPrice, pct(p.Change1D), pct(p.Change1W), pct(p.Change1M), pct(p.Change3M))
	} else {
		sb.WriteString("Price: unavailable\n")
	}

	if len(a.Sentiment.SourcesUsed) == 0 {
		sb.WriteString("Sources: none\n")
	} else {
		fmt.Fprintf(&sb, "Sources: %s\n", strings.Join(a.Sentiment.SourcesUsed, ", "))
	}
	for _, src := range domain.AllSources() {
		b, ok := a.Sentiment.Breakdown[src]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "  %s: score %.3f, confidence %.2f, weight %.3f\n", src, b.Score, b.Confidence, b.Weight)
	}

	if len(a.Pump.Reasoning) > 0 {
		sb.WriteString("Rule hits:\n")
		for _, r := range a.Pump.Reasoning {
			sb.WriteString("  - ")
			sb.WriteString(r)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
