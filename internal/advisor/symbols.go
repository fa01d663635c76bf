package advisor

import (
	"regexp"
	"strings"

	"pumpradar/internal/domain"
)

var (
	cashtagRx = regexp.MustCompile(`\$([A-Za-z]{1,5}(?:\.[A-Za-z]{1,2})?)\b`)
	capsRx    = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
)

// common all-caps words that are not tickers
var capsStopwords = map[string]bool{
	"A": true, "I": true, "CEO": true, "DD": true, "ETF": true, "FOMO": true, "IPO": true,
	"IMO": true, "LOL": true, "SEC": true, "THE": true, "USA": true, "USD": true, "WSB": true,
	"YOLO": true, "ATH": true, "EPS": true, "AND": true, "FOR": true, "ITM": true, "OTM": true,
}

// ExtractTickers finds tickers in free text. Cashtags always count; bare
// all-caps words count unless they are common non-ticker words. Results are
// normalized and deduplicated in order of appearance.
func ExtractTickers(text string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(raw string) {
		t, err := domain.NormalizeTicker(raw)
		if err != nil || seen[t] {
			return
		}
		seen[t] = true
		result = append(result, t)
	}

	for _, m := range cashtagRx.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	rest := cashtagRx.ReplaceAllString(text, " ")
	for _, w := range capsRx.FindAllString(rest, -1) {
		if !capsStopwords[strings.ToUpper(w)] {
			add(w)
		}
	}
	return result
}
