package sentiment

import (
	"maps"
	"sync"

	"github.com/jonreiter/govader"
)

// marketLexicon adds valence to the descriptions govader substitutes for
// market emoji, which the stock VADER lexicon leaves neutral.
var marketLexicon = map[string]float64{
	"rocket":     2.2,
	"increasing": 1.2,
	"decreasing": -1.2,
}

var defaultBullishKeywords = []string{
	"moon", "rocket", "🚀", "squeeze", "short squeeze", "breakout", "bullish",
	"calls", "undervalued", "catalyst", "tendies", "diamond hands", "hodl",
	"load up", "loading up", "to the moon", "gamma", "uplisting",
}

var defaultBearishKeywords = []string{
	"dump", "bearish", "puts", "overvalued", "scam", "bagholder", "bag holder",
	"dilution", "offering", "reverse split", "pump and dump", "rug pull",
	"delisting", "going concern", "bankrupt", "sell off", "selloff",
}

// defaultAnalyzer parses the embedded VADER tables once. The analyzer only
// reads its maps after construction, so it is shared across goroutines.
var defaultAnalyzer = sync.OnceValue(func() *govader.SentimentIntensityAnalyzer {
	a := govader.NewSentimentIntensityAnalyzer()
	maps.Copy(a.Lexicon, marketLexicon)
	return a
})

// withOverrides forks base with a private lexicon. Emoji and rule tables are
// shared with base.
func withOverrides(base *govader.SentimentIntensityAnalyzer, overrides map[string]float64) *govader.SentimentIntensityAnalyzer {
	lexicon := maps.Clone(base.Lexicon)
	maps.Copy(lexicon, overrides)
	return &govader.SentimentIntensityAnalyzer{
		Lexicon:   lexicon,
		EmojiDict: base.EmojiDict,
		Constants: base.Constants,
	}
}

// DefaultLexicon returns a copy of the valence lexicon used by NewScorer.
func DefaultLexicon() map[string]float64 { return maps.Clone(defaultAnalyzer().Lexicon) }

// DefaultBullishKeywords returns a copy of the built-in bullish keyword list.
func DefaultBullishKeywords() []string { return append([]string(nil), defaultBullishKeywords...) }

// DefaultBearishKeywords returns a copy of the built-in bearish keyword list.
func DefaultBearishKeywords() []string { return append([]string(nil), defaultBearishKeywords...) }
