package pump

// MomentumWeights blend the 1d/1w/2w/1m percentage changes. Weights of
// missing changes are dropped and the rest renormalized.
type MomentumWeights struct {
	Day     float64
	Week    float64
	TwoWeek float64
	Month   float64
}

// Thresholds holds every empirically chosen constant the classifier uses.
type Thresholds struct {
	SentimentTrendDelta float64
	MentionTrendChange  float64
	Momentum            MomentumWeights

	EarlyMinSentiment   float64
	EarlyMinMomentum    float64
	EarlyMaxMomentum    float64
	EarlyMinVolumeRatio float64

	MidMinSentiment   float64
	MidMinMomentum    float64
	MidMaxMomentum    float64
	MidMinVolumeRatio float64

	LateMinSentiment float64
	LateMinMomentum  float64

	PostMaxMomentum    float64
	PostMaxVolumeRatio float64

	GreenMinSentiment float64
	GreenMinMomentum  float64
	GreenMaxMomentum  float64
	RedMaxSentiment   float64
	RedMaxMomentum    float64

	ConfSentimentWeight float64
	ConfVolumeWeight    float64
	ConfMomentumWeight  float64
	ConfMomentumScale   float64
	ConfAlignedBonus    float64
	ConfUnalignedBonus  float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SentimentTrendDelta: 0.1,
		MentionTrendChange:  0.2,
		Momentum:            MomentumWeights{Day: 0.4, Week: 0.3, TwoWeek: 0.2, Month: 0.1},

		EarlyMinSentiment:   0.3,
		EarlyMinMomentum:    2,
		EarlyMaxMomentum:    15,
		EarlyMinVolumeRatio: 1.2,

		MidMinSentiment:   0.5,
		MidMinMomentum:    10,
		MidMaxMomentum:    30,
		MidMinVolumeRatio: 1.5,

		LateMinSentiment: 0.7,
		LateMinMomentum:  25,

		PostMaxMomentum:    -5,
		PostMaxVolumeRatio: 0.8,

		GreenMinSentiment: 0.4,
		GreenMinMomentum:  0,
		GreenMaxMomentum:  10,
		RedMaxSentiment:   -0.3,
		RedMaxMomentum:    -10,

		ConfSentimentWeight: 0.3,
		ConfVolumeWeight:    0.25,
		ConfMomentumWeight:  0.25,
		ConfMomentumScale:   20,
		ConfAlignedBonus:    0.2,
		ConfUnalignedBonus:  0.1,
	}
}
