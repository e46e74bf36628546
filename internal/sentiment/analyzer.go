package sentiment

import "github.com/jonreiter/govader"

// Analyzer reports the polarity of a text as a compound value in [-1, 1].
// Implementations must be deterministic for a fixed input and perform no I/O.
type Analyzer interface {
	Compound(text string) float64
}

// VADER wraps the govader lexicon analyzer. The underlying model is
// stateless; one instance is constructed at startup and shared.
type VADER struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVADER() *VADER {
	return &VADER{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VADER) Compound(text string) float64 {
	return v.sia.PolarityScores(text).Compound
}
