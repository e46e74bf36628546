package scoring

import (
	"math"
	"regexp"
)

type Status string

const (
	StatusAccepted      Status = "accepted"
	StatusPendingReview Status = "pending_review"
	StatusRejected      Status = "rejected"
)

// Verdict is the scoring outcome for one submission. Breakdown is only
// populated by policies that compute per-factor terms.
type Verdict struct {
	Status    Status
	Score     float64
	Reason    string
	Breakdown map[string]float64
}

// Policy turns free text into a credibility verdict. Implementations must be
// deterministic given identical input and perform no network I/O.
type Policy interface {
	Name() string
	Score(heading, body string) Verdict
}

var wordPattern = regexp.MustCompile(`\w+`)

func tokenize(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

func uniquenessRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
