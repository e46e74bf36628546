package scoring

import (
	"fmt"
	"math"
	"strings"
)

const (
	basicMinWords    = 15
	basicAcceptScore = 0.5
)

// BasicPolicy is the cheap three-rule scorer: a minimum length gate, a junk
// term check and a uniqueness ratio. It never returns pending_review.
type BasicPolicy struct{}

func NewBasicPolicy() *BasicPolicy {
	return &BasicPolicy{}
}

func (p *BasicPolicy) Name() string {
	return "basic"
}

func (p *BasicPolicy) Score(heading, body string) Verdict {
	text := strings.ToLower(heading + " " + body)
	words := tokenize(text)

	if len(words) < basicMinWords {
		return Verdict{
			Status: StatusRejected,
			Score:  0.2,
			Reason: "Report too short. Needs more detail.",
		}
	}

	for _, term := range junkTerms {
		if strings.Contains(text, term) {
			return Verdict{
				Status: StatusRejected,
				Score:  0.1,
				Reason: fmt.Sprintf("Contains blacklisted word: '%s'", term),
			}
		}
	}

	score := round2(math.Min(1.0, 0.5+uniquenessRatio(words)*0.5))
	if score >= basicAcceptScore {
		return Verdict{Status: StatusAccepted, Score: score, Reason: "Accepted"}
	}
	return Verdict{Status: StatusRejected, Score: score, Reason: "Too generic or repetitive"}
}
