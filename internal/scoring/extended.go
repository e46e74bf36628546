package scoring

import (
	"strings"
	"unicode"

	"github.com/chiranjan-on-git/WhistleSafe/internal/sentiment"
)

const (
	extendedMinWords      = 50
	extendedAcceptScore   = 0.6
	extendedReviewScore   = 0.4
	lengthBonus           = 0.3
	uniquenessWeight      = 0.3
	blacklistPenaltyEach  = 0.2
	vagueTitlePenalty     = 0.15
	phraseBonusEach       = 0.2
	punctuationBonus      = 0.05
	punctuationThreshold  = 3
	capitalizationBonus   = 0.05
	capitalizedRatioFloor = 0.15
)

// ExtendedPolicy is the weighted multi-factor scorer with a three-way
// outcome. Each factor is computed independently, summed and clamped to
// [0, 1]; the per-factor terms are reported in the verdict breakdown.
type ExtendedPolicy struct {
	analyzer sentiment.Analyzer
}

func NewExtendedPolicy(analyzer sentiment.Analyzer) *ExtendedPolicy {
	return &ExtendedPolicy{analyzer: analyzer}
}

func (p *ExtendedPolicy) Name() string {
	return "extended"
}

func (p *ExtendedPolicy) Score(heading, body string) Verdict {
	combined := heading + " " + body
	lower := strings.ToLower(combined)
	words := tokenize(lower)

	if len(words) < extendedMinWords {
		return Verdict{
			Status: StatusRejected,
			Score:  0.1,
			Reason: "Report too short for a detailed credibility analysis.",
		}
	}

	breakdown := make(map[string]float64)
	score := 0.0

	score += lengthBonus
	breakdown["length_bonus"] = round2(lengthBonus)

	uniqueness := uniquenessRatio(words) * uniquenessWeight
	score += uniqueness
	breakdown["uniqueness_bonus"] = round2(uniqueness)

	var flagged []string
	for _, term := range blacklistTerms {
		if strings.Contains(lower, term) {
			flagged = append(flagged, term)
		}
	}
	penalty := blacklistPenaltyEach * float64(len(flagged))
	score -= penalty
	breakdown["blacklist_penalty"] = round2(-penalty)

	titlePenalty := 0.0
	headingLower := strings.ToLower(heading)
	for _, title := range vagueTitles {
		if strings.Contains(headingLower, title) {
			titlePenalty = vagueTitlePenalty
			break
		}
	}
	score -= titlePenalty
	breakdown["vague_title_penalty"] = round2(-titlePenalty)

	phraseBonus := 0.0
	for _, pattern := range specificPhrases {
		if pattern.MatchString(lower) {
			phraseBonus += phraseBonusEach
		}
	}
	score += phraseBonus
	breakdown["phrase_bonus"] = round2(phraseBonus)

	punctBonus := 0.0
	if countSentencePunctuation(combined) > punctuationThreshold {
		punctBonus = punctuationBonus
	}
	score += punctBonus
	breakdown["punctuation_bonus"] = round2(punctBonus)

	capBonus := 0.0
	if capitalizedRatio(combined) > capitalizedRatioFloor {
		capBonus = capitalizationBonus
	}
	score += capBonus
	breakdown["capitalization_bonus"] = round2(capBonus)

	adjustment := sentimentAdjustment(p.analyzer.Compound(combined))
	score += adjustment
	breakdown["sentiment_adjustment"] = round2(adjustment)

	final := clamp01(score)
	breakdown["final_score"] = final

	status, reason := classify(final)
	if len(flagged) > 0 {
		reason += " Flagged terms: " + strings.Join(flagged, ", ") + "."
	}

	return Verdict{Status: status, Score: final, Reason: reason, Breakdown: breakdown}
}

// classify maps a clamped final score onto the three-way outcome. The
// thresholds are exact: [0.6, 1] accepted, [0.4, 0.6) pending review,
// [0, 0.4) rejected.
func classify(final float64) (Status, string) {
	switch {
	case final >= extendedAcceptScore:
		return StatusAccepted, "Report accepted."
	case final >= extendedReviewScore:
		return StatusPendingReview, "Borderline credibility. Flagged for manual review."
	default:
		return StatusRejected, "Credibility score too low."
	}
}

// sentimentAdjustment rewards neutral tone, gives a small credit to serious
// negative tone and penalizes apparent positivity or sarcasm.
func sentimentAdjustment(compound float64) float64 {
	switch {
	case compound > 0.2:
		return -0.1
	case compound < -0.2:
		return 0.1
	default:
		return 0.2
	}
}

func countSentencePunctuation(text string) int {
	count := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			count++
		}
	}
	return count
}

// capitalizedRatio is the share of tokens that are alphabetic words starting
// with an upper-case letter, a proxy for sentence-case effort.
func capitalizedRatio(text string) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}
	capitalized := 0
	for _, w := range words {
		runes := []rune(w)
		if !unicode.IsUpper(runes[0]) {
			continue
		}
		alpha := true
		for _, r := range runes {
			if !unicode.IsLetter(r) {
				alpha = false
				break
			}
		}
		if alpha {
			capitalized++
		}
	}
	return float64(capitalized) / float64(len(words))
}
