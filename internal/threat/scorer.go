// Package threat classifies free-form email text into a risk tier.
// It matches the text against a fixed catalog of lexical rules and structural
// heuristics, accumulates a bounded score and maps that score to a tier.
//
// Analysis is a pure function of the input: no I/O, no logging, no shared
// mutable state. Callers may run any number of analyses concurrently.
//
// The package does not enforce a maximum input length. Evaluation is linear in
// the input size times the catalog size, so callers exposed to untrusted input
// should cap the length before calling Analyze.
package threat

// Severity is the qualitative weight of a rule.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Polarity says whether a finding raises or lowers the risk score.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

// Tier is the discrete classification derived from the score.
type Tier string

const (
	TierSafe       Tier = "safe"
	TierSuspicious Tier = "suspicious"
	TierDangerous  Tier = "dangerous"
)

const (
	// MinScore and MaxScore bound Result.Score.
	MinScore = 0
	MaxScore = 100

	// SafeThreshold is the highest score still classified as safe.
	SafeThreshold = 15
	// SuspiciousThreshold is the highest score still classified as suspicious.
	SuspiciousThreshold = 50

	// MaxIndicators caps Result.Indicators.
	MaxIndicators = 10
)

// Indicator is one finding produced during an analysis.
type Indicator struct {
	Type     Polarity `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result is the output of an analysis run.
type Result struct {
	// Tier is derived from Score:
	//   0–15   → safe
	//   16–50  → suspicious
	//   51–100 → dangerous
	Tier Tier `json:"risk_level"`

	// Score is the clamped aggregate risk score (0–100).
	Score int `json:"score"`

	// Indicators lists findings in evaluation order, at most MaxIndicators.
	// It is never empty.
	Indicators []Indicator `json:"indicators"`
}

// Scorer analyses email text for threat indicators.
type Scorer interface {
	Analyze(text string) Result
}

// tierFor maps a clamped score to its tier.
func tierFor(score int) Tier {
	switch {
	case score > SuspiciousThreshold:
		return TierDangerous
	case score > SafeThreshold:
		return TierSuspicious
	default:
		return TierSafe
	}
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
