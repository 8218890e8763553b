package threat

// noFindings is substituted when an analysis produces no indicators.
var noFindings = Indicator{
	Type:     Positive,
	Message:  "No obvious threat indicators detected",
	Severity: SeverityLow,
}

// RuleBasedScorer is the default Scorer implementation. It runs the fixed
// rule catalog against the text and accumulates a score.
type RuleBasedScorer struct {
	negative   []Rule
	positive   []Rule
	structural []heuristic
}

// NewRuleBasedScorer returns a RuleBasedScorer loaded with the default catalog.
func NewRuleBasedScorer() *RuleBasedScorer {
	return &RuleBasedScorer{
		negative:   negativeRules,
		positive:   positiveRules,
		structural: structuralHeuristics,
	}
}

var defaultScorer = NewRuleBasedScorer()

// Analyze runs the default catalog against text. text should already be
// trimmed and non-empty; any string yields a valid Result.
func Analyze(text string) Result {
	return defaultScorer.Analyze(text)
}

// Analyze implements Scorer.
func (s *RuleBasedScorer) Analyze(text string) Result {
	var (
		indicators []Indicator
		total      int
	)

	// A rule contributes at most once, however often its pattern matches.
	for _, r := range s.negative {
		if r.Pattern.MatchString(text) {
			indicators = append(indicators, Indicator{Type: Negative, Message: r.Message, Severity: r.Severity})
			total += negativeDelta(r.Severity)
		}
	}
	for _, r := range s.positive {
		if r.Pattern.MatchString(text) {
			indicators = append(indicators, Indicator{Type: Positive, Message: r.Message, Severity: r.Severity})
			total -= positiveDelta
		}
	}
	for _, h := range s.structural {
		for n := h.count(text); n > 0; n-- {
			indicators = append(indicators, Indicator{Type: Negative, Message: h.message, Severity: h.severity})
			total += h.delta
		}
	}

	score := clamp(total)

	if len(indicators) == 0 {
		indicators = []Indicator{noFindings}
	}
	if len(indicators) > MaxIndicators {
		indicators = indicators[:MaxIndicators:MaxIndicators]
	}

	return Result{
		Tier:       tierFor(score),
		Score:      score,
		Indicators: indicators,
	}
}
