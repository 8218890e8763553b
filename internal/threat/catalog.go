package threat

import "regexp"

// Rule is a single pattern-matching catalog entry.
type Rule struct {
	ID       string
	Message  string
	Severity Severity
	Polarity Polarity
	Pattern  *regexp.Regexp
}

// positiveDelta is subtracted for every matching positive rule, whatever
// severity the rule displays.
const positiveDelta = 5

// Structural heuristic deltas.
const (
	punctuationDelta = 5
	capsDelta        = 10
	shortenerDelta   = 15
	misspellingDelta = 5
)

// capsWordLimit is the number of all-caps words tolerated before the
// capitalization heuristic fires.
const capsWordLimit = 3

// negativeDelta maps a negative rule's severity to the score it adds.
func negativeDelta(s Severity) int {
	switch s {
	case SeverityHigh:
		return 30
	case SeverityMedium:
		return 20
	default:
		return 10
	}
}

func rule(id, pattern, message string, sev Severity, pol Polarity) Rule {
	return Rule{
		ID:       id,
		Message:  message,
		Severity: sev,
		Polarity: pol,
		Pattern:  regexp.MustCompile("(?i)" + pattern),
	}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

// negativeRules raise the score. Order is evaluation order.
var negativeRules = []Rule{
	rule("urgent_language",
		`urgent|immediate|act now|limited time|expires today|final notice`,
		"Urgent language detected", SeverityMedium, Negative),
	rule("account_verification",
		`verify.*account|confirm.*identity|update.*information|suspended.*account`,
		"Account verification request", SeverityHigh, Negative),
	rule("call_to_action",
		`click here|download now|open attachment|follow.*link`,
		"Suspicious call-to-action", SeverityMedium, Negative),
	rule("generic_greeting",
		`dear customer|dear user|dear valued|dear sir/madam`,
		"Generic greeting (lacks personalization)", SeverityLow, Negative),
	rule("account_threat",
		`suspended|blocked|expired|locked|terminated|cancelled`,
		"Account threat language", SeverityHigh, Negative),
	rule("prize_scam",
		`congratulations|winner|prize|lottery|jackpot|selected`,
		"Prize/lottery scam indicators", SeverityHigh, Negative),
	rule("financial_scam",
		`bitcoin|cryptocurrency|investment opportunity|double your money`,
		"Financial scam indicators", SeverityMedium, Negative),
	rule("sensitive_information",
		`social security|ssn|credit card|bank account|routing number`,
		"Requests for sensitive information", SeverityHigh, Negative),
	rule("government_impersonation",
		`irs|tax refund|government|federal|stimulus`,
		"Government impersonation attempt", SeverityHigh, Negative),
	rule("brand_impersonation",
		`paypal|amazon|microsoft|apple|google|facebook`,
		"Brand impersonation detected", SeverityMedium, Negative),
	rule("too_good_to_be_true",
		`free|no cost|risk-free|guaranteed|100%`,
		"Too-good-to-be-true language", SeverityLow, Negative),
	rule("payment_method",
		`wire transfer|western union|money gram|gift card`,
		"Suspicious payment method", SeverityHigh, Negative),
}

// positiveRules lower the score by positiveDelta each.
var positiveRules = []Rule{
	rule("personalized_greeting",
		`dear [a-z]+ [a-z]+`,
		"Personalized greeting detected", SeverityLow, Positive),
	rule("business_language",
		`unsubscribe|privacy policy|terms of service|contact us`,
		"Legitimate business language", SeverityLow, Positive),
	rule("professional_closing",
		`thank you|regards|best wishes|sincerely|kind regards`,
		"Professional closing", SeverityLow, Positive),
	rule("https_links",
		`https://[a-z0-9.-]+\.[a-z]{2,}`,
		"Secure HTTPS links found", SeverityLow, Positive),
}

// shortenerFragments mark a URL as shortened when any of them appears in
// the matched scheme and host, case-sensitively.
var shortenerFragments = []string{
	"bit.ly",
	"tinyurl",
	"t.co",
	"goo.gl",
	"ow.ly",
}

// misspellings are common misspellings seen in bulk phishing mail.
var misspellings = []string{
	"recieve", "seperate", "occured", "neccessary", "definately",
	"accomodate", "begining", "beleive", "calender", "cemetary",
}

// ShortenerFragments returns a copy of the built-in link shortener fragments.
func ShortenerFragments() []string {
	return append([]string(nil), shortenerFragments...)
}

// Misspellings returns a copy of the built-in misspelling list.
func Misspellings() []string {
	return append([]string(nil), misspellings...)
}

// RuleKind distinguishes table-driven rules from bespoke heuristics.
type RuleKind string

const (
	KindPattern    RuleKind = "pattern"
	KindStructural RuleKind = "structural"
)

// RuleInfo describes a catalog entry for display.
type RuleInfo struct {
	ID       string   `json:"id"`
	Kind     RuleKind `json:"kind"`
	Polarity Polarity `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Delta is the signed score contribution of one firing.
	Delta   int    `json:"delta"`
	Pattern string `json:"pattern,omitempty"`
}

// Catalog lists every rule and structural heuristic in evaluation order.
// The returned slice is freshly allocated.
func Catalog() []RuleInfo {
	out := make([]RuleInfo, 0, len(negativeRules)+len(positiveRules)+4)
	for _, r := range negativeRules {
		out = append(out, RuleInfo{
			ID:       r.ID,
			Kind:     KindPattern,
			Polarity: r.Polarity,
			Severity: r.Severity,
			Message:  r.Message,
			Delta:    negativeDelta(r.Severity),
			Pattern:  r.Pattern.String(),
		})
	}
	for _, r := range positiveRules {
		out = append(out, RuleInfo{
			ID:       r.ID,
			Kind:     KindPattern,
			Polarity: r.Polarity,
			Severity: r.Severity,
			Message:  r.Message,
			Delta:    -positiveDelta,
			Pattern:  r.Pattern.String(),
		})
	}
	for _, h := range structuralHeuristics {
		out = append(out, RuleInfo{
			ID:       h.id,
			Kind:     KindStructural,
			Polarity: Negative,
			Severity: h.severity,
			Message:  h.message,
			Delta:    h.delta,
		})
	}
	return out
}
