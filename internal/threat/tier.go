package threat

// Presentation is the display metadata a renderer attaches to a tier.
// It carries no scoring logic.
type Presentation struct {
	Label string `json:"label"`
	Class string `json:"class"`
	Icon  string `json:"icon"`
}

var presentations = map[Tier]Presentation{
	TierSafe:       {Label: "Safe Email", Class: "safe", Icon: "fas fa-check-circle"},
	TierSuspicious: {Label: "Suspicious Email", Class: "suspicious", Icon: "fas fa-exclamation-triangle"},
	TierDangerous:  {Label: "Dangerous Email", Class: "dangerous", Icon: "fas fa-times-circle"},
}

// Tiers returns all tiers from least to most risky.
func Tiers() []Tier {
	return []Tier{TierSafe, TierSuspicious, TierDangerous}
}

// Present returns the display metadata for t. Unknown tiers yield the zero value.
func Present(t Tier) Presentation {
	return presentations[t]
}

// Label returns the human-readable title of t, e.g. "Safe Email".
func (t Tier) Label() string {
	return presentations[t].Label
}

// ScoreRange returns the inclusive score bounds classified as t.
func (t Tier) ScoreRange() (lo, hi int) {
	switch t {
	case TierSafe:
		return MinScore, SafeThreshold
	case TierSuspicious:
		return SafeThreshold + 1, SuspiciousThreshold
	case TierDangerous:
		return SuspiciousThreshold + 1, MaxScore
	}
	return 0, -1
}

// AtLeast reports whether t is as risky as o or riskier.
func (t Tier) AtLeast(o Tier) bool {
	return tierRank(t) >= tierRank(o)
}

func tierRank(t Tier) int {
	for i, tt := range Tiers() {
		if tt == t {
			return i
		}
	}
	return -1
}

// ParseTier converts a tier name into a Tier.
func ParseTier(s string) (Tier, bool) {
	t := Tier(s)
	_, ok := presentations[t]
	return t, ok
}
