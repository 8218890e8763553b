package analysis

import (
	"strings"

	"github.com/jmerrifield20/phishguard/internal/threat"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FindRules returns the catalog entries whose id or message fuzzily match
// query, case-insensitively. An empty query returns the whole catalog.
func FindRules(query string) []threat.RuleInfo {
	all := threat.Catalog()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	out := make([]threat.RuleInfo, 0, len(all))
	for _, info := range all {
		if fuzzy.MatchFold(query, info.ID) || fuzzy.MatchFold(query, info.Message) {
			out = append(out, info)
		}
	}
	return out
}
