package coa

import (
	"strings"
	"unicode"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// fuzzyThreshold is the minimum fuzzy score accepted as a match.
const fuzzyThreshold = 0.6

// Matcher maps arbitrary text labels onto the chart of accounts. It is a
// pure function of the chart and the input string; unmatched labels come
// back as MatchNone rather than errors.
type Matcher struct {
	chart *Chart
	// normalized name/alias lookups, built once at construction
	byName  map[string]*model.Account
	byAlias map[string]*model.Account
}

// NewMatcher builds a Matcher over the given chart.
func NewMatcher(chart *Chart) *Matcher {
	m := &Matcher{
		chart:   chart,
		byName:  make(map[string]*model.Account, len(chart.Accounts)),
		byAlias: make(map[string]*model.Account),
	}
	for i := range chart.Accounts {
		a := &chart.Accounts[i]
		key := NormalizeLabel(a.Name)
		if _, taken := m.byName[key]; !taken {
			m.byName[key] = a
		}
		for _, alias := range a.Aliases {
			k := NormalizeLabel(alias)
			if _, taken := m.byAlias[k]; !taken {
				m.byAlias[k] = a
			}
		}
	}
	return m
}

// Match resolves a raw label to a line-item mapping. Tries exact name,
// then alias, then fuzzy scoring over every name and alias; fuzzy ties
// resolve to the earliest account in chart order.
func (m *Matcher) Match(label string) model.LineItemMapping {
	norm := NormalizeLabel(label)
	if norm == "" {
		return model.LineItemMapping{Label: label, MatchType: model.MatchNone}
	}

	if a, ok := m.byName[norm]; ok {
		return model.LineItemMapping{Label: label, Account: a, Confidence: 1.0, MatchType: model.MatchExact}
	}
	if a, ok := m.byAlias[norm]; ok {
		return model.LineItemMapping{Label: label, Account: a, Confidence: 0.95, MatchType: model.MatchAlias}
	}

	var best *model.Account
	var bestScore float64
	for i := range m.chart.Accounts {
		a := &m.chart.Accounts[i]
		score := fuzzyScore(norm, NormalizeLabel(a.Name))
		for _, alias := range a.Aliases {
			if s := fuzzyScore(norm, NormalizeLabel(alias)); s > score {
				score = s
			}
		}
		// strict > keeps the first account on ties
		if score > bestScore {
			bestScore = score
			best = a
		}
	}

	if best == nil || bestScore < fuzzyThreshold {
		return model.LineItemMapping{Label: label, MatchType: model.MatchNone}
	}
	return model.LineItemMapping{Label: label, Account: best, Confidence: bestScore, MatchType: model.MatchFuzzy}
}

// NormalizeLabel lowercases, strips non-alphanumeric runes, and collapses
// runs of whitespace to single spaces.
func NormalizeLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range strings.ToLower(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// punctuation separates tokens rather than gluing them together
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// fuzzyScore scores two normalized strings: 1.0 for identity, the length
// ratio for substring containment, otherwise the Jaccard overlap of their
// word sets.
func fuzzyScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter, longer := len(a), len(b)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return float64(shorter) / float64(longer)
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	set := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		set[t] = true
	}
	union := make(map[string]bool, len(tokensA)+len(tokensB))
	for _, t := range tokensA {
		union[t] = true
	}
	var intersection int
	seen := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		union[t] = true
		if set[t] && !seen[t] {
			intersection++
			seen[t] = true
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}
