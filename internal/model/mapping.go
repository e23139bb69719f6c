package model

// MatchType describes how a raw label was matched to an account.
type MatchType string

const (
	MatchExact  MatchType = "exact"
	MatchAlias  MatchType = "alias"
	MatchFuzzy  MatchType = "fuzzy"
	MatchManual MatchType = "manual"
	MatchNone   MatchType = "none"
)

// LineItemMapping is the result of matching one raw source label to an
// account. Mappings are value objects: a manual override produces a new
// mapping rather than mutating an existing one.
type LineItemMapping struct {
	Label      string    `json:"label"`
	Account    *Account  `json:"account,omitempty"`
	Confidence float64   `json:"confidence"`
	MatchType  MatchType `json:"match_type"`
}

// Mapped reports whether the label resolved to an account.
func (m LineItemMapping) Mapped() bool {
	return m.Account != nil && m.MatchType != MatchNone
}

// WithManualAccount returns a copy of the mapping overridden to the given
// account at full confidence.
func (m LineItemMapping) WithManualAccount(acct *Account) LineItemMapping {
	return LineItemMapping{
		Label:      m.Label,
		Account:    acct,
		Confidence: 1.0,
		MatchType:  MatchManual,
	}
}

// Unmapped returns a copy of the mapping reset to the unmatched state.
func (m LineItemMapping) Unmapped() LineItemMapping {
	return LineItemMapping{Label: m.Label, MatchType: MatchNone}
}
