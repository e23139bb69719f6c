// Package review coordinates human-assisted completion of line items the
// matcher could not confidently classify.
package review

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/underwrite-cli/internal/coa"
	"github.com/sells-group/underwrite-cli/internal/model"
)

// autoMapConfidence is assigned by keyword auto-mapping; deliberately lower
// than an explicit human selection.
const autoMapConfidence = 0.7

// Category is the closed set of quick-categorization buckets.
type Category string

const (
	CategoryRevenue Category = "revenue"
	CategoryExpense Category = "expense"
	CategoryCensus  Category = "census"
	CategorySkipped Category = "skipped"
)

// Item is one line under review: its current mapping, the source amount,
// and the bucket it was classified into, if any.
type Item struct {
	Mapping        model.LineItemMapping `json:"mapping"`
	Amount         float64               `json:"amount"`
	Classification Category              `json:"classification,omitempty"`
}

// Resolved reports whether the item no longer needs attention: either it
// carries an account or it was classified as census data or skipped.
func (it Item) Resolved() bool {
	return it.Mapping.Mapped() || it.Classification == CategoryCensus || it.Classification == CategorySkipped
}

// Progress summarizes a session's mapped/unmapped split.
type Progress struct {
	Total    int `json:"total"`
	Mapped   int `json:"mapped"`
	Unmapped int `json:"unmapped"`
}

// Session tracks the review state for one facility's unmapped lines.
// Resolution normally runs one way (unmapped to mapped); Unmap exists for
// round-trip editing when a classification was wrong.
type Session struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`

	chart *coa.Chart
}

// NewSession opens a review session over the given items.
func NewSession(chart *coa.Chart, items []Item) *Session {
	return &Session{ID: uuid.NewString(), Items: items, chart: chart}
}

// ApplyAccount maps one item to an explicit account at full confidence.
func (s *Session) ApplyAccount(index int, code string) error {
	it, err := s.item(index)
	if err != nil {
		return err
	}
	acct := s.chart.ByCode(code)
	if acct == nil {
		return eris.Errorf("review: unknown account code %q", code)
	}
	it.Mapping = it.Mapping.WithManualAccount(acct)
	it.Classification = classificationFor(acct)
	return nil
}

// QuickCategorize drops one item into a coarse bucket. Revenue and expense
// use the chart's catch-all accounts; census and skipped resolve the item
// without touching the ledger.
func (s *Session) QuickCategorize(index int, category Category) error {
	it, err := s.item(index)
	if err != nil {
		return err
	}
	switch category {
	case CategoryRevenue:
		it.Mapping = it.Mapping.WithManualAccount(s.chart.OtherRevenue())
	case CategoryExpense:
		it.Mapping = it.Mapping.WithManualAccount(s.chart.OtherExpense())
	case CategoryCensus, CategorySkipped:
		it.Mapping = it.Mapping.Unmapped()
	default:
		return eris.Errorf("review: unknown category %q", category)
	}
	it.Classification = category
	return nil
}

// AutoMapRemaining bulk-classifies every unresolved item from keywords in
// its label, at reduced confidence. Returns the number of items mapped.
func (s *Session) AutoMapRemaining() int {
	var n int
	for i := range s.Items {
		it := &s.Items[i]
		if it.Resolved() {
			continue
		}
		category := keywordCategory(it.Mapping.Label)
		switch category {
		case CategoryRevenue:
			it.Mapping = it.Mapping.WithManualAccount(s.chart.OtherRevenue())
			it.Mapping.Confidence = autoMapConfidence
		case CategoryCensus:
			it.Mapping = it.Mapping.Unmapped()
		default:
			it.Mapping = it.Mapping.WithManualAccount(s.chart.OtherExpense())
			it.Mapping.Confidence = autoMapConfidence
		}
		it.Classification = category
		n++
	}
	return n
}

// Unmap returns an item to the unmapped state.
func (s *Session) Unmap(index int) error {
	it, err := s.item(index)
	if err != nil {
		return err
	}
	it.Mapping = it.Mapping.Unmapped()
	it.Classification = ""
	return nil
}

// Progress reports the session's mapped/unmapped counts.
func (s *Session) Progress() Progress {
	p := Progress{Total: len(s.Items)}
	for _, it := range s.Items {
		if it.Resolved() {
			p.Mapped++
		} else {
			p.Unmapped++
		}
	}
	return p
}

// Complete reports whether every item has been resolved.
func (s *Session) Complete() bool {
	return s.Progress().Unmapped == 0
}

func (s *Session) item(index int) (*Item, error) {
	if index < 0 || index >= len(s.Items) {
		return nil, eris.Errorf("review: item index %d out of range", index)
	}
	return &s.Items[index], nil
}

func classificationFor(acct *model.Account) Category {
	if acct.IsRevenue() {
		return CategoryRevenue
	}
	return CategoryExpense
}

// keywordCategory buckets a label from substring heuristics: revenue words
// first, then census words, defaulting to expense.
func keywordCategory(label string) Category {
	l := strings.ToLower(label)
	for _, kw := range []string{"revenue", "income"} {
		if strings.Contains(l, kw) {
			return CategoryRevenue
		}
	}
	for _, kw := range []string{"census", "day", "occupancy", "bed"} {
		if strings.Contains(l, kw) {
			return CategoryCensus
		}
	}
	return CategoryExpense
}
