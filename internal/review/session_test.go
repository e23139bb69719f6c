package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/coa"
	"github.com/sells-group/underwrite-cli/internal/model"
)

func newTestSession(t *testing.T, labels ...string) *Session {
	t.Helper()
	chart, err := coa.LoadDefaultChart()
	require.NoError(t, err)

	items := make([]Item, len(labels))
	for i, label := range labels {
		items[i] = Item{
			Mapping: model.LineItemMapping{Label: label, MatchType: model.MatchNone},
			Amount:  1000,
		}
	}
	return NewSession(chart, items)
}

func TestSession_Progress(t *testing.T) {
	s := newTestSession(t, "mystery one", "mystery two")
	p := s.Progress()
	assert.Equal(t, Progress{Total: 2, Mapped: 0, Unmapped: 2}, p)
	assert.False(t, s.Complete())
	assert.NotEmpty(t, s.ID)
}

func TestApplyAccount(t *testing.T) {
	s := newTestSession(t, "misc therapy charges")

	require.NoError(t, s.ApplyAccount(0, "rev_ancillary"))
	it := s.Items[0]
	assert.Equal(t, model.MatchManual, it.Mapping.MatchType)
	assert.Equal(t, 1.0, it.Mapping.Confidence)
	assert.Equal(t, "rev_ancillary", it.Mapping.Account.Code)
	assert.Equal(t, CategoryRevenue, it.Classification)
	assert.True(t, s.Complete())
}

func TestApplyAccount_Errors(t *testing.T) {
	s := newTestSession(t, "x")
	err := s.ApplyAccount(0, "no_such_account")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account code")

	err = s.ApplyAccount(5, "rev_other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestQuickCategorize(t *testing.T) {
	s := newTestSession(t, "a", "b", "c", "d")

	require.NoError(t, s.QuickCategorize(0, CategoryRevenue))
	assert.Equal(t, "rev_other", s.Items[0].Mapping.Account.Code)
	assert.Equal(t, 1.0, s.Items[0].Mapping.Confidence)

	require.NoError(t, s.QuickCategorize(1, CategoryExpense))
	assert.Equal(t, "exp_other", s.Items[1].Mapping.Account.Code)

	require.NoError(t, s.QuickCategorize(2, CategoryCensus))
	assert.Nil(t, s.Items[2].Mapping.Account)
	assert.True(t, s.Items[2].Resolved())

	require.NoError(t, s.QuickCategorize(3, CategorySkipped))
	assert.True(t, s.Items[3].Resolved())

	assert.True(t, s.Complete())

	err := s.QuickCategorize(0, Category("bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestAutoMapRemaining(t *testing.T) {
	s := newTestSession(t,
		"Misc Income",        // revenue keyword
		"Patient Days Total", // census keyword
		"Sundry Charges",     // default -> expense
	)

	n := s.AutoMapRemaining()
	assert.Equal(t, 3, n)
	assert.True(t, s.Complete())

	assert.Equal(t, CategoryRevenue, s.Items[0].Classification)
	assert.Equal(t, "rev_other", s.Items[0].Mapping.Account.Code)
	assert.Equal(t, 0.7, s.Items[0].Mapping.Confidence)

	assert.Equal(t, CategoryCensus, s.Items[1].Classification)
	assert.Nil(t, s.Items[1].Mapping.Account)

	assert.Equal(t, CategoryExpense, s.Items[2].Classification)
	assert.Equal(t, "exp_other", s.Items[2].Mapping.Account.Code)

	// already-resolved items are untouched on a second pass
	assert.Equal(t, 0, s.AutoMapRemaining())
}

func TestKeywordCategory(t *testing.T) {
	tests := []struct {
		label string
		want  Category
	}{
		{"Other Revenue", CategoryRevenue},
		{"Rental Income", CategoryRevenue},
		{"Occupancy %", CategoryCensus},
		{"Licensed Beds", CategoryCensus},
		{"Resident Days", CategoryCensus},
		{"Supplies", CategoryExpense},
		{"", CategoryExpense},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keywordCategory(tt.label), "label %q", tt.label)
	}
}

func TestUnmap_RoundTrip(t *testing.T) {
	s := newTestSession(t, "mystery line")

	require.NoError(t, s.ApplyAccount(0, "exp_utilities"))
	assert.True(t, s.Complete())

	require.NoError(t, s.Unmap(0))
	assert.False(t, s.Complete())
	assert.Equal(t, model.MatchNone, s.Items[0].Mapping.MatchType)
	assert.Nil(t, s.Items[0].Mapping.Account)
	assert.Equal(t, Category(""), s.Items[0].Classification)
	// the label survives the round trip
	assert.Equal(t, "mystery line", s.Items[0].Mapping.Label)
}
