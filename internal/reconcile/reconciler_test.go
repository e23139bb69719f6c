package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/model"
)

func record(name, source string, beds int, revenue float64) model.FacilityRecord {
	return model.FacilityRecord{
		FacilityName: name,
		Source:       source,
		AssetType:    "SNF",
		Beds:         beds,
		RevenueLines: []model.RawLine{{Label: "Medicaid", Amount: revenue}},
	}
}

func TestReconcile_NoConflicts(t *testing.T) {
	r := NewReconciler()

	res := r.Reconcile([]model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 9_000_000),
		record("Maple Grove", "b.pdf", 100, 9_000_000),
		record("Oak Hill", "a.xlsx", 80, 6_000_000),
	})
	assert.Empty(t, res.Conflicts)
	assert.Equal(t, 100.0, res.ValidationScore)
}

func TestReconcile_AutoResolvesBelowThreshold(t *testing.T) {
	r := NewReconciler()

	// beds 100 vs 103: variance 2.91% -> auto, resolved to 103
	res := r.Reconcile([]model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 9_000_000),
		record("Maple Grove", "b.pdf", 103, 9_000_000),
	})
	require.Len(t, res.Conflicts, 1)

	c := res.Conflicts[0]
	assert.Equal(t, "bed_count", c.Field)
	assert.Equal(t, model.ResolutionAuto, c.Resolution)
	require.NotNil(t, c.ResolvedValue)
	assert.Equal(t, 103.0, *c.ResolvedValue)
	assert.InDelta(t, 3.0/103.0, c.Variance, 1e-9)
	assert.Equal(t, 100.0, res.ValidationScore)
}

func TestReconcile_PendingAboveThreshold(t *testing.T) {
	r := NewReconciler()

	// beds 100 vs 104: variance 3.85% -> pending
	res := r.Reconcile([]model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 9_000_000),
		record("Maple Grove", "b.pdf", 104, 9_000_000),
	})
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, model.ResolutionPending, res.Conflicts[0].Resolution)
	assert.Nil(t, res.Conflicts[0].ResolvedValue)
	assert.Equal(t, 0.0, res.ValidationScore)
}

func TestReconcile_ThresholdBoundary(t *testing.T) {
	r := NewReconciler()

	// exactly 3.0% variance auto-resolves
	res := r.Reconcile([]model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 970_000),
		record("Maple Grove", "b.pdf", 100, 1_000_000),
	})
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, model.ResolutionAuto, res.Conflicts[0].Resolution)
	assert.Equal(t, 1_000_000.0, *res.Conflicts[0].ResolvedValue)

	// 3.01% stays pending
	res = r.Reconcile([]model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 969_900),
		record("Maple Grove", "b.pdf", 100, 1_000_000),
	})
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, model.ResolutionPending, res.Conflicts[0].Resolution)
}

func TestReconcile_NoiseEpsilonIgnored(t *testing.T) {
	r := NewReconciler()

	// 0.05% difference is floating-point noise, not a conflict
	res := r.Reconcile([]model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 1_000_000),
		record("Maple Grove", "b.pdf", 100, 1_000_500),
	})
	assert.Empty(t, res.Conflicts)
}

func TestReconcile_NameNormalization(t *testing.T) {
	r := NewReconciler()

	res := r.Reconcile([]model.FacilityRecord{
		record("  Maple Grove ", "a.xlsx", 100, 9_000_000),
		record("MAPLE GROVE", "b.pdf", 110, 9_000_000),
	})
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "bed_count", res.Conflicts[0].Field)
}

func TestResolveManual(t *testing.T) {
	r := NewReconciler()

	res := r.Reconcile([]model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 9_000_000),
		record("Maple Grove", "b.pdf", 104, 9_000_000),
	})
	require.Len(t, res.Conflicts, 1)
	id := res.Conflicts[0].ID

	c, err := res.ResolveManual(id, 102)
	require.NoError(t, err)
	assert.Equal(t, model.ResolutionManual, c.Resolution)
	assert.Equal(t, 102.0, *c.ResolvedValue)
	assert.Equal(t, 100.0, res.ValidationScore)

	// terminal: a resolved conflict cannot be reopened or re-resolved
	_, err = res.ResolveManual(id, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already resolved")

	_, err = res.ResolveManual("nope", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict")
}

func TestMerge_AppliesResolvedValues(t *testing.T) {
	r := NewReconciler()

	records := []model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 9_000_000),
		record("Maple Grove", "b.pdf", 103, 9_200_000),
	}
	res := r.Reconcile(records)
	// beds auto-resolve to 103; revenue variance 2.17% auto-resolves to 9.2M
	require.Len(t, res.Conflicts, 2)

	merged := r.Merge(records, res.Conflicts)
	require.Len(t, merged, 1)
	assert.Equal(t, 103, merged[0].Beds)
	assert.Equal(t, 9_200_000.0, merged[0].RevenueLines[0].Amount)
	// the base record's identity is preserved
	assert.Equal(t, "a.xlsx", merged[0].Source)
}

func TestMerge_PendingConflictLeavesBase(t *testing.T) {
	r := NewReconciler()

	records := []model.FacilityRecord{
		record("Maple Grove", "a.xlsx", 100, 9_000_000),
		record("Maple Grove", "b.pdf", 120, 9_000_000),
	}
	res := r.Reconcile(records)
	require.Len(t, res.Conflicts, 1)

	merged := r.Merge(records, res.Conflicts)
	require.Len(t, merged, 1)
	assert.Equal(t, 100, merged[0].Beds)
}
