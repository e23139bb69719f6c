// Package reconcile detects and resolves field-level disagreements between
// multiple source extractions of the same facility.
package reconcile

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/underwrite-cli/internal/model"
)

const (
	// autoResolveThreshold is the relative variance at or below which a
	// conflict resolves itself to the higher reported figure.
	autoResolveThreshold = 0.03
	// noiseEpsilon filters floating-point noise; smaller differences are
	// not conflicts at all.
	noiseEpsilon = 0.001
)

// Result is the outcome of reconciling a set of facility records.
type Result struct {
	Conflicts       []model.Conflict `json:"conflicts"`
	ValidationScore float64          `json:"validation_score"` // percent of conflicts no longer pending
}

// Reconciler groups records by facility and compares their numeric fields.
// Stateless and safe for concurrent use.
type Reconciler struct{}

// NewReconciler creates a Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile compares every facility's records pairwise against the first
// record seen for that facility. Bed counts and summed revenue are checked;
// variances at or below 3% auto-resolve to the higher figure, larger ones
// stay pending for manual resolution.
func (r *Reconciler) Reconcile(records []model.FacilityRecord) *Result {
	res := &Result{}

	groups, order := groupByFacility(records)
	for _, name := range order {
		group := groups[name]
		if len(group) < 2 {
			continue
		}
		first := group[0]
		for _, other := range group[1:] {
			res.Conflicts = append(res.Conflicts, compareRecords(first, other)...)
		}
	}

	res.ValidationScore = validationScore(res.Conflicts)
	if n := len(res.Conflicts); n > 0 {
		zap.L().Info("reconcile: conflicts detected",
			zap.Int("conflicts", n),
			zap.Float64("validation_score", res.ValidationScore),
		)
	}
	return res
}

// ResolveManual transitions one pending conflict to manual with the
// supplied value. Resolved conflicts are terminal and cannot be reopened.
func (res *Result) ResolveManual(id string, value float64) (*model.Conflict, error) {
	for i := range res.Conflicts {
		c := &res.Conflicts[i]
		if c.ID != id {
			continue
		}
		if c.Resolved() {
			return nil, eris.Errorf("reconcile: conflict %s already resolved (%s)", id, c.Resolution)
		}
		v := value
		c.Resolution = model.ResolutionManual
		c.ResolvedValue = &v
		res.ValidationScore = validationScore(res.Conflicts)
		return c, nil
	}
	return nil, eris.Errorf("reconcile: no conflict with id %s", id)
}

// Merge collapses each facility's records to a single record with resolved
// conflict values applied: resolved bed counts override the base record,
// and a resolved revenue conflict selects the member whose revenue total
// matches the resolved value.
func (r *Reconciler) Merge(records []model.FacilityRecord, conflicts []model.Conflict) []model.FacilityRecord {
	byFacility := make(map[string][]model.Conflict)
	for _, c := range conflicts {
		key := normalizeName(c.FacilityName)
		byFacility[key] = append(byFacility[key], c)
	}

	groups, order := groupByFacility(records)
	merged := make([]model.FacilityRecord, 0, len(order))
	for _, name := range order {
		group := groups[name]
		base := group[0]
		for _, c := range byFacility[name] {
			if !c.Resolved() || c.ResolvedValue == nil {
				continue
			}
			switch c.Field {
			case "bed_count":
				base.Beds = int(math.Round(*c.ResolvedValue))
			case "total_revenue":
				for _, member := range group {
					if relativeVariance(recordRevenue(member), *c.ResolvedValue) <= noiseEpsilon {
						base.RevenueLines = member.RevenueLines
						break
					}
				}
			}
		}
		merged = append(merged, base)
	}
	return merged
}

func compareRecords(first, other model.FacilityRecord) []model.Conflict {
	var out []model.Conflict
	fields := []struct {
		name string
		a, b float64
	}{
		{"bed_count", float64(first.Beds), float64(other.Beds)},
		{"total_revenue", recordRevenue(first), recordRevenue(other)},
	}
	for _, f := range fields {
		variance := relativeVariance(f.a, f.b)
		if variance <= noiseEpsilon {
			continue
		}
		c := model.Conflict{
			ID:           uuid.NewString(),
			FacilityName: first.FacilityName,
			Field:        f.name,
			SourceA:      first.Source,
			ValueA:       f.a,
			SourceB:      other.Source,
			ValueB:       f.b,
			Variance:     variance,
			Resolution:   model.ResolutionPending,
		}
		if variance <= autoResolveThreshold {
			v := math.Max(f.a, f.b)
			c.Resolution = model.ResolutionAuto
			c.ResolvedValue = &v
		}
		out = append(out, c)
	}
	return out
}

func groupByFacility(records []model.FacilityRecord) (map[string][]model.FacilityRecord, []string) {
	groups := make(map[string][]model.FacilityRecord)
	var order []string
	for _, rec := range records {
		key := normalizeName(rec.FacilityName)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}
	return groups, order
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// relativeVariance is |a-b| / max(a,b); zero when both values are zero.
func relativeVariance(a, b float64) float64 {
	max := math.Max(a, b)
	if max == 0 {
		return 0
	}
	return math.Abs(a-b) / max
}

func recordRevenue(rec model.FacilityRecord) float64 {
	var total float64
	for _, l := range rec.RevenueLines {
		total += l.Amount
	}
	return total
}

func validationScore(conflicts []model.Conflict) float64 {
	if len(conflicts) == 0 {
		return 100
	}
	var resolved int
	for _, c := range conflicts {
		if c.Resolved() {
			resolved++
		}
	}
	return float64(resolved) / float64(len(conflicts)) * 100
}
