package valuation

import "github.com/sells-group/underwrite-cli/internal/model"

// Per-bed CapEx tiers. Immediate needs key off years since the last
// renovation; deferred and competitive needs key off the building's age.
// Thresholds step at 10/15/20/30 years.

func immediatePerBed(yearsSinceRenovation int) float64 {
	switch {
	case yearsSinceRenovation >= 20:
		return 8000
	case yearsSinceRenovation >= 15:
		return 5000
	case yearsSinceRenovation >= 10:
		return 2500
	default:
		return 0
	}
}

func deferredPerBed(buildingAge int) float64 {
	switch {
	case buildingAge >= 30:
		return 12000
	case buildingAge >= 20:
		return 7500
	case buildingAge >= 15:
		return 4000
	case buildingAge >= 10:
		return 2000
	default:
		return 0
	}
}

func competitivePerBed(buildingAge int) float64 {
	switch {
	case buildingAge >= 30:
		return 10000
	case buildingAge >= 20:
		return 6000
	case buildingAge >= 10:
		return 3000
	default:
		return 0
	}
}

// EstimateCapEx sums the three independent step functions into the
// facility's capital-needs estimate. Negative inputs are treated as zero.
func EstimateCapEx(buildingAge, yearsSinceRenovation, beds int) model.CapExEstimate {
	if buildingAge < 0 {
		buildingAge = 0
	}
	if yearsSinceRenovation < 0 {
		yearsSinceRenovation = 0
	}
	if beds < 0 {
		beds = 0
	}
	// an unrenovated building is as old as itself
	if yearsSinceRenovation == 0 {
		yearsSinceRenovation = buildingAge
	}

	imm := immediatePerBed(yearsSinceRenovation)
	def := deferredPerBed(buildingAge)
	comp := competitivePerBed(buildingAge)
	perBed := imm + def + comp

	return model.CapExEstimate{
		Immediate:   imm * float64(beds),
		Deferred:    def * float64(beds),
		Competitive: comp * float64(beds),
		Total:       perBed * float64(beds),
		PerBed:      perBed,
	}
}
