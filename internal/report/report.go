// Package report renders underwriting results as human-readable text.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/underwrite-cli/internal/model"
	"github.com/sells-group/underwrite-cli/internal/pipeline"
)

// Render formats a deal result for terminal output, grouped digits and
// all.
func Render(res *pipeline.DealResult) string {
	p := message.NewPrinter(language.AmericanEnglish)
	var b strings.Builder

	fmt.Fprintf(&b, "Deal: %s\n", res.Deal)
	p.Fprintf(&b, "Validation score: %.0f%% (%d conflicts)\n", res.ValidationScore, len(res.Conflicts))

	for _, c := range res.Conflicts {
		p.Fprintf(&b, "  [%s] %s %s: %.0f (%s) vs %.0f (%s), variance %.2f%%",
			c.Resolution, c.FacilityName, c.Field, c.ValueA, c.SourceA, c.ValueB, c.SourceB, c.Variance*100)
		if c.ResolvedValue != nil {
			p.Fprintf(&b, " -> %.0f", *c.ResolvedValue)
		}
		b.WriteString("\n")
	}

	for _, fr := range res.Facilities {
		b.WriteString("\n")
		renderFacility(&b, p, fr)
	}
	return b.String()
}

func renderFacility(b *strings.Builder, p *message.Printer, fr *pipeline.FacilityResult) {
	m := fr.Normalized.Metrics
	fmt.Fprintf(b, "== %s (%s, %s) ==\n", fr.FacilityName, fr.Normalized.AssetType, fr.Normalized.State)
	p.Fprintf(b, "Beds %d | Patient days %.0f | Occupancy %.1f%%\n",
		fr.Normalized.Beds, fr.Normalized.PatientDays, m.OccupancyPercent)

	p.Fprintf(b, "Net revenue  $%.0f   (PPD $%.2f)\n", m.TotalNetRevenue, m.RevenuePPD)
	p.Fprintf(b, "Opex         $%.0f   (labor %.1f%% of revenue)\n", m.TotalOperatingExpense, m.LaborCostPercent)
	p.Fprintf(b, "NOI          $%.0f   (%.1f%% margin)\n", m.NOI, m.NOIMargin)
	p.Fprintf(b, "EBITDAR      $%.0f   (%.1f%% margin)\n", m.EBITDAR, m.EBITDARMargin)

	if len(fr.Adjustments) > 0 {
		b.WriteString("Adjustments:\n")
		for _, adj := range fr.Adjustments {
			p.Fprintf(b, "  - %s: $%.0f -> $%.0f (%s)\n",
				adj.Description, adj.OriginalAmount, adj.AdjustedAmount, adj.Reason)
		}
	}

	if fr.Benchmark != nil {
		p.Fprintf(b, "Benchmark: %.0fth percentile overall (%s)\n",
			fr.Benchmark.OverallPercentile, fr.Benchmark.OverallRating)
		for _, s := range fr.Benchmark.Strengths {
			fmt.Fprintf(b, "  + %s\n", s)
		}
		for _, w := range fr.Benchmark.Weaknesses {
			fmt.Fprintf(b, "  - %s\n", w)
		}
	}

	if fr.Valuation != nil {
		renderView(b, p, "External (lender)", fr.Valuation.External)
		renderView(b, p, "Internal (execution)", fr.Valuation.Internal)
	}

	if fr.CapEx.Total > 0 {
		p.Fprintf(b, "CapEx: immediate $%.0f, deferred $%.0f, competitive $%.0f ($%.0f/bed)\n",
			fr.CapEx.Immediate, fr.CapEx.Deferred, fr.CapEx.Competitive, fr.CapEx.PerBed)
	}
	if fr.Reimbursement.AnnualUpside > 0 {
		p.Fprintf(b, "Reimbursement upside: $%.0f/yr gross, $%.0f NOI impact\n",
			fr.Reimbursement.AnnualUpside, fr.Reimbursement.NOIImpact)
	}
	if fr.Review != nil {
		prog := fr.Review.Progress()
		fmt.Fprintf(b, "Review needed: %d of %d lines unmapped\n", prog.Unmapped, prog.Total)
	}
}

func renderView(b *strings.Builder, p *message.Printer, title string, v model.ValuationView) {
	p.Fprintf(b, "%s: $%.0f base (range $%.0f-$%.0f) at %.2f%% cap",
		title, v.ValueBase, v.ValueLow, v.ValueHigh, v.CapRateBase)
	if v.PricePerBed > 0 {
		p.Fprintf(b, ", $%.0f/bed", v.PricePerBed)
	}
	if v.MarketTier != "" {
		fmt.Fprintf(b, " [%s]", v.MarketTier)
	}
	b.WriteString("\n")
}
