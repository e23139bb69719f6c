package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/underwrite-cli/internal/pipeline"
	"github.com/sells-group/underwrite-cli/internal/report"
)

var (
	underwriteJSON      bool
	underwriteOutput    string
	underwritePortfolio bool
)

var underwriteCmd = &cobra.Command{
	Use:   "underwrite <deal.json>",
	Short: "Underwrite a deal file",
	Long: `Reads a deal file (facility records extracted from offering memos,
rent rolls, cost reports) and runs the full underwriting pass:
cross-source reconciliation, chart-of-accounts mapping, normalization,
benchmarking, and paired valuation.

Examples:
  # Text report to stdout
  underwrite deal.json

  # Full result as JSON
  underwrite deal.json --json --output result.json

  # Treat records as independent facilities, no cross-source reconciliation
  underwrite portfolio.json --portfolio`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deal, err := loadDeal(args[0])
		if err != nil {
			return err
		}

		uw, err := pipeline.NewDefaultUnderwriter(cfg.Normalize)
		if err != nil {
			return err
		}

		var res *pipeline.DealResult
		if underwritePortfolio {
			facilities, err := uw.UnderwritePortfolio(cmd.Context(), deal.Records, cfg.Pipeline.Concurrency)
			if err != nil {
				return err
			}
			res = &pipeline.DealResult{Deal: deal.Name, Facilities: facilities, ValidationScore: 100}
		} else {
			res, err = uw.UnderwriteDeal(deal)
			if err != nil {
				return err
			}
		}

		var out []byte
		if underwriteJSON {
			out, err = json.MarshalIndent(res, "", "  ")
			if err != nil {
				return eris.Wrap(err, "cmd: marshal result")
			}
			out = append(out, '\n')
		} else {
			out = []byte(report.Render(res))
		}

		if underwriteOutput != "" {
			if err := os.WriteFile(underwriteOutput, out, 0o644); err != nil {
				return eris.Wrapf(err, "cmd: write %s", underwriteOutput)
			}
			zap.L().Info("result written",
				zap.String("path", underwriteOutput),
				zap.Int("facilities", len(res.Facilities)),
			)
			return nil
		}

		cmd.Print(string(out))
		return nil
	},
}

func loadDeal(path string) (pipeline.Deal, error) {
	var deal pipeline.Deal
	data, err := os.ReadFile(path)
	if err != nil {
		return deal, eris.Wrapf(err, "cmd: read %s", path)
	}
	if err := json.Unmarshal(data, &deal); err != nil {
		return deal, eris.Wrapf(err, "cmd: parse %s", path)
	}
	if len(deal.Records) == 0 {
		return deal, eris.Errorf("cmd: %s contains no facility records", path)
	}
	return deal, nil
}

func init() {
	underwriteCmd.Flags().BoolVar(&underwriteJSON, "json", false, "emit the full result as JSON")
	underwriteCmd.Flags().StringVar(&underwriteOutput, "output", "", "write output to a file instead of stdout")
	underwriteCmd.Flags().BoolVar(&underwritePortfolio, "portfolio", false, "underwrite records concurrently as independent facilities")
	rootCmd.AddCommand(underwriteCmd)
}
