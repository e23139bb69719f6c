package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/underwrite-cli/internal/coa"
	"github.com/sells-group/underwrite-cli/internal/model"
)

var matchCmd = &cobra.Command{
	Use:   "match <label>...",
	Short: "Match raw line-item labels against the chart of accounts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chart, err := coa.LoadDefaultChart()
		if err != nil {
			return err
		}
		matcher := coa.NewMatcher(chart)
		for _, label := range args {
			cmd.Println(formatMatch(matcher.Match(label)))
		}
		return nil
	},
}

func formatMatch(m model.LineItemMapping) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-40q ", m.Label)
	if !m.Mapped() {
		b.WriteString("no match")
		return b.String()
	}
	fmt.Fprintf(&b, "%-22s %.2f (%s)", m.Account.Code, m.Confidence, m.MatchType)
	return b.String()
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
