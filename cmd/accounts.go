package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/underwrite-cli/internal/coa"
	"github.com/sells-group/underwrite-cli/internal/model"
)

var accountsType string

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the standard chart of accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		chart, err := coa.LoadDefaultChart()
		if err != nil {
			return err
		}
		cmd.Print(formatAccounts(chart, accountsType))
		return nil
	},
}

func formatAccounts(chart *coa.Chart, typeFilter string) string {
	var b strings.Builder
	for _, acct := range chart.Accounts {
		if typeFilter != "" && string(acct.Type) != typeFilter {
			continue
		}
		flags := ""
		if acct.Type == model.AccountTypeExpense {
			if acct.Labor {
				flags = " [labor]"
			}
			if !acct.Operating {
				flags += " [non-operating]"
			}
		}
		fmt.Fprintf(&b, "%-22s %-8s %-18s %s%s\n", acct.Code, acct.Type, acct.Category, acct.Name, flags)
	}
	return b.String()
}

func init() {
	accountsCmd.Flags().StringVar(&accountsType, "type", "", "filter by account type (revenue|expense)")
	rootCmd.AddCommand(accountsCmd)
}
