package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

func requirementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requirements",
		Short: "Print the document checklist",
		Long:  `Print every supported category with its acceptance threshold, issue tolerance and required fields.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			library := patterns.New()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tTHRESHOLD\tMAX ISSUES\tREQUIRED FIELDS")
			for _, category := range domain.Categories() {
				rule := library.RulesFor(category)
				maxIssues := "-"
				if rule.GatesOnIssues() {
					maxIssues = fmt.Sprint(rule.Tolerance)
				}
				fields := make([]string, 0, len(rule.RequiredFields))
				for _, f := range rule.RequiredFields {
					fields = append(fields, f.Name)
				}
				fmt.Fprintf(w, "%s\t%.0f\t%s\t%s\n", category, rule.Threshold, maxIssues, strings.Join(fields, ", "))
			}
			return w.Flush()
		},
	}
}
