package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/spf13/cobra"
)

var (
	directivesPath   string
	directivesFormat string
)

var directivesCmd = &cobra.Command{
	Use:   "directives",
	Short: "Manage reference directives",
	Long:  "Commands for listing and inspecting the directives references are recognized by",
}

var directivesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available directives",
	Long:  "Display all available directives with their IDs, kinds and severities",
	RunE:  runDirectivesList,
}

func init() {
	directivesCmd.AddCommand(directivesListCmd)
	directivesListCmd.Flags().StringVar(&directivesPath, "directives", "", "Path to additional directive file or directory")
	directivesListCmd.Flags().StringVar(&directivesFormat, "format", "table", "Output format: table, json")
}

func runDirectivesList(cmd *cobra.Command, args []string) error {
	directives, err := loadDirectives(directivesPath, "", "")
	if err != nil {
		return fmt.Errorf("loading directives: %w", err)
	}

	switch directivesFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(directives)
	case "table":
		return outputDirectivesTable(cmd, directives)
	default:
		return fmt.Errorf("unknown output format: %s", directivesFormat)
	}
}

func outputDirectivesTable(cmd *cobra.Command, directives []*types.Directive) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tName\tKind\tSeverity\n")
	fmt.Fprintf(w, "--\t----\t----\t--------\n")
	for _, d := range directives {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Kind, d.UnresolvedSeverity())
	}
	return nil
}
