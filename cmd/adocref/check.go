package main

import (
	"fmt"
	"os"

	"github.com/praetorian-inc/adocref/pkg/store"
	"github.com/spf13/cobra"
)

var (
	checkFormat            string
	checkColor             string
	checkFailOn            string
	checkDatastore         string
	checkDirectives        string
	checkDirectivesInclude string
	checkDirectivesExclude string
	checkIncremental       bool
	checkCollectAttributes bool
	checkIncludeHidden     bool
	checkKeepComments      bool
	checkAttributes        map[string]string
)

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Check AsciiDoc references",
	Long: `Check a file or a directory tree of AsciiDoc documents for references
whose targets are missing or malformed. Results are recorded in the datastore.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "Output format: human, json, sarif")
	checkCmd.Flags().StringVar(&checkColor, "color", "auto", "Color output: auto, always, never")
	checkCmd.Flags().StringVar(&checkFailOn, "fail-on", "error", "Exit non-zero on diagnostics of this severity: error, warning, none")
	checkCmd.Flags().StringVar(&checkDatastore, "datastore", store.MemoryPath, "Datastore path (SQLite file or :memory:)")
	checkCmd.Flags().StringVar(&checkDirectives, "directives", "", "Path to additional directive file or directory")
	checkCmd.Flags().StringVar(&checkDirectivesInclude, "directives-include", "", "Include directives matching regex pattern (comma-separated)")
	checkCmd.Flags().StringVar(&checkDirectivesExclude, "directives-exclude", "", "Exclude directives matching regex pattern (comma-separated)")
	checkCmd.Flags().BoolVar(&checkIncremental, "incremental", false, "Reuse stored results for unchanged documents")
	checkCmd.Flags().BoolVar(&checkCollectAttributes, "collect-attributes", false, "Collect document header attributes from the whole tree")
	checkCmd.Flags().BoolVar(&checkIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	checkCmd.Flags().BoolVar(&checkKeepComments, "keep-comments", false, "Check references inside comments")
	checkCmd.Flags().StringToStringVarP(&checkAttributes, "attribute", "a", nil, "Document attribute as name=value (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	c := *currentConfig()
	flags := cmd.Flags()
	if flags.Changed("fail-on") {
		c.FailOn = checkFailOn
	}
	if flags.Changed("datastore") {
		c.Datastore = checkDatastore
	}
	if flags.Changed("directives") {
		c.Directives = checkDirectives
	}
	if flags.Changed("directives-include") {
		c.IncludeDirectives = checkDirectivesInclude
	}
	if flags.Changed("directives-exclude") {
		c.ExcludeDirectives = checkDirectivesExclude
	}
	if flags.Changed("collect-attributes") {
		c.CollectAttributes = checkCollectAttributes
	}
	if flags.Changed("include-hidden") {
		c.IncludeHidden = checkIncludeHidden
	}
	if flags.Changed("keep-comments") {
		c.KeepComments = checkKeepComments
	}
	if len(checkAttributes) > 0 {
		merged := make(map[string]string, len(c.Attributes)+len(checkAttributes))
		for k, v := range c.Attributes {
			merged[k] = v
		}
		for k, v := range checkAttributes {
			merged[k] = v
		}
		c.Attributes = merged
	}

	ctx := commandContext(cmd)

	core, err := newCore(ctx, &c, coreOptions{
		root:        target,
		datastore:   c.Datastore,
		incremental: checkIncremental,
	})
	if err != nil {
		return err
	}
	defer closeCore(core)

	results, err := core.CheckTree(ctx, treeConfig(&c, target))
	if err != nil {
		return fmt.Errorf("checking: %w", err)
	}

	if err := writeResults(cmd.OutOrStdout(), results, checkFormat, checkColor); err != nil {
		return err
	}
	if c.Datastore != store.MemoryPath && checkFormat == "human" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Results stored in: %s\n", c.Datastore)
	}

	if failed(results, c.FailOn) {
		return fmt.Errorf("diagnostics at or above %s severity found", c.FailOn)
	}
	return nil
}
