package main

import (
	"fmt"
	"runtime"

	"github.com/praetorian-inc/adocref/pkg/checker"
	"github.com/praetorian-inc/adocref/pkg/serve"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the adocref version, the serve protocol version and the builtin directive count",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if versionShort {
		fmt.Fprintln(out, version)
		return nil
	}

	directives, err := checker.BuiltinDirectives()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "adocref v%s (%s)\n", version, commit)
	fmt.Fprintf(out, "Protocol: %s\n", serve.Version)
	fmt.Fprintf(out, "Builtin directives: %d\n", len(directives))
	fmt.Fprintf(out, "Built with %s for %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
