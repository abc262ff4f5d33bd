package main

import (
	"context"

	"github.com/praetorian-inc/adocref/pkg/lsp"
	"github.com/spf13/cobra"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the Language Server over stdio",
	Long: `Run adocref as a Language Server. Diagnostics are published when a document
is opened, changed or saved, and cleared when it is closed.`,
	Args: cobra.NoArgs,
	RunE: runLSP,
}

func runLSP(cmd *cobra.Command, args []string) error {
	core, err := newCore(context.Background(), currentConfig(), coreOptions{root: "."})
	if err != nil {
		return err
	}
	defer closeCore(core)

	return lsp.New(core, version).RunStdio()
}
