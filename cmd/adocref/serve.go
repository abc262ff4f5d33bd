package main

import (
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/adocref/pkg/httpapi"
	"github.com/praetorian-inc/adocref/pkg/serve"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming server for editor and build tool integration",
	Long: `Run adocref as a long-lived streaming server that accepts check requests
via stdin and writes diagnostics to stdout using NDJSON format.

The process loads directives once at startup and processes requests until
stdin closes, a close request arrives, or SIGTERM is received.

With --http the same checks are served as a JSON HTTP API instead.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveHTTP string

func init() {
	serveCmd.Flags().StringVar(&serveHTTP, "http", "", "Serve a JSON HTTP API on this address (e.g. :8080) instead of stdio")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	core, err := newCore(ctx, currentConfig(), coreOptions{root: "."})
	if err != nil {
		return err
	}
	defer closeCore(core)

	if serveHTTP != "" {
		return httpapi.ListenAndServe(ctx, serveHTTP, core)
	}

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
