package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entimark/entimark/pkg/serve"
)

var serveEngine engineFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server",
	Long: `Run Entimark as a long-lived server that reads scan and annotate requests
from stdin and writes responses to stdout, one JSON object per line.

The grammar is compiled once at startup. Requests are processed until stdin
closes, a close request arrives or SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	serveEngine.register(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	core, err := serveEngine.newCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
