package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/0glabs/0g-namespace/gateway"
	"github.com/spf13/cobra"
)

var (
	serveEndpoint string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveEndpoint, "endpoint", "", "Listen address, overrides NAMESPACE_GATEWAY_ENDPOINT")

	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("endpoint") {
		conf.GatewayEndpoint = serveEndpoint
	}

	s, err := openSession()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := gateway.NewServer(s.tree, gateway.WithSnapshotStore(s.store))
	server.MustServe(ctx, conf.GatewayEndpoint)

	return s.close(true)
}
