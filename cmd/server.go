package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	pcaio "github.com/Seann-Moser/pca9685/pkg/io"
	"github.com/Seann-Moser/pca9685/pkg/remote"
)

var serveListen string

// serverCmd exposes the local transport to remote clients.
var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve register access over HTTP for the remote transport",
	Long: `serve owns the local I2C transport and applies register reads and
writes from remote clients one at a time. If output_enable.pin is set the
chip's OE pin is driven low while serving and released on exit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Server.Listen = serveListen
		}
		t, closeTransport, err := openTransport(cfg, log)
		if err != nil {
			return err
		}
		defer logClose(log, "closing transport", closeTransport)

		if cfg.OutputEnable.Pin != "" {
			oe, err := pcaio.OpenOutputEnable(cfg.OutputEnable.Chip, cfg.OutputEnable.Pin)
			if err != nil {
				return err
			}
			defer logClose(log, "releasing output enable line", oe.Close)
			if err := oe.Enable(); err != nil {
				return err
			}
			defer logClose(log, "disabling outputs", oe.Disable)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		if err := remote.NewServer(t, log).ListenAndServe(ctx, cfg.Server.Listen); err != nil {
			return err
		}
		log.Info("register server stopped")
		return nil
	},
}

func init() {
	serverCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides server.listen)")
	rootCmd.AddCommand(serverCmd)
}
