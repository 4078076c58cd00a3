package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/pca9685/pkg/config"
	pcaio "github.com/Seann-Moser/pca9685/pkg/io"
	"github.com/Seann-Moser/pca9685/pkg/pca9685"
	"github.com/Seann-Moser/pca9685/pkg/remote"
)

var (
	configPath    string
	flagTransport string
	flagRemote    string
	flagBus       int
	flagAddress   uint8
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pca9685",
	Short: "Drive a PCA9685 16-channel PWM controller",
	Long: `pca9685 talks to a PCA9685 servo/LED controller over I2C.

Every device command resets the chip and programs the configured
frequency before running, e.g.:

  pca9685 freq 60Hz
  pca9685 pwm 0 0 300
  pca9685 pair 0 0 200 200 300 470ms`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath, "path to YAML config")
	pf.StringVar(&flagTransport, "transport", "", "periph, gobot, i2ctools, devfs or remote")
	pf.StringVar(&flagRemote, "remote", "", "register server URL for the remote transport")
	pf.IntVar(&flagBus, "bus", pca9685.DefaultBus, "i2c bus number")
	pf.Uint8Var(&flagAddress, "address", pca9685.DefaultAddress, "chip address (7-bit)")
}

// loadConfig reads the config file and applies flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config load failed: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("transport") {
		cfg.Transport = flagTransport
	}
	if flags.Changed("remote") {
		cfg.Remote.URL = flagRemote
	}
	if flags.Changed("bus") {
		cfg.Bus = flagBus
	}
	if flags.Changed("address") {
		cfg.Address = flagAddress
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return cfg, log, nil
}

type closer func() error

// logClose runs fn and logs its error at Warn. Used for deferred cleanup.
func logClose(log *slog.Logger, msg string, fn closer) {
	if err := fn(); err != nil {
		log.Warn(msg, "err", err)
	}
}

func openTransport(cfg config.Config, log *slog.Logger) (pca9685.Transport, closer, error) {
	switch cfg.Transport {
	case config.TransportPeriph:
		p, err := pcaio.NewPeriph()
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case config.TransportGobot:
		g := pcaio.NewGobot()
		return g, g.Close, nil
	case config.TransportI2CTools:
		t, err := pcaio.NewI2CTools(cfg.I2CTools.Set, cfg.I2CTools.Get, cfg.I2CTools.Timeout, log)
		if err != nil {
			return nil, nil, err
		}
		return t, func() error { return nil }, nil
	case config.TransportDevFS:
		d := pcaio.NewDevFS()
		return d, d.Close, nil
	case config.TransportRemote:
		return remote.NewClient(cfg.Remote.URL, cfg.Remote.Timeout), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown transport %q", cfg.Transport)
}

// withDevice opens the configured transport, initializes the chip and runs fn.
func withDevice(cmd *cobra.Command, fn func(d *pca9685.Device, cfg config.Config) error) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	t, closeTransport, err := openTransport(cfg, log)
	if err != nil {
		return fmt.Errorf("open %s transport: %w", cfg.Transport, err)
	}
	defer logClose(log, "closing transport", closeTransport)

	d, err := pca9685.New(t, cfg.Bus, cfg.Address,
		pca9685.WithLogger(log),
		pca9685.WithFrequency(cfg.Frequency),
	)
	if err != nil {
		return err
	}
	return fn(d, cfg)
}
