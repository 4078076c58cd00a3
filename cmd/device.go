package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/pca9685/pkg/config"
	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart the chip and program the configured frequency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			fmt.Fprintf(cmd.OutOrStdout(), "reset bus=%d addr=0x%02X prescale=%d\n", d.Bus(), d.Address(), d.PreScale())
			return nil
		})
	},
}

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Stop the oscillator (low power, outputs off)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			return d.Sleep()
		})
	},
}

var wakeCmd = &cobra.Command{
	Use:   "wake",
	Short: "Restart the oscillator after sleep",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			return d.Wake()
		})
	},
}

var freqCmd = &cobra.Command{
	Use:   "freq <hz>",
	Short: "Set the PWM frequency, e.g. 60 or 50Hz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hz, err := parseFrequency(args[0])
		if err != nil {
			return err
		}
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			if err := d.SetFrequency(hz); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "prescale=%d frequency=%.2fHz\n", d.PreScale(), d.Frequency())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(resetCmd, sleepCmd, wakeCmd, freqCmd)
}
