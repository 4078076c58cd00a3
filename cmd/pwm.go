package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Seann-Moser/pca9685/pkg/config"
	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

var pwmCmd = &cobra.Command{
	Use:   "pwm <channel> <on> <off>",
	Short: "Set one channel's on and off counts (0-4095)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := parseChannel(args[0])
		if err != nil {
			return err
		}
		duty, err := parseDuty(args[1], args[2])
		if err != nil {
			return err
		}
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			return d.SetPWM(channel, duty.On, duty.Off)
		})
	},
}

var pairCmd = &cobra.Command{
	Use:   "pair <channel> <on1> <off1> <on2> <off2> <delay>",
	Short: "Write one duty cycle, wait, then write a second",
	Long: `pair writes the first on/off counts to a channel, blocks for delay
(a duration such as 470ms, or seconds such as 0.47) and writes the second.
A continuous rotation servo at 60Hz turns about 180 degrees with:

  pca9685 pair 0 0 200 200 300 470ms`,
	Args: cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := parseChannel(args[0])
		if err != nil {
			return err
		}
		first, err := parseDuty(args[1], args[2])
		if err != nil {
			return err
		}
		second, err := parseDuty(args[3], args[4])
		if err != nil {
			return err
		}
		delay, err := parseDelay(args[5])
		if err != nil {
			return err
		}
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			return d.SetPWMPair(channel, first, second, delay)
		})
	},
}

var allCmd = &cobra.Command{
	Use:   "all <off> [on]",
	Short: "Set every channel at once through the ALL_LED registers",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		on := "0"
		if len(args) == 2 {
			on = args[1]
		}
		duty, err := parseDuty(on, args[0])
		if err != nil {
			return err
		}
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			return d.SetAll(duty.Off, duty.On)
		})
	},
}

func parseDuty(on, off string) (pca9685.Duty, error) {
	o, err := parseCount(on)
	if err != nil {
		return pca9685.Duty{}, err
	}
	f, err := parseCount(off)
	if err != nil {
		return pca9685.Duty{}, err
	}
	return pca9685.Duty{On: o, Off: f}, nil
}

func init() {
	rootCmd.AddCommand(pwmCmd, pairCmd, allCmd)
}
