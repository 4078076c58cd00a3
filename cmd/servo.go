package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/pca9685/pkg/config"
	pcaio "github.com/Seann-Moser/pca9685/pkg/io"
	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

var servoChannel int

var servoCmd = &cobra.Command{
	Use:   "servo <angle>",
	Short: "Move a hobby servo to an angle",
	Long: `servo converts an angle to a pulse width between servo.min_pulse and
servo.max_pulse from the config. Set frequency to 50 or 60 in the config for
servos; the 1000Hz default is too fast for them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		angle, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("angle %q: %w", args[0], err)
		}
		return withServo(cmd, func(s *pcaio.Servo) error {
			return s.SetAngle(angle)
		})
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep <from> <to> <hold>",
	Short: "Move to one angle, hold, then move to another",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("from %q: %w", args[0], err)
		}
		to, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("to %q: %w", args[1], err)
		}
		hold, err := parseDelay(args[2])
		if err != nil {
			return err
		}
		return withServo(cmd, func(s *pcaio.Servo) error {
			return s.Sweep(from, to, hold)
		})
	},
}

func withServo(cmd *cobra.Command, fn func(s *pcaio.Servo) error) error {
	return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
		channel := cfg.Servo.Channel
		if cmd.Flags().Changed("channel") {
			channel = servoChannel
		}
		s, err := pcaio.NewServo(d, channel, cfg.Servo.MinPulse, cfg.Servo.MaxPulse, cfg.Servo.MaxAngle)
		if err != nil {
			return err
		}
		return fn(s)
	})
}

func init() {
	servoCmd.PersistentFlags().IntVar(&servoChannel, "channel", 0, "servo channel (overrides servo.channel)")
	servoCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(servoCmd)
}
