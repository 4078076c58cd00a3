package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/pca9685/pkg/config"
	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

var readCmd = &cobra.Command{
	Use:   "read <register>",
	Short: "Read a raw register",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := parseByte(args[0])
		if err != nil {
			return err
		}
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			v, err := d.Read(reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%02x\n", v)
			return nil
		})
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <register> <value>",
	Short: "Write a raw register",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := parseByte(args[0])
		if err != nil {
			return err
		}
		v, err := parseByte(args[1])
		if err != nil {
			return err
		}
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			return d.Write(reg, v)
		})
	},
}

var blockCmd = &cobra.Command{
	Use:   "block <register> <b0> <b1> <b2> <b3>",
	Short: "Write four contiguous registers in one transaction",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := parseByte(args[0])
		if err != nil {
			return err
		}
		var data [4]byte
		for i := range data {
			if data[i], err = parseByte(args[i+1]); err != nil {
				return err
			}
		}
		return withDevice(cmd, func(d *pca9685.Device, cfg config.Config) error {
			return d.WriteBlock(reg, data)
		})
	},
}

func init() {
	rootCmd.AddCommand(readCmd, writeCmd, blockCmd)
}
