package io

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

const (
	DefaultI2CSet = "/usr/sbin/i2cset -y"
	DefaultI2CGet = "/usr/sbin/i2cget -y"
)

// I2CTools is a register transport that runs the i2c-tools i2cset and i2cget
// commands. Each command is bounded by Timeout.
type I2CTools struct {
	set     []string
	get     []string
	timeout time.Duration
	log     *slog.Logger

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewI2CTools takes the command prefixes for i2cset and i2cget, split with
// shell quoting rules, e.g. "sudo /usr/sbin/i2cset -y".
func NewI2CTools(set, get string, timeout time.Duration, log *slog.Logger) (*I2CTools, error) {
	setArgs, err := splitCommand(set)
	if err != nil {
		return nil, fmt.Errorf("i2cset command: %w", err)
	}
	getArgs, err := splitCommand(get)
	if err != nil {
		return nil, fmt.Errorf("i2cget command: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &I2CTools{
		set:     setArgs,
		get:     getArgs,
		timeout: timeout,
		log:     log,
		run:     runCommand,
	}, nil
}

func splitCommand(s string) ([]string, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(ee.Stderr)))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func (t *I2CTools) command(prefix []string, args ...string) ([]byte, error) {
	ctx := context.Background()
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	argv := append(append([]string{}, prefix[1:]...), args...)
	out, err := t.run(ctx, prefix[0], argv...)
	if err != nil {
		t.log.Warn("i2c-tools command failed", "cmd", prefix[0], "args", argv, "err", err)
	}
	return out, err
}

func itoa(v int) string { return strconv.Itoa(v) }

func (t *I2CTools) WriteRegister(bus int, addr, reg, value uint8) error {
	_, err := t.command(t.set, itoa(bus), itoa(int(addr)), itoa(int(reg)), itoa(int(value)))
	return err
}

// WriteBlock uses i2cset's "i" mode, an I2C block write.
func (t *I2CTools) WriteBlock(bus int, addr, reg uint8, data [4]byte) error {
	_, err := t.command(t.set, itoa(bus), itoa(int(addr)), itoa(int(reg)),
		itoa(int(data[0])), itoa(int(data[1])), itoa(int(data[2])), itoa(int(data[3])), "i")
	return err
}

func (t *I2CTools) ReadRegister(bus int, addr, reg uint8) (uint8, error) {
	out, err := t.command(t.get, itoa(bus), itoa(int(addr)), itoa(int(reg)))
	if err != nil {
		return 0, err
	}
	return pca9685.ParseRegisterValue(string(out))
}
