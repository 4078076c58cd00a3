//go:build !linux

package io

import "fmt"

func OpenOutputEnable(chip, pin string) (*OutputEnable, error) {
	return nil, fmt.Errorf("output enable: gpio character device unsupported on this platform")
}
