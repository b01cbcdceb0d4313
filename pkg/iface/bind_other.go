//go:build !linux

package iface

import "fmt"

// BindToDevice is only implemented on Linux (SO_BINDTODEVICE is a Linux
// socket option); on other platforms it always returns an error.
func BindToDevice(fd int, ifName string) error {
	return fmt.Errorf("iface: BindToDevice(%q) unsupported on this platform", ifName)
}
