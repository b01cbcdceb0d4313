//go:build linux

package iface

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// BindToDevice scopes fd to ifName via SO_BINDTODEVICE, so packets sent
// on fd leave on the chosen interface rather than whichever one the
// routing table would otherwise pick.
func BindToDevice(fd int, ifName string) error {
	if err := unix.SetsockoptString(fd, unix.SOL_SOCKET, unix.SO_BINDTODEVICE, ifName); err != nil {
		return fmt.Errorf("iface: SO_BINDTODEVICE %q: %w", ifName, err)
	}
	return nil
}
