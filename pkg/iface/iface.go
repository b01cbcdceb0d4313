// Package iface resolves local network interfaces: looking up an
// interface's hardware address and MTU (netdump's ARP synthesis uses the
// hardware address as the sender MAC), and binding a socket to that
// interface.
package iface

import (
	"fmt"
	"net"

	"github.com/packetlens/netview/pkg/common"
)

// Info describes a local network interface resolved by name.
type Info struct {
	Name         string
	Index        int
	HardwareAddr common.MACAddress
	MTU          int
}

// Lookup resolves name (e.g. "eth0") to its hardware address, MTU, and
// kernel index via the OS interface table.
func Lookup(name string) (Info, error) {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return Info{}, fmt.Errorf("iface: lookup %q: %w", name, err)
	}
	if len(ifi.HardwareAddr) != 6 {
		return Info{}, fmt.Errorf("iface: %q has no 6-byte hardware address (got %d bytes)", name, len(ifi.HardwareAddr))
	}
	var mac common.MACAddress
	copy(mac[:], ifi.HardwareAddr)
	return Info{
		Name:         ifi.Name,
		Index:        ifi.Index,
		HardwareAddr: mac,
		MTU:          ifi.MTU,
	}, nil
}
