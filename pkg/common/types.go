// Package common provides the shared address and enumeration types used
// across every layer package.
package common

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// MACAddress represents a 48-bit hardware address.
type MACAddress [6]byte

// String returns the MAC address in standard format (e.g., "00:11:22:33:44:55"),
// via net.HardwareAddr's own formatting rather than a hand-rolled Sprintf.
func (m MACAddress) String() string {
	return net.HardwareAddr(m[:]).String()
}

// IsBroadcast returns true if this is a broadcast MAC address (FF:FF:FF:FF:FF:FF).
func (m MACAddress) IsBroadcast() bool {
	return m[0] == 0xFF && m[1] == 0xFF && m[2] == 0xFF &&
		m[3] == 0xFF && m[4] == 0xFF && m[5] == 0xFF
}

// IsMulticast returns true if the least significant bit of the first byte is 1.
func (m MACAddress) IsMulticast() bool {
	return m[0]&0x01 != 0
}

// ParseMAC parses a string MAC address (e.g., "00:11:22:33:44:55"). Only
// EUI-48 addresses are accepted; net.ParseMAC also accepts EUI-64 and
// 20-octet InfiniBand forms, which don't fit MACAddress's 6-byte layout.
func ParseMAC(s string) (MACAddress, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MACAddress{}, err
	}
	if len(hw) != 6 {
		return MACAddress{}, fmt.Errorf("invalid MAC address length: %d", len(hw))
	}
	var mac MACAddress
	copy(mac[:], hw)
	return mac, nil
}

// BroadcastMAC is the broadcast MAC address (FF:FF:FF:FF:FF:FF).
var BroadcastMAC = MACAddress{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// IPv4Address represents a 32-bit IPv4 address.
type IPv4Address [4]byte

// String returns the IP address in dotted decimal format (e.g., "192.168.1.1"),
// delegating to net.IP the same way IPv6Address.String does below.
func (ip IPv4Address) String() string {
	return net.IP(ip[:]).String()
}

// ToUint32 converts the IPv4 address to a uint32 in network byte order.
func (ip IPv4Address) ToUint32() uint32 {
	return binary.BigEndian.Uint32(ip[:])
}

// IsMulticast reports whether ip is in the class-D range 224.0.0.0/4.
func (ip IPv4Address) IsMulticast() bool {
	return ip[0] >= 224 && ip[0] <= 239
}

// ParseIPv4 parses a string IPv4 address (e.g., "192.168.1.1").
func ParseIPv4(s string) (IPv4Address, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return IPv4Address{}, fmt.Errorf("invalid IP address: %s", s)
	}
	ip = ip.To4()
	if ip == nil {
		return IPv4Address{}, fmt.Errorf("not an IPv4 address: %s", s)
	}
	var addr IPv4Address
	copy(addr[:], ip)
	return addr, nil
}

// IPv4FromUint32 converts a uint32 to an IPv4 address.
func IPv4FromUint32(v uint32) IPv4Address {
	var addr IPv4Address
	binary.BigEndian.PutUint32(addr[:], v)
	return addr
}

// IPv6Address represents a 128-bit IPv6 address.
type IPv6Address [16]byte

// String returns the canonical text form of the address via net.IP.
func (ip IPv6Address) String() string {
	return net.IP(ip[:]).String()
}

// IsMulticast reports whether ip is a multicast address (ff00::/8).
func (ip IPv6Address) IsMulticast() bool {
	return ip[0] == 0xff
}

// MulticastScope returns the 4-bit scope field of a multicast address, or
// 0 if ip is not multicast. See RFC 4291 §2.7.
func (ip IPv6Address) MulticastScope() uint8 {
	if !ip.IsMulticast() {
		return 0
	}
	return ip[1] & 0x0f
}

// ParseIPv6 parses a string IPv6 address (e.g., "fe80::1").
func ParseIPv6(s string) (IPv6Address, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return IPv6Address{}, fmt.Errorf("invalid IP address: %s", s)
	}
	ip16 := ip.To16()
	if ip16 == nil || ip.To4() != nil {
		return IPv6Address{}, fmt.Errorf("not an IPv6 address: %s", s)
	}
	var addr IPv6Address
	copy(addr[:], ip16)
	return addr, nil
}

// EtherType represents the protocol type in an Ethernet frame.
type EtherType uint16

// Common EtherType values, per IEEE 802.3 and the registry it delegates to.
const (
	EtherTypeIPv4           EtherType = 0x0800
	EtherTypeARP            EtherType = 0x0806
	EtherTypeWakeOnLAN      EtherType = 0x0842
	EtherTypeIPv6           EtherType = 0x86DD
	EtherTypePPPoEDiscovery EtherType = 0x8863
	EtherTypePPPoESession   EtherType = 0x8864
	EtherTypeLLDP           EtherType = 0x88CC
)

// String returns a human-readable name for the EtherType.
func (et EtherType) String() string {
	switch et {
	case EtherTypeIPv4:
		return "IPv4"
	case EtherTypeARP:
		return "ARP"
	case EtherTypeWakeOnLAN:
		return "WakeOnLAN"
	case EtherTypeIPv6:
		return "IPv6"
	case EtherTypePPPoEDiscovery:
		return "PPPoEDiscovery"
	case EtherTypePPPoESession:
		return "PPPoESession"
	case EtherTypeLLDP:
		return "LLDP"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(et))
	}
}

// Protocol represents the protocol/next-header number carried in an IPv4
// or IPv6 header.
type Protocol uint8

// Common protocol numbers, per RFC 790 and the IANA protocol registry.
const (
	ProtocolHopByHop Protocol = 0
	ProtocolICMP     Protocol = 1
	ProtocolIGMP     Protocol = 2
	ProtocolTCP      Protocol = 6
	ProtocolUDP      Protocol = 17
	ProtocolIPv6     Protocol = 41
	ProtocolRouting  Protocol = 43
	ProtocolFragment Protocol = 44
	ProtocolICMPv6   Protocol = 58
	ProtocolNoNext   Protocol = 59
	ProtocolDestOpts Protocol = 60
)

// String returns a human-readable name for the protocol.
func (p Protocol) String() string {
	switch p {
	case ProtocolHopByHop:
		return "HopByHop"
	case ProtocolICMP:
		return "ICMP"
	case ProtocolIGMP:
		return "IGMP"
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	case ProtocolIPv6:
		return "IPv6"
	case ProtocolRouting:
		return "Routing"
	case ProtocolFragment:
		return "Fragment"
	case ProtocolICMPv6:
		return "ICMPv6"
	case ProtocolNoNext:
		return "NoNextHeader"
	case ProtocolDestOpts:
		return "DestOpts"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(p))
	}
}

// HexDump formats data as a hex dump with offsets and an ASCII gutter, 16
// bytes per line. Used by verbose FieldString implementations to show a
// layer's raw header bytes.
func HexDump(data []byte) string {
	var sb strings.Builder
	const bytesPerLine = 16

	for i := 0; i < len(data); i += bytesPerLine {
		fmt.Fprintf(&sb, "%04x  ", i)

		lineEnd := i + bytesPerLine
		if lineEnd > len(data) {
			lineEnd = len(data)
		}
		line := data[i:lineEnd]
		hexStr := hex.EncodeToString(line)

		for j := 0; j < len(hexStr); j += 2 {
			sb.WriteString(hexStr[j : j+2])
			sb.WriteString(" ")
			if j == 14 {
				sb.WriteString(" ")
			}
		}
		for j := len(line); j < bytesPerLine; j++ {
			sb.WriteString("   ")
			if j == 7 {
				sb.WriteString(" ")
			}
		}

		sb.WriteString(" |")
		for _, b := range line {
			if b >= 32 && b <= 126 {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}
