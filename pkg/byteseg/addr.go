package byteseg

import "github.com/packetlens/netview/pkg/common"

// ReadMAC reads a 6-byte MAC address at offset i.
func (s Segment) ReadMAC(layer string, i int) (common.MACAddress, error) {
	b, err := s.ReadBytes(layer, i, 6)
	if err != nil {
		return common.MACAddress{}, err
	}
	var mac common.MACAddress
	copy(mac[:], b)
	return mac, nil
}

// WriteMAC writes a 6-byte MAC address at offset i.
func (s Segment) WriteMAC(layer string, i int, mac common.MACAddress) error {
	return s.WriteBytes(layer, i, mac[:])
}

// ReadIPv4 reads a 4-byte IPv4 address at offset i.
func (s Segment) ReadIPv4(layer string, i int) (common.IPv4Address, error) {
	b, err := s.ReadBytes(layer, i, 4)
	if err != nil {
		return common.IPv4Address{}, err
	}
	var ip common.IPv4Address
	copy(ip[:], b)
	return ip, nil
}

// WriteIPv4 writes a 4-byte IPv4 address at offset i.
func (s Segment) WriteIPv4(layer string, i int, ip common.IPv4Address) error {
	return s.WriteBytes(layer, i, ip[:])
}

// ReadIPv6 reads a 16-byte IPv6 address at offset i.
func (s Segment) ReadIPv6(layer string, i int) (common.IPv6Address, error) {
	b, err := s.ReadBytes(layer, i, 16)
	if err != nil {
		return common.IPv6Address{}, err
	}
	var ip common.IPv6Address
	copy(ip[:], b)
	return ip, nil
}

// WriteIPv6 writes a 16-byte IPv6 address at offset i.
func (s Segment) WriteIPv6(layer string, i int, ip common.IPv6Address) error {
	return s.WriteBytes(layer, i, ip[:])
}
