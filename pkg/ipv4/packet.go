// Package ipv4 implements Internet Protocol version 4 (RFC 791) as a
// lazily-decoded view over a shared byte buffer.
//
// Grounded on the teacher's pkg/ip (moved here) for header layout and
// field naming, rebuilt on pkg/byteseg + pkg/packet. Protocol dispatch
// follows spec.md's IPv4 table: TCP/UDP/ICMP/IGMP/IPv6 (6in4), else
// RawBytes.
package ipv4

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/icmp"
	"github.com/packetlens/netview/pkg/igmp"
	"github.com/packetlens/netview/pkg/ipv6"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
	"github.com/packetlens/netview/pkg/tcp"
	"github.com/packetlens/netview/pkg/udp"
)

const (
	// Version is the IP version this package parses.
	Version = 4

	// MinHeaderLength is the minimum IPv4 header length, IHL=5 (20 bytes).
	MinHeaderLength = 20

	// MaxHeaderLength is the maximum IPv4 header length, IHL=15 (60 bytes).
	MaxHeaderLength = 60
)

// Flags holds the 3 flag bits above the 13-bit fragment offset.
type Flags uint8

const (
	FlagReserved      Flags = 1 << 2
	FlagDontFragment  Flags = 1 << 1
	FlagMoreFragments Flags = 1 << 0
)

// Packet is an IPv4 header view.
type Packet struct {
	packet.Base

	ihl            uint8
	dscp           uint8
	ecn            uint8
	totalLength    uint16
	identification uint16
	flags          Flags
	fragmentOffset uint16
	ttl            uint8
	protocol       common.Protocol
	checksumField  uint16
	src, dst       common.IPv4Address
}

// Decode parses seg as an IPv4 packet. Matches packet.DecodeFunc.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < MinHeaderLength {
		return nil, &perr.Truncated{Layer: "IPv4", Need: MinHeaderLength, Have: seg.Len()}
	}

	versionIHL, err := seg.ReadU8("IPv4", 0)
	if err != nil {
		return nil, err
	}
	version := versionIHL >> 4
	ihl := versionIHL & 0x0F
	if version != Version {
		return nil, &perr.Malformed{Layer: "IPv4", Detail: fmt.Sprintf("version %d, want %d", version, Version)}
	}
	if ihl < 5 {
		return nil, &perr.Malformed{Layer: "IPv4", Detail: "IHL below minimum of 5"}
	}
	headerLen := int(ihl) * 4

	header, err := seg.Slice("IPv4", 0, headerLen)
	if err != nil {
		return nil, err
	}

	dscpECN, _ := header.ReadU8("IPv4", 1)
	totalLength, _ := header.ReadU16BE("IPv4", 2)
	identification, _ := header.ReadU16BE("IPv4", 4)
	flagsFragOffset, _ := header.ReadU16BE("IPv4", 6)
	ttl, _ := header.ReadU8("IPv4", 8)
	proto, _ := header.ReadU8("IPv4", 9)
	cksum, _ := header.ReadU16BE("IPv4", 10)
	src, _ := header.ReadIPv4("IPv4", 12)
	dst, _ := header.ReadIPv4("IPv4", 16)

	p := &Packet{
		ihl:            ihl,
		dscp:           dscpECN >> 2,
		ecn:            dscpECN & 0x03,
		totalLength:    totalLength,
		identification: identification,
		flags:          Flags(flagsFragOffset >> 13),
		fragmentOffset: flagsFragOffset & 0x1FFF,
		ttl:            ttl,
		protocol:       common.Protocol(proto),
		checksumField:  cksum,
		src:            src,
		dst:            dst,
	}
	p.Base = packet.NewBase("IPv4", header, parent)

	declaredTotal := int(totalLength)
	if declaredTotal < headerLen {
		declaredTotal = headerLen
	}
	if declaredTotal > seg.Len() {
		return nil, &perr.Truncated{Layer: "IPv4", Need: declaredTotal, Have: seg.Len()}
	}
	payload, err := header.Encapsulated("IPv4", declaredTotal)
	if err != nil {
		return nil, err
	}
	p.SetPayload(packet.Lazy(payload, p, dispatch(common.Protocol(proto))))
	return p, nil
}

func dispatch(proto common.Protocol) packet.DecodeFunc {
	switch proto {
	case common.ProtocolTCP:
		return tcp.Decode
	case common.ProtocolUDP:
		return udp.Decode
	case common.ProtocolICMP:
		return icmp.Decode
	case common.ProtocolIGMP:
		return igmp.Decode
	case common.ProtocolIPv6:
		return ipv6.Decode
	default:
		return nil
	}
}

func (p *Packet) IHL() uint8                     { return p.ihl }
func (p *Packet) DSCP() uint8                    { return p.dscp }
func (p *Packet) ECN() uint8                     { return p.ecn }
func (p *Packet) TotalLength() uint16            { return p.totalLength }
func (p *Packet) Identification() uint16         { return p.identification }
func (p *Packet) Flags() Flags                   { return p.flags }
func (p *Packet) FragmentOffset() uint16         { return p.fragmentOffset }
func (p *Packet) TTL() uint8                     { return p.ttl }
func (p *Packet) Protocol() common.Protocol      { return p.protocol }
func (p *Packet) Checksum() uint16               { return p.checksumField }
func (p *Packet) Source() common.IPv4Address      { return p.src }
func (p *Packet) Destination() common.IPv4Address { return p.dst }

// ValidChecksum reports whether the header's own bytes (IHL*4 only, no
// pseudo-header and no payload) fold to the ones'-complement identity.
func (p *Packet) ValidChecksum() bool {
	return checksum.Valid(nil, p.HeaderBytes())
}

// RecomputeChecksum zeroes the checksum field, sums the header, and
// writes the result back.
func (p *Packet) RecomputeChecksum() error {
	if err := p.Header().WriteU16BE("IPv4", 10, 0); err != nil {
		return err
	}
	sum := checksum.Sum(nil, p.HeaderBytes())
	if err := p.Header().WriteU16BE("IPv4", 10, sum); err != nil {
		return err
	}
	p.checksumField = sum
	return nil
}

// PseudoHeader builds the 12-byte TCP/UDP/ICMP pseudo-header for this
// packet's payload, given its on-wire length.
func (p *Packet) PseudoHeader(upperLayerLength uint16) []byte {
	return checksum.IPv4PseudoHeader(p.src, p.dst, uint8(p.protocol), upperLayerLength)
}

func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Src=%s,Dst=%s,Proto=%s,TTL=%d}",
		packet.LayerLabel("IPv4", color), p.src, p.dst, p.protocol, p.ttl)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[IHL=%d,TotalLen=%d,ID=%d,Checksum=0x%04X]",
		base, p.ihl, p.totalLength, p.identification, p.checksumField)
}
