// Package ipv6 implements Internet Protocol version 6 (RFC 8200) as a
// lazily-decoded view over a shared byte buffer: a fixed 40-byte header
// followed by a NextHeader-driven payload, which may itself be a chain
// of extension headers before the terminal transport layer.
//
// Grounded on the teacher's pkg/ipv6 (replaced here) for field naming,
// rebuilt on pkg/byteseg + pkg/packet the same way pkg/ipv4 was;
// extension header and terminal dispatch both delegate to pkg/ipv6ext
// so the NextHeader table lives in exactly one place.
package ipv6

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/ipv6ext"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

const (
	// Version is the IP version this package parses.
	Version = 6

	// HeaderLength is the fixed IPv6 header length (RFC 8200 §3).
	HeaderLength = 40
)

// Packet is an IPv6 header view.
type Packet struct {
	packet.Base

	trafficClass uint8
	flowLabel    uint32
	payloadLen   uint16
	nextHeader   common.Protocol
	hopLimit     uint8
	src, dst     common.IPv6Address
}

// Decode parses seg as an IPv6 packet. Matches packet.DecodeFunc.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < HeaderLength {
		return nil, &perr.Truncated{Layer: "IPv6", Need: HeaderLength, Have: seg.Len()}
	}
	header, err := seg.Slice("IPv6", 0, HeaderLength)
	if err != nil {
		return nil, err
	}

	versionTCFlow, _ := header.ReadU32BE("IPv6", 0)
	version := uint8(versionTCFlow >> 28)
	if version != Version {
		return nil, &perr.Malformed{Layer: "IPv6", Detail: fmt.Sprintf("version %d, want %d", version, Version)}
	}

	payloadLen, _ := header.ReadU16BE("IPv6", 4)
	nextHeader, _ := header.ReadU8("IPv6", 6)
	hopLimit, _ := header.ReadU8("IPv6", 7)
	src, _ := header.ReadIPv6("IPv6", 8)
	dst, _ := header.ReadIPv6("IPv6", 24)

	p := &Packet{
		trafficClass: uint8((versionTCFlow >> 20) & 0xFF),
		flowLabel:    versionTCFlow & 0xFFFFF,
		payloadLen:   payloadLen,
		nextHeader:   common.Protocol(nextHeader),
		hopLimit:     hopLimit,
		src:          src,
		dst:          dst,
	}
	p.Base = packet.NewBase("IPv6", header, parent)

	declared := HeaderLength + int(payloadLen)
	if declared > seg.Len() {
		return nil, &perr.Truncated{Layer: "IPv6", Need: declared, Have: seg.Len()}
	}
	payload, err := header.Encapsulated("IPv6", declared)
	if err != nil {
		return nil, err
	}
	p.SetPayload(packet.Lazy(payload, p, ipv6ext.Dispatch(p.nextHeader)))
	return p, nil
}

func (p *Packet) TrafficClass() uint8         { return p.trafficClass }
func (p *Packet) FlowLabel() uint32           { return p.flowLabel }
func (p *Packet) PayloadLength() uint16       { return p.payloadLen }
func (p *Packet) NextHeader() common.Protocol { return p.nextHeader }
func (p *Packet) HopLimit() uint8             { return p.hopLimit }
func (p *Packet) Source() common.IPv6Address  { return p.src }
func (p *Packet) Destination() common.IPv6Address { return p.dst }

// PseudoHeader builds the 40-byte TCP/UDP/ICMPv6 pseudo-header for this
// packet's payload, given its on-wire length. Per RFC 8200 §8.1, when
// extension headers precede the transport layer the "next header" value
// in the pseudo-header is the transport protocol, not this packet's own
// NextHeader field; callers that have walked the chain pass the
// resolved protocol explicitly.
func (p *Packet) PseudoHeader(upperLayerProtocol common.Protocol, upperLayerLength uint32) []byte {
	return checksum.IPv6PseudoHeader(p.src, p.dst, uint8(upperLayerProtocol), upperLayerLength)
}

func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Src=%s,Dst=%s,Next=%s,HopLimit=%d}",
		packet.LayerLabel("IPv6", color), p.src, p.dst, p.nextHeader, p.hopLimit)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[TC=%d,Flow=0x%05X,PayloadLen=%d]", base, p.trafficClass, p.flowLabel, p.payloadLen)
}
