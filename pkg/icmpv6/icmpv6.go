// Package icmpv6 implements ICMPv6 (RFC 4443) plus Neighbor Discovery
// (RFC 4861) and Multicast Listener Discovery (RFC 2710/3810) as a
// lazily-decoded view over a shared byte buffer. Unlike ICMPv4, the
// checksum is mandatory and covers an IPv6 pseudo-header.
//
// MLD is folded in here rather than given its own package: on the wire
// MLD messages ARE ICMPv6 messages (types 130-132, 143), distinguished
// only by Type, the same way Echo/DestinationUnreachable/etc. are.
// Grounded on the teacher's pkg/icmp for the type/code/FieldString shape
// and on the teacher's pkg/multicast/mld.go (since removed, its
// {type,code,checksum,maxRespDelay,reserved,multicastAddress} fields
// folded in here) for the MLD fixed 24-byte layout — see DESIGN.md.
package icmpv6

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

// MinHeaderLength is the common {type,code,checksum} prefix every
// ICMPv6 message shares, plus the 4-byte message-specific field RFC 4443
// reserves even for unrecognized types.
const MinHeaderLength = 8

// Type is an ICMPv6 message type.
type Type uint8

const (
	TypeDestinationUnreachable Type = 1
	TypePacketTooBig           Type = 2
	TypeTimeExceeded           Type = 3
	TypeParameterProblem       Type = 4
	TypeEchoRequest            Type = 128
	TypeEchoReply              Type = 129
	TypeMLDQuery               Type = 130
	TypeMLDReport              Type = 131
	TypeMLDDone                Type = 132
	TypeRouterSolicitation     Type = 133
	TypeRouterAdvertisement    Type = 134
	TypeNeighborSolicitation   Type = 135
	TypeNeighborAdvertisement  Type = 136
	TypeMLDv2Report            Type = 143
)

func (t Type) String() string {
	switch t {
	case TypeDestinationUnreachable:
		return "DestinationUnreachable"
	case TypePacketTooBig:
		return "PacketTooBig"
	case TypeTimeExceeded:
		return "TimeExceeded"
	case TypeParameterProblem:
		return "ParameterProblem"
	case TypeEchoRequest:
		return "EchoRequest"
	case TypeEchoReply:
		return "EchoReply"
	case TypeMLDQuery:
		return "MLDQuery"
	case TypeMLDReport:
		return "MLDReport"
	case TypeMLDDone:
		return "MLDDone"
	case TypeRouterSolicitation:
		return "RouterSolicitation"
	case TypeRouterAdvertisement:
		return "RouterAdvertisement"
	case TypeNeighborSolicitation:
		return "NeighborSolicitation"
	case TypeNeighborAdvertisement:
		return "NeighborAdvertisement"
	case TypeMLDv2Report:
		return "MLDv2Report"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

func (t Type) isMLD() bool {
	switch t {
	case TypeMLDQuery, TypeMLDReport, TypeMLDDone, TypeMLDv2Report:
		return true
	default:
		return false
	}
}

func (t Type) isNeighborDiscovery() bool {
	switch t {
	case TypeRouterSolicitation, TypeRouterAdvertisement, TypeNeighborSolicitation, TypeNeighborAdvertisement:
		return true
	default:
		return false
	}
}

// headerLength returns the fixed portion of the message (common prefix
// plus type-specific fields, excluding trailing ND options or MLD
// source-address lists).
func headerLength(t Type) int {
	switch t {
	case TypeRouterAdvertisement:
		return 16
	case TypeNeighborSolicitation, TypeNeighborAdvertisement:
		return 24
	case TypeMLDQuery, TypeMLDReport, TypeMLDDone, TypeMLDv2Report:
		return 24
	default:
		return MinHeaderLength
	}
}

// Packet is an ICMPv6 message view, MLD included.
type Packet struct {
	packet.Base

	full byteseg.Segment

	msgType       Type
	code          uint8
	checksumField uint16
}

// Decode parses seg as an ICMPv6 message. Matches packet.DecodeFunc.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < MinHeaderLength {
		return nil, &perr.Truncated{Layer: "ICMPv6", Need: MinHeaderLength, Have: seg.Len()}
	}

	t, _ := seg.ReadU8("ICMPv6", 0)
	msgType := Type(t)
	hdrLen := headerLength(msgType)
	if seg.Len() < hdrLen {
		return nil, &perr.Truncated{Layer: "ICMPv6", Need: hdrLen, Have: seg.Len()}
	}

	header, err := seg.Slice("ICMPv6", 0, hdrLen)
	if err != nil {
		return nil, err
	}
	code, _ := header.ReadU8("ICMPv6", 1)
	cksum, _ := header.ReadU16BE("ICMPv6", 2)

	p := &Packet{
		full:          seg,
		msgType:       msgType,
		code:          code,
		checksumField: cksum,
	}
	p.Base = packet.NewBase("ICMPv6", header, parent)

	payload, err := header.Encapsulated("ICMPv6", seg.Len())
	if err != nil {
		return nil, err
	}
	p.SetPayload(packet.Raw(payload))
	return p, nil
}

func (p *Packet) MessageType() Type { return p.msgType }
func (p *Packet) Code() uint8       { return p.code }
func (p *Packet) Checksum() uint16  { return p.checksumField }

func (p *Packet) IsEchoRequest() bool       { return p.msgType == TypeEchoRequest }
func (p *Packet) IsEchoReply() bool         { return p.msgType == TypeEchoReply }
func (p *Packet) IsMLD() bool               { return p.msgType.isMLD() }
func (p *Packet) IsNeighborDiscovery() bool { return p.msgType.isNeighborDiscovery() }

// Identifier returns the Echo Request/Reply identifier field.
func (p *Packet) Identifier() (uint16, error) {
	if p.msgType != TypeEchoRequest && p.msgType != TypeEchoReply {
		return 0, &perr.Malformed{Layer: "ICMPv6", Detail: "Identifier only valid for Echo messages"}
	}
	return p.Header().ReadU16BE("ICMPv6", 4)
}

// SequenceNumber returns the Echo Request/Reply sequence field.
func (p *Packet) SequenceNumber() (uint16, error) {
	if p.msgType != TypeEchoRequest && p.msgType != TypeEchoReply {
		return 0, &perr.Malformed{Layer: "ICMPv6", Detail: "SequenceNumber only valid for Echo messages"}
	}
	return p.Header().ReadU16BE("ICMPv6", 6)
}

// TargetAddress returns the Neighbor Solicitation/Advertisement target
// address field.
func (p *Packet) TargetAddress() (common.IPv6Address, error) {
	if !p.msgType.isNeighborDiscovery() || p.msgType == TypeRouterSolicitation || p.msgType == TypeRouterAdvertisement {
		return common.IPv6Address{}, &perr.Malformed{Layer: "ICMPv6", Detail: "TargetAddress only valid for NS/NA"}
	}
	return p.Header().ReadIPv6("ICMPv6", 8)
}

// MaxResponseDelay returns the MLD max-response-delay field (ms units
// for MLDv1 Query, a mantissa/exponent encoding for MLDv2 per RFC 3810
// §5.1.3 that this package does not decode further).
func (p *Packet) MaxResponseDelay() (uint16, error) {
	if !p.msgType.isMLD() {
		return 0, &perr.Malformed{Layer: "ICMPv6", Detail: "MaxResponseDelay only valid for MLD messages"}
	}
	return p.Header().ReadU16BE("ICMPv6", 4)
}

// MulticastAddress returns the MLD message's group address field.
func (p *Packet) MulticastAddress() (common.IPv6Address, error) {
	if !p.msgType.isMLD() {
		return common.IPv6Address{}, &perr.Malformed{Layer: "ICMPv6", Detail: "MulticastAddress only valid for MLD messages"}
	}
	return p.Header().ReadIPv6("ICMPv6", 8)
}

// ValidChecksum reports whether the message, combined with pseudoHeader
// (built by the caller via checksum.IPv6PseudoHeader), folds to a valid
// result. ICMPv6's checksum is mandatory; unlike ICMPv4 there is no
// "no checksum" escape hatch.
func (p *Packet) ValidChecksum(pseudoHeader []byte) bool {
	return checksum.Valid(pseudoHeader, p.full.Bytes())
}

// RecomputeChecksum zeroes the checksum field, sums against pseudoHeader,
// and writes the result back.
func (p *Packet) RecomputeChecksum(pseudoHeader []byte) error {
	if err := p.Header().WriteU16BE("ICMPv6", 2, 0); err != nil {
		return err
	}
	sum := checksum.Sum(pseudoHeader, p.full.Bytes())
	if err := p.Header().WriteU16BE("ICMPv6", 2, sum); err != nil {
		return err
	}
	p.checksumField = sum
	return nil
}

func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Type=%s,Code=%d}", packet.LayerLabel("ICMPv6", color), p.msgType, p.code)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Checksum=0x%04X]", base, p.checksumField)
}
