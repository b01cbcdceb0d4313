// Package igmp implements IGMPv2 (RFC 2236) as a lazily-decoded view
// over a shared byte buffer.
//
// Grounded on the teacher's pkg/multicast/igmp.go for type constant
// naming and the {type,max_resp_time,checksum,group_address} layout,
// rebuilt on pkg/byteseg + pkg/packet. HeaderLength is named separately
// from udp.HeaderLength even though both equal 8: the two protocols'
// header sizes are independent facts that happen to coincide, not the
// same constant wearing two names.
package igmp

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

// HeaderLength is the fixed IGMPv2 message length.
const HeaderLength = 8

// Type is an IGMP message type.
type Type uint8

const (
	TypeMembershipQuery    Type = 0x11
	TypeV1MembershipReport Type = 0x12
	TypeV2MembershipReport Type = 0x16
	TypeLeaveGroup         Type = 0x17
	TypeV3MembershipReport Type = 0x22
)

func (t Type) String() string {
	switch t {
	case TypeMembershipQuery:
		return "Query"
	case TypeV1MembershipReport:
		return "Report(v1)"
	case TypeV2MembershipReport:
		return "Report(v2)"
	case TypeLeaveGroup:
		return "Leave"
	case TypeV3MembershipReport:
		return "Report(v3)"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", uint8(t))
	}
}

// Packet is an IGMPv2 message view.
type Packet struct {
	packet.Base

	full byteseg.Segment

	msgType       Type
	maxRespTime   uint8
	checksumField uint16
	group         common.IPv4Address
}

// Decode parses seg as a fixed 8-byte IGMPv2 message. Matches
// packet.DecodeFunc. IGMPv2 has no further dispatch.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < HeaderLength {
		return nil, &perr.Truncated{Layer: "IGMPv2", Need: HeaderLength, Have: seg.Len()}
	}
	header, err := seg.Slice("IGMPv2", 0, HeaderLength)
	if err != nil {
		return nil, err
	}

	t, _ := header.ReadU8("IGMPv2", 0)
	maxResp, _ := header.ReadU8("IGMPv2", 1)
	cksum, _ := header.ReadU16BE("IGMPv2", 2)
	group, _ := header.ReadIPv4("IGMPv2", 4)

	p := &Packet{
		full:          seg,
		msgType:       Type(t),
		maxRespTime:   maxResp,
		checksumField: cksum,
		group:         group,
	}
	p.Base = packet.NewBase("IGMPv2", header, parent)

	payload, err := header.Encapsulated("IGMPv2", seg.Len())
	if err != nil {
		return nil, err
	}
	p.SetPayload(packet.Raw(payload))
	return p, nil
}

func (p *Packet) MessageType() Type               { return p.msgType }
func (p *Packet) GroupAddress() common.IPv4Address { return p.group }
func (p *Packet) Checksum() uint16                { return p.checksumField }

// MaxResponseTimeDeciseconds returns the raw max-response-time field, in
// units of 0.1 seconds per RFC 2236.
func (p *Packet) MaxResponseTimeDeciseconds() uint8 { return p.maxRespTime }

// ValidChecksum reports whether the message's own bytes (no
// pseudo-header) fold to the ones'-complement identity.
func (p *Packet) ValidChecksum() bool {
	return checksum.Valid(nil, p.full.Bytes())
}

// RecomputeChecksum zeroes the checksum field, sums the message, and
// writes the result back.
func (p *Packet) RecomputeChecksum() error {
	if err := p.Header().WriteU16BE("IGMPv2", 2, 0); err != nil {
		return err
	}
	sum := checksum.Sum(nil, p.full.Bytes())
	if err := p.Header().WriteU16BE("IGMPv2", 2, sum); err != nil {
		return err
	}
	p.checksumField = sum
	return nil
}

func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Type=%s,Group=%s}", packet.LayerLabel("IGMPv2", color), p.msgType, p.group)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[MaxRespTime=%d,Checksum=0x%04X]", base, p.maxRespTime, p.checksumField)
}
