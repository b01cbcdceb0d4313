// Package icmp implements ICMPv4 (RFC 792) as a lazily-decoded view over
// a shared byte buffer.
//
// Grounded on the teacher's pkg/icmp for type/code constant naming and
// the Echo/DestinationUnreachable/TimeExceeded message shapes, rebuilt
// on pkg/byteseg + pkg/packet. Unlike TCP/UDP, ICMPv4's checksum covers
// only the ICMP message itself — no pseudo-header.
package icmp

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

// MinHeaderLength is the fixed ICMPv4 header length.
const MinHeaderLength = 8

// Type is an ICMP message type.
type Type uint8

const (
	TypeEchoReply              Type = 0
	TypeDestinationUnreachable Type = 3
	TypeSourceQuench           Type = 4
	TypeRedirect               Type = 5
	TypeEchoRequest            Type = 8
	TypeTimeExceeded           Type = 11
	TypeParameterProblem       Type = 12
	TypeTimestampRequest       Type = 13
	TypeTimestampReply         Type = 14
)

func (t Type) String() string {
	switch t {
	case TypeEchoReply:
		return "EchoReply"
	case TypeDestinationUnreachable:
		return "DestinationUnreachable"
	case TypeSourceQuench:
		return "SourceQuench"
	case TypeRedirect:
		return "Redirect"
	case TypeEchoRequest:
		return "EchoRequest"
	case TypeTimeExceeded:
		return "TimeExceeded"
	case TypeParameterProblem:
		return "ParameterProblem"
	case TypeTimestampRequest:
		return "TimestampRequest"
	case TypeTimestampReply:
		return "TimestampReply"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Code is an ICMP message code, interpreted relative to Type.
type Code uint8

const (
	CodeNetUnreachable      Code = 0
	CodeHostUnreachable     Code = 1
	CodeProtocolUnreachable Code = 2
	CodePortUnreachable     Code = 3
	CodeFragNeededDFSet     Code = 4
	CodeSourceRouteFailed   Code = 5

	CodeTTLExceeded           Code = 0
	CodeFragReassemblyTimeout Code = 1
)

// Packet is an ICMPv4 message view. The 4 bytes following the checksum
// field are reused by different message types (identifier+sequence for
// Echo, unused/gateway address for others); this package exposes them
// raw as Rest and lets Echo-specific accessors interpret them.
type Packet struct {
	packet.Base

	full byteseg.Segment

	msgType       Type
	code          Code
	checksumField uint16
	rest          uint32
}

// Decode parses seg as an ICMPv4 message. Matches packet.DecodeFunc.
// ICMPv4 has no further dispatch: its payload (often an embedded IP
// header for error messages) is always retained as RawBytes.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < MinHeaderLength {
		return nil, &perr.Truncated{Layer: "ICMP", Need: MinHeaderLength, Have: seg.Len()}
	}
	header, err := seg.Slice("ICMP", 0, MinHeaderLength)
	if err != nil {
		return nil, err
	}

	t, _ := header.ReadU8("ICMP", 0)
	c, _ := header.ReadU8("ICMP", 1)
	cksum, _ := header.ReadU16BE("ICMP", 2)
	rest, _ := header.ReadU32BE("ICMP", 4)

	p := &Packet{
		full:          seg,
		msgType:       Type(t),
		code:          Code(c),
		checksumField: cksum,
		rest:          rest,
	}
	p.Base = packet.NewBase("ICMP", header, parent)

	payload, err := header.Encapsulated("ICMP", seg.Len())
	if err != nil {
		return nil, err
	}
	p.SetPayload(packet.Raw(payload))
	return p, nil
}

func (p *Packet) MessageType() Type { return p.msgType }
func (p *Packet) Code() Code        { return p.code }
func (p *Packet) Checksum() uint16  { return p.checksumField }

// Identifier returns the upper 16 bits of the post-checksum word, valid
// for Echo Request/Reply and Timestamp messages.
func (p *Packet) Identifier() uint16 { return uint16(p.rest >> 16) }

// SequenceNumber returns the lower 16 bits of the post-checksum word,
// valid for Echo Request/Reply and Timestamp messages.
func (p *Packet) SequenceNumber() uint16 { return uint16(p.rest) }

func (p *Packet) IsEchoRequest() bool { return p.msgType == TypeEchoRequest }
func (p *Packet) IsEchoReply() bool   { return p.msgType == TypeEchoReply }

func (p *Packet) IsError() bool {
	switch p.msgType {
	case TypeDestinationUnreachable, TypeSourceQuench, TypeRedirect, TypeTimeExceeded, TypeParameterProblem:
		return true
	default:
		return false
	}
}

// ValidChecksum reports whether the message's own bytes (no
// pseudo-header) fold to the ones'-complement identity.
func (p *Packet) ValidChecksum() bool {
	return checksum.Valid(nil, p.full.Bytes())
}

// RecomputeChecksum zeroes the checksum field, sums the message, and
// writes the result back.
func (p *Packet) RecomputeChecksum() error {
	if err := p.Header().WriteU16BE("ICMP", 2, 0); err != nil {
		return err
	}
	sum := checksum.Sum(nil, p.full.Bytes())
	if err := p.Header().WriteU16BE("ICMP", 2, sum); err != nil {
		return err
	}
	p.checksumField = sum
	return nil
}

func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Type=%s,Code=%d}", packet.LayerLabel("ICMP", color), p.msgType, p.code)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Checksum=0x%04X,ID=%d,Seq=%d]", base, p.checksumField, p.Identifier(), p.SequenceNumber())
}
