// Package pppoe implements the PPPoE session-stage header (RFC 2516 §5)
// as a lazily-decoded view over a shared byte buffer, recursing into the
// encapsulated PPP payload's protocol field for IPv4/IPv6.
//
// No teacher or pack precedent covers PPPoE; built in the teacher's
// per-protocol package shape (constant block, Decode matching
// packet.DecodeFunc, FieldString) directly from RFC 2516, since there
// was nothing in the corpus to ground it on beyond the wire format
// itself.
package pppoe

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/ipv4"
	"github.com/packetlens/netview/pkg/ipv6"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

// HeaderLength is the fixed PPPoE header length, before the PPP payload.
const HeaderLength = 6

// PPPProtocol identifies the PPP payload's protocol field (RFC 1661 §2).
type PPPProtocol uint16

const (
	PPPProtocolIPv4 PPPProtocol = 0x0021
	PPPProtocolIPv6 PPPProtocol = 0x0057
)

// Code is the PPPoE Code field: 0x00 marks the Session stage, any other
// value is a Discovery-stage code (PADI/PADO/PADR/PADS/PADT).
type Code uint8

const (
	CodeSession Code = 0x00
	CodePADI    Code = 0x09
	CodePADO    Code = 0x07
	CodePADR    Code = 0x19
	CodePADS    Code = 0x65
	CodePADT    Code = 0xA7
)

func (c Code) String() string {
	switch c {
	case CodeSession:
		return "Session"
	case CodePADI:
		return "PADI"
	case CodePADO:
		return "PADO"
	case CodePADR:
		return "PADR"
	case CodePADS:
		return "PADS"
	case CodePADT:
		return "PADT"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", uint8(c))
	}
}

// Packet is a PPPoE header view.
type Packet struct {
	packet.Base

	version   uint8
	pppType   uint8
	code      Code
	sessionID uint16
	length    uint16
}

// Decode parses seg as a PPPoE header. Matches packet.DecodeFunc.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < HeaderLength {
		return nil, &perr.Truncated{Layer: "PPPoE", Need: HeaderLength, Have: seg.Len()}
	}
	header, err := seg.Slice("PPPoE", 0, HeaderLength)
	if err != nil {
		return nil, err
	}

	verType, _ := header.ReadU8("PPPoE", 0)
	code, _ := header.ReadU8("PPPoE", 1)
	sessionID, _ := header.ReadU16BE("PPPoE", 2)
	length, _ := header.ReadU16BE("PPPoE", 4)

	p := &Packet{
		version:   verType >> 4,
		pppType:   verType & 0x0F,
		code:      Code(code),
		sessionID: sessionID,
		length:    length,
	}
	p.Base = packet.NewBase("PPPoE", header, parent)

	declared := HeaderLength + int(length)
	if declared > seg.Len() {
		return nil, &perr.Truncated{Layer: "PPPoE", Need: declared, Have: seg.Len()}
	}
	payload, err := header.Encapsulated("PPPoE", declared)
	if err != nil {
		return nil, err
	}

	var decode packet.DecodeFunc
	if p.code == CodeSession {
		decode = dispatchPPP
	}
	p.SetPayload(packet.Lazy(payload, p, decode))
	return p, nil
}

// dispatchPPP reads the 2-byte PPP protocol field and recurses into
// IPv4/IPv6 for the payload that follows it.
func dispatchPPP(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < 2 {
		return nil, nil
	}
	proto, err := seg.ReadU16BE("PPP", 0)
	if err != nil {
		return nil, err
	}
	rest, err := seg.Slice("PPP", 2, seg.Len()-2)
	if err != nil {
		return nil, err
	}
	switch PPPProtocol(proto) {
	case PPPProtocolIPv4:
		return ipv4.Decode(rest, parent)
	case PPPProtocolIPv6:
		return ipv6.Decode(rest, parent)
	default:
		return nil, nil
	}
}

func (p *Packet) Version() uint8        { return p.version }
func (p *Packet) PPPoEType() uint8      { return p.pppType }
func (p *Packet) MessageCode() Code     { return p.code }
func (p *Packet) SessionID() uint16     { return p.sessionID }
func (p *Packet) PayloadLength() uint16 { return p.length }

func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Code=%s,Session=0x%04X}", packet.LayerLabel("PPPoE", color), p.code, p.sessionID)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Ver=%d,Type=%d,Length=%d]", base, p.version, p.pppType, p.length)
}
