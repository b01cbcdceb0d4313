// Package udp implements the User Datagram Protocol (RFC 768) as a
// lazily-decoded view over a shared byte buffer.
//
// Grounded on the teacher's pkg/udp for header layout, checksum
// pseudo-header construction, and the RFC 768 zero-means-0xFFFF policy,
// rebuilt on pkg/byteseg + pkg/packet.
package udp

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

// HeaderLength is the fixed UDP header length.
const HeaderLength = 8

// Packet is a UDP datagram view.
type Packet struct {
	packet.Base

	full byteseg.Segment

	srcPort, dstPort uint16
	length           uint16
	checksumField    uint16
}

// DispatchFunc is a user-supplied port-pair dispatcher for UDP payloads.
// Spec's dispatch table for UDP is "optional hook ... default RawBytes":
// there is no built-in protocol-to-port mapping in this package, since
// UDP port assignment is a matter of local convention, not wire format.
type DispatchFunc func(seg byteseg.Segment, parent packet.Packet, srcPort, dstPort uint16) (packet.Packet, error)

// Decode parses seg as a UDP datagram with no payload dispatch hook; its
// payload always stays RawBytes. Matches packet.DecodeFunc.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	return decode(seg, parent, nil)
}

// NewDecoder returns a packet.DecodeFunc that dispatches UDP payloads to
// hook by port pair before falling back to RawBytes.
func NewDecoder(hook DispatchFunc) packet.DecodeFunc {
	return func(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
		return decode(seg, parent, hook)
	}
}

func decode(seg byteseg.Segment, parent packet.Packet, hook DispatchFunc) (packet.Packet, error) {
	if seg.Len() < HeaderLength {
		return nil, &perr.Truncated{Layer: "UDP", Need: HeaderLength, Have: seg.Len()}
	}

	header, err := seg.Slice("UDP", 0, HeaderLength)
	if err != nil {
		return nil, err
	}
	length, _ := header.ReadU16BE("UDP", 4)
	if int(length) < HeaderLength {
		return nil, &perr.Malformed{Layer: "UDP", Detail: "length field below header size"}
	}
	if int(length) > seg.Len() {
		return nil, &perr.Truncated{Layer: "UDP", Need: int(length), Have: seg.Len()}
	}

	srcPort, _ := header.ReadU16BE("UDP", 0)
	dstPort, _ := header.ReadU16BE("UDP", 2)
	cksum, _ := header.ReadU16BE("UDP", 6)

	p := &Packet{
		full:          seg,
		srcPort:       srcPort,
		dstPort:       dstPort,
		length:        length,
		checksumField: cksum,
	}
	p.Base = packet.NewBase("UDP", header, parent)

	payload, err := header.Encapsulated("UDP", int(length))
	if err != nil {
		return nil, err
	}

	var decodeFn packet.DecodeFunc
	if hook != nil {
		decodeFn = func(s byteseg.Segment, pp packet.Packet) (packet.Packet, error) {
			return hook(s, pp, srcPort, dstPort)
		}
	}
	p.SetPayload(packet.Lazy(payload, p, decodeFn))
	return p, nil
}

func (p *Packet) SourcePort() uint16      { return p.srcPort }
func (p *Packet) DestinationPort() uint16 { return p.dstPort }
func (p *Packet) Length() uint16          { return p.length }
func (p *Packet) Checksum() uint16        { return p.checksumField }

// ValidChecksum reports whether the datagram's checksum is valid given
// pseudoHeader. A zero checksum field is accepted unconditionally: RFC
// 768 allows IPv4 senders to omit the UDP checksum entirely.
func (p *Packet) ValidChecksum(pseudoHeader []byte) bool {
	if p.checksumField == 0 {
		return true
	}
	return checksum.Valid(pseudoHeader, p.full.Bytes())
}

// RecomputeChecksum zeroes the checksum field, sums against pseudoHeader,
// and writes the result back — mapping an all-zero result to 0xFFFF per
// RFC 768, since 0x0000 on the wire means "no checksum".
func (p *Packet) RecomputeChecksum(pseudoHeader []byte) error {
	if err := p.Header().WriteU16BE("UDP", 6, 0); err != nil {
		return err
	}
	sum := checksum.ZeroAsAllOnes(checksum.Sum(pseudoHeader, p.full.Bytes()))
	if err := p.Header().WriteU16BE("UDP", 6, sum); err != nil {
		return err
	}
	p.checksumField = sum
	return nil
}

func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Src=%d,Dst=%d,Len=%d}",
		packet.LayerLabel("UDP", color), p.srcPort, p.dstPort, p.length)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Checksum=0x%04X]", base, p.checksumField)
}
