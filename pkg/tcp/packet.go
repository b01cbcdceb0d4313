// Package tcp implements the Transmission Control Protocol header
// (RFC 793) plus ECN flag bits (RFC 3168) as a lazily-decoded view over
// a shared byte buffer.
//
// Grounded on the teacher's pkg/tcp for flag/option-kind naming and
// pseudo-header checksum shape, rebuilt on pkg/byteseg + pkg/packet
// instead of the teacher's eager-copy Segment struct.
package tcp

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
	"github.com/packetlens/netview/pkg/tcpopt"
)

const (
	// MinHeaderLength is the fixed TCP header length before options (20 bytes).
	MinHeaderLength = 20

	// MaxHeaderLength is the maximum TCP header length, DataOffset=15 (60 bytes).
	MaxHeaderLength = 60

	// DefaultMSS is the common default maximum segment size:
	// 1500 (Ethernet MTU) - 20 (IPv4) - 20 (TCP).
	DefaultMSS = 1460

	// DDMHeaderLength is the minimum length of a DRDA DDM header: 2-byte
	// length, 1-byte magic (0xD0), 1-byte format, 2-byte correlator.
	DDMHeaderLength = 6
)

// Flags holds the 9 TCP control bits (NS, CWR, ECE, URG, ACK, PSH, RST,
// SYN, FIN), packed as the low 9 bits of the DataOffset+Flags word.
type Flags uint16

const (
	FlagFIN Flags = 1 << 0
	FlagSYN Flags = 1 << 1
	FlagRST Flags = 1 << 2
	FlagPSH Flags = 1 << 3
	FlagACK Flags = 1 << 4
	FlagURG Flags = 1 << 5
	FlagECE Flags = 1 << 6
	FlagCWR Flags = 1 << 7
	FlagNS  Flags = 1 << 8

	flagsMask = 0x1FF
)

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

func (f Flags) String() string {
	s := ""
	if f.Has(FlagSYN) {
		s += "S"
	}
	if f.Has(FlagACK) {
		s += "A"
	}
	if f.Has(FlagFIN) {
		s += "F"
	}
	if f.Has(FlagRST) {
		s += "R"
	}
	if f.Has(FlagPSH) {
		s += "P"
	}
	if f.Has(FlagURG) {
		s += "U"
	}
	if f.Has(FlagECE) {
		s += "E"
	}
	if f.Has(FlagCWR) {
		s += "C"
	}
	if f.Has(FlagNS) {
		s += "N"
	}
	if s == "" {
		return "."
	}
	return s
}

// Packet is a TCP segment view.
type Packet struct {
	packet.Base

	full       byteseg.Segment
	optionsSeg byteseg.Segment

	srcPort, dstPort uint16
	seq, ack         uint32
	dataOffset       uint8
	flags            Flags
	window           uint16
	checksumField    uint16
	urgentPtr        uint16
	options          []tcpopt.Option
}

// Decode parses seg as a TCP segment. It matches packet.DecodeFunc so
// IPv4/IPv6 dispatch tables can reference it directly.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < MinHeaderLength {
		return nil, &perr.Truncated{Layer: "TCP", Need: MinHeaderLength, Have: seg.Len()}
	}

	word, err := seg.ReadU16BE("TCP", 12)
	if err != nil {
		return nil, err
	}
	dataOffset := uint8(word >> 12)
	if dataOffset < 5 || int(dataOffset)*4 > MaxHeaderLength {
		return nil, &perr.ValueOutOfRange{Field: "DataOffset", Max: MaxHeaderLength / 4, Got: int(dataOffset)}
	}
	headerLen := int(dataOffset) * 4

	header, err := seg.Slice("TCP", 0, headerLen)
	if err != nil {
		return nil, err
	}
	optionsSeg, err := header.Slice("TCP", MinHeaderLength, headerLen-MinHeaderLength)
	if err != nil {
		return nil, err
	}
	opts, err := tcpopt.Parse(optionsSeg)
	if err != nil {
		return nil, err
	}

	srcPort, _ := header.ReadU16BE("TCP", 0)
	dstPort, _ := header.ReadU16BE("TCP", 2)
	seq, _ := header.ReadU32BE("TCP", 4)
	ack, _ := header.ReadU32BE("TCP", 8)
	window, _ := header.ReadU16BE("TCP", 14)
	cksum, _ := header.ReadU16BE("TCP", 16)
	urgent, _ := header.ReadU16BE("TCP", 18)

	p := &Packet{
		full:          seg,
		optionsSeg:    optionsSeg,
		srcPort:       srcPort,
		dstPort:       dstPort,
		seq:           seq,
		ack:           ack,
		dataOffset:    dataOffset,
		flags:         Flags(word & flagsMask),
		window:        window,
		checksumField: cksum,
		urgentPtr:     urgent,
		options:       opts,
	}
	p.Base = packet.NewBase("TCP", header, parent)

	payload, err := header.Encapsulated("TCP", seg.Len())
	if err != nil {
		return nil, err
	}
	p.SetPayload(packet.Lazy(payload, p, dispatchPayload))
	return p, nil
}

// dispatchPayload implements the payload heuristic from spec.md's TCP
// dispatch table: a DRDA DDM header starts with a 2-byte length, then a
// magic byte 0xD0 at offset 2.
func dispatchPayload(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < DDMHeaderLength {
		return nil, nil
	}
	magic, err := seg.ReadU8("DRDA", 2)
	if err != nil || magic != 0xD0 {
		return nil, nil
	}
	return newDRDA(seg, parent), nil
}

func (p *Packet) SourcePort() uint16      { return p.srcPort }
func (p *Packet) DestinationPort() uint16 { return p.dstPort }
func (p *Packet) SequenceNumber() uint32  { return p.seq }
func (p *Packet) AckNumber() uint32       { return p.ack }
func (p *Packet) DataOffset() uint8       { return p.dataOffset }
func (p *Packet) Flags() Flags            { return p.flags }
func (p *Packet) WindowSize() uint16      { return p.window }
func (p *Packet) Checksum() uint16        { return p.checksumField }
func (p *Packet) UrgentPointer() uint16   { return p.urgentPtr }
func (p *Packet) Options() []tcpopt.Option {
	return p.options
}

// ValidChecksum reports whether the segment's checksum field, combined
// with pseudoHeader (built by the caller from the enclosing IPv4/IPv6
// layer's addresses via checksum.IPv4PseudoHeader/IPv6PseudoHeader),
// folds to a valid result. The checksum field is not zeroed first: a
// correct segment's own bytes already fold to the ones'-complement
// identity 0xFFFF.
func (p *Packet) ValidChecksum(pseudoHeader []byte) bool {
	return checksum.Valid(pseudoHeader, p.full.Bytes())
}

// RecomputeChecksum zeroes the checksum field, sums the segment against
// pseudoHeader, and writes the result back into the header.
func (p *Packet) RecomputeChecksum(pseudoHeader []byte) error {
	if err := p.Header().WriteU16BE("TCP", 16, 0); err != nil {
		return err
	}
	sum := checksum.Sum(pseudoHeader, p.full.Bytes())
	if err := p.Header().WriteU16BE("TCP", 16, sum); err != nil {
		return err
	}
	p.checksumField = sum
	return nil
}

// SetOptionValue resizes opt's value in place via tcpopt.SetValue, then
// rebinds this Packet's own header/payload segments and DataOffset
// field against the freshly allocated shared buffer. It does not touch
// any enclosing layer (IPv4 TotalLength, Ethernet frame length, ...);
// propagating the new total length upward is the caller's
// responsibility, per the single-threaded, caller-sequenced mutation
// model documented on Segment.ResizeWithShift.
func (p *Packet) SetOptionValue(opt tcpopt.Option, newValue []byte) error {
	resized, err := tcpopt.SetValue(p.optionsSeg, opt, newValue)
	if err != nil {
		return err
	}

	newHeaderLen := MinHeaderLength + resized.Len()
	if newHeaderLen%4 != 0 || newHeaderLen > MaxHeaderLength {
		return &perr.ValueOutOfRange{Field: "DataOffset", Max: MaxHeaderLength, Got: newHeaderLen}
	}

	delta := resized.Len() - p.optionsSeg.Len()
	newFullLen := p.full.Len() + delta
	newBuf := resized.Buf()
	fullOffset := p.full.Offset()

	newFull := byteseg.Rebind(newBuf, fullOffset, newFullLen)
	newHeader := byteseg.Rebind(newBuf, fullOffset, newHeaderLen)

	newDataOffset := uint8(newHeaderLen / 4)
	word := uint16(newDataOffset)<<12 | uint16(p.flags)
	if err := newHeader.WriteU16BE("TCP", 12, word); err != nil {
		return err
	}

	newPayload, err := newHeader.Encapsulated("TCP", newFullLen)
	if err != nil {
		return err
	}
	newOptions, err := tcpopt.Parse(resized)
	if err != nil {
		return err
	}

	p.full = newFull
	p.optionsSeg = resized
	p.dataOffset = newDataOffset
	p.options = newOptions
	p.RebindHeader(newHeader)
	p.Payload().Refresh(newPayload)
	return nil
}

// FieldString renders this layer's own fields.
func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Src=%d,Dst=%d,Seq=%d,Ack=%d,Flags=%s,Win=%d}",
		packet.LayerLabel("TCP", color), p.srcPort, p.dstPort, p.seq, p.ack, p.flags, p.window)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Checksum=0x%04X,Urgent=%d,Options=%d]", base, p.checksumField, p.urgentPtr, len(p.options))
}
