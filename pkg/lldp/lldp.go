// Package lldp implements the Link Layer Discovery Protocol (IEEE
// 802.1AB) TLV chain as a view over a shared byte buffer: each TLV is a
// 2-byte header (7-bit type, 9-bit length) followed by its value, and
// the chain terminates at the EndOfLLDPDU (type 0) sentinel.
//
// No teacher or pack precedent covers LLDP; built in the same forward-scan
// shape as pkg/tcpopt (this package's direct model for the parse loop and
// the in-place value-resize algorithm).
package lldp

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

// TLVType is the 7-bit LLDP TLV type field.
type TLVType uint8

const (
	TypeEndOfLLDPDU          TLVType = 0
	TypeChassisID            TLVType = 1
	TypePortID               TLVType = 2
	TypeTTL                  TLVType = 3
	TypeSystemName           TLVType = 5
	TypeSystemDescription    TLVType = 6
	TypeCapabilities         TLVType = 7
	TypeManagementAddress    TLVType = 8
	TypeOrganizationSpecific TLVType = 127
)

func (t TLVType) String() string {
	switch t {
	case TypeEndOfLLDPDU:
		return "EndOfLLDPDU"
	case TypeChassisID:
		return "ChassisID"
	case TypePortID:
		return "PortID"
	case TypeTTL:
		return "TTL"
	case TypeSystemName:
		return "SystemName"
	case TypeSystemDescription:
		return "SystemDescription"
	case TypeCapabilities:
		return "Capabilities"
	case TypeManagementAddress:
		return "ManagementAddress"
	case TypeOrganizationSpecific:
		return "OrganizationSpecific"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// MaxValueLength is the largest value field this package accepts in
// SetValue, chosen as the LLDP ManagementAddress OID maximum (spec
// calls out "LLDP OID > 128 bytes" as the ValueOutOfRange example).
const MaxValueLength = 128

// TLV is one parsed entry in the chain: its header offset within the
// chain segment, and its value window.
type TLV struct {
	Type  TLVType
	Start int // offset of the 2-byte header within the chain segment
	Value byteseg.Segment
}

// Chain is the full TLV chain view, typically the payload of an
// Ethernet frame with EtherType LLDP.
type Chain struct {
	packet.Base

	seg  byteseg.Segment
	tlvs []TLV
}

// Decode parses seg as an LLDP TLV chain. Matches packet.DecodeFunc.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	tlvs, err := Parse(seg)
	if err != nil {
		return nil, err
	}
	c := &Chain{seg: seg, tlvs: tlvs}
	c.Base = packet.NewBase("LLDP", seg, parent)
	empty, err := seg.Slice("LLDP", seg.Len(), 0)
	if err != nil {
		return nil, err
	}
	c.SetPayload(packet.Raw(empty))
	return c, nil
}

// Parse scans seg as a chain of TLVs, stopping at EndOfLLDPDU or the end
// of the segment, whichever comes first.
func Parse(seg byteseg.Segment) ([]TLV, error) {
	var tlvs []TLV
	offset := 0
	for offset < seg.Len() {
		header, err := seg.ReadU16BE("LLDP", offset)
		if err != nil {
			return nil, err
		}
		typ := TLVType(header >> 9)
		length := int(header & 0x1FF)

		value, err := seg.Slice("LLDP", offset+2, length)
		if err != nil {
			return nil, err
		}
		tlvs = append(tlvs, TLV{Type: typ, Start: offset, Value: value})
		if typ == TypeEndOfLLDPDU {
			break
		}
		offset += 2 + length
	}
	return tlvs, nil
}

// TLVs returns the parsed chain.
func (c *Chain) TLVs() []TLV { return c.tlvs }

// SetValue replaces tlv's value with newValue in place, following the
// 5-step algorithm: reject an oversized value before mutating anything,
// resize-with-shift the chain segment, rewrite the length prefix, then
// write the new value, and finally re-parse the chain against the
// resized segment. Returns the resized chain segment; the caller is
// responsible for rebinding any sibling segment (e.g. the enclosing
// Ethernet frame's payload view) the same way pkg/tcp.SetOptionValue
// documents.
func (c *Chain) SetValue(tlv TLV, newValue []byte) (byteseg.Segment, error) {
	if len(newValue) > MaxValueLength {
		return byteseg.Segment{}, &perr.ValueOutOfRange{Field: "LLDP.Value", Max: MaxValueLength, Got: len(newValue)}
	}

	oldLen := tlv.Value.Len()
	resized := c.seg
	if err := resized.ResizeWithShift("LLDP", tlv.Start+2, oldLen, len(newValue)); err != nil {
		return byteseg.Segment{}, err
	}

	newHeader := (uint16(tlv.Type) << 9) | uint16(len(newValue))
	if err := resized.WriteU16BE("LLDP", tlv.Start, newHeader); err != nil {
		return byteseg.Segment{}, err
	}
	if err := resized.WriteBytes("LLDP", tlv.Start+2, newValue); err != nil {
		return byteseg.Segment{}, err
	}

	tlvs, err := Parse(resized)
	if err != nil {
		return byteseg.Segment{}, err
	}
	c.seg = resized
	c.tlvs = tlvs
	c.RebindHeader(resized)
	return resized, nil
}

func (c *Chain) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{TLVs=%d}", packet.LayerLabel("LLDP", color), len(c.tlvs))
	if !verbose {
		return base
	}
	names := make([]string, 0, len(c.tlvs))
	for _, t := range c.tlvs {
		names = append(names, t.Type.String())
	}
	return fmt.Sprintf("%s%v", base, names)
}
