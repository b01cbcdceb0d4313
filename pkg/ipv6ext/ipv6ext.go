// Package ipv6ext implements the IPv6 extension header chain (RFC 8200
// §4): Hop-by-Hop Options, Routing, Fragment, and Destination Options.
// Each header is its own Packet view and recurses into the next header
// via NextHeader, either another extension header or a terminal
// transport-layer decoder (TCP, UDP, ICMPv6, ICMP, IGMP). Next header 41
// (IPv6-in-IPv6) has no decoder here, so such a payload is left undecoded.
//
// Grounded on pkg/ipv4 (moved/adapted here) for the leaf dispatch table
// and on RFC 8200 §4.3-4.6 for the per-header wire layouts, since the
// teacher's pkg/ipv6 never parsed extension headers at all (it only
// stored them as an unparsed []ExtensionHeader slice of raw bytes).
package ipv6ext

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/icmp"
	"github.com/packetlens/netview/pkg/icmpv6"
	"github.com/packetlens/netview/pkg/igmp"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
	"github.com/packetlens/netview/pkg/tcp"
	"github.com/packetlens/netview/pkg/udp"
)

// Header identifies which extension header kind a NextHeader value
// selects, as opposed to a terminal transport protocol.
type Header uint8

const (
	HeaderHopByHop    Header = 0
	HeaderRouting     Header = 43
	HeaderFragment    Header = 44
	HeaderDestOptions Header = 60
)

func isExtensionHeader(proto common.Protocol) bool {
	switch Header(proto) {
	case HeaderHopByHop, HeaderRouting, HeaderFragment, HeaderDestOptions:
		return true
	default:
		return false
	}
}

// Dispatch returns the packet.DecodeFunc for nextHeader, covering both
// the extension header chain and the terminal transport layers. It is
// the single entry point pkg/ipv6 uses so the chain and the ipv4 leaf
// table (tcp/udp/icmp/igmp) stay in one place.
func Dispatch(nextHeader common.Protocol) packet.DecodeFunc {
	if isExtensionHeader(nextHeader) {
		switch Header(nextHeader) {
		case HeaderHopByHop:
			return decodeHopByHop
		case HeaderRouting:
			return decodeRouting
		case HeaderFragment:
			return decodeFragment
		case HeaderDestOptions:
			return decodeDestOptions
		}
	}
	switch nextHeader {
	case common.ProtocolTCP:
		return tcp.Decode
	case common.ProtocolUDP:
		return udp.Decode
	case common.ProtocolICMPv6:
		return icmpv6.Decode
	case common.ProtocolICMP:
		return icmp.Decode
	case common.ProtocolIGMP:
		return igmp.Decode
	default:
		return nil
	}
}

// optionsHeader is the shared view for Hop-by-Hop and Destination
// Options: {NextHeader u8, HdrExtLen u8 (units of 8 octets, minus the
// first 8), options...}.
type optionsHeader struct {
	packet.Base

	nextHeader common.Protocol
	hdrExtLen  uint8
}

func decodeOptionsHeader(layer string, seg byteseg.Segment, parent packet.Packet) (*optionsHeader, byteseg.Segment, error) {
	if seg.Len() < 8 {
		return nil, byteseg.Segment{}, &perr.Truncated{Layer: layer, Need: 8, Have: seg.Len()}
	}
	nh, _ := seg.ReadU8(layer, 0)
	extLen, _ := seg.ReadU8(layer, 1)
	totalLen := (int(extLen) + 1) * 8

	header, err := seg.Slice(layer, 0, totalLen)
	if err != nil {
		return nil, byteseg.Segment{}, err
	}
	h := &optionsHeader{nextHeader: common.Protocol(nh), hdrExtLen: extLen}
	h.Base = packet.NewBase(layer, header, parent)
	return h, seg, nil
}

// HopByHopOptions is the Hop-by-Hop Options extension header view.
type HopByHopOptions struct{ optionsHeader }

func decodeHopByHop(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	h, orig, err := decodeOptionsHeader("IPv6HopByHop", seg, parent)
	if err != nil {
		return nil, err
	}
	p := &HopByHopOptions{*h}
	return finishChain(&p.optionsHeader, orig, parent, p)
}

func (p *HopByHopOptions) NextHeader() common.Protocol { return p.nextHeader }
func (p *HopByHopOptions) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Next=%s}", packet.LayerLabel("IPv6HopByHop", color), p.nextHeader)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Len=%d]", base, len(p.HeaderBytes()))
}

// DestOptions is the Destination Options extension header view.
type DestOptions struct{ optionsHeader }

func decodeDestOptions(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	h, orig, err := decodeOptionsHeader("IPv6DestOptions", seg, parent)
	if err != nil {
		return nil, err
	}
	p := &DestOptions{*h}
	return finishChain(&p.optionsHeader, orig, parent, p)
}

func (p *DestOptions) NextHeader() common.Protocol { return p.nextHeader }
func (p *DestOptions) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Next=%s}", packet.LayerLabel("IPv6DestOptions", color), p.nextHeader)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Len=%d]", base, len(p.HeaderBytes()))
}

// Routing is the Routing extension header view (RFC 8200 §4.4):
// {NextHeader u8, HdrExtLen u8, RoutingType u8, SegmentsLeft u8,
// type-specific data...}.
type Routing struct {
	packet.Base

	nextHeader   common.Protocol
	routingType  uint8
	segmentsLeft uint8
}

func decodeRouting(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < 8 {
		return nil, &perr.Truncated{Layer: "IPv6Routing", Need: 8, Have: seg.Len()}
	}
	nh, _ := seg.ReadU8("IPv6Routing", 0)
	extLen, _ := seg.ReadU8("IPv6Routing", 1)
	routingType, _ := seg.ReadU8("IPv6Routing", 2)
	segLeft, _ := seg.ReadU8("IPv6Routing", 3)
	totalLen := (int(extLen) + 1) * 8

	header, err := seg.Slice("IPv6Routing", 0, totalLen)
	if err != nil {
		return nil, err
	}
	p := &Routing{
		nextHeader:   common.Protocol(nh),
		routingType:  routingType,
		segmentsLeft: segLeft,
	}
	p.Base = packet.NewBase("IPv6Routing", header, parent)
	return finishChainBase(&p.Base, p.nextHeader, seg, header, parent, p)
}

func (p *Routing) NextHeader() common.Protocol { return p.nextHeader }
func (p *Routing) RoutingType() uint8          { return p.routingType }
func (p *Routing) SegmentsLeft() uint8         { return p.segmentsLeft }
func (p *Routing) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Type=%d,SegLeft=%d}", packet.LayerLabel("IPv6Routing", color), p.routingType, p.segmentsLeft)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Next=%s]", base, p.nextHeader)
}

// Fragment is the Fragment extension header view (RFC 8200 §4.5), a
// fixed 8 bytes: {NextHeader u8, Reserved u8, FragmentOffset(13 bits)
// + Res(2 bits) + M(1 bit) u16, Identification u32}.
type Fragment struct {
	packet.Base

	nextHeader     common.Protocol
	fragmentOffset uint16
	moreFragments  bool
	identification uint32
}

const fragmentHeaderLength = 8

func decodeFragment(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < fragmentHeaderLength {
		return nil, &perr.Truncated{Layer: "IPv6Fragment", Need: fragmentHeaderLength, Have: seg.Len()}
	}
	header, err := seg.Slice("IPv6Fragment", 0, fragmentHeaderLength)
	if err != nil {
		return nil, err
	}
	nh, _ := header.ReadU8("IPv6Fragment", 0)
	offsetFlags, _ := header.ReadU16BE("IPv6Fragment", 2)
	ident, _ := header.ReadU32BE("IPv6Fragment", 4)

	p := &Fragment{
		nextHeader:     common.Protocol(nh),
		fragmentOffset: offsetFlags >> 3,
		moreFragments:  offsetFlags&0x1 != 0,
		identification: ident,
	}
	p.Base = packet.NewBase("IPv6Fragment", header, parent)
	return finishChainBase(&p.Base, p.nextHeader, seg, header, parent, p)
}

func (p *Fragment) NextHeader() common.Protocol { return p.nextHeader }
func (p *Fragment) FragmentOffset() uint16      { return p.fragmentOffset }
func (p *Fragment) MoreFragments() bool         { return p.moreFragments }
func (p *Fragment) Identification() uint32      { return p.identification }
func (p *Fragment) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Offset=%d,M=%v}", packet.LayerLabel("IPv6Fragment", color), p.fragmentOffset, p.moreFragments)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[ID=%d,Next=%s]", base, p.identification, p.nextHeader)
}

// finishChain clips the payload that follows an options-style header
// (Hop-by-Hop/DestOptions) and wires up lazy dispatch to the next
// header in the chain.
func finishChain(h *optionsHeader, orig byteseg.Segment, parent packet.Packet, self packet.Packet) (packet.Packet, error) {
	return finishChainBase(&h.Base, h.nextHeader, orig, h.Header(), parent, self)
}

func finishChainBase(base *packet.Base, nextHeader common.Protocol, orig, header byteseg.Segment, parent packet.Packet, self packet.Packet) (packet.Packet, error) {
	payload, err := header.Encapsulated("IPv6Ext", orig.Len())
	if err != nil {
		return nil, err
	}
	base.SetPayload(packet.Lazy(payload, self, Dispatch(nextHeader)))
	return self, nil
}
