// Package ethernet implements Ethernet II framing (IEEE 802.3) as a
// lazily-decoded view over a shared byte buffer: a fixed 14-byte header
// followed by an EtherType-driven payload.
//
// Grounded on the teacher's pkg/ethernet/frame.go (replaced here) for
// field naming and the MAC-address helpers, rebuilt on pkg/byteseg +
// pkg/packet the same way pkg/ipv4 was.
package ethernet

import (
	"fmt"

	"github.com/packetlens/netview/pkg/arp"
	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/ipv4"
	"github.com/packetlens/netview/pkg/ipv6"
	"github.com/packetlens/netview/pkg/lldp"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
	"github.com/packetlens/netview/pkg/pppoe"
	"github.com/packetlens/netview/pkg/wol"
)

// HeaderLength is the fixed Ethernet II header length (dst+src+type).
const HeaderLength = 14

// Frame is an Ethernet II frame view.
type Frame struct {
	packet.Base

	dst, src  common.MACAddress
	etherType common.EtherType
}

// Decode parses seg as an Ethernet II frame. Matches packet.DecodeFunc.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < HeaderLength {
		return nil, &perr.Truncated{Layer: "Ethernet", Need: HeaderLength, Have: seg.Len()}
	}
	header, err := seg.Slice("Ethernet", 0, HeaderLength)
	if err != nil {
		return nil, err
	}

	dstBytes, _ := header.ReadBytes("Ethernet", 0, 6)
	srcBytes, _ := header.ReadBytes("Ethernet", 6, 6)
	etherType, _ := header.ReadU16BE("Ethernet", 12)

	f := &Frame{etherType: common.EtherType(etherType)}
	copy(f.dst[:], dstBytes)
	copy(f.src[:], srcBytes)
	f.Base = packet.NewBase("Ethernet", header, parent)

	payload, err := header.Encapsulated("Ethernet", seg.Len())
	if err != nil {
		return nil, err
	}
	f.SetPayload(packet.Lazy(payload, f, dispatch(f.etherType)))
	return f, nil
}

func dispatch(et common.EtherType) packet.DecodeFunc {
	switch et {
	case common.EtherTypeIPv4:
		return ipv4.Decode
	case common.EtherTypeIPv6:
		return ipv6.Decode
	case common.EtherTypeARP:
		return arp.Decode
	case common.EtherTypePPPoEDiscovery, common.EtherTypePPPoESession:
		return pppoe.Decode
	case common.EtherTypeLLDP:
		return lldp.Decode
	case common.EtherTypeWakeOnLAN:
		return wol.Decode
	default:
		return nil
	}
}

func (f *Frame) Destination() common.MACAddress { return f.dst }
func (f *Frame) Source() common.MACAddress      { return f.src }
func (f *Frame) EtherType() common.EtherType    { return f.etherType }

func (f *Frame) IsBroadcast() bool { return f.dst.IsBroadcast() }
func (f *Frame) IsMulticast() bool { return f.dst.IsMulticast() }
func (f *Frame) IsUnicast() bool   { return !f.IsBroadcast() && !f.IsMulticast() }

func (f *Frame) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Dst=%s,Src=%s,Type=%s}",
		packet.LayerLabel("Ethernet", color), f.dst, f.src, f.etherType)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[Broadcast=%v,Multicast=%v]\n%s", base, f.IsBroadcast(), f.IsMulticast(),
		common.HexDump(f.HeaderBytes()))
}
