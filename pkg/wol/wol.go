// Package wol implements a minimal Wake-on-LAN magic packet view
// (EtherType 0x0842): a 6-byte all-ones synchronization stream followed
// by the target MAC address repeated 16 times. No teacher or pack
// precedent covers it; given its own minimal stub here rather than
// folding it into RawBytes, the same treatment pkg/tcp/drda.go gives a
// recognized-but-unparsed payload, since spec.md's Ethernet dispatch
// table calls WakeOnLan out by name rather than lumping it into "else
// RawBytes".
package wol

import (
	"bytes"
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

// MagicPacketLength is the fixed 102-byte magic packet: 6 sync bytes
// plus the target MAC repeated 16 times.
const MagicPacketLength = 6 + 16*6

var syncStream = bytes.Repeat([]byte{0xFF}, 6)

// Packet is a Wake-on-LAN magic packet view.
type Packet struct {
	packet.Base

	target common.MACAddress
}

// Decode parses seg as a Wake-on-LAN magic packet. Matches
// packet.DecodeFunc. Unlike most layers, a malformed sync stream or a
// mismatched MAC repetition is reported via Malformed rather than
// silently falling back to RawBytes, since the dispatch already
// committed to this EtherType meaning Wake-on-LAN.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < MagicPacketLength {
		return nil, &perr.Truncated{Layer: "WakeOnLan", Need: MagicPacketLength, Have: seg.Len()}
	}
	header, err := seg.Slice("WakeOnLan", 0, MagicPacketLength)
	if err != nil {
		return nil, err
	}

	sync, _ := header.ReadBytes("WakeOnLan", 0, 6)
	if !bytes.Equal(sync, syncStream) {
		return nil, &perr.Malformed{Layer: "WakeOnLan", Detail: "missing 6-byte 0xFF synchronization stream"}
	}

	target, _ := header.ReadMAC("WakeOnLan", 6)
	for i := 1; i < 16; i++ {
		repeat, _ := header.ReadMAC("WakeOnLan", 6+i*6)
		if repeat != target {
			return nil, &perr.Malformed{Layer: "WakeOnLan", Detail: "target MAC repetition mismatch"}
		}
	}

	p := &Packet{target: target}
	p.Base = packet.NewBase("WakeOnLan", header, parent)

	rest, err := header.Encapsulated("WakeOnLan", seg.Len())
	if err != nil {
		return nil, err
	}
	p.SetPayload(packet.Raw(rest))
	return p, nil
}

// TargetMAC returns the MAC address being woken.
func (p *Packet) TargetMAC() common.MACAddress { return p.target }

func (p *Packet) FieldString(verbose, color bool) string {
	return fmt.Sprintf("%s{Target=%s}", packet.LayerLabel("WakeOnLan", color), p.target)
}
