// Package parse is the top-level factory: it wraps an ingress buffer in
// a byteseg.Segment and dispatches on link-layer type, letting each
// layer construct itself and recurse into the next from its own
// encapsulated segment.
//
// Grounded on the teacher's examples/capture/main.go (the only place in
// the teacher that chose a parser by link-layer type before calling
// into the per-protocol packages) and generalized into a proper factory
// function rather than a one-off capture loop.
package parse

import (
	"fmt"

	"github.com/packetlens/netview/pkg/arp"
	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/ethernet"
	"github.com/packetlens/netview/pkg/ipv4"
	"github.com/packetlens/netview/pkg/ipv6"
	"github.com/packetlens/netview/pkg/packet"
)

// LinkLayerType selects which top-level decoder wraps the ingress
// buffer. Most captures are Ethernet; the others let a caller who has
// already stripped the link layer (e.g. a raw IP tunnel read) start one
// layer in.
type LinkLayerType int

const (
	LinkLayerEthernet LinkLayerType = iota
	LinkLayerIPv4
	LinkLayerIPv6
	LinkLayerARP
)

// Parse wraps data in a byteseg.Segment and dispatches on linkLayerType.
func Parse(linkLayerType LinkLayerType, data []byte) (packet.Packet, error) {
	seg := byteseg.New(data)
	switch linkLayerType {
	case LinkLayerEthernet:
		return ethernet.Decode(seg, nil)
	case LinkLayerIPv4:
		return ipv4.Decode(seg, nil)
	case LinkLayerIPv6:
		return ipv6.Decode(seg, nil)
	case LinkLayerARP:
		return arp.Decode(seg, nil)
	default:
		return nil, fmt.Errorf("parse: unknown link layer type %d", int(linkLayerType))
	}
}
