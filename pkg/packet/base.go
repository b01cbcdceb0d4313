package packet

import "github.com/packetlens/netview/pkg/byteseg"

// Base holds the state every concrete layer needs and is embedded by
// each one (Ethernet, IPv4, TCP, ...): the header window, the lazily
// decoded payload slot, and the parent link. Concrete layers add their
// own semantic field accessors on top and implement FieldString and
// LayerName themselves.
type Base struct {
	layer   string
	header  byteseg.Segment
	parent  Packet
	payload PacketOrPayload
}

// NewBase constructs a Base with header already clipped to this layer's
// decoded header length by the caller.
func NewBase(layer string, header byteseg.Segment, parent Packet) Base {
	return Base{layer: layer, header: header, parent: parent}
}

// LayerName returns the concrete layer's name.
func (b *Base) LayerName() string { return b.layer }

// Header returns the header window.
func (b *Base) Header() byteseg.Segment { return b.header }

// HeaderBytes returns the header window's bytes.
func (b *Base) HeaderBytes() []byte { return b.header.Bytes() }

// Parent returns the enclosing layer, or nil at the top of the chain.
func (b *Base) Parent() Packet { return b.parent }

// Payload returns the payload slot.
func (b *Base) Payload() *PacketOrPayload { return &b.payload }

// SetPayload installs the payload slot. Called once by the concrete
// layer's constructor after clipping the header.
func (b *Base) SetPayload(p PacketOrPayload) { b.payload = p }

// RebindHeader replaces the header segment after a resize has allocated
// a new underlying buffer. Callers must also rebuild and Refresh the
// payload slot from the new header's Encapsulated() view.
func (b *Base) RebindHeader(header byteseg.Segment) { b.header = header }
