// Package packet defines the abstract Packet contract every concrete
// layer parser implements: a header ByteSegment, a lazily-decoded
// payload slot, and an optional parent link used to reach up the chain
// for pseudo-header checksum fields and recursive formatting.
//
// Grounded on spec.md §4.3 and §9: the parent link is a plain Go pointer
// rather than a weak reference, since Go's garbage collector already
// collects reference cycles — the "weak reference" requirement from the
// systems-language design notes is about ownership, not about avoiding a
// leak, and Go has no ownership system to violate here. Checksum
// computation nonetheless favors the explicit-parameter form the design
// notes prefer (see each layer's RecomputeChecksum), using the parent
// link only for FieldString's recursive formatting and for convenience
// pseudo-header derivation helpers.
package packet

// FieldStringer renders a single layer's own fields as text, without
// recursing into its parent. Concrete layers implement this; Format
// walks the parent chain on top of it.
type FieldStringer interface {
	FieldString(verbose, color bool) string
}

// Packet is the contract every concrete layer (Ethernet, IPv4, IPv6, TCP,
// UDP, ICMP, IGMP, ARP, PPPoE, LLDP, ...) implements.
type Packet interface {
	FieldStringer

	// LayerName identifies the concrete layer, e.g. "Ethernet", "TCP".
	LayerName() string

	// HeaderBytes returns this layer's header window, clipped to its
	// decoded length.
	HeaderBytes() []byte

	// Payload returns the lazily-decoded payload slot. A second call
	// returns the same slot; decoding (via Payload().Child()) happens at
	// most once and is cached.
	Payload() *PacketOrPayload

	// Parent returns the enclosing layer, or nil at the top of the chain.
	Parent() Packet
}

// Format recursively stringifies p and appends its parent's formatted
// output, per spec.md §4.3. Output is diagnostic only: its exact shape is
// not part of the contract and may change between versions.
func Format(p Packet, verbose, color bool) string {
	if p == nil {
		return ""
	}
	out := p.FieldString(verbose, color)
	if parent := p.Parent(); parent != nil {
		out += " | " + Format(parent, verbose, color)
	}
	return out
}

// colorize wraps s in an ANSI bold/colored escape sequence when color is
// true. This is the one formatting primitive this library owns; a real
// human-readable dumper (with themes, width-aware tables, etc.) is an
// external collaborator per spec.md §1.
func colorize(code, s string, color bool) string {
	if !color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// LayerLabel formats a layer name for FieldString implementations,
// bolding it when color is requested.
func LayerLabel(name string, color bool) string {
	return colorize("1", name, color)
}
