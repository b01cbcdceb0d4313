package packet

import "github.com/packetlens/netview/pkg/byteseg"

// DecodeFunc constructs the typed child Packet for a payload segment,
// given the parent for checksum/pseudo-header purposes. It returns
// (nil, nil) when the dispatch key is unrecognized — per spec.md §4.6,
// an unknown EtherType/Protocol/etc. is never an error, it just means
// the payload stays raw.
type DecodeFunc func(seg byteseg.Segment, parent Packet) (Packet, error)

// PacketOrPayload is the discriminated slot described in spec.md §3: it
// always holds the undecoded segment, and lazily decodes it into a typed
// child Packet on first access via Child(). The decode result (including
// a decode error, or no match) is cached.
type PacketOrPayload struct {
	seg    byteseg.Segment
	decode DecodeFunc
	parent Packet

	tried   bool
	decoded Packet
	err     error
}

// Raw wraps seg as an undecodable payload slot (no dispatch rule for this
// layer, or the layer chooses not to recurse).
func Raw(seg byteseg.Segment) PacketOrPayload {
	return PacketOrPayload{seg: seg}
}

// Lazy wraps seg with a dispatch rule that decodes it into a child
// Packet on first demand.
func Lazy(seg byteseg.Segment, parent Packet, decode DecodeFunc) PacketOrPayload {
	return PacketOrPayload{seg: seg, parent: parent, decode: decode}
}

// Segment returns the payload's raw bytes window, regardless of whether
// it has been decoded. The segment is the single source of truth; a
// decoded child's header is itself a Slice of this same segment.
func (p *PacketOrPayload) Segment() byteseg.Segment { return p.seg }

// Bytes returns the payload's raw bytes.
func (p *PacketOrPayload) Bytes() []byte { return p.seg.Bytes() }

// Child dispatches (on first call) and returns the decoded child Packet.
// A nil, nil result means either there is no dispatch rule for this
// payload or the dispatch key did not match any known protocol — both
// are the "retain as RawBytes" outcome from spec.md §4.6, not an error.
func (p *PacketOrPayload) Child() (Packet, error) {
	if p.tried {
		return p.decoded, p.err
	}
	p.tried = true
	if p.decode == nil {
		return nil, nil
	}
	p.decoded, p.err = p.decode(p.seg, p.parent)
	return p.decoded, p.err
}

// IsDecoded reports whether Child() has already produced a typed child
// (as opposed to having not been called yet, or having found no match).
func (p *PacketOrPayload) IsDecoded() bool {
	return p.tried && p.decoded != nil
}

// Refresh rebinds the payload to seg and clears any cached decode
// result, forcing the next Child() call to re-dispatch. Used by layer
// setters such as tcp.Packet.SetOptionValue after an in-place resize
// replaces the underlying buffer (spec.md §5).
func (p *PacketOrPayload) Refresh(seg byteseg.Segment) {
	p.seg = seg
	p.tried = false
	p.decoded = nil
	p.err = nil
}
