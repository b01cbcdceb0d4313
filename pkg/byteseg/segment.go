// Package byteseg implements Segment, the zero-copy window abstraction
// every layer parser is built on: a named {buffer, offset, length}
// triple with bounds-checked field accessors and in-place resize.
//
// Grounded on the teacher's pkg/common.PacketBuffer for its bounds-check
// error phrasing, and on the view-over-caller-buffer shape of
// soypat/lneto's NewXFrame(buf []byte) constructors (see DESIGN.md):
// a Segment never copies the bytes it was built from, it only ever
// narrows or (on resize) is rebound to a freshly allocated buffer.
package byteseg

import (
	"encoding/binary"

	"github.com/packetlens/netview/pkg/perr"
)

// Segment is a window {buf, offset, length} onto a shared byte slice.
// All accessor offsets are relative to Offset, not to the start of Buf.
// The zero value is not usable; construct with New or Slice.
type Segment struct {
	buf    []byte
	offset int
	length int
}

// New wraps buf in a Segment spanning its entire length.
func New(buf []byte) Segment {
	return Segment{buf: buf, offset: 0, length: len(buf)}
}

// Len returns the window's length.
func (s Segment) Len() int { return s.length }

// Bytes returns the window's bytes as a sub-slice of the shared buffer.
// Callers must not retain it across a resize of this or a sibling
// Segment that shares the same underlying buffer.
func (s Segment) Bytes() []byte {
	return s.buf[s.offset : s.offset+s.length]
}

func (s Segment) checkBounds(layer string, at, size int) error {
	if at < 0 || size < 0 || at+size > s.length {
		return &perr.Truncated{Layer: layer, Need: at + size, Have: s.length}
	}
	return nil
}

// ReadU8 reads a single byte at offset i.
func (s Segment) ReadU8(layer string, i int) (uint8, error) {
	if err := s.checkBounds(layer, i, 1); err != nil {
		return 0, err
	}
	return s.buf[s.offset+i], nil
}

// WriteU8 writes a single byte at offset i.
func (s Segment) WriteU8(layer string, i int, v uint8) error {
	if err := s.checkBounds(layer, i, 1); err != nil {
		return err
	}
	s.buf[s.offset+i] = v
	return nil
}

// ReadU16BE reads a big-endian 16-bit integer at offset i.
func (s Segment) ReadU16BE(layer string, i int) (uint16, error) {
	if err := s.checkBounds(layer, i, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(s.buf[s.offset+i:]), nil
}

// WriteU16BE writes a big-endian 16-bit integer at offset i.
func (s Segment) WriteU16BE(layer string, i int, v uint16) error {
	if err := s.checkBounds(layer, i, 2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(s.buf[s.offset+i:], v)
	return nil
}

// ReadU32BE reads a big-endian 32-bit integer at offset i.
func (s Segment) ReadU32BE(layer string, i int) (uint32, error) {
	if err := s.checkBounds(layer, i, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(s.buf[s.offset+i:]), nil
}

// WriteU32BE writes a big-endian 32-bit integer at offset i.
func (s Segment) WriteU32BE(layer string, i int, v uint32) error {
	if err := s.checkBounds(layer, i, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(s.buf[s.offset+i:], v)
	return nil
}

// ReadBytes reads n raw bytes at offset i. The returned slice aliases the
// underlying buffer; copy it if it must outlive a resize.
func (s Segment) ReadBytes(layer string, i, n int) ([]byte, error) {
	if err := s.checkBounds(layer, i, n); err != nil {
		return nil, err
	}
	return s.buf[s.offset+i : s.offset+i+n], nil
}

// WriteBytes copies src into the window starting at offset i.
func (s Segment) WriteBytes(layer string, i int, src []byte) error {
	if err := s.checkBounds(layer, i, len(src)); err != nil {
		return err
	}
	copy(s.buf[s.offset+i:s.offset+i+len(src)], src)
	return nil
}

// Slice returns a fresh Segment window over the same buffer, starting at
// offset i (relative to s) and extending len bytes. It does not copy.
func (s Segment) Slice(layer string, i, length int) (Segment, error) {
	if err := s.checkBounds(layer, i, length); err != nil {
		return Segment{}, err
	}
	return Segment{buf: s.buf, offset: s.offset + i, length: length}, nil
}

// Encapsulated returns the window immediately following this one, bounded
// by parentLimit (the parent's declared total length, as an offset
// relative to this segment's own offset) rather than by the end of the
// underlying buffer. This is what keeps an inner layer from reading past
// an outer layer's declared length into whatever garbage follows in a
// shared capture buffer.
func (s Segment) Encapsulated(layer string, parentLimit int) (Segment, error) {
	if parentLimit < s.length {
		return Segment{}, &perr.Malformed{Layer: layer, Detail: "declared length shorter than header"}
	}
	if s.offset+parentLimit > len(s.buf) {
		return Segment{}, &perr.Truncated{Layer: layer, Need: parentLimit, Have: len(s.buf) - s.offset}
	}
	return Segment{buf: s.buf, offset: s.offset + s.length, length: parentLimit - s.length}, nil
}

// ResizeWithShift grows or shrinks the byte range [fieldStart,
// fieldStart+oldLen) to [fieldStart, fieldStart+newLen), relocating every byte
// that follows it, and rebinds s to a freshly allocated buffer sized
// |buf| + (newLen - oldLen). It does NOT write the new length prefix —
// per spec, that write must happen after ResizeWithShift returns and
// before any payload bytes depending on it are written, so a partial
// mutation is never observable as a valid packet.
//
// Bytes in [0, fieldStart) are copied verbatim; bytes in
// [fieldStart+oldLen, length) are relocated to
// [fieldStart+newLen, length+(newLen-oldLen)). The caller is responsible
// for writing the new field value into [fieldStart, fieldStart+newLen)
// itself.
func (s *Segment) ResizeWithShift(layer string, fieldStart, oldLen, newLen int) error {
	if err := s.checkBounds(layer, fieldStart, oldLen); err != nil {
		return err
	}
	delta := newLen - oldLen
	newBuf := make([]byte, len(s.buf)+delta)
	copy(newBuf, s.buf[:s.offset+fieldStart])
	copy(newBuf[s.offset+fieldStart+newLen:], s.buf[s.offset+fieldStart+oldLen:])
	s.buf = newBuf
	s.length += delta
	return nil
}

// Buf returns the underlying shared buffer this segment is a window
// into. Used by sibling segments that need to re-derive themselves
// after a resize replaces it (see packet.PacketOrPayload.Refresh).
func (s Segment) Buf() []byte { return s.buf }

// Rebind constructs a Segment directly from a buffer, offset and length,
// bypassing the normal Slice/Encapsulated bounds derivation. Used to
// reconstruct a layer's own header/payload segments against a freshly
// allocated buffer after one of its descendants (e.g. a TCP option) has
// resized the shared buffer out from under it.
func Rebind(buf []byte, offset, length int) Segment {
	return Segment{buf: buf, offset: offset, length: length}
}

// Offset returns the segment's start offset within Buf().
func (s Segment) Offset() int { return s.offset }
