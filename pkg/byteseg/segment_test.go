package byteseg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/perr"
)

func TestReadWriteScalars(t *testing.T) {
	buf := make([]byte, 8)
	s := New(buf)

	if err := s.WriteU8("test", 0, 0x12); err != nil {
		t.Fatalf("WriteU8() error = %v", err)
	}
	if err := s.WriteU16BE("test", 1, 0x3456); err != nil {
		t.Fatalf("WriteU16BE() error = %v", err)
	}
	if err := s.WriteU32BE("test", 3, 0x789ABCDE); err != nil {
		t.Fatalf("WriteU32BE() error = %v", err)
	}

	got, _ := s.ReadU8("test", 0)
	if got != 0x12 {
		t.Errorf("ReadU8() = 0x%02X, want 0x12", got)
	}
	got16, _ := s.ReadU16BE("test", 1)
	if got16 != 0x3456 {
		t.Errorf("ReadU16BE() = 0x%04X, want 0x3456", got16)
	}
	got32, _ := s.ReadU32BE("test", 3)
	if got32 != 0x789ABCDE {
		t.Errorf("ReadU32BE() = 0x%08X, want 0x789ABCDE", got32)
	}
}

func TestOutOfRange(t *testing.T) {
	s := New(make([]byte, 4))
	_, err := s.ReadU32BE("test", 2)
	if err == nil {
		t.Fatal("ReadU32BE() should fail when reading past the window")
	}
	var trunc *perr.Truncated
	if !errors.As(err, &trunc) {
		t.Errorf("error = %v, want *perr.Truncated", err)
	}
}

func TestSliceAndEncapsulated(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	s := New(buf)

	header, err := s.Slice("test", 0, 4)
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}
	if !bytes.Equal(header.Bytes(), []byte{0, 1, 2, 3}) {
		t.Errorf("header bytes = %v", header.Bytes())
	}

	// The full outer segment declares a payload of 6 bytes after a
	// 4-byte header: encapsulated() must expose exactly those 6, not
	// whatever else trails in the shared buffer.
	payload, err := header.Encapsulated("test", 10)
	if err != nil {
		t.Fatalf("Encapsulated() error = %v", err)
	}
	if !bytes.Equal(payload.Bytes(), []byte{4, 5, 6, 7, 8, 9}) {
		t.Errorf("payload bytes = %v", payload.Bytes())
	}
}

func TestEncapsulatedBoundsToDeclaredLength(t *testing.T) {
	// Buffer carries 10 bytes but the outer layer only declares 6 bytes
	// total (4-byte header + 2-byte payload); bytes 6..10 belong to
	// whatever follows in the shared capture and must not leak in.
	buf := []byte{0, 1, 2, 3, 4, 5, 0xAA, 0xAA, 0xAA, 0xAA}
	s := New(buf)
	header, _ := s.Slice("test", 0, 4)
	payload, err := header.Encapsulated("test", 6)
	if err != nil {
		t.Fatalf("Encapsulated() error = %v", err)
	}
	if payload.Len() != 2 {
		t.Errorf("payload length = %d, want 2", payload.Len())
	}
	if !bytes.Equal(payload.Bytes(), []byte{4, 5}) {
		t.Errorf("payload bytes = %v, want [4 5]", payload.Bytes())
	}
}

func TestResizeWithShift(t *testing.T) {
	// {2-byte magic}{4-byte old field}{2-byte trailer}
	buf := []byte{0xAA, 0xBB, 1, 2, 3, 4, 0xCC, 0xDD}
	s := New(buf)

	if err := s.ResizeWithShift("test", 2, 4, 6); err != nil {
		t.Fatalf("ResizeWithShift() error = %v", err)
	}
	if s.Len() != 10 {
		t.Errorf("length after resize = %d, want 10", s.Len())
	}
	// Bytes before the field are untouched.
	if !bytes.Equal(s.Bytes()[0:2], []byte{0xAA, 0xBB}) {
		t.Errorf("prefix corrupted: %v", s.Bytes()[0:2])
	}
	// Trailer relocated past the grown field.
	if !bytes.Equal(s.Bytes()[8:10], []byte{0xCC, 0xDD}) {
		t.Errorf("trailer = %v, want [0xCC 0xDD]", s.Bytes()[8:10])
	}
}

func TestMACAndIPAccessors(t *testing.T) {
	buf := make([]byte, 26)
	s := New(buf)

	mac := common.MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	if err := s.WriteMAC("test", 0, mac); err != nil {
		t.Fatalf("WriteMAC() error = %v", err)
	}
	gotMAC, _ := s.ReadMAC("test", 0)
	if gotMAC != mac {
		t.Errorf("ReadMAC() = %v, want %v", gotMAC, mac)
	}

	ip4 := common.IPv4Address{192, 168, 1, 1}
	if err := s.WriteIPv4("test", 6, ip4); err != nil {
		t.Fatalf("WriteIPv4() error = %v", err)
	}
	gotIP4, _ := s.ReadIPv4("test", 6)
	if gotIP4 != ip4 {
		t.Errorf("ReadIPv4() = %v, want %v", gotIP4, ip4)
	}

	ip6 := common.IPv6Address{0xfe, 0x80}
	if err := s.WriteIPv6("test", 10, ip6); err != nil {
		t.Fatalf("WriteIPv6() error = %v", err)
	}
	gotIP6, _ := s.ReadIPv6("test", 10)
	if gotIP6 != ip6 {
		t.Errorf("ReadIPv6() = %v, want %v", gotIP6, ip6)
	}
}
