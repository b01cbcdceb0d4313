package ipv6ext

import (
	"encoding/binary"
	"testing"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/common"
)

func TestDecodeDestOptionsToUDP(t *testing.T) {
	udpSeg := make([]byte, 8)
	binary.BigEndian.PutUint16(udpSeg[0:2], 53)
	binary.BigEndian.PutUint16(udpSeg[4:6], 8)

	buf := make([]byte, 8+len(udpSeg))
	buf[0] = uint8(common.ProtocolUDP)
	buf[1] = 0
	copy(buf[8:], udpSeg)

	p, err := decodeDestOptions(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("decodeDestOptions() error = %v", err)
	}
	opts := p.(*DestOptions)
	if opts.NextHeader() != common.ProtocolUDP {
		t.Errorf("NextHeader() = %v, want UDP", opts.NextHeader())
	}

	child, err := opts.Payload().Child()
	if err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	if child == nil || child.LayerName() != "UDP" {
		t.Fatalf("Child() = %v, want a UDP packet", child)
	}
}

func TestDecodeFragmentHeader(t *testing.T) {
	buf := make([]byte, fragmentHeaderLength)
	buf[0] = uint8(common.ProtocolTCP)
	binary.BigEndian.PutUint16(buf[2:4], (100<<3)|1)
	binary.BigEndian.PutUint32(buf[4:8], 0xDEADBEEF)

	p, err := decodeFragment(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("decodeFragment() error = %v", err)
	}
	frag := p.(*Fragment)
	if frag.FragmentOffset() != 100 {
		t.Errorf("FragmentOffset() = %d, want 100", frag.FragmentOffset())
	}
	if !frag.MoreFragments() {
		t.Error("MoreFragments() = false, want true")
	}
	if frag.Identification() != 0xDEADBEEF {
		t.Errorf("Identification() = 0x%X, want 0xDEADBEEF", frag.Identification())
	}
}

func TestDecodeRoutingHeader(t *testing.T) {
	buf := make([]byte, 8)
	buf[0] = uint8(common.ProtocolTCP)
	buf[1] = 0
	buf[2] = 0
	buf[3] = 2

	p, err := decodeRouting(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("decodeRouting() error = %v", err)
	}
	r := p.(*Routing)
	if r.SegmentsLeft() != 2 {
		t.Errorf("SegmentsLeft() = %d, want 2", r.SegmentsLeft())
	}
}

func TestDecodeTruncatedOptionsHeader(t *testing.T) {
	_, err := decodeHopByHop(byteseg.New(make([]byte, 4)), nil)
	if err == nil {
		t.Fatal("decodeHopByHop() should fail for a buffer shorter than 8 bytes")
	}
}

func TestDispatchUnknownStaysNil(t *testing.T) {
	if Dispatch(common.Protocol(253)) != nil {
		t.Error("Dispatch() should return nil for an unrecognized next header")
	}
}
