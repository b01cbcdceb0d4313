package ethernet

import (
	"encoding/binary"
	"testing"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/common"
)

func buildFrame(t *testing.T, dst, src common.MACAddress, etherType common.EtherType, payload []byte) []byte {
	t.Helper()
	buf := make([]byte, HeaderLength+len(payload))
	copy(buf[0:6], dst[:])
	copy(buf[6:12], src[:])
	binary.BigEndian.PutUint16(buf[12:14], uint16(etherType))
	copy(buf[HeaderLength:], payload)
	return buf
}

func TestDecodeIPv4Dispatch(t *testing.T) {
	dst := common.MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	src := common.MACAddress{0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB}

	ip := make([]byte, 20)
	ip[0] = (4 << 4) | 5
	binary.BigEndian.PutUint16(ip[2:4], 20)

	buf := buildFrame(t, dst, src, common.EtherTypeIPv4, ip)
	p, err := Decode(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	f := p.(*Frame)
	if f.EtherType() != common.EtherTypeIPv4 {
		t.Errorf("EtherType() = %v, want IPv4", f.EtherType())
	}

	child, err := f.Payload().Child()
	if err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	if child == nil || child.LayerName() != "IPv4" {
		t.Fatalf("Child() = %v, want an IPv4 packet", child)
	}
}

func TestDecodeUnknownEtherTypeStaysRaw(t *testing.T) {
	dst := common.MACAddress{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	src := common.MACAddress{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	buf := buildFrame(t, dst, src, common.EtherType(0x1234), []byte("payload"))

	p, err := Decode(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	f := p.(*Frame)
	if !f.IsBroadcast() {
		t.Error("IsBroadcast() = false, want true")
	}
	child, err := f.Payload().Child()
	if err != nil || child != nil {
		t.Errorf("Child() = (%v, %v), want (nil, nil) for an unknown EtherType", child, err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode(byteseg.New(make([]byte, 8)), nil)
	if err == nil {
		t.Fatal("Decode() should fail for a buffer shorter than the fixed header")
	}
}
