package wol

import (
	"testing"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/common"
)

func buildMagicPacket(t *testing.T, mac common.MACAddress) []byte {
	t.Helper()
	buf := make([]byte, MagicPacketLength)
	for i := 0; i < 6; i++ {
		buf[i] = 0xFF
	}
	for i := 0; i < 16; i++ {
		copy(buf[6+i*6:], mac[:])
	}
	return buf
}

func TestDecodeMagicPacket(t *testing.T) {
	mac := common.MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	buf := buildMagicPacket(t, mac)

	p, err := Decode(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	w := p.(*Packet)
	if w.TargetMAC() != mac {
		t.Errorf("TargetMAC() = %v, want %v", w.TargetMAC(), mac)
	}
}

func TestDecodeRejectsBadSync(t *testing.T) {
	mac := common.MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	buf := buildMagicPacket(t, mac)
	buf[0] = 0x00

	_, err := Decode(byteseg.New(buf), nil)
	if err == nil {
		t.Fatal("Decode() should reject a missing synchronization stream")
	}
}

func TestDecodeRejectsMismatchedRepetition(t *testing.T) {
	mac := common.MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	buf := buildMagicPacket(t, mac)
	buf[6+6] = 0xAB

	_, err := Decode(byteseg.New(buf), nil)
	if err == nil {
		t.Fatal("Decode() should reject a MAC repetition mismatch")
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode(byteseg.New(make([]byte, 10)), nil)
	if err == nil {
		t.Fatal("Decode() should fail for a buffer shorter than the fixed magic packet")
	}
}
