package tcp

import (
	"encoding/binary"
	"testing"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/tcpopt"
)

// buildSegment constructs a TCP segment with a single MSS option and the
// given flags/payload, and fixes up the checksum against srcIP/dstIP.
func buildSegment(t *testing.T, flags Flags, payload []byte, src, dst common.IPv4Address) []byte {
	t.Helper()
	headerLen := MinHeaderLength + 4 // one MSS option, no padding needed
	buf := make([]byte, headerLen+len(payload))

	binary.BigEndian.PutUint16(buf[0:2], 49152)
	binary.BigEndian.PutUint16(buf[2:4], 80)
	binary.BigEndian.PutUint32(buf[4:8], 0x12345678)
	binary.BigEndian.PutUint32(buf[8:12], 0)
	word := uint16(headerLen/4)<<12 | uint16(flags)
	binary.BigEndian.PutUint16(buf[12:14], word)
	binary.BigEndian.PutUint16(buf[14:16], 65535)
	// checksum at buf[16:18] filled below
	binary.BigEndian.PutUint16(buf[18:20], 0)
	buf[20] = byte(tcpopt.KindMSS)
	buf[21] = 4
	binary.BigEndian.PutUint16(buf[22:24], 1460)
	copy(buf[headerLen:], payload)

	pseudo := checksum.IPv4PseudoHeader(src, dst, uint8(common.ProtocolTCP), uint16(len(buf)))
	sum := checksum.Sum(pseudo, buf)
	binary.BigEndian.PutUint16(buf[16:18], sum)
	return buf
}

func TestDecodeSYN(t *testing.T) {
	src := common.IPv4Address{10, 0, 0, 1}
	dst := common.IPv4Address{10, 0, 0, 2}
	buf := buildSegment(t, FlagSYN, nil, src, dst)

	p, err := Decode(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	tcp := p.(*Packet)

	if tcp.SourcePort() != 49152 || tcp.DestinationPort() != 80 {
		t.Errorf("ports = %d/%d, want 49152/80", tcp.SourcePort(), tcp.DestinationPort())
	}
	if !tcp.Flags().Has(FlagSYN) {
		t.Errorf("Flags() = %v, want SYN set", tcp.Flags())
	}
	if tcp.SequenceNumber() != 0x12345678 {
		t.Errorf("SequenceNumber() = 0x%X, want 0x12345678", tcp.SequenceNumber())
	}

	opts := tcp.Options()
	if len(opts) != 1 || opts[0].Kind != tcpopt.KindMSS {
		t.Fatalf("Options() = %+v, want one MSS option", opts)
	}
	if mss := binary.BigEndian.Uint16(opts[0].Value); mss != 1460 {
		t.Errorf("MSS value = %d, want 1460", mss)
	}

	pseudo := checksum.IPv4PseudoHeader(src, dst, uint8(common.ProtocolTCP), uint16(len(buf)))
	if !tcp.ValidChecksum(pseudo) {
		t.Error("ValidChecksum() = false, want true for a freshly computed checksum")
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode(byteseg.New(make([]byte, 10)), nil)
	if err == nil {
		t.Fatal("Decode() should fail on a segment shorter than the minimum header")
	}
}

func TestDecodeInvalidDataOffset(t *testing.T) {
	buf := make([]byte, MinHeaderLength)
	buf[12] = 4 << 4 // DataOffset=4, below the minimum of 5
	_, err := Decode(byteseg.New(buf), nil)
	if err == nil {
		t.Fatal("Decode() should reject DataOffset below 5")
	}
}

func TestDRDADispatch(t *testing.T) {
	src := common.IPv4Address{10, 0, 0, 1}
	dst := common.IPv4Address{10, 0, 0, 2}
	ddm := []byte{0, 6, 0xD0, 0x41, 0x00, 0x01}
	buf := buildSegment(t, FlagPSH|FlagACK, ddm, src, dst)

	p, err := Decode(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	tcp := p.(*Packet)

	child, err := tcp.Payload().Child()
	if err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	if child == nil || child.LayerName() != "DRDA" {
		t.Fatalf("Child() = %v, want a DRDA packet", child)
	}
}

func TestNonDRDAPayloadStaysRaw(t *testing.T) {
	src := common.IPv4Address{10, 0, 0, 1}
	dst := common.IPv4Address{10, 0, 0, 2}
	buf := buildSegment(t, FlagPSH|FlagACK, []byte("hello world"), src, dst)

	p, _ := Decode(byteseg.New(buf), nil)
	tcp := p.(*Packet)

	child, err := tcp.Payload().Child()
	if err != nil || child != nil {
		t.Errorf("Child() = (%v, %v), want (nil, nil) for a non-DRDA payload", child, err)
	}
}

func TestSetOptionValueGrowsHeaderAndShiftsPayload(t *testing.T) {
	src := common.IPv4Address{10, 0, 0, 1}
	dst := common.IPv4Address{10, 0, 0, 2}
	payload := []byte("payload-bytes")
	buf := buildSegment(t, FlagACK, payload, src, dst)

	p, err := Decode(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	tcp := p.(*Packet)
	opts := tcp.Options()

	// Grow the MSS option's 2-byte value to a fabricated 6-byte value,
	// a stand-in for an option whose value needs to grow. The option
	// becomes 8 bytes, keeping the header a multiple of 4 (28 bytes).
	if err := tcp.SetOptionValue(opts[0], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}); err != nil {
		t.Fatalf("SetOptionValue() error = %v", err)
	}

	if tcp.DataOffset() != (MinHeaderLength+8)/4 {
		t.Errorf("DataOffset() = %d, want %d", tcp.DataOffset(), (MinHeaderLength+8)/4)
	}

	newOpts := tcp.Options()
	if len(newOpts) != 1 || newOpts[0].Value[0] != 0xAA {
		t.Fatalf("Options() after resize = %+v", newOpts)
	}

	child, err := tcp.Payload().Child()
	if err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	_ = child
	if string(tcp.Payload().Bytes()) != string(payload) {
		t.Errorf("payload after resize = %q, want %q", tcp.Payload().Bytes(), payload)
	}
}

func TestFlagsString(t *testing.T) {
	f := FlagSYN | FlagACK
	if got := f.String(); got != "SA" {
		t.Errorf("String() = %q, want %q", got, "SA")
	}
	if got := Flags(0).String(); got != "." {
		t.Errorf("String() for no flags = %q, want %q", got, ".")
	}
}
