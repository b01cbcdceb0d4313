package integration

import (
	"encoding/binary"
	"testing"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/ipv4"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/udp"
)

func buildUDPOverIPv4(t *testing.T, src, dst common.IPv4Address, payload []byte) []byte {
	t.Helper()
	udpSeg := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint16(udpSeg[0:2], 12345)
	binary.BigEndian.PutUint16(udpSeg[2:4], 53)
	binary.BigEndian.PutUint16(udpSeg[4:6], uint16(len(udpSeg)))
	copy(udpSeg[8:], payload)

	psh := checksum.IPv4PseudoHeader(src, dst, uint8(common.ProtocolUDP), uint16(len(udpSeg)))
	sum := checksum.ZeroAsAllOnes(checksum.Sum(psh, udpSeg))
	binary.BigEndian.PutUint16(udpSeg[6:8], sum)

	ipHdr := make([]byte, 20+len(udpSeg))
	ipHdr[0] = (4 << 4) | 5
	binary.BigEndian.PutUint16(ipHdr[2:4], uint16(len(ipHdr)))
	ipHdr[8] = 64
	ipHdr[9] = uint8(common.ProtocolUDP)
	copy(ipHdr[12:16], src[:])
	copy(ipHdr[16:20], dst[:])
	copy(ipHdr[20:], udpSeg)
	ipSum := checksum.Sum(nil, ipHdr[:20])
	binary.BigEndian.PutUint16(ipHdr[10:12], ipSum)
	return ipHdr
}

func TestUDPOverIPv4ChecksumValid(t *testing.T) {
	src := common.IPv4Address{10, 1, 1, 1}
	dst := common.IPv4Address{10, 1, 1, 2}
	buf := buildUDPOverIPv4(t, src, dst, []byte("dns-query-stub"))

	p, err := ipv4.Decode(byteseg.New(buf), nil)
	if err != nil {
		t.Fatalf("ipv4.Decode() error = %v", err)
	}
	ip := p.(*ipv4.Packet)

	child, err := ip.Payload().Child()
	if err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	u := child.(*udp.Packet)
	if u.DestinationPort() != 53 {
		t.Errorf("DestinationPort() = %d, want 53", u.DestinationPort())
	}

	pseudo := ip.PseudoHeader(u.Length())
	if !u.ValidChecksum(pseudo) {
		t.Error("UDP checksum invalid")
	}
}

func TestUDPCustomDispatchHook(t *testing.T) {
	src := common.IPv4Address{10, 1, 1, 1}
	dst := common.IPv4Address{10, 1, 1, 2}
	buf := buildUDPOverIPv4(t, src, dst, []byte("payload"))

	ipSeg, err := byteseg.New(buf).Slice("IPv4", 20, len(buf)-20)
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}

	var hookCalled bool
	var gotSrc, gotDst uint16
	hook := func(seg byteseg.Segment, parent packet.Packet, srcPort, dstPort uint16) (packet.Packet, error) {
		hookCalled = true
		gotSrc, gotDst = srcPort, dstPort
		return nil, nil
	}
	decode := udp.NewDecoder(hook)
	p, err := decode(ipSeg, nil)
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if _, err := p.Payload().Child(); err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	if !hookCalled {
		t.Fatal("dispatch hook was never invoked")
	}
	if gotSrc != 12345 || gotDst != 53 {
		t.Errorf("hook ports = (%d, %d), want (12345, 53)", gotSrc, gotDst)
	}
}
