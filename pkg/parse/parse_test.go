package parse

import (
	"encoding/binary"
	"testing"

	"github.com/packetlens/netview/pkg/common"
)

func TestParseEthernetIPv4Chain(t *testing.T) {
	ip := make([]byte, 20)
	ip[0] = (4 << 4) | 5
	binary.BigEndian.PutUint16(ip[2:4], 20)

	frame := make([]byte, 14+len(ip))
	binary.BigEndian.PutUint16(frame[12:14], uint16(common.EtherTypeIPv4))
	copy(frame[14:], ip)

	p, err := Parse(LinkLayerEthernet, frame)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.LayerName() != "Ethernet" {
		t.Errorf("LayerName() = %q, want Ethernet", p.LayerName())
	}

	child, err := p.Payload().Child()
	if err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	if child == nil || child.LayerName() != "IPv4" {
		t.Fatalf("Child() = %v, want an IPv4 packet", child)
	}
}

func TestParseUnknownLinkLayer(t *testing.T) {
	_, err := Parse(LinkLayerType(99), []byte{})
	if err == nil {
		t.Fatal("Parse() should fail for an unrecognized link layer type")
	}
}
