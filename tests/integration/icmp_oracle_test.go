package integration

import (
	"testing"

	xicmp "golang.org/x/net/icmp"
	xipv4 "golang.org/x/net/ipv4"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/icmp"
)

// TestICMPEchoAgainstXNetOracle builds an Echo Request with
// golang.org/x/net/icmp (an independent implementation) and checks that
// this package's decoder agrees with it field-for-field, including the
// checksum x/net/icmp computed.
func TestICMPEchoAgainstXNetOracle(t *testing.T) {
	msg := &xicmp.Message{
		Type: xipv4.ICMPTypeEcho,
		Code: 0,
		Body: &xicmp.Echo{
			ID:   0x2A2A,
			Seq:  7,
			Data: []byte("oracle round trip"),
		},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		t.Fatalf("x/net/icmp Marshal() error = %v", err)
	}

	p, err := icmp.Decode(byteseg.New(wire), nil)
	if err != nil {
		t.Fatalf("icmp.Decode() error = %v", err)
	}
	pkt := p.(*icmp.Packet)

	if !pkt.IsEchoRequest() {
		t.Error("IsEchoRequest() = false")
	}
	if id := pkt.Identifier(); id != 0x2A2A {
		t.Errorf("Identifier() = 0x%X, want 0x2A2A", id)
	}
	if seq := pkt.SequenceNumber(); seq != 7 {
		t.Errorf("SequenceNumber() = %d, want 7", seq)
	}
	if !pkt.ValidChecksum() {
		t.Error("ValidChecksum() = false against an x/net/icmp-computed checksum")
	}
}
