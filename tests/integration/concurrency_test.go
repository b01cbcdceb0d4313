package integration

import (
	"context"
	"encoding/binary"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/ipv4"
)

// TestConcurrentParseIsolation parses N independently-built IPv4 buffers
// concurrently. Per spec.md's concurrency model, cross-buffer parallelism
// is unrestricted as long as no writer touches a shared buffer; this
// confirms separate Decode calls over separate buffers never observe
// each other's state.
func TestConcurrentParseIsolation(t *testing.T) {
	const n = 64
	bufs := make([][]byte, n)
	for i := range bufs {
		buf := make([]byte, 20)
		buf[0] = (4 << 4) | 5
		binary.BigEndian.PutUint16(buf[2:4], 20)
		buf[9] = uint8(common.ProtocolTCP)
		buf[15] = byte(i) // vary source IP's last octet per goroutine
		bufs[i] = buf
	}

	g, _ := errgroup.WithContext(context.Background())
	results := make([]common.IPv4Address, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			p, err := ipv4.Decode(byteseg.New(bufs[i]), nil)
			if err != nil {
				return err
			}
			results[i] = p.(*ipv4.Packet).Source()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Decode() error = %v", err)
	}

	for i, src := range results {
		if int(src[3]) != i {
			t.Errorf("results[%d].Source() last octet = %d, want %d", i, src[3], i)
		}
	}
}
