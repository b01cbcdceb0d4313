package tcp

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/packet"
)

// drda is the dispatch target for TCP payloads matching the DDM magic
// byte. It is intentionally not a full DRDA/DDM decoder: this package
// only needs to prove the dispatch hook exists, not speak the protocol.
type drda struct {
	packet.Base
	length     uint16
	formatByte uint8
	correlator uint16
}

func newDRDA(seg byteseg.Segment, parent packet.Packet) *drda {
	length, _ := seg.ReadU16BE("DRDA", 0)
	format, _ := seg.ReadU8("DRDA", 3)
	correlator, _ := seg.ReadU16BE("DRDA", 4)

	d := &drda{length: length, formatByte: format, correlator: correlator}
	d.Base = packet.NewBase("DRDA", seg, parent)
	empty, _ := seg.Slice("DRDA", seg.Len(), 0)
	d.SetPayload(packet.Raw(empty))
	return d
}

func (d *drda) FieldString(verbose, color bool) string {
	label := packet.LayerLabel("DRDA", color)
	if !verbose {
		return fmt.Sprintf("%s{Length=%d}", label, d.length)
	}
	return fmt.Sprintf("%s{Length=%d,Format=0x%02X,Correlator=%d}", label, d.length, d.formatByte, d.correlator)
}
