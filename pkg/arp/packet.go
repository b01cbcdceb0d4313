// Package arp implements the Address Resolution Protocol (RFC 826) for
// Ethernet/IPv4 as a view over a shared byte buffer. ARP has no
// variable-length fields or further payload dispatch: the fixed
// 28-byte message is the whole packet.
//
// Grounded on the teacher's pkg/arp/packet.go (replaced here) for field
// naming and validation, rebuilt on pkg/byteseg + pkg/packet.
package arp

import (
	"fmt"

	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/perr"
)

// PacketSize is the fixed ARP message size for Ethernet/IPv4.
const PacketSize = 28

const (
	HardwareTypeEthernet = 1
	ProtocolTypeIPv4     = 0x0800
)

// Operation is the ARP opcode.
type Operation uint16

const (
	OperationRequest Operation = 1
	OperationReply   Operation = 2
)

func (op Operation) String() string {
	switch op {
	case OperationRequest:
		return "Request"
	case OperationReply:
		return "Reply"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(op))
	}
}

// Packet is an ARP message view.
type Packet struct {
	packet.Base

	hardwareType   uint16
	protocolType   uint16
	hardwareLength uint8
	protocolLength uint8
	operation      Operation
	senderMAC      common.MACAddress
	senderIP       common.IPv4Address
	targetMAC      common.MACAddress
	targetIP       common.IPv4Address
}

// Decode parses seg as an ARP message. Matches packet.DecodeFunc.
func Decode(seg byteseg.Segment, parent packet.Packet) (packet.Packet, error) {
	if seg.Len() < PacketSize {
		return nil, &perr.Truncated{Layer: "ARP", Need: PacketSize, Have: seg.Len()}
	}
	header, err := seg.Slice("ARP", 0, PacketSize)
	if err != nil {
		return nil, err
	}

	hwType, _ := header.ReadU16BE("ARP", 0)
	protoType, _ := header.ReadU16BE("ARP", 2)
	hwLen, _ := header.ReadU8("ARP", 4)
	protoLen, _ := header.ReadU8("ARP", 5)
	op, _ := header.ReadU16BE("ARP", 6)

	if hwType != HardwareTypeEthernet {
		return nil, &perr.Malformed{Layer: "ARP", Detail: fmt.Sprintf("unsupported hardware type %d", hwType)}
	}
	if protoType != ProtocolTypeIPv4 {
		return nil, &perr.Malformed{Layer: "ARP", Detail: fmt.Sprintf("unsupported protocol type 0x%04X", protoType)}
	}
	if hwLen != 6 {
		return nil, &perr.Malformed{Layer: "ARP", Detail: "hardware address length must be 6"}
	}
	if protoLen != 4 {
		return nil, &perr.Malformed{Layer: "ARP", Detail: "protocol address length must be 4"}
	}

	senderMAC, _ := header.ReadMAC("ARP", 8)
	senderIP, _ := header.ReadIPv4("ARP", 14)
	targetMAC, _ := header.ReadMAC("ARP", 18)
	targetIP, _ := header.ReadIPv4("ARP", 24)

	p := &Packet{
		hardwareType:   hwType,
		protocolType:   protoType,
		hardwareLength: hwLen,
		protocolLength: protoLen,
		operation:      Operation(op),
		senderMAC:      senderMAC,
		senderIP:       senderIP,
		targetMAC:      targetMAC,
		targetIP:       targetIP,
	}
	p.Base = packet.NewBase("ARP", header, parent)

	rest, err := header.Encapsulated("ARP", seg.Len())
	if err != nil {
		return nil, err
	}
	p.SetPayload(packet.Raw(rest))
	return p, nil
}

func (p *Packet) HardwareType() uint16         { return p.hardwareType }
func (p *Packet) ProtocolType() uint16         { return p.protocolType }
func (p *Packet) Operation() Operation         { return p.operation }
func (p *Packet) SenderMAC() common.MACAddress { return p.senderMAC }
func (p *Packet) SenderIP() common.IPv4Address { return p.senderIP }
func (p *Packet) TargetMAC() common.MACAddress { return p.targetMAC }
func (p *Packet) TargetIP() common.IPv4Address { return p.targetIP }

func (p *Packet) IsRequest() bool { return p.operation == OperationRequest }
func (p *Packet) IsReply() bool   { return p.operation == OperationReply }

func (p *Packet) FieldString(verbose, color bool) string {
	base := fmt.Sprintf("%s{Op=%s,Sender=%s(%s),Target=%s(%s)}",
		packet.LayerLabel("ARP", color), p.operation, p.senderIP, p.senderMAC, p.targetIP, p.targetMAC)
	if !verbose {
		return base
	}
	return fmt.Sprintf("%s[HWType=%d,ProtoType=0x%04X]", base, p.hardwareType, p.protocolType)
}
