// Command netdump parses a hex-encoded frame (or a synthesized one) through
// the view-layer decoders and prints the resulting Packet chain.
//
// Usage:
//
//	echo "aabbccddeeff..." | netdump -link ethernet
//	netdump -gen icmp-echo -dst 127.0.0.1
//	netdump -gen arp -i eth0
//
// Grounded on the teacher's examples/capture/main.go flag conventions
// (-i for interface, -v for verbose) adapted away from raw-socket capture,
// which is out of scope: this reads a frame from stdin or synthesizes one
// in memory rather than opening a live socket.
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"

	xicmp "golang.org/x/net/icmp"
	xipv4 "golang.org/x/net/ipv4"

	"github.com/packetlens/netview/pkg/checksum"
	"github.com/packetlens/netview/pkg/common"
	"github.com/packetlens/netview/pkg/iface"
	"github.com/packetlens/netview/pkg/packet"
	"github.com/packetlens/netview/pkg/parse"
)

var (
	linkFlag    = flag.String("link", "ethernet", "link layer of the input frame: ethernet, ipv4, ipv6, arp")
	genFlag     = flag.String("gen", "", "synthesize a frame instead of reading stdin: icmp-echo, arp")
	ifaceFlag   = flag.String("i", "", "network interface to resolve MAC/MTU from for synthesized frames")
	dstFlag     = flag.String("dst", "127.0.0.1", "destination IPv4 address for -gen icmp-echo")
	verboseFlag = flag.Bool("v", false, "verbose field output")
	colorFlag   = flag.Bool("color", false, "ANSI-colored layer labels")
)

func main() {
	flag.Parse()

	var frame []byte
	var linkType = parseLinkLayerType(*linkFlag)

	switch *genFlag {
	case "":
		data, err := readHexStdin()
		if err != nil {
			log.Fatalf("reading frame from stdin: %v", err)
		}
		frame = data
	case "icmp-echo":
		data, err := genICMPEcho(*dstFlag)
		if err != nil {
			log.Fatalf("synthesizing icmp-echo: %v", err)
		}
		frame = data
		linkType = parse.LinkLayerIPv4
	case "arp":
		data, err := genARPRequest(*ifaceFlag)
		if err != nil {
			log.Fatalf("synthesizing arp: %v", err)
		}
		frame = data
		linkType = parse.LinkLayerARP
	default:
		log.Fatalf("unknown -gen mode %q", *genFlag)
	}

	p, err := parse.Parse(linkType, frame)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}
	fmt.Println(packet.Format(p, *verboseFlag, *colorFlag))
}

func parseLinkLayerType(s string) parse.LinkLayerType {
	switch strings.ToLower(s) {
	case "ethernet":
		return parse.LinkLayerEthernet
	case "ipv4":
		return parse.LinkLayerIPv4
	case "ipv6":
		return parse.LinkLayerIPv6
	case "arp":
		return parse.LinkLayerARP
	default:
		log.Fatalf("unknown -link value %q", s)
		return parse.LinkLayerEthernet
	}
}

// readHexStdin reads one line of hex-encoded bytes (whitespace tolerated).
func readHexStdin() ([]byte, error) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no input")
	}
	clean := strings.ReplaceAll(strings.TrimSpace(scanner.Text()), " ", "")
	return hex.DecodeString(clean)
}

// genICMPEcho builds an IPv4 packet carrying an ICMP Echo Request, using
// golang.org/x/net/icmp as an independent reference implementation for the
// ICMP message rather than hand-rolling it a second time here.
func genICMPEcho(dst string) ([]byte, error) {
	dstIP := net.ParseIP(dst).To4()
	if dstIP == nil {
		return nil, fmt.Errorf("invalid IPv4 destination %q", dst)
	}

	msg := &xicmp.Message{
		Type: xipv4.ICMPTypeEcho,
		Code: 0,
		Body: &xicmp.Echo{ID: os.Getpid() & 0xffff, Seq: 1, Data: []byte("netdump")},
	}
	icmpBuf, err := msg.Marshal(nil)
	if err != nil {
		return nil, err
	}

	hdr := make([]byte, 20)
	hdr[0] = (4 << 4) | 5
	binary.BigEndian.PutUint16(hdr[2:4], uint16(len(hdr)+len(icmpBuf)))
	hdr[8] = 64
	hdr[9] = uint8(common.ProtocolICMP)
	copy(hdr[12:16], []byte{127, 0, 0, 1})
	copy(hdr[16:20], dstIP)
	sum := checksum.Sum(nil, hdr)
	binary.BigEndian.PutUint16(hdr[10:12], sum)

	return append(hdr, icmpBuf...), nil
}

// genARPRequest builds an ARP request. If ifaceName resolves, the sender
// hardware address is that interface's real MAC; otherwise it is all zero.
func genARPRequest(ifaceName string) ([]byte, error) {
	var senderMAC common.MACAddress
	if ifaceName != "" {
		info, err := iface.Lookup(ifaceName)
		if err != nil {
			return nil, err
		}
		senderMAC = info.HardwareAddr
	}

	buf := make([]byte, 28)
	binary.BigEndian.PutUint16(buf[0:2], 1)      // hardware type: Ethernet
	binary.BigEndian.PutUint16(buf[2:4], 0x0800) // protocol type: IPv4
	buf[4] = 6
	buf[5] = 4
	binary.BigEndian.PutUint16(buf[6:8], 1) // operation: request
	copy(buf[8:14], senderMAC[:])
	copy(buf[14:18], []byte{192, 168, 1, 1})
	copy(buf[24:28], []byte{192, 168, 1, 254})
	return buf, nil
}
