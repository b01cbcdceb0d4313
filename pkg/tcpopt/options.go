// Package tcpopt parses the variable-length option chain that follows
// the fixed 20-byte TCP header, and supports mutating an option's value
// in place via Segment.ResizeWithShift.
//
// Grounded on the teacher's pkg/tcp option-kind constants (kept verbatim:
// EOL/NOP/MSS/WindowScale/SACKPermitted/SACK/Timestamp/TFO), and on
// gopacket/layers/tcp.go's forward-scan loop and {Kind,Length,Value}
// option shape (see DESIGN.md).
package tcpopt

import (
	"github.com/packetlens/netview/pkg/byteseg"
	"github.com/packetlens/netview/pkg/perr"
)

// Kind identifies a TCP option per RFC 793 and its extensions.
type Kind uint8

const (
	KindEOL             Kind = 0  // End of Option List
	KindNOP             Kind = 1  // No Operation
	KindMSS             Kind = 2  // Maximum Segment Size
	KindWindowScale     Kind = 3  // Window Scale, RFC 7323
	KindSACKPermitted   Kind = 4  // SACK Permitted, RFC 2018
	KindSACK            Kind = 5  // SACK, RFC 2018
	KindEcho            Kind = 6  // Echo, RFC 1072 (obsolete)
	KindEchoReply       Kind = 7  // Echo Reply, RFC 1072 (obsolete)
	KindTimestamp       Kind = 8  // Timestamp, RFC 7323
	KindAltChecksumReq  Kind = 14 // Alternate Checksum Request, RFC 1146
	KindAltChecksumData Kind = 15 // Alternate Checksum Data, RFC 1146
	KindMD5Signature    Kind = 19 // MD5 Signature, RFC 2385
	KindUserTimeout     Kind = 28 // User Timeout, RFC 5482
	KindTFO             Kind = 34 // TCP Fast Open, RFC 7413

	// Experimental kinds defined by various RFCs that this package
	// does not interpret; by default they decode as Opaque with
	// Experimental set. ParseStrict rejects them instead.
	KindPOConnectionPermitted Kind = 9
	KindPOServiceProfile      Kind = 10
	KindConnectionCount       Kind = 11
	KindConnectionCountNew    Kind = 12
	KindConnectionCountEcho   Kind = 13
	KindQuickStartResponse    Kind = 27
)

func (k Kind) String() string {
	switch k {
	case KindEOL:
		return "EOL"
	case KindNOP:
		return "NOP"
	case KindMSS:
		return "MSS"
	case KindWindowScale:
		return "WindowScale"
	case KindSACKPermitted:
		return "SACKPermitted"
	case KindSACK:
		return "SACK"
	case KindEcho:
		return "Echo"
	case KindEchoReply:
		return "EchoReply"
	case KindTimestamp:
		return "Timestamp"
	case KindAltChecksumReq:
		return "AltChecksumRequest"
	case KindAltChecksumData:
		return "AltChecksumData"
	case KindMD5Signature:
		return "MD5Signature"
	case KindUserTimeout:
		return "UserTimeout"
	case KindTFO:
		return "TFO"
	case KindPOConnectionPermitted:
		return "POConnectionPermitted"
	case KindPOServiceProfile:
		return "POServiceProfile"
	case KindConnectionCount:
		return "ConnectionCount"
	case KindConnectionCountNew:
		return "ConnectionCountNew"
	case KindConnectionCountEcho:
		return "ConnectionCountEcho"
	case KindQuickStartResponse:
		return "QuickStartResponse"
	default:
		return "Unknown"
	}
}

func isExperimental(k Kind) bool {
	switch k {
	case KindPOConnectionPermitted, KindPOServiceProfile, KindConnectionCount,
		KindConnectionCountNew, KindConnectionCountEcho, KindQuickStartResponse:
		return true
	default:
		return false
	}
}

// Option is one entry in the option chain. EOL and NOP have no Value
// (implicit 1-byte length, Start/Length describe the single kind byte).
// Every other kind carries Value = the bytes after the {kind,length}
// pair, i.e. length-2 bytes.
type Option struct {
	Kind Kind
	// Start is this option's offset within the options window, used by
	// SetValue to locate it for a resize.
	Start int
	// Length is the on-wire length byte (2 + len(Value)), or 1 for EOL/NOP.
	Length int
	// Value is empty for EOL/NOP.
	Value []byte
	// Experimental is true when Kind is one this package does not
	// interpret, parsed opaquely unless ParseStrict rejected it first.
	Experimental bool
}

// Parse scans the options window start to finish, stopping at EOL or at
// the end of the window, whichever comes first. Unknown kinds are
// returned as Opaque options (Experimental left false unless the kind is
// one of the recognized experimental ones), never as an error: an
// unrecognized kind is not malformed, only uninterpreted.
func Parse(opts byteseg.Segment) ([]Option, error) {
	return parse(opts, false)
}

// ParseStrict behaves like Parse but raises
// perr.UnsupportedExperimental for any experimental kind, instead of
// decoding it opaquely. Used by callers that want to reject segments
// using options this package does not fully understand.
func ParseStrict(opts byteseg.Segment) ([]Option, error) {
	return parse(opts, true)
}

func parse(opts byteseg.Segment, strict bool) ([]Option, error) {
	var result []Option
	i := 0
	for i < opts.Len() {
		kindByte, err := opts.ReadU8("TCPOptions", i)
		if err != nil {
			return nil, err
		}
		kind := Kind(kindByte)

		if kind == KindEOL {
			result = append(result, Option{Kind: KindEOL, Start: i, Length: 1})
			break
		}
		if kind == KindNOP {
			result = append(result, Option{Kind: KindNOP, Start: i, Length: 1})
			i++
			continue
		}

		length, err := opts.ReadU8("TCPOptions", i+1)
		if err != nil {
			return nil, err
		}
		if length < 2 {
			return nil, &perr.Malformed{Layer: "TCPOptions", Detail: "option length field below minimum of 2"}
		}

		value, err := opts.ReadBytes("TCPOptions", i+2, int(length)-2)
		if err != nil {
			return nil, err
		}

		experimental := isExperimental(kind)
		if experimental && strict {
			return nil, &perr.UnsupportedExperimental{Feature: kind.String()}
		}

		result = append(result, Option{
			Kind:         kind,
			Start:        i,
			Length:       int(length),
			Value:        value,
			Experimental: experimental,
		})
		i += int(length)
	}
	return result, nil
}

// SetValue resizes opt (as returned by Parse over opts) to hold newValue,
// using Segment.ResizeWithShift, then rewrites the {kind,length} pair and
// the new value bytes. It returns the new options window (the underlying
// buffer is reallocated by ResizeWithShift so the caller must rebind any
// other segment sharing that buffer, e.g. via
// packet.PacketOrPayload.Refresh).
//
// SetValue cannot be used on EOL or NOP (they carry no value).
func SetValue(opts byteseg.Segment, opt Option, newValue []byte) (byteseg.Segment, error) {
	if opt.Kind == KindEOL || opt.Kind == KindNOP {
		return byteseg.Segment{}, &perr.Malformed{Layer: "TCPOptions", Detail: "EOL/NOP carry no value to set"}
	}
	newLength := len(newValue) + 2
	if err := opts.ResizeWithShift("TCPOptions", opt.Start, opt.Length, newLength); err != nil {
		return byteseg.Segment{}, err
	}
	if err := opts.WriteU8("TCPOptions", opt.Start, uint8(opt.Kind)); err != nil {
		return byteseg.Segment{}, err
	}
	if err := opts.WriteU8("TCPOptions", opt.Start+1, uint8(newLength)); err != nil {
		return byteseg.Segment{}, err
	}
	if err := opts.WriteBytes("TCPOptions", opt.Start+2, newValue); err != nil {
		return byteseg.Segment{}, err
	}
	return opts, nil
}
