// Package checksum implements the Internet 16-bit one's-complement
// checksum (RFC 1071) used by IPv4, ICMP, UDP, and TCP, including the
// pseudo-header priming that TCP/UDP/ICMPv6 checksums require.
//
// Grounded on the teacher's pkg/common/checksum.go, generalized to
// support IPv6 pseudo-headers and a caller-selected zero/0xFFFF
// result policy (UDP maps an all-zero result to 0xFFFF; TCP and ICMP
// return it as-is).
package checksum

import "encoding/binary"

// Sum computes the Internet checksum of data, optionally primed with a
// pseudo-header that is logically prepended before summing (it is never
// written into data itself). On an odd final byte, the sum is padded
// with a zero byte per RFC 1071 §4.1.
func Sum(pseudoHeader, data []byte) uint16 {
	var acc uint32
	acc += sumBytes(pseudoHeader)
	acc += sumBytes(data)
	return fold(acc)
}

func sumBytes(b []byte) uint32 {
	var acc uint32
	n := len(b)
	for i := 0; i+1 < n; i += 2 {
		acc += uint32(binary.BigEndian.Uint16(b[i : i+2]))
	}
	if n%2 == 1 {
		acc += uint32(b[n-1]) << 8
	}
	return acc
}

// fold repeatedly folds carry bits into the low 16 bits and returns the
// one's complement of the result.
func fold(acc uint32) uint16 {
	for acc > 0xFFFF {
		acc = (acc & 0xFFFF) + (acc >> 16)
	}
	return ^uint16(acc)
}

// ZeroAsAllOnes maps a checksum result of 0x0000 to 0xFFFF, which RFC 768
// requires for UDP (where 0x0000 on the wire means "no checksum"). TCP and
// ICMP leave a zero result as zero.
func ZeroAsAllOnes(sum uint16) uint16 {
	if sum == 0 {
		return 0xFFFF
	}
	return sum
}

// Valid reports whether the checksum field embedded in data already
// folds to a valid result: the field is NOT zeroed before summing, so a
// correctly-checksummed buffer's word-sum folds to the one's-complement
// identity, which fold's final ^ turns into 0x0000 — except when the
// pre-complement sum is exactly 0xFFFF, the ^ turns that into 0x0000 as
// well, so either 0x0000 or 0xFFFF out of fold is a valid result; they
// are the same value ("negative zero") under one's-complement, not a
// protocol-specific choice. A checksum field that is itself all-zero
// (RFC 768's "no checksum" sentinel for UDP) is a separate concern for
// the caller to special-case before calling Valid, not this function's.
func Valid(pseudoHeader, data []byte) bool {
	sum := Sum(pseudoHeader, data)
	return sum == 0 || sum == 0xFFFF
}

// IPv4PseudoHeader builds the 12-byte TCP/UDP-over-IPv4 pseudo-header:
// {src, dst, zero, protocol, upper-layer length}.
func IPv4PseudoHeader(src, dst [4]byte, protocol uint8, upperLayerLength uint16) []byte {
	b := make([]byte, 12)
	copy(b[0:4], src[:])
	copy(b[4:8], dst[:])
	b[8] = 0
	b[9] = protocol
	binary.BigEndian.PutUint16(b[10:12], upperLayerLength)
	return b
}

// IPv6PseudoHeader builds the 40-byte TCP/UDP/ICMPv6-over-IPv6
// pseudo-header: {src, dst, upper-layer length (32-bit), zeros(3), next
// header}, per RFC 8200 §8.1.
func IPv6PseudoHeader(src, dst [16]byte, nextHeader uint8, upperLayerLength uint32) []byte {
	b := make([]byte, 40)
	copy(b[0:16], src[:])
	copy(b[16:32], dst[:])
	binary.BigEndian.PutUint32(b[32:36], upperLayerLength)
	b[36], b[37], b[38] = 0, 0, 0
	b[39] = nextHeader
	return b
}
