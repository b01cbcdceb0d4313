// Package perr defines the error taxonomy shared by every layer parser:
// Truncated, ValueOutOfRange, Malformed, and UnsupportedExperimental.
// Readers of already-parsed fields never fail, with one exception: the
// type-specific accessors of pkg/icmpv6 (Identifier, SequenceNumber, ...)
// return Malformed when the message type does not carry that field.
// Otherwise these are only returned from constructors and setters (see
// each layer package's Decode/Parse/Set*).
package perr

import "fmt"

// Truncated means a header or length-prefixed field extends past the
// segment that is supposed to contain it.
type Truncated struct {
	Layer string // protocol layer name, e.g. "IPv4"
	Need  int    // bytes required
	Have  int    // bytes available
}

func (e *Truncated) Error() string {
	return fmt.Sprintf("%s: truncated: need %d bytes, have %d", e.Layer, e.Need, e.Have)
}

// ValueOutOfRange means a setter rejected a value against a protocol
// maximum (e.g. an LLDP OID longer than 128 bytes).
type ValueOutOfRange struct {
	Field string
	Max   int
	Got   int
}

func (e *ValueOutOfRange) Error() string {
	return fmt.Sprintf("%s: value out of range: max %d, got %d", e.Field, e.Max, e.Got)
}

// Malformed means a structural inconsistency was detected without needing
// full semantic knowledge of the layer (e.g. IPv4 IHL < 5).
type Malformed struct {
	Layer  string
	Detail string
}

func (e *Malformed) Error() string {
	return fmt.Sprintf("%s: malformed: %s", e.Layer, e.Detail)
}

// UnsupportedExperimental is raised only when a caller opts into strict
// mode for an option/TLV kind the default path would otherwise accept as
// opaque.
type UnsupportedExperimental struct {
	Feature string
}

func (e *UnsupportedExperimental) Error() string {
	return fmt.Sprintf("unsupported experimental feature: %s", e.Feature)
}
