package version

import (
	"fmt"
)

// SMPPVersion represents an SMPP protocol version
type SMPPVersion uint8

const (
	// SMPPVersion33 represents SMPP v3.3
	SMPPVersion33 SMPPVersion = 0x33
	// SMPPVersion34 represents SMPP v3.4
	SMPPVersion34 SMPPVersion = 0x34
	// SMPPVersion50 represents SMPP v5.0
	SMPPVersion50 SMPPVersion = 0x50
)

// String returns the string representation of the version
func (v SMPPVersion) String() string {
	switch v {
	case SMPPVersion33:
		return "3.3"
	case SMPPVersion34:
		return "3.4"
	case SMPPVersion50:
		return "5.0"
	default:
		return fmt.Sprintf("unknown (%02x)", uint8(v))
	}
}

// IsSupported checks if the version is supported
func (v SMPPVersion) IsSupported() bool {
	switch v {
	case SMPPVersion33, SMPPVersion34, SMPPVersion50:
		return true
	default:
		return false
	}
}

// SupportsTLVs reports whether the version carries optional parameters.
// v3.3 peers must not be sent TLVs.
func (v SMPPVersion) SupportsTLVs() bool {
	return v >= SMPPVersion34
}

// Negotiate picks the effective version for a session from what the client
// requested and what the SMSC advertised in sc_interface_version. The lower
// of the two wins; an unsupported peer version is an error.
func Negotiate(client, peer SMPPVersion) (SMPPVersion, error) {
	if !peer.IsSupported() {
		return 0, fmt.Errorf("peer advertised unsupported SMPP version %s", peer.String())
	}
	if peer < client {
		return peer, nil
	}
	return client, nil
}
