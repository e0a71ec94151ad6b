package smpp

import (
	"errors"
	"fmt"
)

// Stream and framing errors. A framing error on an inbound PDU leaves the
// byte stream unsynchronized, so the session treats it as fatal.
var (
	ErrShortRead         = errors.New("smpp: short read")
	ErrMissingTerminator = errors.New("smpp: c-octet string missing null terminator")
	ErrHeaderTooShort    = errors.New("smpp: pdu header too short")
	ErrTruncatedBody     = errors.New("smpp: truncated pdu body")
	ErrInvalidLength     = errors.New("smpp: invalid command length")
	ErrUnknownCommand    = errors.New("smpp: unknown command id")
)

// Transport and session errors.
var (
	ErrTimeout           = errors.New("smpp: read timed out")
	ErrTransportClosed   = errors.New("smpp: transport closed")
	ErrNotConnected      = errors.New("smpp: not connected")
	ErrNotBound          = errors.New("smpp: session not bound")
	ErrAlreadyBound      = errors.New("smpp: session already bound")
	ErrProtocolViolation = errors.New("smpp: protocol violation")
)

// Validation and segmentation errors.
var (
	ErrInvalidAddress            = errors.New("smpp: invalid address")
	ErrUnsupportedCodingForSplit = errors.New("smpp: data coding cannot be split")
	ErrTooManySegments           = errors.New("smpp: message exceeds maximum segment count")
)

// BindFailedError reports a bind rejected by the SMSC. The session transport
// is closed before this error is returned.
type BindFailedError struct {
	Status uint32
}

func (e *BindFailedError) Error() string {
	return fmt.Sprintf("smpp: bind failed with status 0x%08X", e.Status)
}

// SubmitFailedError reports a submit_sm rejected by the SMSC. The session
// stays bound; the failure is scoped to the one request.
type SubmitFailedError struct {
	Status uint32
}

func (e *SubmitFailedError) Error() string {
	return fmt.Sprintf("smpp: submit failed with status 0x%08X", e.Status)
}

// QueryFailedError reports a query_sm rejected by the SMSC.
type QueryFailedError struct {
	Status uint32
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("smpp: query failed with status 0x%08X", e.Status)
}

// IsTimeout reports whether err is the retryable read timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
