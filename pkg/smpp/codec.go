package smpp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// PDUEncoder handles encoding of PDUs to binary format
type PDUEncoder struct{}

// NewPDUEncoder creates a new PDU encoder
func NewPDUEncoder() *PDUEncoder {
	return &PDUEncoder{}
}

// Encode serializes a complete PDU, header first. CommandLength and
// CommandID are derived from the body so the emitted frame always satisfies
// command_length == 16 + len(body).
func (e *PDUEncoder) Encode(pdu *PDU) ([]byte, error) {
	bodyData, err := pdu.Body.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PDU body: %w", err)
	}

	pdu.Header.CommandLength = uint32(16 + len(bodyData))
	pdu.Header.CommandID = pdu.Body.CommandID()

	buf := new(bytes.Buffer)
	buf.Grow(int(pdu.Header.CommandLength))
	binary.Write(buf, binary.BigEndian, pdu.Header.CommandLength)
	binary.Write(buf, binary.BigEndian, pdu.Header.CommandID)
	binary.Write(buf, binary.BigEndian, pdu.Header.CommandStatus)
	binary.Write(buf, binary.BigEndian, pdu.Header.SequenceNum)
	buf.Write(bodyData)

	return buf.Bytes(), nil
}

// PDUDecoder handles decoding of PDUs from binary format
type PDUDecoder struct{}

// NewPDUDecoder creates a new PDU decoder
func NewPDUDecoder() *PDUDecoder {
	return &PDUDecoder{}
}

// ParseHeader decodes the 16-byte PDU header from the front of data.
// Trailing bytes are ignored.
func ParseHeader(data []byte) (PDUHeader, error) {
	if len(data) < 16 {
		return PDUHeader{}, fmt.Errorf("got %d bytes: %w", len(data), ErrHeaderTooShort)
	}
	return PDUHeader{
		CommandLength: binary.BigEndian.Uint32(data[0:4]),
		CommandID:     binary.BigEndian.Uint32(data[4:8]),
		CommandStatus: binary.BigEndian.Uint32(data[8:12]),
		SequenceNum:   binary.BigEndian.Uint32(data[12:16]),
	}, nil
}

// ValidateLength checks a decoded command_length against the framing bounds.
func ValidateLength(commandLength uint32) error {
	if commandLength < 16 || commandLength > MaxPDULength {
		return fmt.Errorf("command_length %d: %w", commandLength, ErrInvalidLength)
	}
	return nil
}

// Decode decodes a complete framed PDU. An unknown command ID yields a PDU
// with a RawBody so the caller can still answer with generic_nack.
func (d *PDUDecoder) Decode(data []byte) (*PDU, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateLength(header.CommandLength); err != nil {
		return nil, err
	}
	if uint32(len(data)) < header.CommandLength {
		return nil, fmt.Errorf("expected %d bytes, got %d: %w",
			header.CommandLength, len(data), ErrTruncatedBody)
	}

	bodyData := data[16:header.CommandLength]
	body, known := newBodyForCommand(header.CommandID)
	if err := body.Unmarshal(bodyData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal PDU body: %w: %w", err, ErrTruncatedBody)
	}

	pdu := &PDU{Header: header, Body: body}
	if !known {
		return pdu, fmt.Errorf("command 0x%08X: %w", header.CommandID, ErrUnknownCommand)
	}
	return pdu, nil
}

// newBodyForCommand returns an empty body for the command ID and whether the
// command is part of the recognized set.
func newBodyForCommand(commandID uint32) (PDUBody, bool) {
	switch commandID {
	case CommandBindReceiver, CommandBindTransmitter, CommandBindTransceiver:
		return &BindRequest{Command: commandID}, true
	case CommandBindReceiverResp, CommandBindTransmitterResp, CommandBindTransceiverResp:
		return &BindResponse{Command: commandID}, true
	case CommandSubmitSM:
		return &SubmitSM{}, true
	case CommandSubmitSMResp:
		return &SubmitSMResp{}, true
	case CommandDeliverSM:
		return &DeliverSM{}, true
	case CommandDeliverSMResp:
		return &DeliverSMResp{}, true
	case CommandQuerySM:
		return &QuerySM{}, true
	case CommandQuerySMResp:
		return &QuerySMResp{}, true
	case CommandEnquireLink:
		return &EnquireLink{}, true
	case CommandEnquireLinkResp:
		return &EnquireLinkResp{}, true
	case CommandUnbind:
		return &Unbind{}, true
	case CommandUnbindResp:
		return &UnbindResp{}, true
	case CommandGenericNack:
		return &GenericNack{}, true
	default:
		return &RawBody{Command: commandID}, false
	}
}

// ReadFrame reads one complete framed PDU from the transport: 16 header
// bytes, length validation, then exactly command_length-16 body bytes.
func (d *PDUDecoder) ReadFrame(t Transport) (*PDU, error) {
	headerBuf, err := t.Read(16)
	if err != nil {
		return nil, err
	}
	header, err := ParseHeader(headerBuf)
	if err != nil {
		return nil, err
	}
	if err := ValidateLength(header.CommandLength); err != nil {
		return nil, err
	}

	frame := make([]byte, header.CommandLength)
	copy(frame, headerBuf)
	if bodyLen := int(header.CommandLength) - 16; bodyLen > 0 {
		body, err := t.Read(bodyLen)
		if err != nil {
			// A timeout mid-frame cannot be retried, the stream is no
			// longer aligned on a PDU boundary.
			if IsTimeout(err) {
				return nil, fmt.Errorf("body read timed out: %w", ErrTruncatedBody)
			}
			return nil, err
		}
		copy(frame[16:], body)
	}
	return d.Decode(frame)
}

// NewPDU assembles a PDU around body with the given status and sequence
// number. CommandLength is filled in when the PDU is encoded.
func NewPDU(body PDUBody, status, sequence uint32) *PDU {
	return &PDU{
		Header: PDUHeader{
			CommandID:     body.CommandID(),
			CommandStatus: status,
			SequenceNum:   sequence,
		},
		Body: body,
	}
}
