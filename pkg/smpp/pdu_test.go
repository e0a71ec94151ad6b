package smpp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHeader(t *testing.T) {
	input := []byte{
		0x00, 0x00, 0x00, 0x10,
		0x80, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01,
	}

	header, err := ParseHeader(input)
	if err != nil {
		t.Fatal(err)
	}
	want := PDUHeader{
		CommandLength: 16,
		CommandID:     CommandBindReceiverResp,
		CommandStatus: StatusOK,
		SequenceNum:   1,
	}
	if diff := cmp.Diff(want, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if !header.IsResponse() {
		t.Error("response bit not detected")
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 15)); !errors.Is(err, ErrHeaderTooShort) {
		t.Fatalf("expected header too short, got %v", err)
	}
}

func TestParseHeaderIgnoresTrailingBytes(t *testing.T) {
	input := make([]byte, 64)
	binary.BigEndian.PutUint32(input[0:4], 20)
	binary.BigEndian.PutUint32(input[4:8], CommandSubmitSM)
	binary.BigEndian.PutUint32(input[12:16], 99)

	header, err := ParseHeader(input)
	if err != nil {
		t.Fatal(err)
	}
	if header.CommandLength != 20 || header.SequenceNum != 99 {
		t.Errorf("header = %+v", header)
	}
}

func TestValidateLength(t *testing.T) {
	for _, bad := range []uint32{0, 15, MaxPDULength + 1} {
		if err := ValidateLength(bad); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("ValidateLength(%d) = %v", bad, err)
		}
	}
	for _, good := range []uint32{16, 1024, MaxPDULength} {
		if err := ValidateLength(good); err != nil {
			t.Errorf("ValidateLength(%d) = %v", good, err)
		}
	}
}

// roundTrip encodes pdu, decodes the bytes, re-encodes and checks both
// serializations are identical.
func roundTrip(t *testing.T, pdu *PDU) {
	t.Helper()
	encoder := NewPDUEncoder()
	decoder := NewPDUDecoder()

	first, err := encoder.Encode(pdu)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := decoder.Decode(first)
	if err != nil {
		t.Fatal(err)
	}
	second, err := encoder.Encode(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip mismatch:\n first: %x\nsecond: %x", first, second)
	}
	if got := binary.BigEndian.Uint32(first[0:4]); got != uint32(len(first)) {
		t.Errorf("command_length %d != frame size %d", got, len(first))
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		pdu  *PDU
	}{
		{
			name: "bind transceiver",
			pdu: NewPDU(&BindRequest{
				Command:          CommandBindTransceiver,
				SystemID:         "smppclient",
				Password:         "secret",
				SystemType:       "VMS",
				InterfaceVersion: SMPPVersion,
				AddrTON:          TONInternational,
				AddrNPI:          NPIISDN,
				AddressRange:     "^4917",
			}, StatusOK, 1),
		},
		{
			name: "bind response with version tlv",
			pdu: NewPDU(&BindResponse{
				Command:        CommandBindTransceiverResp,
				SystemID:       "SMSC",
				OptionalParams: []OptionalParameter{NewU8Param(TagSCInterfaceVersion, 0x34)},
			}, StatusOK, 1),
		},
		{
			name: "submit with sar tlvs",
			pdu: NewPDU(&SubmitSM{
				SourceAddrTON: TONInternational,
				SourceAddrNPI: NPIISDN,
				SourceAddr:    "1234",
				DestAddrTON:   TONInternational,
				DestAddrNPI:   NPIISDN,
				DestAddr:      "5678",
				DataCoding:    DataCodingDefault,
				ShortMessage:  []byte("Hello World"),
				OptionalParams: []OptionalParameter{
					NewU16Param(TagSarMsgRefNum, 42),
					NewU8Param(TagSarTotalSegments, 2),
					NewU8Param(TagSarSegmentSeqnum, 1),
				},
			}, StatusOK, 7),
		},
		{
			name: "deliver receipt",
			pdu: NewPDU(&DeliverSM{
				SourceAddr:   "491711234567",
				DestAddr:     "12345",
				EsmClass:     EsmClassDeliveryReceipt,
				ShortMessage: []byte("id:1 sub:001 dlvrd:001 stat:DELIVRD err:000 text:x"),
			}, StatusOK, 3),
		},
		{
			name: "query",
			pdu: NewPDU(&QuerySM{
				MessageID:     "msg123",
				SourceAddrTON: TONInternational,
				SourceAddrNPI: NPIISDN,
				SourceAddr:    "1234",
			}, StatusOK, 9),
		},
		{
			name: "query response",
			pdu: NewPDU(&QuerySMResp{
				MessageID:    "msg123",
				FinalDate:    "260124120000000+",
				MessageState: MessageStateDelivered,
			}, StatusOK, 9),
		},
		{name: "enquire link", pdu: NewPDU(&EnquireLink{}, StatusOK, 11)},
		{name: "unbind", pdu: NewPDU(&Unbind{}, StatusOK, 12)},
		{name: "generic nack", pdu: NewPDU(&GenericNack{}, StatusInvCmdID, 13)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			roundTrip(t, c.pdu)
		})
	}
}

func TestDecodeUnknownCommand(t *testing.T) {
	frame := make([]byte, 20)
	binary.BigEndian.PutUint32(frame[0:4], 20)
	binary.BigEndian.PutUint32(frame[4:8], 0x00000111)
	binary.BigEndian.PutUint32(frame[12:16], 5)

	pdu, err := NewPDUDecoder().Decode(frame)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected unknown command, got %v", err)
	}
	if pdu == nil || pdu.Header.SequenceNum != 5 {
		t.Fatalf("pdu = %+v", pdu)
	}
	if _, ok := pdu.Body.(*RawBody); !ok {
		t.Fatalf("body = %T", pdu.Body)
	}
}

func TestDecodeTruncatedBody(t *testing.T) {
	sm := NewPDU(&SubmitSM{SourceAddr: "1", DestAddr: "2", ShortMessage: []byte("hi")}, StatusOK, 1)
	frame, err := NewPDUEncoder().Encode(sm)
	if err != nil {
		t.Fatal(err)
	}
	// Lie about the length so the body walk runs past the end.
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(frame)-4))
	if _, err := NewPDUDecoder().Decode(frame[:len(frame)-4]); !errors.Is(err, ErrTruncatedBody) {
		t.Fatalf("expected truncated body, got %v", err)
	}
}

func TestAddressValidate(t *testing.T) {
	cases := []struct {
		name string
		addr Address
		ok   bool
	}{
		{name: "phone", addr: Address{TON: TONInternational, NPI: NPIISDN, Addr: "491711234567"}, ok: true},
		{name: "phone at limit", addr: Address{TON: TONInternational, Addr: "12345678901234567890"}, ok: true},
		{name: "phone too long", addr: Address{TON: TONInternational, Addr: "123456789012345678901"}},
		{name: "alphanumeric", addr: Address{TON: TONAlphanumeric, Addr: "INFOSERVICE"}, ok: true},
		{name: "alphanumeric too long", addr: Address{TON: TONAlphanumeric, Addr: "INFOSERVICES"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.addr.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("error = %v, want invalid address", err)
			}
		})
	}
}

func TestBindResponseEmptyBody(t *testing.T) {
	resp := &BindResponse{}
	if err := resp.Unmarshal(nil); err != nil {
		t.Fatal(err)
	}
	if resp.SystemID != "" {
		t.Errorf("system id = %q", resp.SystemID)
	}
}
