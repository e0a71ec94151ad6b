package smpp

import (
	"bytes"
	"errors"
	"testing"
)

func newTestClient(t *testing.T) (*Client, *mockTransport) {
	t.Helper()
	transport := &mockTransport{}
	client := NewClient(testConfig(), ClientDependencies{})
	client.SetTransport(transport)
	return client, transport
}

func bindTestClient(t *testing.T, bind func(*Client) error, respCommand uint32) (*Client, *mockTransport) {
	t.Helper()
	client, transport := newTestClient(t)
	transport.Open()
	transport.queue(t, NewPDU(&BindResponse{Command: respCommand, SystemID: "SMSC"}, StatusOK, 1))
	if err := bind(client); err != nil {
		t.Fatal(err)
	}
	transport.out.Reset()
	return client, transport
}

func TestClientSendSMS(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransmitter, CommandBindTransmitterResp)
	transport.queue(t, NewPDU(&SubmitSMResp{MessageID: "msg123"}, StatusOK, 2))

	source := Address{TON: TONInternational, NPI: NPIISDN, Addr: "1234"}
	dest := Address{TON: TONInternational, NPI: NPIISDN, Addr: "5678"}

	id, err := client.SendSMS(source, dest, "Hello World", nil)
	if err != nil {
		t.Fatal(err)
	}
	if id != "msg123" {
		t.Errorf("message id = %q", id)
	}

	writes := transport.written(t)
	if len(writes) != 1 {
		t.Fatalf("wrote %d PDUs", len(writes))
	}
	sm := writes[0].Body.(*SubmitSM)
	if string(sm.ShortMessage) != "Hello World" {
		t.Errorf("short message = %q", sm.ShortMessage)
	}
	if sm.SourceAddr != "1234" || sm.DestAddr != "5678" {
		t.Errorf("addresses = %q -> %q", sm.SourceAddr, sm.DestAddr)
	}
	if sm.DataCoding != DataCodingDefault {
		t.Errorf("data coding = 0x%02X", sm.DataCoding)
	}
}

func TestClientSendSMSMultipart(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransceiver, CommandBindTransceiverResp)
	transport.queue(t, NewPDU(&SubmitSMResp{MessageID: "msg001"}, StatusOK, 2))
	transport.queue(t, NewPDU(&SubmitSMResp{MessageID: "msg002"}, StatusOK, 3))

	source := Address{TON: TONInternational, NPI: NPIISDN, Addr: "1234"}
	dest := Address{TON: TONInternational, NPI: NPIISDN, Addr: "5678"}
	message := string(bytes.Repeat([]byte{'A'}, 200))

	id, err := client.SendSMS(source, dest, message, nil)
	if err != nil {
		t.Fatal(err)
	}
	if id != "msg001" {
		t.Errorf("message id = %q, want first segment's", id)
	}

	writes := transport.written(t)
	if len(writes) != 2 {
		t.Fatalf("wrote %d PDUs", len(writes))
	}
	for i, pdu := range writes {
		sm := pdu.Body.(*SubmitSM)
		if total, _ := mustParam(t, sm.OptionalParams, TagSarTotalSegments).U8(); total != 2 {
			t.Errorf("segment %d total = %d", i, total)
		}
		if seq, _ := mustParam(t, sm.OptionalParams, TagSarSegmentSeqnum).U8(); seq != uint8(i+1) {
			t.Errorf("segment %d seqnum = %d", i, seq)
		}
		mustParam(t, sm.OptionalParams, TagSarMsgRefNum)
	}
	if n := len(writes[0].Body.(*SubmitSM).ShortMessage); n != 153 {
		t.Errorf("first segment = %d octets", n)
	}
	if n := len(writes[1].Body.(*SubmitSM).ShortMessage); n != 47 {
		t.Errorf("second segment = %d octets", n)
	}
	// Sequence numbers on the wire are strictly increasing.
	if writes[0].Header.SequenceNum >= writes[1].Header.SequenceNum {
		t.Errorf("sequences = %d, %d", writes[0].Header.SequenceNum, writes[1].Header.SequenceNum)
	}
}

func TestClientSendSMSUnsupportedSplit(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransmitter, CommandBindTransmitterResp)

	source := Address{TON: TONInternational, NPI: NPIISDN, Addr: "1234"}
	dest := Address{TON: TONInternational, NPI: NPIISDN, Addr: "5678"}
	message := string(bytes.Repeat([]byte{'A'}, 200))

	_, err := client.SendSMS(source, dest, message, &SendOptions{DataCoding: DataCodingBinary})
	if !errors.Is(err, ErrUnsupportedCodingForSplit) {
		t.Fatalf("error = %v", err)
	}
	if len(transport.out.Bytes()) != 0 {
		t.Error("rejected segmentation still wrote to the wire")
	}
}

func TestClientSendSMSUCS2(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransmitter, CommandBindTransmitterResp)
	transport.queue(t, NewPDU(&SubmitSMResp{MessageID: "u1"}, StatusOK, 2))

	source := Address{TON: TONAlphanumeric, NPI: NPIUnknown, Addr: "INFO"}
	dest := Address{TON: TONInternational, NPI: NPIISDN, Addr: "5678"}

	if _, err := client.SendSMS(source, dest, "héllo", &SendOptions{DataCoding: DataCodingUCS2}); err != nil {
		t.Fatal(err)
	}

	sm := transport.written(t)[0].Body.(*SubmitSM)
	want := []byte{0x00, 'h', 0x00, 0xE9, 0x00, 'l', 0x00, 'l', 0x00, 'o'}
	if !bytes.Equal(sm.ShortMessage, want) {
		t.Errorf("short message = % X, want % X", sm.ShortMessage, want)
	}
	if sm.DataCoding != DataCodingUCS2 {
		t.Errorf("data coding = 0x%02X", sm.DataCoding)
	}
}

func TestClientSendSMSInvalidAddress(t *testing.T) {
	client, _ := bindTestClient(t, (*Client).BindTransmitter, CommandBindTransmitterResp)

	source := Address{TON: TONAlphanumeric, Addr: "WAYTOOLONGSENDER"}
	dest := Address{TON: TONInternational, Addr: "5678"}
	if _, err := client.SendSMS(source, dest, "x", nil); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("error = %v", err)
	}
}

func TestClientReadSMS(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindReceiver, CommandBindReceiverResp)
	transport.queue(t, NewPDU(&DeliverSM{
		SourceAddr:   "491711234567",
		DestAddr:     "12345",
		ShortMessage: []byte("inbound text"),
	}, StatusOK, 8))

	sms, err := client.ReadSMS()
	if err != nil {
		t.Fatal(err)
	}
	if sms == nil || sms.IsReceipt() {
		t.Fatalf("sms = %+v", sms)
	}
	if string(sms.Payload()) != "inbound text" {
		t.Errorf("payload = %q", sms.Payload())
	}

	// Nothing else queued: quiet wire reads as no message.
	sms, err = client.ReadSMS()
	if err != nil || sms != nil {
		t.Fatalf("quiet wire: %v, %v", sms, err)
	}
}

func TestClientReadSMSReceipt(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransceiver, CommandBindTransceiverResp)
	transport.queue(t, NewPDU(&DeliverSM{
		SourceAddr:   "12345",
		DestAddr:     "1234",
		EsmClass:     EsmClassDeliveryReceipt,
		ShortMessage: []byte("id:msg123 sub:001 dlvrd:001 submit date:2601221200 done date:2601221201 stat:DELIVRD err:000 text:Test"),
	}, StatusOK, 8))

	sms, err := client.ReadSMS()
	if err != nil {
		t.Fatal(err)
	}
	if !sms.IsReceipt() {
		t.Fatal("receipt not detected")
	}
	if sms.Receipt.MessageID != "msg123" || sms.Receipt.Stat != ReceiptStatDelivered {
		t.Errorf("receipt = %+v", sms.Receipt)
	}
}

func TestClientReadSMSRequiresReceiver(t *testing.T) {
	client, _ := bindTestClient(t, (*Client).BindTransmitter, CommandBindTransmitterResp)
	if _, err := client.ReadSMS(); !errors.Is(err, ErrNotBound) {
		t.Fatalf("error = %v", err)
	}
}

func TestClientQueryStatus(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransmitter, CommandBindTransmitterResp)
	transport.queue(t, NewPDU(&QuerySMResp{
		MessageID:    "msg123",
		FinalDate:    "260124120000000+",
		MessageState: MessageStateDelivered,
	}, StatusOK, 2))

	source := Address{TON: TONInternational, NPI: NPIISDN, Addr: "1234"}
	result, err := client.QueryStatus("msg123", source)
	if err != nil {
		t.Fatal(err)
	}
	if result == nil || result.MessageState != MessageStateDelivered || result.MessageID != "msg123" {
		t.Fatalf("result = %+v", result)
	}

	query := transport.written(t)[0].Body.(*QuerySM)
	if query.MessageID != "msg123" || query.SourceAddr != "1234" {
		t.Errorf("query body = %+v", query)
	}
}

func TestClientQueryStatusRejected(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransmitter, CommandBindTransmitterResp)
	transport.queue(t, NewPDU(&QuerySMResp{}, StatusQueryFail, 2))

	result, err := client.QueryStatus("nope", Address{Addr: "1234"})
	if err != nil || result != nil {
		t.Fatalf("rejected query: %+v, %v", result, err)
	}
}

func TestClientEnquireLink(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransceiver, CommandBindTransceiverResp)
	transport.queue(t, NewPDU(&EnquireLinkResp{}, StatusOK, 2))

	resp, err := client.EnquireLink()
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.CommandID != CommandEnquireLinkResp {
		t.Errorf("response = 0x%08X", resp.Header.CommandID)
	}
}

func TestClientBindFailureClosesTransport(t *testing.T) {
	client, transport := newTestClient(t)
	transport.queue(t, NewPDU(&BindResponse{Command: CommandBindTransceiverResp}, StatusBindFail, 1))

	err := client.BindTransceiver()
	var bindErr *BindFailedError
	if !errors.As(err, &bindErr) {
		t.Fatalf("error = %v", err)
	}
	if !transport.closed {
		t.Error("transport left open")
	}
	if client.IsBound() {
		t.Error("client reports bound after failed bind")
	}
}

func TestClientCloseNeverFails(t *testing.T) {
	client, transport := bindTestClient(t, (*Client).BindTransceiver, CommandBindTransceiverResp)
	transport.queue(t, NewPDU(&UnbindResp{}, StatusOK, 2))

	client.Close()
	if client.IsBound() {
		t.Error("client still bound after close")
	}
	// Closing again is harmless.
	client.Close()

	// Closing a never-bound client is a no-op.
	fresh, _ := newTestClient(t)
	fresh.Close()
}

func TestClientOperationsBeforeBind(t *testing.T) {
	client, _ := newTestClient(t)
	if _, err := client.SendSMS(Address{Addr: "1"}, Address{Addr: "2"}, "x", nil); !errors.Is(err, ErrNotBound) {
		t.Errorf("SendSMS error = %v", err)
	}
	if _, err := client.ReadSMS(); !errors.Is(err, ErrNotBound) {
		t.Errorf("ReadSMS error = %v", err)
	}
	if _, err := client.QueryStatus("x", Address{}); !errors.Is(err, ErrNotBound) {
		t.Errorf("QueryStatus error = %v", err)
	}
	if _, err := client.EnquireLink(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("EnquireLink error = %v", err)
	}
}
