package smpp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SMS is the parsed form of a deliver_sm body. Receipt is non-nil when the
// esm_class receipt bit was set and the short message text parsed as a
// delivery receipt.
type SMS struct {
	ServiceType          string
	Source               Address
	Dest                 Address
	EsmClass             uint8
	ProtocolID           uint8
	PriorityFlag         uint8
	ScheduleDeliveryTime string
	ValidityPeriod       string
	RegisteredDelivery   uint8
	ReplaceIfPresentFlag uint8
	DataCoding           uint8
	SMDefaultMsgID       uint8
	ShortMessage         []byte
	OptionalParams       []OptionalParameter

	Receipt *DeliveryReceipt
}

// IsReceipt reports whether the message is a delivery receipt.
func (s *SMS) IsReceipt() bool {
	return s.EsmClass&EsmClassDeliveryReceipt != 0
}

// Payload returns the message content: the short_message field, or the
// message_payload parameter when short_message is empty.
func (s *SMS) Payload() []byte {
	if len(s.ShortMessage) > 0 {
		return s.ShortMessage
	}
	if p, ok := FindParam(s.OptionalParams, TagMessagePayload); ok {
		return p.Value
	}
	return s.ShortMessage
}

// DeliveryReceipt carries the fields parsed out of a receipt short message.
// Raw date strings are kept alongside the parsed times; a receipt with an
// unparseable date keeps the raw string and a zero time.
type DeliveryReceipt struct {
	MessageID     string
	Submitted     int
	Delivered     int
	SubmitDate    time.Time
	DoneDate      time.Time
	SubmitDateRaw string
	DoneDateRaw   string
	Stat          string
	Err           string
	Text          string
}

// Delivery receipt states.
const (
	ReceiptStatDelivered     = "DELIVRD"
	ReceiptStatExpired       = "EXPIRED"
	ReceiptStatDeleted       = "DELETED"
	ReceiptStatUndeliverable = "UNDELIV"
	ReceiptStatAccepted      = "ACCEPTD"
	ReceiptStatUnknown       = "UNKNOWN"
	ReceiptStatRejected      = "REJECTD"
)

// ParseSMS interprets a deliver_sm PDU as an SMS, parsing the receipt text
// when the esm_class receipt bit is set.
func ParseSMS(pdu *PDU) (*SMS, error) {
	deliver, ok := pdu.Body.(*DeliverSM)
	if !ok {
		return nil, fmt.Errorf("command 0x%08X is not deliver_sm: %w",
			pdu.Header.CommandID, ErrUnknownCommand)
	}

	sms := &SMS{
		ServiceType:          deliver.ServiceType,
		Source:               Address{TON: deliver.SourceAddrTON, NPI: deliver.SourceAddrNPI, Addr: deliver.SourceAddr},
		Dest:                 Address{TON: deliver.DestAddrTON, NPI: deliver.DestAddrNPI, Addr: deliver.DestAddr},
		EsmClass:             deliver.EsmClass,
		ProtocolID:           deliver.ProtocolID,
		PriorityFlag:         deliver.PriorityFlag,
		ScheduleDeliveryTime: deliver.ScheduleDeliveryTime,
		ValidityPeriod:       deliver.ValidityPeriod,
		RegisteredDelivery:   deliver.RegisteredDelivery,
		ReplaceIfPresentFlag: deliver.ReplaceIfPresentFlag,
		DataCoding:           deliver.DataCoding,
		SMDefaultMsgID:       deliver.SMDefaultMsgID,
		ShortMessage:         deliver.ShortMessage,
		OptionalParams:       deliver.OptionalParams,
	}

	if sms.IsReceipt() {
		sms.Receipt = parseReceiptText(string(sms.Payload()))
		// Some SMSCs put the message id in a TLV instead of the text.
		if sms.Receipt.MessageID == "" {
			if p, ok := FindParam(sms.OptionalParams, TagReceiptedMessageID); ok {
				sms.Receipt.MessageID = strings.TrimRight(string(p.Value), "\x00")
			}
		}
	}

	return sms, nil
}

// receiptKeys is the fixed key list of the receipt text format, in the order
// the fields appear on the wire.
var receiptKeys = []string{"id", "sub", "dlvrd", "submit date", "done date", "stat", "err", "text"}

// parseReceiptText extracts the key/value pairs of a delivery receipt body.
// Matching is positional against receiptKeys rather than free-form, which
// tolerates the whitespace quirks of real SMSCs. Missing keys leave their
// fields zero.
func parseReceiptText(text string) *DeliveryReceipt {
	receipt := &DeliveryReceipt{}
	lower := strings.ToLower(text)

	values := make(map[string]string, len(receiptKeys))
	pos := 0
	for i, key := range receiptKeys {
		idx := strings.Index(lower[pos:], key+":")
		if idx < 0 {
			continue
		}
		start := pos + idx + len(key) + 1
		end := len(text)
		if key != "text" {
			for _, next := range receiptKeys[i+1:] {
				if n := strings.Index(lower[start:], next+":"); n >= 0 && start+n < end {
					end = start + n
				}
			}
		}
		value := text[start:end]
		if key == "text" {
			value = strings.TrimPrefix(value, " ")
		} else {
			value = strings.TrimSpace(value)
		}
		values[key] = value
		pos = start
	}

	receipt.MessageID = values["id"]
	receipt.Submitted, _ = strconv.Atoi(values["sub"])
	receipt.Delivered, _ = strconv.Atoi(values["dlvrd"])
	receipt.SubmitDateRaw = values["submit date"]
	receipt.DoneDateRaw = values["done date"]
	receipt.SubmitDate = parseReceiptDate(receipt.SubmitDateRaw)
	receipt.DoneDate = parseReceiptDate(receipt.DoneDateRaw)
	receipt.Stat = values["stat"]
	receipt.Err = values["err"]
	receipt.Text = values["text"]
	return receipt
}

// parseReceiptDate parses the YYMMDDhhmm and YYMMDDhhmmss receipt
// timestamps. Receipt timestamps carry no timezone.
func parseReceiptDate(s string) time.Time {
	var t time.Time
	switch len(s) {
	case 10:
		t, _ = time.Parse("0601021504", s)
	case 12:
		t, _ = time.Parse("060102150405", s)
	}
	return t
}

// QueryResult is the parsed outcome of a query_sm.
type QueryResult struct {
	MessageID    string
	FinalDate    string
	MessageState uint8
	ErrorCode    uint8
}

// ParseBindResp decodes a bind_*_resp body. An empty body is legal when the
// response carries a failure status.
func ParseBindResp(body []byte) (*BindResponse, error) {
	resp := &BindResponse{}
	if err := resp.Unmarshal(body); err != nil {
		return nil, fmt.Errorf("bind response: %w", err)
	}
	return resp, nil
}

// ParseSubmitResp decodes a submit_sm_resp body.
func ParseSubmitResp(body []byte) (string, error) {
	resp := &SubmitSMResp{}
	if err := resp.Unmarshal(body); err != nil {
		return "", fmt.Errorf("submit response: %w", err)
	}
	return resp.MessageID, nil
}

// ParseQueryResp decodes a query_sm_resp body.
func ParseQueryResp(body []byte) (*QueryResult, error) {
	resp := &QuerySMResp{}
	if err := resp.Unmarshal(body); err != nil {
		return nil, fmt.Errorf("query response: %w", err)
	}
	return &QueryResult{
		MessageID:    resp.MessageID,
		FinalDate:    resp.FinalDate,
		MessageState: resp.MessageState,
		ErrorCode:    resp.ErrorCode,
	}, nil
}
