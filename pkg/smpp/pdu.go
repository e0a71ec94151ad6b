package smpp

import (
	"fmt"
)

// PDU represents the base Protocol Data Unit
type PDU struct {
	Header PDUHeader
	Body   PDUBody
}

// PDUHeader represents the SMPP PDU header
type PDUHeader struct {
	CommandLength uint32
	CommandID     uint32
	CommandStatus uint32
	SequenceNum   uint32
}

// IsResponse reports whether the header carries a response command ID.
func (h PDUHeader) IsResponse() bool {
	return h.CommandID&CommandRespBit != 0
}

// PDUBody represents the PDU body interface
type PDUBody interface {
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
	CommandID() uint32
}

// Address represents an SMPP address
type Address struct {
	TON  uint8
	NPI  uint8
	Addr string
}

// NewAddress builds a validated address.
func NewAddress(addr string, ton, npi uint8) (Address, error) {
	a := Address{TON: ton, NPI: npi, Addr: addr}
	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Validate checks the address value against the length rules for its TON.
// Alphanumeric addresses carry at most 11 octets, everything else at most 20.
func (a Address) Validate() error {
	if a.TON == TONAlphanumeric {
		if len(a.Addr) > MaxAlphanumericLength {
			return fmt.Errorf("alphanumeric address %q exceeds %d octets: %w",
				a.Addr, MaxAlphanumericLength, ErrInvalidAddress)
		}
		return nil
	}
	if len(a.Addr) > MaxPhoneNumberLength {
		return fmt.Errorf("address %q exceeds %d octets: %w",
			a.Addr, MaxPhoneNumberLength, ErrInvalidAddress)
	}
	return nil
}

func (a Address) String() string {
	return fmt.Sprintf("%s (ton=%d npi=%d)", a.Addr, a.TON, a.NPI)
}

// BindRequest represents the bind_transmitter, bind_receiver and
// bind_transceiver request bodies; Command selects which one.
type BindRequest struct {
	Command          uint32
	SystemID         string
	Password         string
	SystemType       string
	InterfaceVersion uint8
	AddrTON          uint8
	AddrNPI          uint8
	AddressRange     string
}

func (b *BindRequest) Marshal() ([]byte, error) {
	if len(b.SystemID) > MaxSystemIDLength-1 {
		return nil, fmt.Errorf("system_id too long: %d", len(b.SystemID))
	}
	if len(b.Password) > MaxPasswordLength-1 {
		return nil, fmt.Errorf("password too long: %d", len(b.Password))
	}
	var w wireWriter
	w.cString(b.SystemID)
	w.cString(b.Password)
	w.cString(b.SystemType)
	w.u8(b.InterfaceVersion)
	w.u8(b.AddrTON)
	w.u8(b.AddrNPI)
	w.cString(b.AddressRange)
	return w.bytes(), nil
}

func (b *BindRequest) Unmarshal(data []byte) error {
	r := newWireReader(data)
	var err error
	if b.SystemID, err = r.cString("system_id", MaxSystemIDLength); err != nil {
		return err
	}
	if b.Password, err = r.cString("password", MaxPasswordLength); err != nil {
		return err
	}
	if b.SystemType, err = r.cString("system_type", MaxSystemTypeLength); err != nil {
		return err
	}
	if b.InterfaceVersion, err = r.u8("interface_version"); err != nil {
		return err
	}
	if b.AddrTON, err = r.u8("addr_ton"); err != nil {
		return err
	}
	if b.AddrNPI, err = r.u8("addr_npi"); err != nil {
		return err
	}
	if b.AddressRange, err = r.cString("address_range", MaxAddressRangeLength); err != nil {
		return err
	}
	return nil
}

func (b *BindRequest) CommandID() uint32 {
	if b.Command != 0 {
		return b.Command
	}
	return CommandBindTransceiver
}

// BindResponse represents the bind_*_resp bodies. A failed bind may carry an
// empty body; a successful one carries the peer system_id and optionally an
// sc_interface_version TLV.
type BindResponse struct {
	Command        uint32
	SystemID       string
	OptionalParams []OptionalParameter
}

func (b *BindResponse) Marshal() ([]byte, error) {
	var w wireWriter
	w.cString(b.SystemID)
	for _, p := range b.OptionalParams {
		w.tlv(p)
	}
	return w.bytes(), nil
}

func (b *BindResponse) Unmarshal(data []byte) error {
	if len(data) == 0 {
		b.SystemID = ""
		b.OptionalParams = nil
		return nil
	}
	r := newWireReader(data)
	var err error
	if b.SystemID, err = r.cString("system_id", MaxSystemIDLength); err != nil {
		return err
	}
	if b.OptionalParams, err = r.tlvs(); err != nil {
		return err
	}
	return nil
}

func (b *BindResponse) CommandID() uint32 {
	if b.Command != 0 {
		return b.Command
	}
	return CommandBindTransceiverResp
}

// SCInterfaceVersion returns the interface version advertised by the SMSC,
// if present.
func (b *BindResponse) SCInterfaceVersion() (uint8, bool) {
	p, ok := FindParam(b.OptionalParams, TagSCInterfaceVersion)
	if !ok {
		return 0, false
	}
	return p.U8()
}

// SubmitSM represents submit_sm PDU
type SubmitSM struct {
	ServiceType          string
	SourceAddrTON        uint8
	SourceAddrNPI        uint8
	SourceAddr           string
	DestAddrTON          uint8
	DestAddrNPI          uint8
	DestAddr             string
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
}

func (s *SubmitSM) Marshal() ([]byte, error) {
	if len(s.ShortMessage) > MaxShortMessageLength {
		return nil, fmt.Errorf("short message too long: %d octets", len(s.ShortMessage))
	}
	var w wireWriter
	w.cString(s.ServiceType)
	w.u8(s.SourceAddrTON)
	w.u8(s.SourceAddrNPI)
	w.cString(s.SourceAddr)
	w.u8(s.DestAddrTON)
	w.u8(s.DestAddrNPI)
	w.cString(s.DestAddr)
	w.u8(s.EsmClass)
	w.u8(s.ProtocolID)
	w.u8(s.PriorityFlag)
	w.cString(s.ScheduleDeliveryTime)
	w.cString(s.ValidityPeriod)
	w.u8(s.RegisteredDelivery)
	w.u8(s.ReplaceIfPresentFlag)
	w.u8(s.DataCoding)
	w.u8(s.SMDefaultMsgID)
	w.u8(uint8(len(s.ShortMessage)))
	w.octets(s.ShortMessage)
	for _, p := range s.OptionalParams {
		w.tlv(p)
	}
	return w.bytes(), nil
}

func (s *SubmitSM) Unmarshal(data []byte) error {
	r := newWireReader(data)
	var err error
	if s.ServiceType, err = r.cString("service_type", MaxServiceTypeLength); err != nil {
		return err
	}
	if s.SourceAddrTON, err = r.u8("source_addr_ton"); err != nil {
		return err
	}
	if s.SourceAddrNPI, err = r.u8("source_addr_npi"); err != nil {
		return err
	}
	if s.SourceAddr, err = r.cString("source_addr", MaxAddressLength); err != nil {
		return err
	}
	if s.DestAddrTON, err = r.u8("dest_addr_ton"); err != nil {
		return err
	}
	if s.DestAddrNPI, err = r.u8("dest_addr_npi"); err != nil {
		return err
	}
	if s.DestAddr, err = r.cString("destination_addr", MaxAddressLength); err != nil {
		return err
	}
	if s.EsmClass, err = r.u8("esm_class"); err != nil {
		return err
	}
	if s.ProtocolID, err = r.u8("protocol_id"); err != nil {
		return err
	}
	if s.PriorityFlag, err = r.u8("priority_flag"); err != nil {
		return err
	}
	if s.ScheduleDeliveryTime, err = r.cString("schedule_delivery_time", MaxTimeLength); err != nil {
		return err
	}
	if s.ValidityPeriod, err = r.cString("validity_period", MaxTimeLength); err != nil {
		return err
	}
	if s.RegisteredDelivery, err = r.u8("registered_delivery"); err != nil {
		return err
	}
	if s.ReplaceIfPresentFlag, err = r.u8("replace_if_present_flag"); err != nil {
		return err
	}
	if s.DataCoding, err = r.u8("data_coding"); err != nil {
		return err
	}
	if s.SMDefaultMsgID, err = r.u8("sm_default_msg_id"); err != nil {
		return err
	}
	smLength, err := r.u8("sm_length")
	if err != nil {
		return err
	}
	if s.ShortMessage, err = r.octets("short_message", int(smLength)); err != nil {
		return err
	}
	if s.OptionalParams, err = r.tlvs(); err != nil {
		return err
	}
	return nil
}

func (s *SubmitSM) CommandID() uint32 {
	return CommandSubmitSM
}

// SubmitSMResp represents submit_sm_resp PDU
type SubmitSMResp struct {
	MessageID string
}

func (s *SubmitSMResp) Marshal() ([]byte, error) {
	var w wireWriter
	w.cString(s.MessageID)
	return w.bytes(), nil
}

func (s *SubmitSMResp) Unmarshal(data []byte) error {
	if len(data) == 0 {
		s.MessageID = ""
		return nil
	}
	r := newWireReader(data)
	var err error
	s.MessageID, err = r.cString("message_id", MaxMessageIDLength)
	return err
}

func (s *SubmitSMResp) CommandID() uint32 {
	return CommandSubmitSMResp
}

// DeliverSM represents deliver_sm PDU
type DeliverSM struct {
	ServiceType          string
	SourceAddrTON        uint8
	SourceAddrNPI        uint8
	SourceAddr           string
	DestAddrTON          uint8
	DestAddrNPI          uint8
	DestAddr             string
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
}

func (d *DeliverSM) Marshal() ([]byte, error) {
	if len(d.ShortMessage) > MaxShortMessageLength {
		return nil, fmt.Errorf("short message too long: %d octets", len(d.ShortMessage))
	}
	var w wireWriter
	w.cString(d.ServiceType)
	w.u8(d.SourceAddrTON)
	w.u8(d.SourceAddrNPI)
	w.cString(d.SourceAddr)
	w.u8(d.DestAddrTON)
	w.u8(d.DestAddrNPI)
	w.cString(d.DestAddr)
	w.u8(d.EsmClass)
	w.u8(d.ProtocolID)
	w.u8(d.PriorityFlag)
	w.cString(d.ScheduleDeliveryTime)
	w.cString(d.ValidityPeriod)
	w.u8(d.RegisteredDelivery)
	w.u8(d.ReplaceIfPresentFlag)
	w.u8(d.DataCoding)
	w.u8(d.SMDefaultMsgID)
	w.u8(uint8(len(d.ShortMessage)))
	w.octets(d.ShortMessage)
	for _, p := range d.OptionalParams {
		w.tlv(p)
	}
	return w.bytes(), nil
}

func (d *DeliverSM) Unmarshal(data []byte) error {
	r := newWireReader(data)
	var err error
	if d.ServiceType, err = r.cString("service_type", MaxServiceTypeLength); err != nil {
		return err
	}
	if d.SourceAddrTON, err = r.u8("source_addr_ton"); err != nil {
		return err
	}
	if d.SourceAddrNPI, err = r.u8("source_addr_npi"); err != nil {
		return err
	}
	if d.SourceAddr, err = r.cString("source_addr", MaxAddressLength); err != nil {
		return err
	}
	if d.DestAddrTON, err = r.u8("dest_addr_ton"); err != nil {
		return err
	}
	if d.DestAddrNPI, err = r.u8("dest_addr_npi"); err != nil {
		return err
	}
	if d.DestAddr, err = r.cString("destination_addr", MaxAddressLength); err != nil {
		return err
	}
	if d.EsmClass, err = r.u8("esm_class"); err != nil {
		return err
	}
	if d.ProtocolID, err = r.u8("protocol_id"); err != nil {
		return err
	}
	if d.PriorityFlag, err = r.u8("priority_flag"); err != nil {
		return err
	}
	if d.ScheduleDeliveryTime, err = r.cString("schedule_delivery_time", MaxTimeLength); err != nil {
		return err
	}
	if d.ValidityPeriod, err = r.cString("validity_period", MaxTimeLength); err != nil {
		return err
	}
	if d.RegisteredDelivery, err = r.u8("registered_delivery"); err != nil {
		return err
	}
	if d.ReplaceIfPresentFlag, err = r.u8("replace_if_present_flag"); err != nil {
		return err
	}
	if d.DataCoding, err = r.u8("data_coding"); err != nil {
		return err
	}
	if d.SMDefaultMsgID, err = r.u8("sm_default_msg_id"); err != nil {
		return err
	}
	smLength, err := r.u8("sm_length")
	if err != nil {
		return err
	}
	if d.ShortMessage, err = r.octets("short_message", int(smLength)); err != nil {
		return err
	}
	if d.OptionalParams, err = r.tlvs(); err != nil {
		return err
	}
	return nil
}

func (d *DeliverSM) CommandID() uint32 {
	return CommandDeliverSM
}

// DeliverSMResp represents deliver_sm_resp PDU
type DeliverSMResp struct {
	MessageID string
}

func (d *DeliverSMResp) Marshal() ([]byte, error) {
	var w wireWriter
	w.cString(d.MessageID)
	return w.bytes(), nil
}

func (d *DeliverSMResp) Unmarshal(data []byte) error {
	if len(data) == 0 {
		d.MessageID = ""
		return nil
	}
	r := newWireReader(data)
	var err error
	d.MessageID, err = r.cString("message_id", MaxMessageIDLength)
	return err
}

func (d *DeliverSMResp) CommandID() uint32 {
	return CommandDeliverSMResp
}

// QuerySM represents query_sm PDU
type QuerySM struct {
	MessageID     string
	SourceAddrTON uint8
	SourceAddrNPI uint8
	SourceAddr    string
}

func (q *QuerySM) Marshal() ([]byte, error) {
	var w wireWriter
	w.cString(q.MessageID)
	w.u8(q.SourceAddrTON)
	w.u8(q.SourceAddrNPI)
	w.cString(q.SourceAddr)
	return w.bytes(), nil
}

func (q *QuerySM) Unmarshal(data []byte) error {
	r := newWireReader(data)
	var err error
	if q.MessageID, err = r.cString("message_id", MaxMessageIDLength); err != nil {
		return err
	}
	if q.SourceAddrTON, err = r.u8("source_addr_ton"); err != nil {
		return err
	}
	if q.SourceAddrNPI, err = r.u8("source_addr_npi"); err != nil {
		return err
	}
	if q.SourceAddr, err = r.cString("source_addr", MaxAddressLength); err != nil {
		return err
	}
	return nil
}

func (q *QuerySM) CommandID() uint32 {
	return CommandQuerySM
}

// QuerySMResp represents query_sm_resp PDU
type QuerySMResp struct {
	MessageID    string
	FinalDate    string
	MessageState uint8
	ErrorCode    uint8
}

func (q *QuerySMResp) Marshal() ([]byte, error) {
	var w wireWriter
	w.cString(q.MessageID)
	w.cString(q.FinalDate)
	w.u8(q.MessageState)
	w.u8(q.ErrorCode)
	return w.bytes(), nil
}

func (q *QuerySMResp) Unmarshal(data []byte) error {
	r := newWireReader(data)
	var err error
	if q.MessageID, err = r.cString("message_id", MaxMessageIDLength); err != nil {
		return err
	}
	if q.FinalDate, err = r.cString("final_date", MaxTimeLength); err != nil {
		return err
	}
	if q.MessageState, err = r.u8("message_state"); err != nil {
		return err
	}
	if q.ErrorCode, err = r.u8("error_code"); err != nil {
		return err
	}
	return nil
}

func (q *QuerySMResp) CommandID() uint32 {
	return CommandQuerySMResp
}

// EnquireLink represents enquire_link PDU
type EnquireLink struct{}

func (e *EnquireLink) Marshal() ([]byte, error) { return []byte{}, nil }

func (e *EnquireLink) Unmarshal(data []byte) error { return nil }

func (e *EnquireLink) CommandID() uint32 { return CommandEnquireLink }

// EnquireLinkResp represents enquire_link_resp PDU
type EnquireLinkResp struct{}

func (e *EnquireLinkResp) Marshal() ([]byte, error) { return []byte{}, nil }

func (e *EnquireLinkResp) Unmarshal(data []byte) error { return nil }

func (e *EnquireLinkResp) CommandID() uint32 { return CommandEnquireLinkResp }

// Unbind represents unbind PDU
type Unbind struct{}

func (u *Unbind) Marshal() ([]byte, error) { return []byte{}, nil }

func (u *Unbind) Unmarshal(data []byte) error { return nil }

func (u *Unbind) CommandID() uint32 { return CommandUnbind }

// UnbindResp represents unbind_resp PDU
type UnbindResp struct{}

func (u *UnbindResp) Marshal() ([]byte, error) { return []byte{}, nil }

func (u *UnbindResp) Unmarshal(data []byte) error { return nil }

func (u *UnbindResp) CommandID() uint32 { return CommandUnbindResp }

// GenericNack represents a generic_nack PDU
type GenericNack struct{}

func (g *GenericNack) Marshal() ([]byte, error) { return []byte{}, nil }

func (g *GenericNack) Unmarshal(data []byte) error { return nil }

func (g *GenericNack) CommandID() uint32 { return CommandGenericNack }

// RawBody carries the body of a PDU whose command ID the codec does not
// recognize. The bytes are preserved as received.
type RawBody struct {
	Command uint32
	Data    []byte
}

func (b *RawBody) Marshal() ([]byte, error) {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out, nil
}

func (b *RawBody) Unmarshal(data []byte) error {
	b.Data = make([]byte, len(data))
	copy(b.Data, data)
	return nil
}

func (b *RawBody) CommandID() uint32 {
	return b.Command
}
