package smpp

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oarkflow/smpp-client/internal/version"
)

// SessionState represents the state of an SMPP session
type SessionState int

const (
	SessionStateClosed SessionState = iota
	SessionStateOpen
	SessionStateBoundTX
	SessionStateBoundRX
	SessionStateBoundTRX
	SessionStateUnbinding
)

func (s SessionState) String() string {
	switch s {
	case SessionStateClosed:
		return "CLOSED"
	case SessionStateOpen:
		return "OPEN"
	case SessionStateBoundTX:
		return "BOUND_TX"
	case SessionStateBoundRX:
		return "BOUND_RX"
	case SessionStateBoundTRX:
		return "BOUND_TRX"
	case SessionStateUnbinding:
		return "UNBINDING"
	default:
		return "UNKNOWN"
	}
}

// Bound reports whether the state allows traffic.
func (s SessionState) Bound() bool {
	return s == SessionStateBoundTX || s == SessionStateBoundRX || s == SessionStateBoundTRX
}

// CanTransmit reports whether submit and query operations are allowed.
func (s SessionState) CanTransmit() bool {
	return s == SessionStateBoundTX || s == SessionStateBoundTRX
}

// CanReceive reports whether deliver traffic is expected.
func (s SessionState) CanReceive() bool {
	return s == SessionStateBoundRX || s == SessionStateBoundTRX
}

// BindMode selects the bind command a session issues.
type BindMode int

const (
	BindTransmitter BindMode = iota
	BindReceiver
	BindTransceiver
)

func (m BindMode) String() string {
	switch m {
	case BindTransmitter:
		return "transmitter"
	case BindReceiver:
		return "receiver"
	case BindTransceiver:
		return "transceiver"
	default:
		return "unknown"
	}
}

func (m BindMode) command() uint32 {
	switch m {
	case BindTransmitter:
		return CommandBindTransmitter
	case BindReceiver:
		return CommandBindReceiver
	default:
		return CommandBindTransceiver
	}
}

func (m BindMode) boundState() SessionState {
	switch m {
	case BindTransmitter:
		return SessionStateBoundTX
	case BindReceiver:
		return SessionStateBoundRX
	default:
		return SessionStateBoundTRX
	}
}

// pendingSlot is the completion slot of one in-flight request. A slot left
// behind by a timed-out wait stays armed; a late response still resolves it.
type pendingSlot struct {
	resp *PDU
	err  error
	done bool
}

// Session drives one SMPP session over a transport. All wire access is
// serialized behind the session mutex: an operation holds the session for
// its full request/response exchange, and unsolicited PDUs encountered on
// the way are dispatched before the wait continues.
type Session struct {
	mu        sync.Mutex
	id        string
	config    *ClientConfig
	transport Transport
	encoder   *PDUEncoder
	decoder   *PDUDecoder
	logger    Logger
	metrics   MetricsCollector

	state        SessionState
	bindMode     BindMode
	peerSystemID string
	version      version.SMPPVersion

	nextSeq uint32
	pending map[uint32]*pendingSlot
	inbox   []*PDU
}

// NewSession creates a closed session over transport.
func NewSession(transport Transport, config *ClientConfig, logger Logger, metrics MetricsCollector) *Session {
	return &Session{
		id:        uuid.NewString(),
		config:    config,
		transport: transport,
		encoder:   NewPDUEncoder(),
		decoder:   NewPDUDecoder(),
		logger:    logger,
		metrics:   metrics,
		state:     SessionStateClosed,
		version:   version.SMPPVersion34,
		nextSeq:   1,
		pending:   make(map[uint32]*pendingSlot),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BindMode returns the mode of the current bind.
func (s *Session) BindMode() BindMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bindMode
}

// PeerSystemID returns the system_id announced by the SMSC in the bind
// response.
func (s *Session) PeerSystemID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerSystemID
}

// Version returns the negotiated interface version.
func (s *Session) Version() version.SMPPVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Open establishes the transport. Opening an open session is a no-op.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionStateClosed {
		return nil
	}
	if err := s.transport.Open(); err != nil {
		return err
	}
	s.state = SessionStateOpen
	if s.logger != nil {
		s.logger.Info("Transport opened", "session_id", s.id)
	}
	return nil
}

// nextSequence allocates the next request sequence number. The counter is
// 31-bit: 0 never appears, and the value after 0x7FFFFFFF is 1.
func (s *Session) nextSequence() uint32 {
	seq := s.nextSeq
	s.nextSeq++
	if s.nextSeq >= 0x80000000 {
		s.nextSeq = 1
	}
	return seq
}

// writePDU encodes and writes one framed PDU. A write failure is fatal.
func (s *Session) writePDU(pdu *PDU) error {
	data, err := s.encoder.Encode(pdu)
	if err != nil {
		return fmt.Errorf("failed to encode PDU: %w", err)
	}
	if err := s.transport.Write(data); err != nil {
		s.closeWithError(err)
		return err
	}
	if s.metrics != nil {
		s.metrics.IncCounter("smpp_client_pdus_total", map[string]string{
			"command_id": fmt.Sprintf("0x%08X", pdu.Header.CommandID),
			"direction":  "out",
		})
	}
	if s.logger != nil {
		s.logger.Debug("PDU sent",
			"command_id", fmt.Sprintf("0x%08X", pdu.Header.CommandID),
			"sequence", pdu.Header.SequenceNum,
			"session_id", s.id)
	}
	return nil
}

// closeWithError tears the session down after a fatal error: the transport
// is closed and every armed slot resolves with ErrTransportClosed.
func (s *Session) closeWithError(err error) {
	if s.state == SessionStateClosed {
		return
	}
	s.transport.Close()
	s.state = SessionStateClosed
	for seq, slot := range s.pending {
		if !slot.done {
			slot.done = true
			slot.err = ErrTransportClosed
		}
		delete(s.pending, seq)
	}
	if s.logger != nil && err != nil {
		s.logger.Error("Session closed", "session_id", s.id, "error", err)
	}
}

// readOne reads and dispatches a single inbound PDU. ErrTimeout is
// retryable; every other failure closes the session before returning.
func (s *Session) readOne() error {
	pdu, err := s.decoder.ReadFrame(s.transport)
	if err != nil && !errors.Is(err, ErrUnknownCommand) {
		if errors.Is(err, ErrTimeout) {
			return ErrTimeout
		}
		s.closeWithError(err)
		return err
	}
	if s.metrics != nil {
		s.metrics.IncCounter("smpp_client_pdus_total", map[string]string{
			"command_id": fmt.Sprintf("0x%08X", pdu.Header.CommandID),
			"direction":  "in",
		})
	}
	if err != nil {
		// Recognizable frame with an unknown command id. Requests are
		// answered with generic_nack, stray responses are dropped.
		if s.logger != nil {
			s.logger.Warn("Unknown command received",
				"command_id", fmt.Sprintf("0x%08X", pdu.Header.CommandID),
				"session_id", s.id)
		}
		if !pdu.Header.IsResponse() {
			return s.writePDU(NewPDU(&GenericNack{}, StatusInvCmdID, pdu.Header.SequenceNum))
		}
		return nil
	}
	return s.dispatch(pdu)
}

// dispatch applies the correlation rules to one inbound PDU.
func (s *Session) dispatch(pdu *PDU) error {
	header := pdu.Header

	if header.CommandID == CommandGenericNack {
		s.resolveNack(pdu)
		return nil
	}

	if header.IsResponse() {
		slot, ok := s.pending[header.SequenceNum]
		if !ok {
			// A response nothing asked for means the peer and this
			// session disagree about the stream; it cannot be
			// trusted to stay aligned.
			err := fmt.Errorf("unsolicited response 0x%08X seq %d: %w",
				header.CommandID, header.SequenceNum, ErrProtocolViolation)
			s.closeWithError(err)
			return err
		}
		slot.resp = pdu
		slot.done = true
		delete(s.pending, header.SequenceNum)
		return nil
	}

	switch header.CommandID {
	case CommandEnquireLink:
		// Echo the peer's sequence; the reply does not consume ours.
		return s.writePDU(NewPDU(&EnquireLinkResp{}, StatusOK, header.SequenceNum))
	case CommandDeliverSM:
		if err := s.writePDU(NewPDU(&DeliverSMResp{}, StatusOK, header.SequenceNum)); err != nil {
			return err
		}
		s.inbox = append(s.inbox, pdu)
		return nil
	case CommandUnbind:
		// Peer-initiated unbind: acknowledge, then the session is over.
		s.writePDU(NewPDU(&UnbindResp{}, StatusOK, header.SequenceNum))
		s.closeWithError(nil)
		if s.logger != nil {
			s.logger.Info("Peer requested unbind", "session_id", s.id)
		}
		return nil
	default:
		if s.logger != nil {
			s.logger.Warn("Unexpected request on client session",
				"command_id", fmt.Sprintf("0x%08X", header.CommandID),
				"session_id", s.id)
		}
		return s.writePDU(NewPDU(&GenericNack{}, StatusInvCmdID, header.SequenceNum))
	}
}

// resolveNack fails the in-flight request a generic_nack refers to. A nack
// with an unmatched sequence fails the oldest armed request.
func (s *Session) resolveNack(pdu *PDU) {
	err := fmt.Errorf("generic_nack status 0x%08X: %w", pdu.Header.CommandStatus, ErrProtocolViolation)
	if slot, ok := s.pending[pdu.Header.SequenceNum]; ok {
		slot.err = err
		slot.done = true
		delete(s.pending, pdu.Header.SequenceNum)
		return
	}
	var oldest uint32
	for seq := range s.pending {
		if oldest == 0 || seq < oldest {
			oldest = seq
		}
	}
	if oldest != 0 {
		slot := s.pending[oldest]
		slot.err = err
		slot.done = true
		delete(s.pending, oldest)
	}
}

// request publishes body as a new request and drives the read path until
// the response arrives. On ErrTimeout the slot stays armed so a late
// response can still be consumed by the dispatcher.
func (s *Session) request(body PDUBody) (*PDU, error) {
	seq := s.nextSequence()
	slot := &pendingSlot{}
	s.pending[seq] = slot

	start := time.Now()
	if err := s.writePDU(NewPDU(body, StatusOK, seq)); err != nil {
		return nil, err
	}

	for !slot.done {
		if err := s.readOne(); err != nil {
			if errors.Is(err, ErrTimeout) {
				return nil, ErrTimeout
			}
			return nil, err
		}
	}
	if s.metrics != nil {
		s.metrics.RecordDuration("smpp_client_response_seconds", time.Since(start), map[string]string{
			"command_id": fmt.Sprintf("0x%08X", body.CommandID()),
		})
	}
	if slot.err != nil {
		return nil, slot.err
	}
	return slot.resp, nil
}

// Bind performs the bind handshake for mode. On a rejected bind the
// transport is closed and a BindFailedError carrying the status is
// returned.
func (s *Session) Bind(mode BindMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Bound() {
		return ErrAlreadyBound
	}
	if s.state != SessionStateOpen {
		return ErrNotConnected
	}

	body := &BindRequest{
		Command:          mode.command(),
		SystemID:         s.config.SystemID,
		Password:         s.config.Password,
		SystemType:       s.config.SystemType,
		InterfaceVersion: SMPPVersion,
		AddrTON:          s.config.AddrTON,
		AddrNPI:          s.config.AddrNPI,
		AddressRange:     s.config.AddressRange,
	}

	resp, err := s.request(body)
	if err != nil {
		// Fatal stream errors have already closed the session; a
		// timeout leaves the slot armed for a late response.
		return err
	}
	if resp.Header.CommandStatus != StatusOK {
		s.closeWithError(nil)
		return &BindFailedError{Status: resp.Header.CommandStatus}
	}

	if bindResp, ok := resp.Body.(*BindResponse); ok {
		s.peerSystemID = bindResp.SystemID
		if peer, ok := bindResp.SCInterfaceVersion(); ok {
			if negotiated, err := version.Negotiate(version.SMPPVersion34, version.SMPPVersion(peer)); err == nil {
				s.version = negotiated
			}
		}
	}

	s.state = mode.boundState()
	s.bindMode = mode
	if s.logger != nil {
		s.logger.Info("Bound",
			"session_id", s.id,
			"mode", mode.String(),
			"peer_system_id", s.peerSystemID,
			"version", s.version.String())
	}
	return nil
}

// Submit sends one submit_sm and returns the SMSC message id.
func (s *Session) Submit(sm *SubmitSM) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanTransmit() {
		return "", ErrNotBound
	}
	resp, err := s.request(sm)
	if err != nil {
		return "", err
	}
	if resp.Header.CommandStatus != StatusOK {
		return "", &SubmitFailedError{Status: resp.Header.CommandStatus}
	}
	submitResp, ok := resp.Body.(*SubmitSMResp)
	if !ok {
		return "", fmt.Errorf("submit response has wrong body: %w", ErrProtocolViolation)
	}
	return submitResp.MessageID, nil
}

// Query asks the SMSC for the state of an earlier submit.
func (s *Session) Query(messageID string, source Address) (*QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Bound() {
		return nil, ErrNotBound
	}
	resp, err := s.request(&QuerySM{
		MessageID:     messageID,
		SourceAddrTON: source.TON,
		SourceAddrNPI: source.NPI,
		SourceAddr:    source.Addr,
	})
	if err != nil {
		return nil, err
	}
	if resp.Header.CommandStatus != StatusOK {
		return nil, &QueryFailedError{Status: resp.Header.CommandStatus}
	}
	queryResp, ok := resp.Body.(*QuerySMResp)
	if !ok {
		return nil, fmt.Errorf("query response has wrong body: %w", ErrProtocolViolation)
	}
	return &QueryResult{
		MessageID:    queryResp.MessageID,
		FinalDate:    queryResp.FinalDate,
		MessageState: queryResp.MessageState,
		ErrorCode:    queryResp.ErrorCode,
	}, nil
}

// EnquireLink exchanges a keep-alive and returns the response PDU.
func (s *Session) EnquireLink() (*PDU, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionStateClosed {
		return nil, ErrNotConnected
	}
	return s.request(&EnquireLink{})
}

// ReadInbox returns the oldest unsolicited PDU, reading one PDU from the
// wire when the inbox is empty. It returns (nil, nil) when a PDU was
// processed without producing an inbox entry, and ErrTimeout when the wire
// had nothing to read within the deadline.
func (s *Session) ReadInbox() (*PDU, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pdu := s.popInbox(); pdu != nil {
		return pdu, nil
	}
	if s.state == SessionStateClosed {
		return nil, ErrTransportClosed
	}
	if err := s.readOne(); err != nil {
		return nil, err
	}
	return s.popInbox(), nil
}

func (s *Session) popInbox() *PDU {
	if len(s.inbox) == 0 {
		return nil
	}
	pdu := s.inbox[0]
	s.inbox = s.inbox[1:]
	return pdu
}

// Unbind performs the unbind handshake and closes the transport. A timeout
// waiting for unbind_resp is ignored, the transport closes either way.
func (s *Session) Unbind() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionStateClosed {
		return nil
	}
	if s.state.Bound() {
		s.state = SessionStateUnbinding
		if _, err := s.request(&Unbind{}); err != nil && !errors.Is(err, ErrTimeout) {
			if s.logger != nil {
				s.logger.Warn("Unbind failed", "session_id", s.id, "error", err)
			}
		}
	}
	s.closeWithError(nil)
	if s.logger != nil {
		s.logger.Info("Session closed", "session_id", s.id)
	}
	return nil
}
