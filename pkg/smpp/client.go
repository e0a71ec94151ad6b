package smpp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oarkflow/smpp-client/pkg/encoding"
)

// Client is the public face of the library: it owns a transport, a session
// and a segmenter, and exposes the bind / send / read / query operations.
//
// Operations on one Client are serialized by the session; callers may share
// a Client across goroutines, but each operation holds the session for its
// full request/response exchange.
type Client struct {
	config    *ClientConfig
	transport Transport
	session   *Session
	segmenter *Segmenter
	encoder   *encoding.TextEncoder

	events  EventPublisher
	logger  Logger
	metrics MetricsCollector
}

// ClientDependencies holds all dependencies for the client
type ClientDependencies struct {
	EventPublisher   EventPublisher
	Logger           Logger
	MetricsCollector MetricsCollector
}

// NewClient creates a new SMPP client. Unless SetTransport is called first,
// the first bind creates a TCP transport for the configured host and port.
func NewClient(config *ClientConfig, deps ClientDependencies) *Client {
	method, err := ParseCSMSMethod(config.CSMSMethod)
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("Unknown csms_method, using sar_16bit", "csms_method", config.CSMSMethod)
		}
		method = CSMSSar16Bit
	}
	return &Client{
		config:    config,
		segmenter: NewSegmenter(method),
		encoder:   encoding.NewTextEncoder(),
		events:    deps.EventPublisher,
		logger:    deps.Logger,
		metrics:   deps.MetricsCollector,
	}
}

// SetTransport replaces the transport used for the next bind. It is
// intended for tests and for callers that dial through something other
// than plain TCP.
func (c *Client) SetTransport(t Transport) {
	c.transport = t
}

// Session returns the current session, nil before the first bind.
func (c *Client) Session() *Session {
	return c.session
}

// BindTransmitter opens the transport if needed and binds as a transmitter.
func (c *Client) BindTransmitter() error {
	return c.bind(BindTransmitter)
}

// BindReceiver opens the transport if needed and binds as a receiver.
func (c *Client) BindReceiver() error {
	return c.bind(BindReceiver)
}

// BindTransceiver opens the transport if needed and binds as a transceiver.
func (c *Client) BindTransceiver() error {
	return c.bind(BindTransceiver)
}

func (c *Client) bind(mode BindMode) error {
	if c.transport == nil {
		c.transport = NewTCPTransport(c.config.Host, c.config.Port, c.config)
	}
	if c.session == nil || c.session.State() == SessionStateClosed {
		c.session = NewSession(c.transport, c.config, c.logger, c.metrics)
	}
	if err := c.session.Open(); err != nil {
		return err
	}
	c.publishSession(EventTypeConnected, mode, nil)

	if err := c.session.Bind(mode); err != nil {
		c.publishSession(EventTypeDisconnected, mode, err)
		return err
	}
	if c.metrics != nil {
		c.metrics.SetGauge("smpp_client_bound", 1, map[string]string{"mode": mode.String()})
	}
	c.publishSession(EventTypeBound, mode, nil)
	return nil
}

// SendOptions carries the optional submit_sm fields.
type SendOptions struct {
	DataCoding           uint8
	Priority             uint8
	ServiceType          string
	ScheduleDeliveryTime string
	ValidityPeriod       string
	RegisteredDelivery   *uint8
	OptionalParams       []OptionalParameter
}

// SendSMS encodes, segments and submits a message, returning the message id
// of the first accepted segment. The default coding treats message as
// opaque bytes; UCS-2 converts it to UTF-16BE. A message whose coding
// cannot be split returns ErrUnsupportedCodingForSplit before anything is
// written.
func (c *Client) SendSMS(source, dest Address, message string, opts *SendOptions) (string, error) {
	if c.session == nil {
		return "", ErrNotBound
	}
	if err := source.Validate(); err != nil {
		return "", err
	}
	if err := dest.Validate(); err != nil {
		return "", err
	}
	if opts == nil {
		opts = &SendOptions{}
	}

	encoded, err := c.encodeMessage(message, opts.DataCoding)
	if err != nil {
		return "", err
	}
	segments, err := c.segmenter.Split(encoded, opts.DataCoding)
	if err != nil {
		return "", err
	}

	registered := c.config.RegisteredDelivery
	if opts.RegisteredDelivery != nil {
		registered = *opts.RegisteredDelivery
	}

	var firstID string
	for i, segment := range segments {
		params := append([]OptionalParameter{}, opts.OptionalParams...)
		params = append(params, segment.OptionalParams...)

		sm := &SubmitSM{
			ServiceType:          opts.ServiceType,
			SourceAddrTON:        source.TON,
			SourceAddrNPI:        source.NPI,
			SourceAddr:           source.Addr,
			DestAddrTON:          dest.TON,
			DestAddrNPI:          dest.NPI,
			DestAddr:             dest.Addr,
			EsmClass:             EsmClassDefault | segment.EsmClassBits,
			PriorityFlag:         opts.Priority,
			ScheduleDeliveryTime: opts.ScheduleDeliveryTime,
			ValidityPeriod:       opts.ValidityPeriod,
			RegisteredDelivery:   registered,
			DataCoding:           opts.DataCoding,
			ShortMessage:         segment.ShortMessage,
			OptionalParams:       params,
		}

		messageID, err := c.session.Submit(sm)
		if err != nil {
			return firstID, fmt.Errorf("segment %d/%d: %w", i+1, len(segments), err)
		}
		if i == 0 {
			firstID = messageID
		}
	}

	if c.metrics != nil {
		c.metrics.IncCounter("smpp_client_sms_submitted_total", map[string]string{
			"data_coding": fmt.Sprintf("0x%02X", opts.DataCoding),
		})
		c.metrics.ObserveHistogram("smpp_client_sms_segments", float64(len(segments)), nil)
	}
	c.publishMessage(EventTypeSMSSubmitted, firstID, nil)
	if c.logger != nil {
		c.logger.Info("SMS submitted",
			"message_id", firstID,
			"dest", dest.Addr,
			"segments", len(segments))
	}
	return firstID, nil
}

func (c *Client) encodeMessage(message string, dataCoding uint8) ([]byte, error) {
	if dataCoding == DataCodingUCS2 {
		return c.encoder.EncodeUCS2(message)
	}
	return []byte(message), nil
}

// ReadSMS returns the oldest received message, reading one PDU from the
// wire when none is queued. It returns (nil, nil) when nothing was
// available within the read timeout.
func (c *Client) ReadSMS() (*SMS, error) {
	if c.session == nil || !c.session.State().CanReceive() {
		return nil, ErrNotBound
	}

	pdu, err := c.session.ReadInbox()
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, nil
		}
		return nil, err
	}
	if pdu == nil {
		return nil, nil
	}

	sms, err := ParseSMS(pdu)
	if err != nil {
		return nil, err
	}
	if sms.IsReceipt() {
		if c.metrics != nil {
			c.metrics.IncCounter("smpp_client_receipts_total", map[string]string{"stat": sms.Receipt.Stat})
		}
		c.publishReceipt(sms)
	} else {
		if c.metrics != nil {
			c.metrics.IncCounter("smpp_client_sms_received_total", nil)
		}
		c.publishSMS(sms)
	}
	return sms, nil
}

// QueryStatus asks the SMSC about an earlier submit. A query the SMSC
// rejects returns (nil, nil).
func (c *Client) QueryStatus(messageID string, source Address) (*QueryResult, error) {
	if c.session == nil {
		return nil, ErrNotBound
	}
	result, err := c.session.Query(messageID, source)
	if err != nil {
		var queryErr *QueryFailedError
		if errors.As(err, &queryErr) {
			if c.logger != nil {
				c.logger.Warn("Query rejected",
					"message_id", messageID,
					"status", fmt.Sprintf("0x%08X", queryErr.Status))
			}
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

// EnquireLink exchanges a keep-alive with the SMSC and returns the
// response PDU.
func (c *Client) EnquireLink() (*PDU, error) {
	if c.session == nil {
		return nil, ErrNotConnected
	}
	return c.session.EnquireLink()
}

// IsBound reports whether the session is in any bound state.
func (c *Client) IsBound() bool {
	return c.session != nil && c.session.State().Bound()
}

// Close unbinds and closes the transport. It never fails; errors on the
// way out are logged and swallowed.
func (c *Client) Close() {
	if c.session == nil {
		return
	}
	mode := c.session.BindMode()
	if err := c.session.Unbind(); err != nil && c.logger != nil {
		c.logger.Warn("Close failed", "error", err)
	}
	if c.metrics != nil {
		c.metrics.SetGauge("smpp_client_bound", 0, map[string]string{"mode": mode.String()})
	}
	c.publishSession(EventTypeUnbound, mode, nil)
}

func (c *Client) publishSession(eventType EventType, mode BindMode, err error) {
	if c.events == nil || c.session == nil {
		return
	}
	c.events.Publish(context.Background(), &SessionEvent{
		Type:       eventType,
		Timestamp:  time.Now(),
		SessionID:  c.session.ID(),
		RemoteAddr: fmt.Sprintf("%s:%d", c.config.Host, c.config.Port),
		BindMode:   mode.String(),
		Error:      err,
		Data:       map[string]interface{}{},
	})
}

func (c *Client) publishMessage(eventType EventType, messageID string, sms *SMS) {
	if c.events == nil || c.session == nil {
		return
	}
	c.events.Publish(context.Background(), &MessageEvent{
		Type:      eventType,
		Timestamp: time.Now(),
		SessionID: c.session.ID(),
		MessageID: messageID,
		SMS:       sms,
		Data:      map[string]interface{}{},
	})
}

func (c *Client) publishSMS(sms *SMS) {
	if c.events == nil || c.session == nil {
		return
	}
	c.events.Publish(context.Background(), &MessageEvent{
		Type:      EventTypeSMSReceived,
		Timestamp: time.Now(),
		SessionID: c.session.ID(),
		SMS:       sms,
		Data:      map[string]interface{}{},
	})
}

func (c *Client) publishReceipt(sms *SMS) {
	if c.events == nil || c.session == nil {
		return
	}
	c.events.Publish(context.Background(), &MessageEvent{
		Type:      EventTypeDeliveryReport,
		Timestamp: time.Now(),
		SessionID: c.session.ID(),
		MessageID: sms.Receipt.MessageID,
		SMS:       sms,
		Receipt:   sms.Receipt,
		Data:      map[string]interface{}{},
	})
}
