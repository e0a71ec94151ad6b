package smpp

import (
	"context"
	"time"
)

// ClientConfig represents client configuration
type ClientConfig struct {
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	SystemID     string `json:"system_id" yaml:"system_id"`
	Password     string `json:"password" yaml:"password"`
	SystemType   string `json:"system_type" yaml:"system_type"`
	AddressRange string `json:"address_range" yaml:"address_range"`
	AddrTON      uint8  `json:"addr_ton" yaml:"addr_ton"`
	AddrNPI      uint8  `json:"addr_npi" yaml:"addr_npi"`

	// CSMSMethod selects the concatenation method for long messages:
	// sar_16bit (default), udh_8bit or payload_tlv.
	CSMSMethod string `json:"csms_method" yaml:"csms_method"`

	// RegisteredDelivery is applied to every submit_sm unless
	// SendOptions.RegisteredDelivery overrides it for that message.
	RegisteredDelivery uint8 `json:"registered_delivery" yaml:"registered_delivery"`

	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Logger interface defines logging operations
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
	WithFields(fields map[string]interface{}) Logger
}

// MetricsCollector interface defines metrics collection operations
type MetricsCollector interface {
	IncCounter(name string, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
	RecordDuration(name string, duration time.Duration, labels map[string]string)
}

// EventType represents the type of event
type EventType string

const (
	EventTypeConnected      EventType = "connection.connected"
	EventTypeDisconnected   EventType = "connection.disconnected"
	EventTypeBound          EventType = "connection.bound"
	EventTypeUnbound        EventType = "connection.unbound"
	EventTypeSMSSubmitted   EventType = "sms.submitted"
	EventTypeSMSReceived    EventType = "sms.received"
	EventTypeDeliveryReport EventType = "delivery.report"
)

// Event represents a client event
type Event interface {
	GetEventType() EventType
	GetTimestamp() time.Time
	GetData() map[string]interface{}
}

// EventHandler interface defines event handling operations
type EventHandler interface {
	HandleEvent(ctx context.Context, event Event) error
	GetHandlerID() string
}

// EventPublisher interface defines event publishing operations
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, eventType EventType, handler EventHandler) error
	Unsubscribe(ctx context.Context, eventType EventType, handler EventHandler) error
}

// SessionEvent is the event emitted for session lifecycle transitions.
type SessionEvent struct {
	Type       EventType
	Timestamp  time.Time
	SessionID  string
	RemoteAddr string
	BindMode   string
	Error      error
	Data       map[string]interface{}
}

func (e *SessionEvent) GetEventType() EventType { return e.Type }

func (e *SessionEvent) GetTimestamp() time.Time { return e.Timestamp }

func (e *SessionEvent) GetData() map[string]interface{} { return e.Data }

// MessageEvent is the event emitted for submitted and received messages.
type MessageEvent struct {
	Type      EventType
	Timestamp time.Time
	SessionID string
	MessageID string
	SMS       *SMS
	Receipt   *DeliveryReceipt
	Data      map[string]interface{}
}

func (e *MessageEvent) GetEventType() EventType { return e.Type }

func (e *MessageEvent) GetTimestamp() time.Time { return e.Timestamp }

func (e *MessageEvent) GetData() map[string]interface{} { return e.Data }
