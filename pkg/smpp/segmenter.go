package smpp

import (
	"fmt"
	"sync"
)

// CSMSMethod selects how a long message is split across submit_sm PDUs.
type CSMSMethod int

const (
	// CSMSSar16Bit concatenates with the sar_* optional parameters.
	CSMSSar16Bit CSMSMethod = iota
	// CSMSUdh8Bit concatenates with a 6-octet user data header.
	CSMSUdh8Bit
	// CSMSPayloadTLV sends the whole message in one message_payload
	// parameter with an empty short_message.
	CSMSPayloadTLV
)

func (m CSMSMethod) String() string {
	switch m {
	case CSMSSar16Bit:
		return "sar_16bit"
	case CSMSUdh8Bit:
		return "udh_8bit"
	case CSMSPayloadTLV:
		return "payload_tlv"
	default:
		return fmt.Sprintf("unknown (%d)", int(m))
	}
}

// ParseCSMSMethod maps a configuration string onto a method.
func ParseCSMSMethod(s string) (CSMSMethod, error) {
	switch s {
	case "", "sar_16bit", "sar":
		return CSMSSar16Bit, nil
	case "udh_8bit", "udh":
		return CSMSUdh8Bit, nil
	case "payload_tlv", "payload":
		return CSMSPayloadTLV, nil
	default:
		return 0, fmt.Errorf("unknown csms method %q", s)
	}
}

// Segment is one wire-ready part of a split message.
type Segment struct {
	ShortMessage   []byte
	OptionalParams []OptionalParameter
	EsmClassBits   uint8
}

// Segmenter splits encoded message bytes into segments that respect the
// short_message size budgets of each encoding. It allocates one concatenation
// reference number per split from a wrapping 16-bit counter.
type Segmenter struct {
	mu     sync.Mutex
	method CSMSMethod
	refNum uint16
}

// NewSegmenter creates a segmenter using method for multi-part messages.
func NewSegmenter(method CSMSMethod) *Segmenter {
	return &Segmenter{method: method}
}

// Method returns the configured concatenation method.
func (s *Segmenter) Method() CSMSMethod {
	return s.method
}

func (s *Segmenter) nextRef() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refNum++
	return s.refNum
}

// singleBudget is the largest message that still fits one unconcatenated
// submit_sm for the given coding: 160 octets for the default alphabet in
// its transparent form, 140 for everything else.
func singleBudget(dataCoding uint8) int {
	if dataCoding == DataCodingDefault {
		return MaxSingleGSMLength
	}
	return MaxSingleUCS2Length
}

// segmentBudget returns the per-segment payload budget for a multi-part
// message, already floored to an even octet count for UCS-2 so a split never
// lands inside a code unit.
func (s *Segmenter) segmentBudget(dataCoding uint8) int {
	ucs2 := dataCoding == DataCodingUCS2
	switch s.method {
	case CSMSUdh8Bit:
		if ucs2 {
			return MaxUdhUCS2Length
		}
		return MaxUdhSegmentLength
	default:
		if ucs2 {
			return MaxSarUCS2Length
		}
		return MaxSarSegmentLength
	}
}

// Split turns message into one or more segments. A message within the
// single-part budget yields one segment with no concatenation fields.
// SAR and UDH concatenation accept only the default and UCS-2 codings;
// message_payload accepts any coding. Splitting never truncates.
func (s *Segmenter) Split(message []byte, dataCoding uint8) ([]Segment, error) {
	if len(message) <= singleBudget(dataCoding) {
		return []Segment{{ShortMessage: message}}, nil
	}

	if s.method == CSMSPayloadTLV {
		return []Segment{{
			OptionalParams: []OptionalParameter{{
				Tag:    TagMessagePayload,
				Length: uint16(len(message)),
				Value:  message,
			}},
		}}, nil
	}

	if dataCoding != DataCodingDefault && dataCoding != DataCodingUCS2 {
		return nil, fmt.Errorf("data coding 0x%02X: %w", dataCoding, ErrUnsupportedCodingForSplit)
	}

	budget := s.segmentBudget(dataCoding)
	if dataCoding == DataCodingUCS2 {
		budget &^= 1
	}
	total := (len(message) + budget - 1) / budget
	if total > MaxSegments {
		return nil, fmt.Errorf("%d segments: %w", total, ErrTooManySegments)
	}

	ref := s.nextRef()
	segments := make([]Segment, 0, total)
	for seq := 1; seq <= total; seq++ {
		start := (seq - 1) * budget
		end := start + budget
		if end > len(message) {
			end = len(message)
		}
		chunk := message[start:end]

		switch s.method {
		case CSMSUdh8Bit:
			payload := make([]byte, 0, len(chunk)+6)
			payload = append(payload, 0x05, 0x00, 0x03, byte(ref), byte(total), byte(seq))
			payload = append(payload, chunk...)
			segments = append(segments, Segment{
				ShortMessage: payload,
				EsmClassBits: EsmClassUDHI,
			})
		default:
			segments = append(segments, Segment{
				ShortMessage: chunk,
				OptionalParams: []OptionalParameter{
					NewU16Param(TagSarMsgRefNum, ref),
					NewU8Param(TagSarTotalSegments, uint8(total)),
					NewU8Param(TagSarSegmentSeqnum, uint8(seq)),
				},
			})
		}
	}
	return segments, nil
}
