package smpp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wireReader walks a PDU body, decoding the primitive field types. Every
// read fails with ErrShortRead (wrapped with the field name) once the body
// is exhausted.
type wireReader struct {
	data []byte
	off  int
}

func newWireReader(data []byte) *wireReader {
	return &wireReader{data: data}
}

func (r *wireReader) remaining() int {
	return len(r.data) - r.off
}

func (r *wireReader) u8(field string) (uint8, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("%s: %w", field, ErrShortRead)
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *wireReader) u16(field string) (uint16, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("%s: %w", field, ErrShortRead)
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *wireReader) u32(field string) (uint32, error) {
	if r.remaining() < 4 {
		return 0, fmt.Errorf("%s: %w", field, ErrShortRead)
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

// cString reads a null-terminated octet string of at most max octets
// (terminator excluded) and consumes the terminator.
func (r *wireReader) cString(field string, max int) (string, error) {
	limit := r.off + max + 1
	if limit > len(r.data) {
		limit = len(r.data)
	}
	for i := r.off; i < limit; i++ {
		if r.data[i] == 0 {
			s := string(r.data[r.off:i])
			r.off = i + 1
			return s, nil
		}
	}
	if r.remaining() <= max {
		return "", fmt.Errorf("%s: %w", field, ErrShortRead)
	}
	return "", fmt.Errorf("%s: %w", field, ErrMissingTerminator)
}

func (r *wireReader) octets(field string, n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("%s: %w", field, ErrShortRead)
	}
	v := make([]byte, n)
	copy(v, r.data[r.off:r.off+n])
	r.off += n
	return v, nil
}

// tlvs consumes the rest of the body as a sequence of optional parameters.
func (r *wireReader) tlvs() ([]OptionalParameter, error) {
	var params []OptionalParameter
	for r.remaining() > 0 {
		tag, err := r.u16("tlv tag")
		if err != nil {
			return nil, err
		}
		length, err := r.u16("tlv length")
		if err != nil {
			return nil, err
		}
		value, err := r.octets("tlv value", int(length))
		if err != nil {
			return nil, err
		}
		params = append(params, OptionalParameter{Tag: tag, Length: length, Value: value})
	}
	return params, nil
}

// wireWriter builds a PDU body out of the primitive field types.
type wireWriter struct {
	buf bytes.Buffer
}

func (w *wireWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *wireWriter) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *wireWriter) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *wireWriter) cString(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

func (w *wireWriter) octets(p []byte) {
	w.buf.Write(p)
}

func (w *wireWriter) tlv(p OptionalParameter) {
	w.u16(p.Tag)
	w.u16(uint16(len(p.Value)))
	w.buf.Write(p.Value)
}

func (w *wireWriter) bytes() []byte {
	return w.buf.Bytes()
}

// OptionalParameter represents an optional TLV parameter.
type OptionalParameter struct {
	Tag    uint16
	Length uint16
	Value  []byte
}

// U8 interprets a one-octet TLV value.
func (p OptionalParameter) U8() (uint8, bool) {
	if len(p.Value) != 1 {
		return 0, false
	}
	return p.Value[0], true
}

// U16 interprets a two-octet network-order TLV value.
func (p OptionalParameter) U16() (uint16, bool) {
	if len(p.Value) != 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(p.Value), true
}

// FindParam returns the first parameter carrying tag.
func FindParam(params []OptionalParameter, tag uint16) (OptionalParameter, bool) {
	for _, p := range params {
		if p.Tag == tag {
			return p, true
		}
	}
	return OptionalParameter{}, false
}

// NewU8Param builds a one-octet TLV.
func NewU8Param(tag uint16, v uint8) OptionalParameter {
	return OptionalParameter{Tag: tag, Length: 1, Value: []byte{v}}
}

// NewU16Param builds a two-octet network-order TLV.
func NewU16Param(tag uint16, v uint16) OptionalParameter {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return OptionalParameter{Tag: tag, Length: 2, Value: b}
}
