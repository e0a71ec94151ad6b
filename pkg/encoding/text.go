package encoding

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// TextEncoder handles encoding and decoding of SMS text in the codings the
// client submits with: the GSM 03.38 default alphabet in its 8-bit
// transparent form, and UCS-2 as UTF-16BE.
type TextEncoder struct{}

// NewTextEncoder creates a new text encoder
func NewTextEncoder() *TextEncoder {
	return &TextEncoder{}
}

// GSM 03.38 default alphabet
var gsm7BitAlphabet = map[rune]byte{
	'@': 0x00, '£': 0x01, '$': 0x02, '¥': 0x03, 'è': 0x04, 'é': 0x05, 'ù': 0x06, 'ì': 0x07,
	'ò': 0x08, 'Ç': 0x09, '\n': 0x0A, 'Ø': 0x0B, 'ø': 0x0C, '\r': 0x0D, 'Å': 0x0E, 'å': 0x0F,
	'Δ': 0x10, '_': 0x11, 'Φ': 0x12, 'Γ': 0x13, 'Λ': 0x14, 'Ω': 0x15, 'Π': 0x16, 'Ψ': 0x17,
	'Σ': 0x18, 'Θ': 0x19, 'Ξ': 0x1A, '\x1B': 0x1B, 'Æ': 0x1C, 'æ': 0x1D, 'ß': 0x1E, 'É': 0x1F,
	' ': 0x20, '!': 0x21, '"': 0x22, '#': 0x23, '¤': 0x24, '%': 0x25, '&': 0x26, '\'': 0x27,
	'(': 0x28, ')': 0x29, '*': 0x2A, '+': 0x2B, ',': 0x2C, '-': 0x2D, '.': 0x2E, '/': 0x2F,
	'0': 0x30, '1': 0x31, '2': 0x32, '3': 0x33, '4': 0x34, '5': 0x35, '6': 0x36, '7': 0x37,
	'8': 0x38, '9': 0x39, ':': 0x3A, ';': 0x3B, '<': 0x3C, '=': 0x3D, '>': 0x3E, '?': 0x3F,
	'¡': 0x40, 'A': 0x41, 'B': 0x42, 'C': 0x43, 'D': 0x44, 'E': 0x45, 'F': 0x46, 'G': 0x47,
	'H': 0x48, 'I': 0x49, 'J': 0x4A, 'K': 0x4B, 'L': 0x4C, 'M': 0x4D, 'N': 0x4E, 'O': 0x4F,
	'P': 0x50, 'Q': 0x51, 'R': 0x52, 'S': 0x53, 'T': 0x54, 'U': 0x55, 'V': 0x56, 'W': 0x57,
	'X': 0x58, 'Y': 0x59, 'Z': 0x5A, 'Ä': 0x5B, 'Ö': 0x5C, 'Ñ': 0x5D, 'Ü': 0x5E, '§': 0x5F,
	'¿': 0x60, 'a': 0x61, 'b': 0x62, 'c': 0x63, 'd': 0x64, 'e': 0x65, 'f': 0x66, 'g': 0x67,
	'h': 0x68, 'i': 0x69, 'j': 0x6A, 'k': 0x6B, 'l': 0x6C, 'm': 0x6D, 'n': 0x6E, 'o': 0x6F,
	'p': 0x70, 'q': 0x71, 'r': 0x72, 's': 0x73, 't': 0x74, 'u': 0x75, 'v': 0x76, 'w': 0x77,
	'x': 0x78, 'y': 0x79, 'z': 0x7A, 'ä': 0x7B, 'ö': 0x7C, 'ñ': 0x7D, 'ü': 0x7E, 'à': 0x7F,
}

// Extended GSM characters, sent with a 0x1B escape prefix.
var gsm7BitExtended = map[rune]byte{
	'\f': 0x0A,
	'^':  0x14,
	'{':  0x28,
	'}':  0x29,
	'\\': 0x2F,
	'[':  0x3C,
	'~':  0x3D,
	']':  0x3E,
	'|':  0x40,
	'€':  0x65,
}

var (
	gsm7BitReverse         map[byte]rune
	gsm7BitExtendedReverse map[byte]rune
)

func init() {
	gsm7BitReverse = make(map[byte]rune, len(gsm7BitAlphabet))
	for r, b := range gsm7BitAlphabet {
		gsm7BitReverse[b] = r
	}
	gsm7BitExtendedReverse = make(map[byte]rune, len(gsm7BitExtended))
	for r, b := range gsm7BitExtended {
		gsm7BitExtendedReverse[b] = r
	}
}

// IsGSM7Compatible reports whether every rune of text exists in the GSM
// default alphabet or its extension table.
func (e *TextEncoder) IsGSM7Compatible(text string) bool {
	for _, r := range text {
		if _, ok := gsm7BitAlphabet[r]; ok {
			continue
		}
		if _, ok := gsm7BitExtended[r]; ok {
			continue
		}
		return false
	}
	return true
}

// EncodeGSM7Bit maps text onto the GSM alphabet, one octet per septet
// (the transparent 8-bit form). Characters outside the alphabet fail.
func (e *TextEncoder) EncodeGSM7Bit(text string) ([]byte, error) {
	result := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := gsm7BitAlphabet[r]; ok {
			result = append(result, b)
		} else if b, ok := gsm7BitExtended[r]; ok {
			result = append(result, 0x1B, b)
		} else {
			return nil, fmt.Errorf("character %q (U+%04X) not in GSM 03.38 alphabet", r, r)
		}
	}
	return result, nil
}

// DecodeGSM7Bit decodes the transparent 8-bit GSM form back to a string.
// Unmapped octets decode as spaces.
func (e *TextEncoder) DecodeGSM7Bit(data []byte) string {
	result := make([]rune, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == 0x1B && i+1 < len(data) {
			i++
			if r, ok := gsm7BitExtendedReverse[data[i]]; ok {
				result = append(result, r)
			} else {
				result = append(result, ' ')
			}
			continue
		}
		if r, ok := gsm7BitReverse[b]; ok {
			result = append(result, r)
		} else {
			result = append(result, ' ')
		}
	}
	return string(result)
}

// EncodeUCS2 encodes a string to UCS2 (UTF-16 Big Endian) format
func (e *TextEncoder) EncodeUCS2(text string) ([]byte, error) {
	if !utf8.ValidString(text) {
		return nil, errors.New("invalid UTF-8 string")
	}
	codes := utf16.Encode([]rune(text))
	result := make([]byte, len(codes)*2)
	for i, code := range codes {
		result[i*2] = byte(code >> 8)
		result[i*2+1] = byte(code)
	}
	return result, nil
}

// DecodeUCS2 decodes UCS2 (UTF-16 Big Endian) format to string
func (e *TextEncoder) DecodeUCS2(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", errors.New("UCS2 data must have even length")
	}
	codes := make([]uint16, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		codes[i/2] = uint16(data[i])<<8 | uint16(data[i+1])
	}
	return string(utf16.Decode(codes)), nil
}

// Pack7Bit packs septet values (one per octet, as produced by
// EncodeGSM7Bit) into the 7-bit packed form used by handsets that expect
// pre-packed user data: each septet is shifted into a bit accumulator and
// full octets are emitted little-end first.
func (e *TextEncoder) Pack7Bit(septets []byte) []byte {
	var out []byte
	var acc uint
	bits := 0
	for _, s := range septets {
		acc |= uint(s&0x7F) << bits
		bits += 7
		for bits >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			bits -= 8
		}
	}
	if bits > 0 {
		out = append(out, byte(acc))
	}
	return out
}

// Unpack7Bit expands packed 7-bit user data back to one septet per octet.
// n is the number of septets encoded; pass a negative n to expand as many
// whole septets as the data holds.
func (e *TextEncoder) Unpack7Bit(packed []byte, n int) []byte {
	if n < 0 {
		n = len(packed) * 8 / 7
	}
	out := make([]byte, 0, n)
	var acc uint
	bits := 0
	for _, b := range packed {
		acc |= uint(b) << bits
		bits += 8
		for bits >= 7 && len(out) < n {
			out = append(out, byte(acc&0x7F))
			acc >>= 7
			bits -= 7
		}
	}
	return out
}
