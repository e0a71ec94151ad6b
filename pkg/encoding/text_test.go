package encoding

import (
	"bytes"
	"testing"
)

func TestEncodeGSM7Bit(t *testing.T) {
	e := NewTextEncoder()

	data, err := e.EncodeGSM7Bit("Hello @£")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x48, 0x65, 0x6C, 0x6C, 0x6F, 0x20, 0x00, 0x01}
	if !bytes.Equal(data, want) {
		t.Errorf("encoded = % X, want % X", data, want)
	}
}

func TestEncodeGSM7BitExtended(t *testing.T) {
	e := NewTextEncoder()

	data, err := e.EncodeGSM7Bit("{€}")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x1B, 0x28, 0x1B, 0x65, 0x1B, 0x29}
	if !bytes.Equal(data, want) {
		t.Errorf("encoded = % X, want % X", data, want)
	}
}

func TestEncodeGSM7BitUnsupported(t *testing.T) {
	e := NewTextEncoder()
	if _, err := e.EncodeGSM7Bit("日本語"); err == nil {
		t.Fatal("kanji accepted by GSM alphabet")
	}
}

func TestGSM7BitRoundTrip(t *testing.T) {
	e := NewTextEncoder()
	texts := []string{
		"plain ascii text 123",
		"umlauts äöü and ÄÖÜ",
		"extended [brackets] {braces} €",
		"ΔΦΓΛΩΠΨΣΘΞ",
	}
	for _, text := range texts {
		data, err := e.EncodeGSM7Bit(text)
		if err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		if got := e.DecodeGSM7Bit(data); got != text {
			t.Errorf("round trip %q -> %q", text, got)
		}
	}
}

func TestIsGSM7Compatible(t *testing.T) {
	e := NewTextEncoder()
	if !e.IsGSM7Compatible("Hello [world] €") {
		t.Error("GSM-compatible text rejected")
	}
	if e.IsGSM7Compatible("Привет") {
		t.Error("cyrillic accepted")
	}
}

func TestUCS2RoundTrip(t *testing.T) {
	e := NewTextEncoder()
	texts := []string{
		"Hello",
		"Привет мир",
		"日本語テスト",
		"emoji 😀 pair",
	}
	for _, text := range texts {
		data, err := e.EncodeUCS2(text)
		if err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		got, err := e.DecodeUCS2(data)
		if err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		if got != text {
			t.Errorf("round trip %q -> %q", text, got)
		}
	}
}

func TestEncodeUCS2BigEndian(t *testing.T) {
	e := NewTextEncoder()
	data, err := e.EncodeUCS2("Aé")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0x41, 0x00, 0xE9}
	if !bytes.Equal(data, want) {
		t.Errorf("encoded = % X, want % X", data, want)
	}
}

func TestDecodeUCS2OddLength(t *testing.T) {
	e := NewTextEncoder()
	if _, err := e.DecodeUCS2([]byte{0x00, 0x41, 0x00}); err == nil {
		t.Fatal("odd-length UCS2 accepted")
	}
}

func TestPack7Bit(t *testing.T) {
	e := NewTextEncoder()

	septets, err := e.EncodeGSM7Bit("hello")
	if err != nil {
		t.Fatal(err)
	}
	packed := e.Pack7Bit(septets)
	want := []byte{0xE8, 0x32, 0x9B, 0xFD, 0x06}
	if !bytes.Equal(packed, want) {
		t.Errorf("packed = % X, want % X", packed, want)
	}
}

func TestPack7BitRoundTrip(t *testing.T) {
	e := NewTextEncoder()
	septets, err := e.EncodeGSM7Bit("the quick brown fox jumps over the lazy dog")
	if err != nil {
		t.Fatal(err)
	}
	packed := e.Pack7Bit(septets)
	unpacked := e.Unpack7Bit(packed, len(septets))
	if !bytes.Equal(unpacked, septets) {
		t.Errorf("round trip:\n in: % X\nout: % X", septets, unpacked)
	}
}
