package smf

import (
	"bytes"
	"errors"
	"strconv"
	"testing"
)

func TestQuantityRoundTrip(t *testing.T) {
	tests := []struct {
		value   uint32
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x81, 0x00}},
		{16383, []byte{0xFF, 0x7F}},
		{16384, []byte{0x81, 0x80, 0x00}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{2097152, []byte{0x81, 0x80, 0x80, 0x00}},
		{268435455, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		t.Run(strconv.FormatUint(uint64(tt.value), 10), func(t *testing.T) {
			q, err := NewQuantity(tt.value)
			if err != nil {
				t.Fatalf("NewQuantity(%d) error = %v", tt.value, err)
			}
			got := q.Bytes()
			if !bytes.Equal(got, tt.encoded) {
				t.Errorf("NewQuantity(%d).Bytes() = % X, want % X", tt.value, got, tt.encoded)
			}
			if q.Len() != len(tt.encoded) {
				t.Errorf("NewQuantity(%d).Len() = %d, want %d", tt.value, q.Len(), len(tt.encoded))
			}

			decoded, n, err := ParseQuantity(got)
			if err != nil {
				t.Fatalf("ParseQuantity(% X) error = %v", got, err)
			}
			if decoded.Value() != tt.value {
				t.Errorf("ParseQuantity(% X) = %d, want %d", got, decoded.Value(), tt.value)
			}
			if n != len(tt.encoded) {
				t.Errorf("ParseQuantity(% X) consumed %d byte(s), want %d", got, n, len(tt.encoded))
			}
		})
	}
}

func TestNewQuantityOutOfRange(t *testing.T) {
	for _, v := range []uint32{MaxQuantity + 1, 0xFFFFFFFF} {
		_, err := NewQuantity(v)
		if !errors.Is(err, ErrInvalidFieldValue) {
			t.Errorf("NewQuantity(%d) error = %v, want %v", v, err, ErrInvalidFieldValue)
		}
	}
}

func TestDecodeQuantityErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"five continuation bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80}, ErrMalformedVLQ},
		{"four continuation bytes then end", []byte{0x81, 0x81, 0x81, 0x81, 0x01}, ErrMalformedVLQ},
		{"empty", []byte{}, ErrTruncatedInput},
		{"ends mid sequence", []byte{0x81, 0x80}, ErrTruncatedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.data)
			_, _, err := DecodeQuantity(c)
			if !errors.Is(err, tt.want) {
				t.Fatalf("DecodeQuantity(% X) error = %v, want %v", tt.data, err, tt.want)
			}
			if c.Pos() != 0 {
				t.Errorf("cursor position after failed decode = %d, want 0", c.Pos())
			}
		})
	}
}

func TestQuantityString(t *testing.T) {
	if got := MustQuantity(480).String(); got != "480" {
		t.Errorf("String() = %q, want %q", got, "480")
	}
}
