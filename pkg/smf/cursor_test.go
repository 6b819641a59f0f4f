package smf

import (
	"bytes"
	"errors"
	"testing"
)

func TestCursorReads(t *testing.T) {
	c := NewCursor([]byte("MThd\x00\x00\x00\x06\x01\x02\x03"))

	id, err := c.ReadFixedString(4)
	if err != nil || id != "MThd" {
		t.Fatalf("ReadFixedString(4) = %q, %v, want %q", id, err, "MThd")
	}

	n, err := c.ReadUint(4)
	if err != nil || n != 6 {
		t.Fatalf("ReadUint(4) = %d, %v, want 6", n, err)
	}

	b, err := c.ReadBytes(2)
	if err != nil || !bytes.Equal(b, []byte{0x01, 0x02}) {
		t.Fatalf("ReadBytes(2) = % X, %v, want 01 02", b, err)
	}

	if c.Remaining() != 1 {
		t.Errorf("Remaining() = %d, want 1", c.Remaining())
	}
}

func TestCursorTruncatedReadDoesNotMove(t *testing.T) {
	c := NewCursor([]byte{0x00, 0x01, 0x02})
	if _, err := c.ReadByte(); err != nil {
		t.Fatalf("ReadByte() error = %v", err)
	}

	_, err := c.ReadUint(4)
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("ReadUint(4) error = %v, want %v", err, ErrTruncatedInput)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Offset != 1 {
		t.Errorf("ReadUint(4) error = %#v, want DecodeError at offset 1", err)
	}
	if c.Pos() != 1 {
		t.Errorf("Pos() after failed read = %d, want 1", c.Pos())
	}

	if _, err := c.ReadBytes(3); !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("ReadBytes(3) error = %v, want %v", err, ErrTruncatedInput)
	}
	if _, err := c.ReadFixedString(5); !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("ReadFixedString(5) error = %v, want %v", err, ErrTruncatedInput)
	}
}

func TestCursorRewindAndSeek(t *testing.T) {
	c := NewCursor([]byte{0x90, 0x40, 0x7F})
	_, _ = c.ReadBytes(2)

	if err := c.Rewind(1); err != nil {
		t.Fatalf("Rewind(1) error = %v", err)
	}
	if b, _ := c.Peek(); b != 0x40 {
		t.Errorf("Peek() after Rewind(1) = 0x%02X, want 0x40", b)
	}
	if err := c.Rewind(5); err == nil {
		t.Error("Rewind(5) expected error")
	}
	if err := c.Seek(4); err == nil {
		t.Error("Seek(4) expected error")
	}
	if err := c.Seek(3); err != nil || c.Remaining() != 0 {
		t.Errorf("Seek(3) = %v, remaining %d", err, c.Remaining())
	}
}

func TestCursorSubKeepsAbsoluteOffsets(t *testing.T) {
	c := NewCursor([]byte{0xAA, 0xBB, 0x01, 0x02, 0xCC})
	_, _ = c.ReadBytes(2)

	sub, err := c.Sub(2)
	if err != nil {
		t.Fatalf("Sub(2) error = %v", err)
	}
	if sub.Offset() != 2 {
		t.Errorf("sub.Offset() = %d, want 2", sub.Offset())
	}
	if c.Offset() != 4 {
		t.Errorf("parent Offset() after Sub = %d, want 4", c.Offset())
	}

	_, _ = sub.ReadBytes(2)
	_, err = sub.ReadByte()
	var de *DecodeError
	if !errors.As(err, &de) || de.Offset != 4 {
		t.Errorf("sub.ReadByte() past end error = %v, want DecodeError at offset 4", err)
	}

	if _, err := c.Sub(2); !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("Sub(2) beyond buffer error = %v, want %v", err, ErrTruncatedInput)
	}
}
