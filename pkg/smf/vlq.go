package smf

import "strconv"

// MaxQuantity is the largest value a 4-byte variable length quantity holds.
const MaxQuantity = 0x0FFFFFFF

const (
	vlqContinue = 0x80
	vlqMask     = 0x7F
	vlqMaxBytes = 4
)

// Quantity is a variable length quantity as used for delta-times and
// SysEx/META lengths. The zero value is 0.
type Quantity struct {
	value uint32
}

// NewQuantity validates v against [0, MaxQuantity].
func NewQuantity(v uint32) (Quantity, error) {
	if v > MaxQuantity {
		return Quantity{}, invalidField("Quantity", "value", v)
	}
	return Quantity{value: v}, nil
}

// MustQuantity is NewQuantity for values known to be in range.
func MustQuantity(v uint32) Quantity {
	q, err := NewQuantity(v)
	if err != nil {
		panic(err)
	}
	return q
}

// Value returns the stored integer.
func (q Quantity) Value() uint32 {
	return q.value
}

// Bytes returns the minimal encoding, continuation bit set on all but the
// last byte.
func (q Quantity) Bytes() []byte {
	var buf [vlqMaxBytes]byte
	i := len(buf) - 1
	v := q.value
	buf[i] = byte(v & vlqMask)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		buf[i] = byte(v&vlqMask) | vlqContinue
	}
	out := make([]byte, len(buf)-i)
	copy(out, buf[i:])
	return out
}

// Len returns the encoded size in bytes.
func (q Quantity) Len() int {
	switch {
	case q.value < 1<<7:
		return 1
	case q.value < 1<<14:
		return 2
	case q.value < 1<<21:
		return 3
	default:
		return 4
	}
}

func (q Quantity) String() string {
	return strconv.FormatUint(uint64(q.value), 10)
}

// DecodeQuantity reads a variable length quantity from c and reports how
// many bytes it consumed. On error the cursor is left where it started.
func DecodeQuantity(c *Cursor) (Quantity, int, error) {
	start := c.Pos()
	var v uint32
	for n := 1; ; n++ {
		if n > vlqMaxBytes {
			off := c.Offset()
			_ = c.Seek(start)
			return Quantity{}, 0, decodeErrorf(off, ErrMalformedVLQ, "continuation flag set on byte %d", vlqMaxBytes)
		}
		b, err := c.ReadByte()
		if err != nil {
			_ = c.Seek(start)
			return Quantity{}, 0, err
		}
		v = v<<7 | uint32(b&vlqMask)
		if b&vlqContinue == 0 {
			return Quantity{value: v}, n, nil
		}
	}
}

// ParseQuantity decodes a quantity from the start of data.
func ParseQuantity(data []byte) (Quantity, int, error) {
	return DecodeQuantity(NewCursor(data))
}
