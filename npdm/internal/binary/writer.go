package binary

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrNegativeOffset is returned by Seek when the target position is before
// the start of the buffer.
var ErrNegativeOffset = errors.New("binary: negative position")

// Writer is a growable byte buffer with a movable cursor. Writes land at the
// cursor and overwrite or extend the buffer; any gap between the old end and
// the cursor is zero-filled.
type Writer struct {
	order binary.ByteOrder
	buf   []byte
	pos   int
}

// NewWriter creates a Writer using the given byte order for multi-byte values.
func NewWriter(order binary.ByteOrder) *Writer {
	return &Writer{order: order}
}

// NewLE creates a little-endian Writer.
func NewLE() *Writer {
	return NewWriter(binary.LittleEndian)
}

// Bytes returns the written bytes. The slice aliases the buffer; callers that
// keep it across further writes must copy it.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the buffer length, which may exceed Pos after a backward seek.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Pos returns the cursor position.
func (w *Writer) Pos() int {
	return w.pos
}

// Seek moves the cursor. Moving past the end zero-extends the buffer up to
// the new cursor.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("binary: invalid whence")
	}
	if abs < 0 {
		return 0, ErrNegativeOffset
	}
	w.pos = int(abs)
	w.fill()
	return abs, nil
}

// SeekTo moves the cursor to an absolute position.
func (w *Writer) SeekTo(pos int) {
	if pos < 0 {
		panic(ErrNegativeOffset)
	}
	w.pos = pos
	w.fill()
}

// Skip advances the cursor by n zero bytes (or moves it back when negative).
func (w *Writer) Skip(n int) {
	w.SeekTo(w.pos + n)
}

// Align advances the cursor to the next multiple of n. It is a no-op when
// already aligned.
func (w *Writer) Align(n int) {
	if n <= 1 {
		return
	}
	if rem := w.pos % n; rem != 0 {
		w.Skip(n - rem)
	}
}

func (w *Writer) fill() {
	if w.pos > len(w.buf) {
		w.buf = append(w.buf, make([]byte, w.pos-len(w.buf))...)
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.WriteBytes(p)
	return len(p), nil
}

// WriteBytes writes raw bytes at the cursor.
func (w *Writer) WriteBytes(data []byte) {
	w.fill()
	end := w.pos + len(data)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:end], data)
	w.pos = end
}

// WriteSub copies the full contents of another Writer at the cursor.
func (w *Writer) WriteSub(other *Writer) {
	w.WriteBytes(other.buf)
}

// WriteString writes the bytes of s without a terminator or length prefix.
func (w *Writer) WriteString(s string) {
	w.WriteBytes([]byte(s))
}

// WriteFixedString writes s truncated or NUL-padded to exactly width bytes.
// s is written byte for byte; callers validate its encoding.
func (w *Writer) WriteFixedString(s string, width int) {
	field := make([]byte, width)
	copy(field, s)
	w.WriteBytes(field)
}

// Zero writes n zero bytes.
func (w *Writer) Zero(n int) {
	w.WriteBytes(make([]byte, n))
}

// U8 writes a single byte.
func (w *Writer) U8(v uint8) {
	w.WriteBytes([]byte{v})
}

// S8 writes a signed byte.
func (w *Writer) S8(v int8) {
	w.U8(uint8(v))
}

// Bool writes 1 for true and 0 for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

// U16 writes a uint16 in the writer's byte order.
func (w *Writer) U16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.WriteBytes(b[:])
}

// S16 writes an int16 in the writer's byte order.
func (w *Writer) S16(v int16) {
	w.U16(uint16(v))
}

// U24 writes the low 24 bits of v.
func (w *Writer) U24(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v&0xFFFFFF)
	if w.order == binary.BigEndian {
		w.WriteBytes(b[1:])
	} else {
		w.WriteBytes(b[:3])
	}
}

// U32 writes a uint32 in the writer's byte order.
func (w *Writer) U32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.WriteBytes(b[:])
}

// S32 writes an int32 in the writer's byte order.
func (w *Writer) S32(v int32) {
	w.U32(uint32(v))
}

// U64 writes a uint64 in the writer's byte order.
func (w *Writer) U64(v uint64) {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.WriteBytes(b[:])
}

// S64 writes an int64 in the writer's byte order.
func (w *Writer) S64(v int64) {
	w.U64(uint64(v))
}

// F32 writes the IEEE 754 bits of v (fixed 4 bytes).
func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

// F64 writes the IEEE 754 bits of v (fixed 8 bytes).
func (w *Writer) F64(v float64) {
	w.U64(math.Float64bits(v))
}

// Slot is a header region reserved ahead of the values that fill it.
type Slot struct {
	Off int
	Len int
}

// Reserve zero-fills n bytes at the cursor and returns their position so
// they can be patched once the values are known.
func (w *Writer) Reserve(n int) Slot {
	s := Slot{Off: w.pos, Len: n}
	w.Skip(n)
	return s
}

// PatchU32 writes consecutive u32 values into a reserved slot. The cursor is
// left where it was. It panics if the values do not fit the slot.
func (w *Writer) PatchU32(s Slot, vals ...uint32) {
	if len(vals)*4 > s.Len {
		panic("binary: patch exceeds reserved slot")
	}
	saved := w.pos
	w.SeekTo(s.Off)
	for _, v := range vals {
		w.U32(v)
	}
	w.pos = saved
}
