package traci

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// reader decodes TraCI wire values from a byte slice. The first decode
// failure sticks; subsequent reads return zero values and Err reports
// the failure.
type reader struct {
	buf []byte
	off int
	err error
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = &ProtocolError{Reason: fmt.Sprintf(format, args...)}
	}
}

func (r *reader) Err() error {
	return r.err
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.remaining() < n {
		r.fail("truncated message: need %d bytes, have %d", n, r.remaining())
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) ubyte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) int32v() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

func (r *reader) float64v() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

func (r *reader) stringv() string {
	n := r.int32v()
	if r.err != nil {
		return ""
	}
	if n < 0 {
		r.fail("negative string length %d", n)
		return ""
	}
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *reader) stringList() []string {
	n := r.int32v()
	if r.err != nil {
		return nil
	}
	if n < 0 {
		r.fail("negative string list length %d", n)
		return nil
	}
	out := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		out = append(out, r.stringv())
		if r.err != nil {
			return nil
		}
	}
	return out
}

// command consumes one framed command and returns its identifier and
// content. TraCI uses a one-byte command length; a zero length byte
// switches to an extended four-byte length for large commands.
func (r *reader) command() (byte, []byte) {
	start := r.off
	length := int(r.ubyte())
	headerLen := 1
	if r.err == nil && length == 0 {
		length = int(r.int32v())
		headerLen = 5
	}
	if r.err != nil {
		return 0, nil
	}
	if length < headerLen+1 || length > len(r.buf)-start {
		r.fail("invalid command length %d", length)
		return 0, nil
	}
	id := r.ubyte()
	content := r.take(length - headerLen - 1)
	if r.err != nil {
		return 0, nil
	}
	return id, content
}

// writer builds TraCI wire payloads.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) ubyte(b byte) {
	w.buf.WriteByte(b)
}

func (w *writer) int32v(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *writer) stringv(s string) {
	w.int32v(int32(len(s)))
	w.buf.WriteString(s)
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

// encodeCommand frames a single command with its length header.
func encodeCommand(id byte, content []byte) []byte {
	total := 2 + len(content)
	var w writer
	if total <= 0xff {
		w.ubyte(byte(total))
	} else {
		// Extended framing adds four length bytes to the total.
		w.ubyte(0)
		w.int32v(int32(total + 4))
	}
	w.ubyte(id)
	w.buf.Write(content)
	return w.bytes()
}

// encodeMessage wraps framed commands in the outer message envelope:
// a four-byte length that counts itself.
func encodeMessage(commands []byte) []byte {
	var w writer
	w.int32v(int32(4 + len(commands)))
	w.buf.Write(commands)
	return w.bytes()
}
