package traci

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFramingRoundTrip(t *testing.T) {
	content := []byte{0x01, 0x02, 0x03}
	framed := encodeCommand(cmdGetVehicleVariable, content)

	r := newReader(framed)
	id, got := r.command()
	require.NoError(t, r.Err())
	assert.Equal(t, cmdGetVehicleVariable, id)
	assert.Equal(t, content, got)
	assert.Equal(t, 0, r.remaining())
}

func TestCommandFramingExtendedLength(t *testing.T) {
	content := bytes.Repeat([]byte{0xab}, 300)
	framed := encodeCommand(cmdGetVehicleVariable, content)

	// Extended framing starts with a zero length byte.
	assert.Equal(t, byte(0), framed[0])

	r := newReader(framed)
	id, got := r.command()
	require.NoError(t, r.Err())
	assert.Equal(t, cmdGetVehicleVariable, id)
	assert.Equal(t, content, got)
}

func TestReaderStringList(t *testing.T) {
	var w writer
	w.int32v(2)
	w.stringv("alpha")
	w.stringv("beta")

	r := newReader(w.bytes())
	assert.Equal(t, []string{"alpha", "beta"}, r.stringList())
	require.NoError(t, r.Err())
}

func TestReaderTruncatedStringFails(t *testing.T) {
	var w writer
	w.int32v(10)
	w.buf.WriteString("short")

	r := newReader(w.bytes())
	r.stringv()
	assert.Error(t, r.Err())
}

func TestReaderSticksOnFirstError(t *testing.T) {
	r := newReader([]byte{0x01})
	r.int32v()
	first := r.Err()
	require.Error(t, first)
	r.ubyte()
	assert.Equal(t, first, r.Err())
}

func TestMessageEnvelopeCountsItself(t *testing.T) {
	framed := encodeCommand(cmdGetVersion, nil)
	msg := encodeMessage(framed)
	assert.Len(t, msg, 4+len(framed))
	assert.Equal(t, byte(len(msg)), msg[3])
}
