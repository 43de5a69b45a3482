package cmdmsg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnsskit/sbfkit/errs"
)

func buildMessage(t *testing.T, values [][]byte) []byte {
	t.Helper()

	buf := make([]byte, MaxMessageSize)
	_, err := InitHeader(buf, AuthUser)
	require.NoError(t, err)
	_, err = AddPDUHeader(buf, Set, 7)
	require.NoError(t, err)

	for i, v := range values {
		oid := OID{Appl: 1, Group: 2, Command: uint8(10 + i), TableIndex: uint8(i)}
		_, err = AddVarBinding(buf, oid, v)
		require.NoError(t, err)
	}

	msg, err := MessageBytes(buf)
	require.NoError(t, err)

	return msg
}

func TestMessageRoundTrip(t *testing.T) {
	values := [][]byte{
		[]byte("sso, Stream1, IPS1, MeasEpoch, sec1"),
		[]byte("snu"),
		{0x01, 0x02, 0x03, 0x04, 0x05},
	}
	msg := buildMessage(t, values)
	require.LessOrEqual(t, len(msg), MaxMessageSize)

	h, at, err := ParseHeader(msg)
	require.NoError(t, err)
	require.Equal(t, Version, h.Version)
	require.Equal(t, AuthUser, h.Auth)
	require.Equal(t, HeaderSize, at)

	p, at, err := ParsePDUHeader(msg)
	require.NoError(t, err)
	require.Equal(t, Set, p.Type)
	require.Equal(t, uint8(7), p.RequestID)
	require.Equal(t, StatusNone, p.ErrorStatus)

	for i, want := range values {
		oid, value, next, err := ParseVarBinding(msg, at)
		require.NoError(t, err)
		require.Equal(t, uint8(10+i), oid.Command)
		require.Equal(t, uint8(i), oid.TableIndex)
		require.Equal(t, want, value)
		at = next
	}

	// Past the last binding is a warning, not a failure.
	_, _, _, err = ParseVarBinding(msg, at)
	require.ErrorIs(t, err, errs.ErrEndOfBindings)
	require.True(t, errs.IsWarning(err))
}

func TestAddRequiresOrder(t *testing.T) {
	t.Run("pdu before header", func(t *testing.T) {
		buf := make([]byte, MaxMessageSize)
		_, err := AddPDUHeader(buf, Set, 0)
		require.ErrorIs(t, err, errs.ErrWrongState)
	})

	t.Run("binding before pdu", func(t *testing.T) {
		buf := make([]byte, MaxMessageSize)
		_, err := InitHeader(buf, AuthNone)
		require.NoError(t, err)
		_, err = AddVarBinding(buf, OID{}, []byte("x"))
		require.ErrorIs(t, err, errs.ErrWrongState)
	})

	t.Run("unknown pdu type", func(t *testing.T) {
		buf := make([]byte, MaxMessageSize)
		_, err := InitHeader(buf, AuthNone)
		require.NoError(t, err)
		_, err = AddPDUHeader(buf, PDUType('X'), 0)
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})
}

func TestBufferBounds(t *testing.T) {
	t.Run("small header buffer", func(t *testing.T) {
		_, err := InitHeader(make([]byte, 4), AuthNone)
		require.ErrorIs(t, err, errs.ErrBufferTooSmall)
	})

	t.Run("small binding buffer", func(t *testing.T) {
		buf := make([]byte, HeaderSize+PDUHeaderSize+4)
		_, err := InitHeader(buf, AuthNone)
		require.NoError(t, err)
		_, err = AddPDUHeader(buf, Get, 1)
		require.NoError(t, err)
		_, err = AddVarBinding(buf, OID{}, []byte("too big for the rest"))
		require.ErrorIs(t, err, errs.ErrBufferTooSmall)
	})

	t.Run("oversized payload", func(t *testing.T) {
		buf := make([]byte, MaxMessageSize)
		_, err := InitHeader(buf, AuthNone)
		require.NoError(t, err)
		_, err = AddPDUHeader(buf, Get, 1)
		require.NoError(t, err)
		_, err = AddVarBinding(buf, OID{}, make([]byte, MaxPayloadSize+1))
		require.ErrorIs(t, err, errs.ErrOutOfRange)
	})
}

func TestParseRejectsCorruption(t *testing.T) {
	msg := buildMessage(t, [][]byte{[]byte("sso")})

	t.Run("bad checksum", func(t *testing.T) {
		bad := make([]byte, len(msg))
		copy(bad, msg)
		bad[len(bad)-1] ^= 0xFF
		_, _, err := ParseHeader(bad)
		require.ErrorIs(t, err, errs.ErrInvalidCommand)
	})

	t.Run("bad preamble", func(t *testing.T) {
		bad := make([]byte, len(msg))
		copy(bad, msg)
		bad[1] = '!'
		_, _, err := ParseHeader(bad)
		require.ErrorIs(t, err, errs.ErrInvalidCommand)
	})

	t.Run("bad version", func(t *testing.T) {
		bad := make([]byte, len(msg))
		copy(bad, msg)
		bad[2] = 9
		// Version is outside the checksum, so this fails on version.
		_, _, err := ParseHeader(bad)
		require.ErrorIs(t, err, errs.ErrInvalidCommand)
	})
}
