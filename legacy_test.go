// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kickFrame builds the 0xFF frame carrying text.
func kickFrame(text string) []byte {
	payload := encodeUTF16BE(text)
	frame := []byte{kickMarker}
	frame = binary.BigEndian.AppendUint16(frame, uint16(len(payload)/2))
	return append(frame, payload...)
}

// The NUL-delimited response of the 1.4+ pings decodes into every field.
func TestDecodeLegacy(t *testing.T) {
	fields, err := DecodeLegacy("§1\x0051\x001.6.4\x00A Server\x005\x0020")

	require.NoError(t, err)
	assert.Equal(t, 51, fields.Protocol)
	assert.Equal(t, "1.6.4", fields.Version)
	assert.Equal(t, "A Server", fields.Motd)
	assert.Equal(t, "A Server", fields.StrippedMotd)
	assert.Equal(t, 5, fields.CurrentPlayers)
	assert.Equal(t, 20, fields.MaxPlayers)
	assert.Nil(t, fields.PlayerList)
	assert.Nil(t, fields.Plugins)
}

// Malformed legacy responses are Unknown.
func TestDecodeLegacyErrors(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// text is the kick text.
		text string

		// wantErr is the expected sentinel.
		wantErr error
	}{
		{name: "too few fields", text: "§1\x0051\x001.6.4\x00A Server\x005", wantErr: ErrShortResponse},
		{name: "bad protocol", text: "§1\x00x\x001.6.4\x00A Server\x005\x0020", wantErr: ErrMissingField},
		{name: "bad current", text: "§1\x0051\x001.6.4\x00A Server\x00five\x0020", wantErr: ErrMissingField},
		{name: "bad max", text: "§1\x0051\x001.6.4\x00A Server\x005\x00", wantErr: ErrMissingField},
		{name: "negative counts", text: "§1\x0051\x001.6.4\x00A Server\x00-5\x00-20", wantErr: ErrMissingField},
		{name: "negative max", text: "§1\x0051\x001.6.4\x00A Server\x005\x00-1", wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := DecodeLegacy(tt.text)
			assert.Nil(t, fields)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, OutcomeUnknown, OutcomeOf(err))
		})
	}
}

// The beta response keeps formatting codes of the motd.
func TestDecodeLegacyBeta(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// text is the kick text.
		text string

		// wantMotd is the expected raw motd.
		wantMotd string

		// wantStripped is the expected normalized motd.
		wantStripped string

		// wantCurrent and wantMax are the expected player counts.
		wantCurrent, wantMax int
	}{
		{
			name:         "plain",
			text:         "A Server§3§20",
			wantMotd:     "A Server",
			wantStripped: "A Server",
			wantCurrent:  3,
			wantMax:      20,
		},
		{
			name:         "formatted motd",
			text:         "§aGreen §lServer§0§10",
			wantMotd:     "§aGreen §lServer",
			wantStripped: "Green Server",
			wantCurrent:  0,
			wantMax:      10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := DecodeLegacyBeta(tt.text)
			require.NoError(t, err)
			assert.Equal(t, legacyBetaVersion, fields.Version)
			assert.Equal(t, tt.wantMotd, fields.Motd)
			assert.Equal(t, tt.wantStripped, fields.StrippedMotd)
			assert.Equal(t, tt.wantCurrent, fields.CurrentPlayers)
			assert.Equal(t, tt.wantMax, fields.MaxPlayers)
		})
	}
}

// Fewer than three fields, non-numeric or negative counts are Unknown.
func TestDecodeLegacyBetaErrors(t *testing.T) {
	_, err := DecodeLegacyBeta("A Server§3")
	require.ErrorIs(t, err, ErrShortResponse)

	_, err = DecodeLegacyBeta("A Server§x§20")
	require.ErrorIs(t, err, ErrMissingField)

	_, err = DecodeLegacyBeta("A Server§3§")
	require.ErrorIs(t, err, ErrMissingField)

	_, err = DecodeLegacyBeta("A Server§-3§20")
	require.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, OutcomeUnknown, OutcomeOf(err))
}

// The extended request follows the 1.6 layout.
func TestExtendedLegacyRequest(t *testing.T) {
	got := extendedLegacyRequest(Endpoint{Host: "a.b", Port: 25565})

	want := []byte{0xfe, 0x01, 0xfa, 0x00, 0x0b}
	want = append(want, encodeUTF16BE("MC|PingHost")...)
	want = append(want, 0x00, 0x0d, 74, 0x00, 0x03)
	want = append(want, 0x00, 'a', 0x00, '.', 0x00, 'b')
	want = append(want, 0x00, 0x00, 0x63, 0xdd)
	assert.Equal(t, want, got)
}

// Each legacy parser sends its request and decodes the kick frame.
func TestLegacyParsersAttempt(t *testing.T) {
	target := Endpoint{Host: "a.b", Port: 25565}
	tests := []struct {
		// dialect selects the parser.
		dialect Dialect

		// wantRequest is what the server must receive.
		wantRequest []byte

		// reply is the kick text sent back.
		reply string

		// wantVersion is the decoded version.
		wantVersion string
	}{
		{
			dialect:     DialectLegacyBeta,
			wantRequest: []byte{0xfe},
			reply:       "A Server§1§8",
			wantVersion: legacyBetaVersion,
		},
		{
			dialect:     DialectLegacy,
			wantRequest: []byte{0xfe, 0x01},
			reply:       "§1\x0049\x001.4.7\x00A Server\x001\x008",
			wantVersion: "1.4.7",
		},
		{
			dialect:     DialectExtendedLegacy,
			wantRequest: extendedLegacyRequest(target),
			reply:       "§1\x0074\x001.6.2\x00A Server\x001\x008",
			wantVersion: "1.6.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			var gotRequest []byte
			fields, err := runAttempt(tt.dialect, target, time.Minute, func(conn net.Conn) {
				gotRequest = readRequest(conn)
				conn.Write(kickFrame(tt.reply))
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantRequest, gotRequest)
			assert.Equal(t, tt.wantVersion, fields.Version)
			assert.Equal(t, "A Server", fields.Motd)
			assert.Equal(t, 1, fields.CurrentPlayers)
			assert.Equal(t, 8, fields.MaxPlayers)
		})
	}
}

// A frame that is not a kick is Unknown.
func TestLegacyAttemptBadMarker(t *testing.T) {
	_, err := runAttempt(DialectLegacy, Endpoint{Host: "a.b", Port: 25565}, time.Minute, func(conn net.Conn) {
		readRequest(conn)
		conn.Write([]byte{0x00, 0x00, 0x01})
	})

	require.ErrorIs(t, err, ErrBadMarker)
	assert.Equal(t, OutcomeUnknown, OutcomeOf(err))
}

// A frame shorter than announced is Unknown.
func TestLegacyAttemptTruncated(t *testing.T) {
	_, err := runAttempt(DialectLegacy, Endpoint{Host: "a.b", Port: 25565}, time.Minute, func(conn net.Conn) {
		readRequest(conn)
		conn.Write([]byte{kickMarker, 0x00, 0x10, 0x00, 'A'})
	})

	require.Error(t, err)
	assert.Equal(t, OutcomeUnknown, OutcomeOf(err))
}

// A silent server is a timeout.
func TestLegacyAttemptTimeout(t *testing.T) {
	_, err := runAttempt(DialectLegacyBeta, Endpoint{Host: "a.b", Port: 25565}, 50*time.Millisecond, func(conn net.Conn) {
		readRequest(conn)
		waitClosed(conn)
	})

	require.Error(t, err)
	assert.Equal(t, OutcomeTimedOut, OutcomeOf(err))
}
