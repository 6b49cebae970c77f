// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/bassosimone/runtimex"
	"golang.org/x/text/encoding/unicode"
)

const (
	// kickMarker leads the disconnect frame carrying every legacy response.
	kickMarker = 0xff

	// legacyBetaVersion stands in for the version the beta line never reports.
	legacyBetaVersion = ">=1.8b/1.3"

	// pingHostChannel is the plugin channel of the extended handshake.
	pingHostChannel = "MC|PingHost"

	// extendedLegacyProtocol is the protocol placeholder sent in the
	// extended handshake (74, release 1.6.2).
	extendedLegacyProtocol = 74
)

// utf16be is the text encoding of the kick frame and of the extended handshake.
var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// encodeUTF16BE returns s as big-endian UTF-16 bytes.
func encodeUTF16BE(s string) []byte {
	return runtimex.PanicOnError1(utf16be.NewEncoder().Bytes([]byte(s)))
}

// readKickFrame reads "0xFF, uint16 BE length in UTF-16 units, UTF-16BE text".
func readKickFrame(ctx context.Context, d Dialect, h *Handle) (string, error) {
	marker, err := awaitResponse(ctx, d, h)
	if err != nil {
		return "", err
	}
	if marker != kickMarker {
		return "", newUnknownError(d, ErrBadMarker, "want 0x%02x, got 0x%02x", kickMarker, marker)
	}
	header, err := h.ReadFull(3)
	if err != nil {
		return "", newIOError(ctx, d, err)
	}
	units := binary.BigEndian.Uint16(header[1:])
	payload, err := h.ReadFull(int(units) * 2)
	if err != nil {
		return "", newIOError(ctx, d, err)
	}
	text, err := utf16be.NewDecoder().Bytes(payload)
	if err != nil {
		return "", newUnknownError(d, ErrMissingField, "kick text: %s", err)
	}
	return string(text), nil
}

// legacyBetaParser speaks the 0xFE ping of Beta 1.8 to release 1.3.
type legacyBetaParser struct{}

func (legacyBetaParser) Dialect() Dialect {
	return DialectLegacyBeta
}

func (p legacyBetaParser) Attempt(ctx context.Context, h *Handle, target Endpoint) (*StatusFields, error) {
	if err := sendRequest(ctx, p.Dialect(), h, []byte{0xfe}); err != nil {
		return nil, err
	}
	text, err := readKickFrame(ctx, p.Dialect(), h)
	if err != nil {
		return nil, err
	}
	return DecodeLegacyBeta(text)
}

// DecodeLegacyBeta decodes the "motd§current§max" kick text.
//
// The last two fields are the player counts; everything before them is
// the motd, so formatting codes in the motd survive the split.
func DecodeLegacyBeta(text string) (*StatusFields, error) {
	const d = DialectLegacyBeta
	fields := strings.Split(text, "§")
	if len(fields) < 3 {
		return nil, newUnknownError(d, ErrShortResponse, "%d fields", len(fields))
	}
	n := len(fields)
	current, err := strconv.Atoi(fields[n-2])
	if err != nil {
		return nil, newUnknownError(d, ErrMissingField, "current players %q", fields[n-2])
	}
	maxPlayers, err := strconv.Atoi(fields[n-1])
	if err != nil {
		return nil, newUnknownError(d, ErrMissingField, "max players %q", fields[n-1])
	}
	if err := checkPlayerCounts(d, current, maxPlayers); err != nil {
		return nil, err
	}
	motd := strings.Join(fields[:n-2], "§")
	return &StatusFields{
		Version:        legacyBetaVersion,
		Motd:           motd,
		StrippedMotd:   NormalizeMotd(motd),
		CurrentPlayers: current,
		MaxPlayers:     maxPlayers,
	}, nil
}

// legacyParser speaks the 0xFE 0x01 ping of releases 1.4 and 1.5.
type legacyParser struct{}

func (legacyParser) Dialect() Dialect {
	return DialectLegacy
}

func (p legacyParser) Attempt(ctx context.Context, h *Handle, target Endpoint) (*StatusFields, error) {
	if err := sendRequest(ctx, p.Dialect(), h, []byte{0xfe, 0x01}); err != nil {
		return nil, err
	}
	text, err := readKickFrame(ctx, p.Dialect(), h)
	if err != nil {
		return nil, err
	}
	return decodeLegacyFields(p.Dialect(), text)
}

// DecodeLegacy decodes the NUL-delimited kick text of the 1.4+ pings:
// "§1", protocol, version, motd, current players, max players.
func DecodeLegacy(text string) (*StatusFields, error) {
	return decodeLegacyFields(DialectLegacy, text)
}

func decodeLegacyFields(d Dialect, text string) (*StatusFields, error) {
	fields := strings.Split(text, "\x00")
	if len(fields) < 6 {
		return nil, newUnknownError(d, ErrShortResponse, "%d fields", len(fields))
	}
	protocol, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, newUnknownError(d, ErrMissingField, "protocol %q", fields[1])
	}
	current, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, newUnknownError(d, ErrMissingField, "current players %q", fields[4])
	}
	maxPlayers, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, newUnknownError(d, ErrMissingField, "max players %q", fields[5])
	}
	if err := checkPlayerCounts(d, current, maxPlayers); err != nil {
		return nil, err
	}
	return &StatusFields{
		Protocol:       protocol,
		Version:        fields[2],
		Motd:           fields[3],
		StrippedMotd:   NormalizeMotd(fields[3]),
		CurrentPlayers: current,
		MaxPlayers:     maxPlayers,
	}, nil
}

// extendedLegacyParser speaks the MC|PingHost ping of release 1.6.
type extendedLegacyParser struct{}

func (extendedLegacyParser) Dialect() Dialect {
	return DialectExtendedLegacy
}

func (p extendedLegacyParser) Attempt(ctx context.Context, h *Handle, target Endpoint) (*StatusFields, error) {
	if err := sendRequest(ctx, p.Dialect(), h, extendedLegacyRequest(target)); err != nil {
		return nil, err
	}
	text, err := readKickFrame(ctx, p.Dialect(), h)
	if err != nil {
		return nil, err
	}
	return decodeLegacyFields(p.Dialect(), text)
}

// extendedLegacyRequest builds the 1.6 ping:
//
//	FE 01 FA
//	uint16 len(channel) | channel (UTF-16BE)
//	uint16 7+2*len(host) | protocol byte | uint16 len(host) | host (UTF-16BE) | int32 port
//
// Lengths count UTF-16 units unless noted; all integers are big endian.
func extendedLegacyRequest(target Endpoint) []byte {
	channel := encodeUTF16BE(pingHostChannel)
	host := encodeUTF16BE(target.Host)
	runtimex.Assert(len(host)+7 <= 0xffff)

	buf := []byte{0xfe, 0x01, 0xfa}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(channel)/2))
	buf = append(buf, channel...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(7+len(host)))
	buf = append(buf, extendedLegacyProtocol)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(host)/2))
	buf = append(buf, host...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(target.Port))
	return buf
}
