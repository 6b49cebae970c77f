// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

const (
	queryHandshake = 0x09
	queryStat      = 0x00

	// querySessionMask keeps every session ID byte in the range servers accept.
	querySessionMask = 0x0f0f0f0f

	// challengeOffset skips the type byte and the echoed session ID.
	challengeOffset = 5

	// statPayloadOffset also skips the "splitnum\x00\x80\x00" padding.
	statPayloadOffset = 16
)

// playerSentinel separates the key/value block from the player names.
var playerSentinel = []byte("\x00\x00\x01player_\x00\x00")

// queryParser speaks the GS4 query protocol with the full-stat request.
type queryParser struct {
	// SessionID is echoed back by the server.
	SessionID uint32
}

func (*queryParser) Dialect() Dialect {
	return DialectQuery
}

func (p *queryParser) Attempt(ctx context.Context, h *Handle, target Endpoint) (*StatusFields, error) {
	const d = DialectQuery
	session := p.SessionID & querySessionMask

	handshake := []byte{0xfe, 0xfd, queryHandshake}
	handshake = binary.BigEndian.AppendUint32(handshake, session)
	if err := sendRequest(ctx, d, h, handshake); err != nil {
		return nil, err
	}
	marker, err := awaitResponse(ctx, d, h)
	if err != nil {
		return nil, err
	}
	if marker != queryHandshake {
		return nil, newUnknownError(d, ErrBadMarker, "want 0x%02x, got 0x%02x", queryHandshake, marker)
	}
	challenge, err := parseChallenge(h.ReadBuffered())
	if err != nil {
		return nil, err
	}

	stat := []byte{0xfe, 0xfd, queryStat}
	stat = binary.BigEndian.AppendUint32(stat, session)
	stat = binary.BigEndian.AppendUint32(stat, challenge)
	stat = append(stat, 0x00, 0x00, 0x00, 0x00)
	if err := sendRequest(ctx, d, h, stat); err != nil {
		return nil, err
	}
	marker, err = awaitResponse(ctx, d, h)
	if err != nil {
		return nil, err
	}
	if marker != queryStat {
		return nil, newUnknownError(d, ErrBadMarker, "want 0x%02x, got 0x%02x", queryStat, marker)
	}
	return DecodeQueryStat(h.ReadBuffered())
}

// parseChallenge extracts the decimal challenge token of a handshake response.
//
// Servers print the token as a signed 32-bit integer; larger values are
// accepted as long as they fit in 32 bits.
func parseChallenge(datagram []byte) (uint32, error) {
	const d = DialectQuery
	if len(datagram) <= challengeOffset {
		return 0, newUnknownError(d, ErrShortResponse, "%d bytes", len(datagram))
	}
	token, _, _ := bytes.Cut(datagram[challengeOffset:], []byte{0x00})
	value, err := strconv.ParseInt(string(token), 10, 64)
	if err != nil || value < math.MinInt32 || value > math.MaxUint32 {
		return 0, newUnknownError(d, ErrMissingField, "challenge %q", token)
	}
	return uint32(value), nil
}

// DecodeQueryStat decodes a full-stat response datagram.
//
// PlayerList is nil when the player block is missing altogether and
// empty when it is present with no names.
func DecodeQueryStat(datagram []byte) (*StatusFields, error) {
	const d = DialectQuery
	if len(datagram) < statPayloadOffset {
		return nil, newUnknownError(d, ErrShortResponse, "%d bytes", len(datagram))
	}
	if datagram[0] != queryStat {
		return nil, newUnknownError(d, ErrBadMarker, "want 0x%02x, got 0x%02x", queryStat, datagram[0])
	}
	block, playerBlock, found := bytes.Cut(datagram[statPayloadOffset:], playerSentinel)

	values := make(map[string]string)
	items := strings.Split(string(block), "\x00")
	for i := 0; i+1 < len(items); i += 2 {
		values[items[i]] = items[i+1]
	}
	for _, key := range []string{"hostname", "version", "numplayers", "maxplayers"} {
		if _, ok := values[key]; !ok {
			return nil, newUnknownError(d, ErrMissingField, "%s", key)
		}
	}
	current, err := strconv.Atoi(values["numplayers"])
	if err != nil {
		return nil, newUnknownError(d, ErrMissingField, "numplayers %q", values["numplayers"])
	}
	maxPlayers, err := strconv.Atoi(values["maxplayers"])
	if err != nil {
		return nil, newUnknownError(d, ErrMissingField, "maxplayers %q", values["maxplayers"])
	}
	if err := checkPlayerCounts(d, current, maxPlayers); err != nil {
		return nil, err
	}

	fields := &StatusFields{
		Version:        values["version"],
		Motd:           values["hostname"],
		StrippedMotd:   NormalizeMotd(values["hostname"]),
		CurrentPlayers: current,
		MaxPlayers:     maxPlayers,
	}
	if plugins := values["plugins"]; plugins != "" {
		fields.Plugins = ParsePlugins(plugins)
	}
	if found {
		fields.PlayerList = []string{}
		for name := range strings.SplitSeq(string(playerBlock), "\x00") {
			if name != "" {
				fields.PlayerList = append(fields.PlayerList, name)
			}
		}
	}
	return fields, nil
}

// ParsePlugins parses the "<banner>: <name> <ver>; <name> <ver>" plugins value.
//
// A value without a colon is returned whole as the single element. A
// banner followed by no plugins yields an empty, non-nil list.
func ParsePlugins(value string) []string {
	_, list, found := strings.Cut(value, ":")
	if !found {
		return []string{value}
	}
	plugins := []string{}
	for entry := range strings.SplitSeq(list, ";") {
		if entry = strings.TrimSpace(entry); entry != "" {
			plugins = append(plugins, entry)
		}
	}
	return plugins
}
