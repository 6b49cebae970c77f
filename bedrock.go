// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bassosimone/runtimex"
)

const (
	unconnectedPing = 0x01
	unconnectedPong = 0x1c

	// pongTextOffset is where the server ID string starts: marker, time,
	// server GUID, magic and the uint16 length.
	pongTextOffset = 35

	// pongFieldCount is the number of ";" fields we read from the ID string.
	pongFieldCount = 9
)

// raknetMagic marks offline datagrams.
var raknetMagic = runtimex.PanicOnError1(hex.DecodeString("00ffff00fefefefefdfdfdfd12345678"))

// bedrockParser speaks the unconnected ping of the console and mobile edition.
type bedrockParser struct {
	// ClientGUID identifies us to the server.
	ClientGUID uint64

	// TimeNow is stamped into the ping.
	TimeNow func() time.Time
}

func (*bedrockParser) Dialect() Dialect {
	return DialectBedrock
}

func (p *bedrockParser) Attempt(ctx context.Context, h *Handle, target Endpoint) (*StatusFields, error) {
	const d = DialectBedrock
	if err := sendRequest(ctx, d, h, p.request()); err != nil {
		return nil, err
	}
	marker, err := awaitResponse(ctx, d, h)
	if err != nil {
		return nil, err
	}
	if marker != unconnectedPong {
		return nil, newUnknownError(d, ErrBadMarker, "want 0x%02x, got 0x%02x", unconnectedPong, marker)
	}
	return DecodeBedrockPong(h.ReadBuffered())
}

func (p *bedrockParser) request() []byte {
	buf := []byte{unconnectedPing}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.TimeNow().UnixMilli()))
	buf = append(buf, raknetMagic...)
	return binary.BigEndian.AppendUint64(buf, p.ClientGUID)
}

// DecodeBedrockPong decodes an unconnected pong datagram.
//
// The server ID string is "edition;motd;protocol;version;players;max;
// serverID;motd2;gamemode;...". The version is reported as
// "<version> <motd2> (<edition>)".
func DecodeBedrockPong(datagram []byte) (*StatusFields, error) {
	const d = DialectBedrock
	if len(datagram) < pongTextOffset {
		return nil, newUnknownError(d, ErrShortResponse, "%d bytes", len(datagram))
	}
	if datagram[0] != unconnectedPong {
		return nil, newUnknownError(d, ErrBadMarker, "want 0x%02x, got 0x%02x", unconnectedPong, datagram[0])
	}
	length := int(binary.BigEndian.Uint16(datagram[pongTextOffset-2:]))
	if len(datagram) < pongTextOffset+length {
		return nil, newUnknownError(d, ErrShortResponse, "server ID wants %d bytes, have %d",
			length, len(datagram)-pongTextOffset)
	}
	fields := strings.Split(string(datagram[pongTextOffset:pongTextOffset+length]), ";")
	if len(fields) < pongFieldCount {
		return nil, newUnknownError(d, ErrShortResponse, "%d fields", len(fields))
	}
	protocol, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, newUnknownError(d, ErrMissingField, "protocol %q", fields[2])
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
		Version:        fmt.Sprintf("%s %s (%s)", fields[3], fields[7], fields[0]),
		Motd:           fields[1],
		StrippedMotd:   NormalizeMotd(fields[1]),
		CurrentPlayers: current,
		MaxPlayers:     maxPlayers,
		Gamemode:       fields[8],
	}, nil
}
