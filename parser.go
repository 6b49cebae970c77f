// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"fmt"
)

// StatusFields is what a successful dialect attempt decoded.
//
// Fields a dialect does not carry keep their zero value; in particular
// PlayerList and Plugins are nil unless the query dialect produced them.
type StatusFields struct {
	// Protocol is the dialect-specific protocol number, 0 if not reported.
	Protocol int

	// Version is the human-readable server version.
	Version string

	// Motd is the message of the day in the dialect's native form.
	Motd string

	// StrippedMotd is Motd after [NormalizeMotd].
	StrippedMotd string

	CurrentPlayers int
	MaxPlayers     int

	PlayerList []string
	Plugins    []string
	Gamemode   string

	JSONData      map[string]any
	Favicon       []byte
	FaviconBase64 string
}

// WireParser performs the handshake of one dialect over an open [*Handle].
//
// Implementations return either decoded fields or an [*AttemptError],
// never both. The context deadline bounds the whole exchange.
type WireParser interface {
	// Dialect returns the dialect implemented by the parser.
	Dialect() Dialect

	// Attempt sends the request and decodes the response. The target is
	// the endpoint the handle is connected to; some dialects embed it in
	// their request.
	Attempt(ctx context.Context, h *Handle, target Endpoint) (*StatusFields, error)
}

// NewWireParser returns the parser for a concrete dialect.
//
// The cfg argument provides the clock used by the datagram-ping request.
func NewWireParser(cfg *Config, d Dialect) (WireParser, error) {
	switch d {
	case DialectLegacyBeta:
		return legacyBetaParser{}, nil
	case DialectLegacy:
		return legacyParser{}, nil
	case DialectExtendedLegacy:
		return extendedLegacyParser{}, nil
	case DialectJSON:
		return jsonParser{}, nil
	case DialectBedrock:
		return &bedrockParser{ClientGUID: newRandomUint64(), TimeNow: cfg.TimeNow}, nil
	case DialectQuery:
		return &queryParser{SessionID: uint32(newRandomUint64())}, nil
	default:
		return nil, fmt.Errorf("minestat: no wire parser for dialect %s", d)
	}
}

// checkPlayerCounts rejects negative player counts.
func checkPlayerCounts(d Dialect, current, maxPlayers int) error {
	if current < 0 || maxPlayers < 0 {
		return newUnknownError(d, ErrMissingField, "player counts %d/%d", current, maxPlayers)
	}
	return nil
}

// sendRequest writes a request and maps a failure to an [*AttemptError].
func sendRequest(ctx context.Context, d Dialect, h *Handle, request []byte) error {
	if err := h.Write(request); err != nil {
		return newIOError(ctx, d, err)
	}
	return nil
}

// awaitResponse blocks until the first response byte arrives and returns it.
func awaitResponse(ctx context.Context, d Dialect, h *Handle) (byte, error) {
	head, err := h.Peek(1)
	if err != nil {
		return 0, newIOError(ctx, d, err)
	}
	return head[0], nil
}

