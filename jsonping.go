// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"strings"
)

const (
	// jsonProtocolVersion is sent in the handshake; -1 asks for any version.
	jsonProtocolVersion = -1

	// jsonNextStateStatus is the handshake intent of a status request.
	jsonNextStateStatus = 1

	// maxJSONPayload bounds the status string, favicon included.
	maxJSONPayload = 1 << 21

	// faviconMarker separates the data URI header from the icon bytes.
	faviconMarker = "base64,"
)

// jsonParser speaks the status handshake of release 1.7 and later.
type jsonParser struct{}

func (jsonParser) Dialect() Dialect {
	return DialectJSON
}

func (p jsonParser) Attempt(ctx context.Context, h *Handle, target Endpoint) (*StatusFields, error) {
	const d = DialectJSON
	if err := sendRequest(ctx, d, h, jsonStatusRequest(target)); err != nil {
		return nil, err
	}
	if _, err := awaitResponse(ctx, d, h); err != nil {
		return nil, err
	}

	_, _ = DecodeVarint(h) // packet length
	packetID, _ := DecodeVarint(h)
	if h.Err() != nil {
		return nil, newIOError(ctx, d, h.Err())
	}
	if packetID != 0 {
		return nil, newUnknownError(d, ErrBadMarker, "packet id %d", packetID)
	}
	length, _ := DecodeVarint(h)
	if h.Err() != nil {
		return nil, newIOError(ctx, d, h.Err())
	}
	if length <= 0 || length > maxJSONPayload {
		return nil, newUnknownError(d, ErrShortResponse, "status length %d", length)
	}
	payload, err := h.ReadFull(int(length))
	if err != nil {
		return nil, newIOError(ctx, d, err)
	}
	return DecodeJSONStatus(payload)
}

// jsonStatusRequest returns the handshake packet followed by the status request.
func jsonStatusRequest(target Endpoint) []byte {
	body := []byte{0x00}
	body = AppendVarint(body, jsonProtocolVersion)
	body = AppendVarint(body, int32(len(target.Host)))
	body = append(body, target.Host...)
	body = binary.BigEndian.AppendUint16(body, target.Port)
	body = AppendVarint(body, jsonNextStateStatus)

	packet := AppendVarint(nil, int32(len(body)))
	packet = append(packet, body...)
	return append(packet, 0x01, 0x00)
}

// jsonStatus is the subset of the status document we validate.
type jsonStatus struct {
	Version *struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`

	Players *struct {
		Online *int `json:"online"`
		Max    *int `json:"max"`
	} `json:"players"`

	Description json.RawMessage `json:"description"`

	Favicon string `json:"favicon"`
}

// DecodeJSONStatus decodes the status document of the JSON dialect.
//
// An empty version name, a description without any text, or missing or
// negative player counts make the document unusable even when it is valid
// JSON.
func DecodeJSONStatus(payload []byte) (*StatusFields, error) {
	const d = DialectJSON
	var status jsonStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, newUnknownError(d, ErrMissingField, "status document: %s", err)
	}
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, newUnknownError(d, ErrMissingField, "status document: %s", err)
	}

	if status.Version == nil || status.Version.Name == "" {
		return nil, newUnknownError(d, ErrMissingField, "version")
	}
	if status.Players == nil || status.Players.Online == nil || status.Players.Max == nil {
		return nil, newUnknownError(d, ErrMissingField, "players")
	}
	if err := checkPlayerCounts(d, *status.Players.Online, *status.Players.Max); err != nil {
		return nil, err
	}
	var description any
	if len(status.Description) > 0 {
		if err := json.Unmarshal(status.Description, &description); err != nil {
			return nil, newUnknownError(d, ErrMissingField, "description: %s", err)
		}
	}
	if flattenMotd(description) == "" {
		return nil, newUnknownError(d, ErrMissingField, "description")
	}
	motd := rawMotd(description, status.Description)

	fields := &StatusFields{
		Protocol:       status.Version.Protocol,
		Version:        status.Version.Name,
		Motd:           motd,
		StrippedMotd:   NormalizeMotd(description),
		CurrentPlayers: *status.Players.Online,
		MaxPlayers:     *status.Players.Max,
		JSONData:       data,
	}
	if _, encoded, found := strings.Cut(status.Favicon, faviconMarker); found {
		fields.FaviconBase64 = encoded
		if icon, err := base64.StdEncoding.DecodeString(encoded); err == nil {
			fields.Favicon = icon
		}
	}
	return fields, nil
}

// rawMotd returns a string description as is and any other description
// as its JSON text.
func rawMotd(description any, raw json.RawMessage) string {
	switch v := description.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return string(raw)
	}
}
