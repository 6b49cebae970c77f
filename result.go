// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import "time"

// StatusResult is the immutable outcome of one poll.
//
// A poll always yields a StatusResult. When no dialect succeeded, Online
// is false and Status tells why.
type StatusResult struct {
	// Address and Port are the endpoint that was polled, after SRV resolution.
	Address string `json:"address"`
	Port    uint16 `json:"port"`

	// Online is true iff a dialect decoded its minimum field set.
	Online bool `json:"online"`

	Protocol       int    `json:"protocol,omitempty"`
	Version        string `json:"version,omitempty"`
	Motd           string `json:"motd,omitempty"`
	StrippedMotd   string `json:"stripped_motd,omitempty"`
	CurrentPlayers int    `json:"current_players"`
	MaxPlayers     int    `json:"max_players"`

	// PlayerList and Plugins are nil unless the query dialect produced the result.
	PlayerList []string `json:"player_list,omitempty"`
	Plugins    []string `json:"plugins,omitempty"`

	// Gamemode is only reported by the datagram-ping dialect.
	Gamemode string `json:"gamemode,omitempty"`

	// JSONData, Favicon and FaviconBase64 are only set by the JSON dialect.
	JSONData      map[string]any `json:"json_data,omitempty"`
	Favicon       []byte         `json:"-"`
	FaviconBase64 string         `json:"favicon_b64,omitempty"`

	// Latency is the connect time of the attempt that produced the result.
	Latency time.Duration `json:"-"`

	// Dialect produced the result, or was attempted last.
	Dialect Dialect `json:"dialect"`

	Status ConnectionOutcome `json:"status"`

	// SessionID correlates the result with the session logs.
	SessionID string `json:"session_id"`
}

// LatencyMillis returns Latency in whole milliseconds.
func (r StatusResult) LatencyMillis() int64 {
	return r.Latency.Milliseconds()
}
