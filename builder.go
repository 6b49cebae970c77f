// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"maps"
	"slices"
	"time"
)

// resultBuilder accumulates attempt outcomes for one session.
//
// Only the running attempt writes to it; [resultBuilder.build] copies
// everything into a fresh [StatusResult].
type resultBuilder struct {
	endpoint  Endpoint
	sessionID string

	dialect    Dialect
	fields     *StatusFields
	latency    time.Duration
	lastStatus ConnectionOutcome
}

func newResultBuilder(sessionID string, endpoint Endpoint) *resultBuilder {
	return &resultBuilder{
		endpoint:   endpoint,
		sessionID:  sessionID,
		lastStatus: OutcomeUnknown,
	}
}

// setEndpoint records the endpoint after SRV resolution.
func (b *resultBuilder) setEndpoint(endpoint Endpoint) {
	b.endpoint = endpoint
}

// record stores the outcome of an attempt. A zero latency means the
// connection was never opened.
func (b *resultBuilder) record(d Dialect, fields *StatusFields, latency time.Duration, outcome ConnectionOutcome) {
	b.lastStatus = outcome
	if fields != nil {
		b.fields = fields
		b.dialect = d
		b.latency = latency
		return
	}
	if b.fields == nil {
		b.dialect = d
		if latency > 0 {
			b.latency = latency
		}
	}
}

// succeeded reports whether any attempt decoded its fields.
func (b *resultBuilder) succeeded() bool {
	return b.fields != nil
}

func (b *resultBuilder) build() StatusResult {
	result := StatusResult{
		Address:   b.endpoint.Host,
		Port:      b.endpoint.Port,
		Latency:   b.latency,
		Dialect:   b.dialect,
		Status:    b.lastStatus,
		SessionID: b.sessionID,
	}
	if b.fields == nil {
		return result
	}
	f := b.fields
	result.Online = true
	result.Status = OutcomeSuccess
	result.Protocol = f.Protocol
	result.Version = f.Version
	result.Motd = f.Motd
	result.StrippedMotd = f.StrippedMotd
	result.CurrentPlayers = f.CurrentPlayers
	result.MaxPlayers = f.MaxPlayers
	result.PlayerList = slices.Clone(f.PlayerList)
	result.Plugins = slices.Clone(f.Plugins)
	result.Gamemode = f.Gamemode
	result.JSONData = maps.Clone(f.JSONData)
	result.Favicon = slices.Clone(f.Favicon)
	result.FaviconBase64 = f.FaviconBase64
	return result
}
