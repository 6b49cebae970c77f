// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Without attempts the result is offline and Unknown.
func TestResultBuilderEmpty(t *testing.T) {
	b := newResultBuilder("sid", Endpoint{Host: "a.b", Port: 25565})

	result := b.build()

	assert.False(t, result.Online)
	assert.Equal(t, OutcomeUnknown, result.Status)
	assert.Equal(t, "a.b", result.Address)
	assert.Equal(t, uint16(25565), result.Port)
	assert.Equal(t, "sid", result.SessionID)
}

// Failures report the last outcome and the last dialect.
func TestResultBuilderFailures(t *testing.T) {
	b := newResultBuilder("sid", Endpoint{Host: "a.b", Port: 25565})
	b.record(DialectLegacy, nil, 3*time.Millisecond, OutcomeUnknown)
	b.record(DialectQuery, nil, 0, OutcomeTimedOut)

	result := b.build()

	assert.False(t, b.succeeded())
	assert.False(t, result.Online)
	assert.Equal(t, OutcomeTimedOut, result.Status)
	assert.Equal(t, DialectQuery, result.Dialect)
	assert.Equal(t, 3*time.Millisecond, result.Latency)
}

// A success wins over later failures and a later success wins over it.
func TestResultBuilderSuccess(t *testing.T) {
	b := newResultBuilder("sid", Endpoint{Host: "a.b", Port: 25565})
	b.record(DialectLegacy, &StatusFields{Version: "1.4.7", MaxPlayers: 8}, 2*time.Millisecond, OutcomeSuccess)
	b.record(DialectExtendedLegacy, nil, 5*time.Millisecond, OutcomeTimedOut)

	result := b.build()
	assert.True(t, result.Online)
	assert.Equal(t, OutcomeSuccess, result.Status)
	assert.Equal(t, DialectLegacy, result.Dialect)
	assert.Equal(t, "1.4.7", result.Version)
	assert.Equal(t, 2*time.Millisecond, result.Latency)
	assert.Equal(t, int64(2), result.LatencyMillis())

	b.record(DialectJSON, &StatusFields{Version: "1.20.1", MaxPlayers: 20}, 4*time.Millisecond, OutcomeSuccess)

	result = b.build()
	assert.Equal(t, DialectJSON, result.Dialect)
	assert.Equal(t, "1.20.1", result.Version)
	assert.Equal(t, 20, result.MaxPlayers)
	assert.Equal(t, 4*time.Millisecond, result.Latency)
}

// The snapshot does not share memory with the builder.
func TestResultBuilderSnapshot(t *testing.T) {
	fields := &StatusFields{
		Version:    "1.19.3",
		PlayerList: []string{"Steve"},
		Plugins:    []string{"Vault"},
		JSONData:   map[string]any{"k": "v"},
		Favicon:    []byte{0x89},
	}
	b := newResultBuilder("sid", Endpoint{Host: "a.b", Port: 25565})
	b.record(DialectQuery, fields, time.Millisecond, OutcomeSuccess)

	result := b.build()
	fields.PlayerList[0] = "Alex"
	fields.Plugins[0] = "Other"
	fields.JSONData["k"] = "changed"
	fields.Favicon[0] = 0x00

	assert.Equal(t, []string{"Steve"}, result.PlayerList)
	assert.Equal(t, []string{"Vault"}, result.Plugins)
	assert.Equal(t, "v", result.JSONData["k"])
	assert.Equal(t, []byte{0x89}, result.Favicon)
}

// Lists stay nil unless the producing dialect set them.
func TestResultBuilderNilLists(t *testing.T) {
	b := newResultBuilder("sid", Endpoint{Host: "a.b", Port: 25565})
	b.record(DialectJSON, &StatusFields{Version: "1.20.1"}, time.Millisecond, OutcomeSuccess)

	result := b.build()

	assert.Nil(t, result.PlayerList)
	assert.Nil(t, result.Plugins)
}
