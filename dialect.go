// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"fmt"
	"strings"
)

// Dialect is one of the wire protocols a server may answer to.
//
// [DialectAuto] is a request-time instruction to probe every dialect in
// priority order; a parser never reports it.
type Dialect int

const (
	// DialectAuto probes all dialects, see [Session.Run].
	DialectAuto = Dialect(iota)

	// DialectLegacyBeta is the 0xFE ping of Beta 1.8 to release 1.3.
	DialectLegacyBeta

	// DialectLegacy is the 0xFE 0x01 ping of releases 1.4 and 1.5.
	DialectLegacy

	// DialectExtendedLegacy is the MC|PingHost ping of release 1.6.
	DialectExtendedLegacy

	// DialectJSON is the length-prefixed status handshake of release 1.7 and later.
	DialectJSON

	// DialectBedrock is the RakNet unconnected ping over UDP.
	DialectBedrock

	// DialectQuery is the UT3/GS4 full-stat query over UDP.
	DialectQuery
)

var dialectNames = map[Dialect]string{
	DialectAuto:           "auto",
	DialectLegacyBeta:     "beta",
	DialectLegacy:         "legacy",
	DialectExtendedLegacy: "extended",
	DialectJSON:           "json",
	DialectBedrock:        "bedrock",
	DialectQuery:          "query",
}

var dialectAliases = map[string]Dialect{
	"all":             DialectAuto,
	"legacy-beta":     DialectLegacyBeta,
	"extended-legacy": DialectExtendedLegacy,
	"extended_legacy": DialectExtendedLegacy,
	"slp":             DialectJSON,
	"raknet":          DialectBedrock,
	"bedrock_raknet":  DialectBedrock,
	"datagram-ping":   DialectBedrock,
	"gs4":             DialectQuery,
}

// String returns the short name of the dialect.
func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// MarshalText implements [encoding.TextMarshaler].
func (d Dialect) MarshalText() ([]byte, error) {
	if _, ok := dialectNames[d]; !ok {
		return nil, fmt.Errorf("minestat: invalid dialect %d", int(d))
	}
	return []byte(d.String()), nil
}

// Network returns "udp" for the datagram dialects and "tcp" otherwise.
func (d Dialect) Network() string {
	switch d {
	case DialectBedrock, DialectQuery:
		return "udp"
	default:
		return "tcp"
	}
}

// ParseDialect maps a case-insensitive dialect name to its [Dialect].
func ParseDialect(name string) (Dialect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d, candidate := range dialectNames {
		if candidate == name {
			return d, nil
		}
	}
	if d, ok := dialectAliases[name]; ok {
		return d, nil
	}
	return DialectAuto, fmt.Errorf("minestat: unknown dialect %q", name)
}
