// SPDX-License-Identifier: GPL-3.0-or-later

// Package minestat polls game servers for their status.
//
// A poll probes up to six historically incompatible wire dialects until one
// of them decodes the server's version, message of the day and player
// counts:
//
//   - [DialectLegacy]: the 0xFE 0x01 ping of releases 1.4 and 1.5
//   - [DialectLegacyBeta]: the bare 0xFE ping of Beta 1.8 to release 1.3
//   - [DialectExtendedLegacy]: the MC|PingHost ping of release 1.6
//   - [DialectJSON]: the length-prefixed JSON status of release 1.7 and later
//   - [DialectBedrock]: the unconnected ping of the console and mobile edition
//   - [DialectQuery]: the GS4 full-stat query, which also lists players and plugins
//
// # Polling
//
// Build a [Request] and run a [*Session]:
//
//	cfg := minestat.NewConfig()
//	result := minestat.Poll(ctx, cfg, minestat.Request{Address: "mc.example.com"}, nil)
//	fmt.Println(result.Status, result.Version, result.CurrentPlayers)
//
// With [DialectAuto] the dialects are tried in the order above. A refused or
// unreachable host ([OutcomeConnectionFailed]) stops probing at once; a
// timeout or an undecodable response moves on to the next dialect. The UDP
// dialects only run when no TCP dialect succeeded. Every attempt gets its own
// connection and its own [Request.Timeout].
//
// A poll always produces exactly one [StatusResult]. When nothing succeeded,
// Online is false and Status reports the last outcome.
//
// # Transport
//
// Each attempt opens its connection through a pipeline of [Func] stages
// chained with [Compose4]:
//
//	ConnectFunc -> ObserveConnFunc -> DeadlineWatchFunc -> Handle
//
// The [*Handle] buffers reads so parsers can peek at marker bytes. The
// measured latency is the connect time, not the full handshake.
//
// # Observability
//
// With [Request.Debug] set, sessions emit structured events on the given
// [SLogger] (compatible with [log/slog]). Lifecycle events come in
// *Start/*Done pairs at [slog.LevelInfo]: sessionStart, attemptStart,
// connectStart, srvLookupStart and closeStart. Reads, writes and deadline
// changes are emitted at [slog.LevelDebug]. Every event carries the
// sessionID, a UUIDv7 from [NewSpanID], and *Done events carry err and
// errClass as classified by [Config.ErrClassifier].
package minestat
