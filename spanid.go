// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"encoding/binary"

	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 identifying a poll session.
//
// [Session] attaches it to every diagnostic event as "sessionID" and
// copies it into [StatusResult.SessionID], so one poll's events can be
// correlated with its result.
//
// This function panics if the system random number generator fails.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}

// newRandomUint64 returns 64 random bits taken from a UUIDv4.
//
// Used for the datagram-ping client GUID and the query session ID.
func newRandomUint64() uint64 {
	id := runtimex.PanicOnError1(uuid.NewRandom())
	return binary.BigEndian.Uint64(id[8:])
}
