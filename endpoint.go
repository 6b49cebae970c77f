// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"net"
	"strconv"
)

const (
	// DefaultPort is the port of the stream dialects and of the query dialect.
	DefaultPort uint16 = 25565

	// DefaultBedrockPort is the port of the datagram-ping dialect.
	DefaultBedrockPort uint16 = 19132
)

// Endpoint is a host name or IP address plus a port.
//
// Unlike [netip.AddrPort] the host may be a name; resolution happens when
// the [ConnectFunc] dials it.
type Endpoint struct {
	Host string
	Port uint16
}

// String returns the endpoint in the "host:port" form accepted by [net.Dial].
func (ep Endpoint) String() string {
	return net.JoinHostPort(ep.Host, strconv.Itoa(int(ep.Port)))
}
