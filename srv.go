// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

const (
	// srvService prefixes the host name in the SRV query.
	srvService = "_minecraft._tcp."

	// resolvConf lists the system nameservers.
	resolvConf = "/etc/resolv.conf"

	// maxDNSMessage is the largest UDP response we accept.
	maxDNSMessage = 65535
)

// ErrNoSRVRecord indicates that the lookup found no usable SRV record.
var ErrNoSRVRecord = errors.New("minestat: no SRV record")

// NewSRVResolver returns a new [*SRVResolver].
func NewSRVResolver(cfg *Config, logger SLogger) *SRVResolver {
	return &SRVResolver{
		Config:  cfg,
		Logger:  logger,
		Timeout: DefaultTimeout,
	}
}

// SRVResolver redirects a server address using its _minecraft._tcp SRV record.
//
// The query goes over UDP through the same connect pipeline the dialect
// attempts use, so the exchange shows up in the logs with operation
// "srvLookup".
type SRVResolver struct {
	// Config provides the DNS server, the dialer and the clock.
	Config *Config

	// Logger is the [SLogger] to use.
	Logger SLogger

	// Timeout bounds the whole lookup.
	Timeout time.Duration
}

// Resolve returns the endpoint named by the SRV record of target.Host, or
// target itself when the host is an IP address or the lookup fails.
func (r *SRVResolver) Resolve(ctx context.Context, target Endpoint) Endpoint {
	if _, err := netip.ParseAddr(target.Host); err == nil {
		return target
	}
	found, err := r.Lookup(ctx, target.Host)
	if err != nil {
		r.Logger.Info(
			"srvFallback",
			slog.Any("err", err),
			slog.String("errClass", r.Config.ErrClassifier.Classify(err)),
			slog.String("remoteAddr", target.String()),
		)
		return target
	}
	return found
}

// Lookup queries the SRV record of host and returns the preferred target:
// the lowest priority, then the highest weight.
func (r *SRVResolver) Lookup(ctx context.Context, host string) (Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	t0 := r.Config.TimeNow()
	deadline, _ := ctx.Deadline()
	r.Logger.Info(
		"srvLookupStart",
		slog.Time("deadline", deadline),
		slog.String("host", host),
		slog.Time("t", t0),
	)

	endpoint, err := r.lookup(ctx, host)

	r.Logger.Info(
		"srvLookupDone",
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", r.Config.ErrClassifier.Classify(err)),
		slog.String("host", host),
		slog.String("target", endpoint.String()),
		slog.Time("t0", t0),
		slog.Time("t", r.Config.TimeNow()),
	)
	return endpoint, err
}

func (r *SRVResolver) lookup(ctx context.Context, host string) (Endpoint, error) {
	name, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return Endpoint{}, err
	}
	server, err := r.server()
	if err != nil {
		return Endpoint{}, err
	}

	query := new(dns.Msg)
	query.SetQuestion(dns.Fqdn(srvService+name), dns.TypeSRV)
	resp, err := r.exchange(ctx, server, query)
	if err != nil {
		return Endpoint{}, err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return Endpoint{}, fmt.Errorf("minestat: SRV lookup: %s", dns.RcodeToString[resp.Rcode])
	}

	var best *dns.SRV
	for _, rr := range resp.Answer {
		record, ok := rr.(*dns.SRV)
		if !ok || record.Target == "." || record.Target == "" {
			continue
		}
		if best == nil || record.Priority < best.Priority ||
			(record.Priority == best.Priority && record.Weight > best.Weight) {
			best = record
		}
	}
	if best == nil {
		return Endpoint{}, ErrNoSRVRecord
	}
	return Endpoint{Host: strings.TrimSuffix(best.Target, "."), Port: best.Port}, nil
}

// server returns the endpoint of the configured or system nameserver.
func (r *SRVResolver) server() (Endpoint, error) {
	address := r.Config.DNSServer
	if address == "" {
		cc, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			return Endpoint{}, err
		}
		if len(cc.Servers) <= 0 {
			return Endpoint{}, fmt.Errorf("minestat: no nameserver in %s", resolvConf)
		}
		address = net.JoinHostPort(cc.Servers[0], cc.Port)
	}
	host, portString, err := net.SplitHostPort(address)
	if err != nil {
		return Endpoint{}, err
	}
	port, err := strconv.ParseUint(portString, 10, 16)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Host: host, Port: uint16(port)}, nil
}

// exchange sends query to server and waits for the matching response.
//
// Datagrams that do not parse or carry another ID are skipped until the
// context deadline expires.
func (r *SRVResolver) exchange(ctx context.Context, server Endpoint, query *dns.Msg) (*dns.Msg, error) {
	rawQuery, err := query.Pack()
	if err != nil {
		return nil, err
	}

	pipeline := Compose3(
		NewConnectFunc(r.Config, "udp", r.Logger),
		NewObserveConnFunc(r.Config, "srvLookup", r.Logger),
		NewDeadlineWatchFunc(),
	)
	conn, err := pipeline.Call(ctx, server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.Write(rawQuery); err != nil {
		return nil, err
	}
	buf := make([]byte, maxDNSMessage)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return nil, err
		}
		resp := new(dns.Msg)
		if err := resp.Unpack(buf[:n]); err != nil {
			continue
		}
		if resp.Id != query.Id || !resp.Response {
			continue
		}
		return resp, nil
	}
}
