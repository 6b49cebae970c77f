// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTimeout bounds each dialect attempt.
const DefaultTimeout = 5 * time.Second

// Request is the immutable input of a [*Session].
type Request struct {
	// Address is the host name or IP address of the server.
	Address string

	// Port is the server port. Zero means [DefaultPort]; the datagram-ping
	// dialect uses [DefaultBedrockPort] instead when Port is zero or
	// [DefaultPort].
	Port uint16

	// Timeout bounds each attempt. Zero means [DefaultTimeout].
	Timeout time.Duration

	// Dialect selects a single dialect. [DialectAuto] probes them in order.
	Dialect Dialect

	// Debug enables the diagnostic events. Without it the session is silent.
	Debug bool

	// ResolveSRV looks up the _minecraft._tcp SRV record of Address first.
	ResolveSRV bool
}

func (r Request) withDefaults() Request {
	if r.Port == 0 {
		r.Port = DefaultPort
	}
	if r.Timeout <= 0 {
		r.Timeout = DefaultTimeout
	}
	return r
}

// bedrockEndpoint returns where the datagram-ping dialect is sent.
func (r Request) bedrockEndpoint() Endpoint {
	port := r.Port
	if port == 0 || port == DefaultPort {
		port = DefaultBedrockPort
	}
	return Endpoint{Host: r.Address, Port: port}
}

// NewSession returns a new [*Session].
//
// The logger only receives events when req.Debug is true. A nil logger
// is the same as [DefaultSLogger].
func NewSession(cfg *Config, req Request, logger SLogger) *Session {
	if logger == nil || !req.Debug {
		logger = DefaultSLogger()
	}
	return &Session{
		Config:  cfg,
		Logger:  logger,
		Request: req.withDefaults(),
	}
}

// Session polls one server once.
//
// Dialects are attempted one at a time, each on its own connection and
// under its own [Request.Timeout]. [*Session.Run] runs the poll the first
// time it is called and returns the same [StatusResult] afterwards.
type Session struct {
	// Config provides the dialer, the classifier and the clock.
	Config *Config

	// Logger receives the session, attempt and transport events.
	Logger SLogger

	// Request is the poll input, with defaults applied.
	Request Request

	once   sync.Once
	result StatusResult
}

// Poll is a shorthand for NewSession(cfg, req, logger).Run(ctx).
func Poll(ctx context.Context, cfg *Config, req Request, logger SLogger) StatusResult {
	return NewSession(cfg, req, logger).Run(ctx)
}

// Run polls the server and returns the result.
//
// Cancelling ctx stops probing after the running attempt.
func (s *Session) Run(ctx context.Context) StatusResult {
	s.once.Do(func() {
		s.result = s.run(ctx)
	})
	return s.result
}

func (s *Session) run(ctx context.Context) StatusResult {
	req := s.Request
	sessionID := NewSpanID()
	logger := &spanLogger{base: s.Logger, sessionID: sessionID}
	target := Endpoint{Host: req.Address, Port: req.Port}

	t0 := s.Config.TimeNow()
	logger.Info(
		"sessionStart",
		slog.String("dialect", req.Dialect.String()),
		slog.String("remoteAddr", target.String()),
		slog.Duration("timeout", req.Timeout),
		slog.Time("t", t0),
	)

	builder := newResultBuilder(sessionID, target)
	if req.ResolveSRV {
		resolver := NewSRVResolver(s.Config, logger)
		resolver.Timeout = req.Timeout
		target = resolver.Resolve(ctx, target)
		builder.setEndpoint(target)
	}

	for current := firstStep(req.Dialect); current != stepDone; {
		if ctx.Err() != nil {
			break
		}
		dialect := current.dialect()
		endpoint := target
		if dialect == DialectBedrock {
			endpoint = req.bedrockEndpoint()
		}
		outcome := s.attempt(ctx, logger, builder, dialect, endpoint)
		current = nextStep(current, req.Dialect, outcome, builder.succeeded())
	}

	result := builder.build()
	logger.Info(
		"sessionDone",
		slog.String("dialect", result.Dialect.String()),
		slog.Bool("online", result.Online),
		slog.String("remoteAddr", target.String()),
		slog.String("status", result.Status.String()),
		slog.Time("t0", t0),
		slog.Time("t", s.Config.TimeNow()),
	)
	return result
}

// attempt runs one dialect under its own deadline and records the outcome.
func (s *Session) attempt(ctx context.Context, logger SLogger,
	builder *resultBuilder, dialect Dialect, endpoint Endpoint) ConnectionOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.Request.Timeout)
	defer cancel()

	t0 := s.Config.TimeNow()
	logger.Info(
		"attemptStart",
		slog.String("dialect", dialect.String()),
		slog.String("remoteAddr", endpoint.String()),
		slog.Time("t", t0),
	)

	fields, latency, err := s.exchange(ctx, logger, dialect, endpoint)
	outcome := OutcomeOf(err)

	logger.Info(
		"attemptDone",
		slog.String("dialect", dialect.String()),
		slog.Any("err", err),
		slog.String("errClass", s.Config.ErrClassifier.Classify(err)),
		slog.Duration("latency", latency),
		slog.String("outcome", outcome.String()),
		slog.String("remoteAddr", endpoint.String()),
		slog.Time("t0", t0),
		slog.Time("t", s.Config.TimeNow()),
	)
	builder.record(dialect, fields, latency, outcome)
	return outcome
}

// exchange connects, runs the parser and closes the connection.
func (s *Session) exchange(ctx context.Context, logger SLogger,
	dialect Dialect, endpoint Endpoint) (*StatusFields, time.Duration, error) {
	parser, err := NewWireParser(s.Config, dialect)
	if err != nil {
		return nil, 0, err
	}
	handle, err := NewTransport(s.Config, logger).Connect(ctx, dialect, endpoint)
	if err != nil {
		return nil, 0, err
	}
	defer handle.Close()
	fields, err := parser.Attempt(ctx, handle, endpoint)
	return fields, handle.Latency(), err
}

// spanLogger prepends the session ID to every event.
type spanLogger struct {
	base      SLogger
	sessionID string
}

var _ SLogger = &spanLogger{}

func (l *spanLogger) Debug(msg string, args ...any) {
	l.base.Debug(msg, l.with(args)...)
}

func (l *spanLogger) Info(msg string, args ...any) {
	l.base.Info(msg, l.with(args)...)
}

func (l *spanLogger) with(args []any) []any {
	return append([]any{slog.String("sessionID", l.sessionID)}, args...)
}
