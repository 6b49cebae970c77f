// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// SLog forwards the slog-style events of the minestat library to zerolog.
//
// Arguments are either [slog.Attr] values or alternating keys and values,
// as accepted by [*slog.Logger.Info]. Groups become dotted keys.
type SLog struct {
	Logger zerolog.Logger
}

// Debug emits msg at debug level.
func (l SLog) Debug(msg string, args ...any) {
	emit(l.Logger.Debug(), msg, args)
}

// Info emits msg at info level.
func (l SLog) Info(msg string, args ...any) {
	emit(l.Logger.Info(), msg, args)
}

func emit(ev *zerolog.Event, msg string, args []any) {
	if !ev.Enabled() {
		return
	}

	record := slog.NewRecord(time.Time{}, slog.LevelInfo, msg, 0)
	record.Add(args...)
	record.Attrs(func(a slog.Attr) bool {
		addAttr(ev, "", a)
		return true
	})

	ev.Msg(msg)
}

func addAttr(ev *zerolog.Event, prefix string, a slog.Attr) {
	key := prefix + a.Key
	v := a.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		ev.Str(key, v.String())
	case slog.KindInt64:
		ev.Int64(key, v.Int64())
	case slog.KindUint64:
		ev.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		ev.Float64(key, v.Float64())
	case slog.KindBool:
		ev.Bool(key, v.Bool())
	case slog.KindDuration:
		ev.Dur(key, v.Duration())
	case slog.KindTime:
		if !v.Time().IsZero() {
			ev.Time(key, v.Time())
		}
	case slog.KindGroup:
		for _, sub := range v.Group() {
			addAttr(ev, key+".", sub)
		}
	default:
		switch value := v.Any().(type) {
		case nil:
			// absent error
		case error:
			ev.AnErr(key, value)
		case []byte:
			ev.Hex(key, value)
		default:
			ev.Interface(key, value)
		}
	}
}
