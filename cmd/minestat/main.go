// SPDX-License-Identifier: GPL-3.0-or-later

// Command minestat polls a game server and prints its status.
//
// The exit status is 0 when the server is online, 1 when it is not and 2
// on usage errors.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"
	"github.com/molanp/minestat"
	"github.com/molanp/minestat/internal/config"
	"github.com/molanp/minestat/internal/logger"
	"github.com/molanp/minestat/internal/vars"
	"github.com/rs/zerolog/log"
)

const (
	exitOnline  = 0
	exitOffline = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				return exitOnline
			}
			return exitUsage
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if cfg.Version {
		if cfg.Output == "json" {
			writeJSON(stdout, vars.Info())
		} else {
			vars.Print(stdout, os.Args[0])
		}
		return exitOnline
	}

	// --debug is pointless if the default level filters the events out
	if cfg.Probe.Debug && cfg.Logger.Level == "warn" {
		cfg.Logger.Level = "debug"
	}
	logger.Setup(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := cfg.Request()
	log.Debug().
		Str("address", req.Address).
		Str("dialect", req.Dialect.String()).
		Dur("timeout", req.Timeout).
		Msg("Polling server")

	result := minestat.Poll(ctx, cfg.PollConfig(), req, logger.SLog{Logger: log.Logger})

	if cfg.Output == "json" {
		writeJSON(stdout, jsonResult{StatusResult: result, LatencyMillis: result.LatencyMillis()})
	} else {
		writeText(stdout, result)
	}

	if !result.Online {
		return exitOffline
	}
	return exitOnline
}

// jsonResult adds the latency in milliseconds to the JSON output.
type jsonResult struct {
	minestat.StatusResult
	LatencyMillis int64 `json:"latency_ms"`
}

func writeJSON(w io.Writer, value any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		log.Error().Err(err).Msg("Failed to encode result")
	}
}

func writeText(w io.Writer, result minestat.StatusResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "address:\t%s\n", minestat.Endpoint{Host: result.Address, Port: result.Port})
	fmt.Fprintf(tw, "status:\t%s\n", result.Status)
	fmt.Fprintf(tw, "online:\t%t\n", result.Online)
	fmt.Fprintf(tw, "dialect:\t%s\n", result.Dialect)
	if !result.Online {
		return
	}
	fmt.Fprintf(tw, "version:\t%s\n", result.Version)
	fmt.Fprintf(tw, "protocol:\t%d\n", result.Protocol)
	fmt.Fprintf(tw, "motd:\t%s\n", result.StrippedMotd)
	fmt.Fprintf(tw, "players:\t%d/%d\n", result.CurrentPlayers, result.MaxPlayers)
	if result.Gamemode != "" {
		fmt.Fprintf(tw, "gamemode:\t%s\n", result.Gamemode)
	}
	if result.PlayerList != nil {
		fmt.Fprintf(tw, "player list:\t%s\n", strings.Join(result.PlayerList, ", "))
	}
	if result.Plugins != nil {
		fmt.Fprintf(tw, "plugins:\t%s\n", strings.Join(result.Plugins, ", "))
	}
	fmt.Fprintf(tw, "latency:\t%d ms\n", result.LatencyMillis())
}
