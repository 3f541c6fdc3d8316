// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command quinca is the terminal client of the Quinca API.
//
// It hosts the session of one till: credentials, the second factor and the
// token pair are kept in a state file between invocations, and every API
// call goes through the authenticating transport.
//
// # Usage
//
//	quinca login -email cashier@quinca.com -password ...
//	quinca 2fa 123456
//	quinca items -q ciment
//	quinca checkout -item 1:2 -item 3 -pay cash:60000
//	quinca sales
//	quinca logout
//
// Settings come from QUINCA_API_URL, QUINCA_STATE_FILE, QUINCA_TIMEOUT and
// QUINCA_OFFLINE. Setting QUINCA_REDIS_URL keeps the session in Redis under
// QUINCA_TERMINAL_ID instead of the state file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/quinca/internal/platform/config"
	redisstore "github.com/taibuivan/quinca/internal/platform/redis"
	"github.com/taibuivan/quinca/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || args[0] == "help" {
		printUsage(stdout)
		if len(args) < 1 {
			return 2
		}
		return 0
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	terminal, err := newTerminal(ctx, cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer terminal.close()

	command, found := terminal.commands()[args[0]]
	if !found {
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		printUsage(stderr)
		return 2
	}

	if err := command(ctx, args[1:]); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// terminal is one invocation of the client: a restored session plus an
// authenticated API client.
type terminal struct {
	manager *session.Manager
	api     *apiClient
	offline bool
	stdout  io.Writer
	close   func()
}

func newTerminal(ctx context.Context, cfg *config.ClientConfig, stdout, stderr io.Writer) (*terminal, error) {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var backend session.Backend = session.NewHTTPBackend(cfg.APIURL, &http.Client{Timeout: cfg.Timeout})
	if cfg.Offline {
		backend = session.NewDirectoryBackend()
	}

	var store session.Store = session.NewFileStore(cfg.StateFile)
	closeStore := func() {}
	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		store = session.NewRedisStore(client, cfg.TerminalID)
		closeStore = func() { _ = client.Close() }
	}

	manager := session.NewManager(store, backend, session.WithLogger(logger))
	if err := manager.Restore(ctx); err != nil {
		closeStore()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return &terminal{
		manager: manager,
		api:     newAPIClient(cfg.APIURL, cfg.Timeout, manager),
		offline: cfg.Offline,
		stdout:  stdout,
		close:   closeStore,
	}, nil
}

func printUsage(writer io.Writer) {
	fmt.Fprint(writer, `Usage: quinca <command> [flags]

Session:
  login -email E -password P   Sign in
  2fa CODE                     Submit the six-digit second factor
  cancel-2fa                   Abandon a pending second factor
  whoami                       Show the signed-in user
  refresh                      Exchange the refresh token for a new access token
  logout                       Sign out and forget the session

Till:
  items [-q Q] [-page N] [-limit N]          Search the catalog
  checkout -item ID[:QTY]... -pay METHOD:AMOUNT... [-customer ID] [-notes N]
  sales [-page N] [-limit N]                 List recorded sales
  sale ID                                    Show one sale
`)
}
