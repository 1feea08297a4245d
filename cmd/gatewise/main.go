// gatewise - GATE exam study tracker
//
// An offline-first CLI for tracking syllabus progress, study sessions and
// previous-year question papers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/gatewise/internal/cli"
	"github.com/asteroid-belt/gatewise/internal/config"
	"github.com/asteroid-belt/gatewise/internal/log"
	"github.com/asteroid-belt/gatewise/internal/telemetry"
	"github.com/asteroid-belt/gatewise/internal/workspace"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs, true); err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		return 1
	}
	defer func() { _ = log.Close() }()

	ws, err := workspace.Open(cfg)
	if err != nil {
		log.Errorf("open workspace: %v", err)
		return 1
	}
	defer func() { _ = ws.Close() }()

	// Use the persistent tracking ID kept next to the stores
	telemetryClient := telemetry.New(telemetry.NewKVTrackingID(ws.KV))
	defer telemetryClient.Close()

	if err := cli.Execute(ctx, ws, telemetryClient); err != nil {
		return 1
	}
	return 0
}
