package main

//
//  @title           dartpulse API
//  @version         1.0
//  @description     DART corporate registry and financial statement collector.
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/dartpulse
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        corps
//  @tag.description Lookups in the stored DART corporate registry
//
//  @tag.name        financials
//  @tag.description Stored annual consolidated statements
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/guttosm/dartpulse/docs" // swagger docs
	"github.com/guttosm/dartpulse/internal/commands"
	"github.com/guttosm/dartpulse/internal/logger"
)

// main runs one subcommand:
//   - registry:   download dart_corp_codes.csv and print the demo lookup.
//   - financials: download {corp}_financials_{start}_{end}.csv.
//   - serve:      start the REST API over the stored data.
//
// SIGINT/SIGTERM cancel the running command. Any error exits with status 1.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := commands.NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.L().Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}
