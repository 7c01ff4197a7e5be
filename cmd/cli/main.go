package main

import (
	"context"
	"log"
	"os"

	"github.com/wombguard/wombguard-cli/internal/buildinfo"
	"github.com/wombguard/wombguard-cli/internal/client/cli"
	"github.com/wombguard/wombguard-cli/internal/client/config"
	"github.com/wombguard/wombguard-cli/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.NewTextLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
