package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmonitor/pkg/api"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/global"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("STOPMONITOR_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("STOPMONITOR_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "stopmonitor",
		Description: "Departure monitor backed by a TRIAS stop event service",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			global.RegisterCLI(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
