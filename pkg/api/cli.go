package api

import (
	"time"

	"github.com/travigo/stopmonitor/pkg/config"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/global"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/stopmonitor/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the stop monitor web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Value:   "config.yaml",
						Usage:   "YAML config file, set to an empty string to only use defaults and environment",
					},
					&cli.DurationFlag{
						Name:  "live-interval",
						Value: 30 * time.Second,
						Usage: "refresh interval for live departure streams",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					aggregator, err := global.Setup(cfg)
					if err != nil {
						return err
					}

					server := &Server{
						Aggregator:   aggregator,
						LiveInterval: c.Duration("live-interval"),
					}

					if cfg.App.CachingEnabled {
						if err := redis_client.Connect(c.Context, cfg.Caching.Endpoint); err != nil {
							return err
						}

						server.Cache = cachedresults.New(
							redis_client.Client,
							time.Duration(cfg.Caching.TTLSeconds)*time.Second,
						)
					}

					return server.SetupServer(c.Context, c.String("listen"))
				},
			},
		},
	}
}
