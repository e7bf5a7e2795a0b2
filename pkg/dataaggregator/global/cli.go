package global

import (
	"context"
	"errors"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/stopmonitor/pkg/config"
	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator"
	"github.com/travigo/stopmonitor/pkg/trias"
	"github.com/travigo/stopmonitor/pkg/util"
	"github.com/urfave/cli/v2"
)

type stopDepartures struct {
	StopID     string
	Departures []*ctdf.Departure
}

// FindDeparturesForStops looks up several stops concurrently, keeping the order of stopIDs
func FindDeparturesForStops(ctx context.Context, aggregator *dataaggregator.Aggregator, stopIDs []string, numResults int, orderType string, offsetSeconds int) ([]*stopDepartures, error) {
	p := pool.NewWithResults[*stopDepartures]().WithContext(ctx)

	results := make([]*stopDepartures, len(stopIDs))

	for i, stopID := range stopIDs {
		p.Go(func(ctx context.Context) (*stopDepartures, error) {
			result, err := aggregator.FindDepartures(ctx, stopID, numResults, orderType, offsetSeconds)
			if err != nil {
				return nil, err
			}

			results[i] = &stopDepartures{
				StopID:     stopID,
				Departures: result.Departures,
			}

			return results[i], nil
		})
	}

	if _, err := p.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Value:   "config.yaml",
	Usage:   "YAML config file",
}

var offsetFlag = &cli.IntFlag{
	Name:  "offset",
	Value: 0,
	Usage: "seconds from now to start the lookup at",
}

func setupFromCLI(c *cli.Context) (*dataaggregator.Aggregator, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	return Setup(cfg)
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Query the configured adapter directly",
		Subcommands: []*cli.Command{
			{
				Name:      "stops",
				Usage:     "search stops by name",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{configFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected exactly one stop name")
					}

					aggregator, err := setupFromCLI(c)
					if err != nil {
						return err
					}

					result, err := aggregator.FindStops(c.Context, c.Args().First())
					if err != nil {
						return err
					}

					pretty.Println(result.Stops)

					return nil
				},
			},
			{
				Name:      "departures",
				Usage:     "list departures for one or more stops",
				ArgsUsage: "<stop>...",
				Flags: []cli.Flag{
					configFlag,
					offsetFlag,
					&cli.IntFlag{
						Name:  "count",
						Value: 10,
						Usage: "number of departures per stop",
					},
					&cli.StringFlag{
						Name:  "order",
						Value: trias.OrderEstimatedTime,
						Usage: "estimated_time or planned_time",
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("expected at least one stop")
					}

					aggregator, err := setupFromCLI(c)
					if err != nil {
						return err
					}

					stopIDs := util.RemoveDuplicateStrings(c.Args().Slice(), nil)

					results, err := FindDeparturesForStops(c.Context, aggregator, stopIDs, c.Int("count"), c.String("order"), c.Int("offset"))
					if err != nil {
						return err
					}

					for _, result := range results {
						log.Info().Str("stop", result.StopID).Int("departures", len(result.Departures)).Msg("Departures")
						pretty.Println(result.Departures)
					}

					return nil
				},
			},
			{
				Name:      "situations",
				Usage:     "list situations for a stop",
				ArgsUsage: "<stop>",
				Flags: []cli.Flag{
					configFlag,
					offsetFlag,
					&cli.StringFlag{
						Name:  "order",
						Value: trias.OrderPriority,
						Usage: "priority or document order",
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected exactly one stop")
					}

					aggregator, err := setupFromCLI(c)
					if err != nil {
						return err
					}

					result, err := aggregator.FindSituations(c.Context, c.Args().First(), c.String("order"), c.Int("offset"))
					if err != nil {
						return err
					}

					pretty.Println(result.Situations)

					return nil
				},
			},
		},
	}
}
