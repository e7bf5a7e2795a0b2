package global

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/stopmonitor/pkg/config"
	"github.com/travigo/stopmonitor/pkg/dataaggregator"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source/vdv431"
	"github.com/travigo/stopmonitor/pkg/datalog"
	"github.com/travigo/stopmonitor/pkg/trias"
)

// Setup builds the aggregator with the adapter selected in the config
func Setup(cfg *config.Config) (*dataaggregator.Aggregator, error) {
	if err := trias.SetDisplayLocation(cfg.App.Timezone); err != nil {
		return nil, err
	}

	aggregator := &dataaggregator.Aggregator{}

	switch cfg.App.Adapter.Type {
	case "vdv431":
		vdv431Source, err := newVdv431Source(cfg)
		if err != nil {
			return nil, err
		}

		aggregator.RegisterSource(vdv431Source)
	default:
		return nil, fmt.Errorf("unknown adapter type %s", cfg.App.Adapter.Type)
	}

	return aggregator, nil
}

func newVdv431Source(cfg *config.Config) (vdv431.Source, error) {
	adapterConfig := cfg.App.Adapter

	vdv431Source := vdv431.Source{
		Endpoint:           adapterConfig.Endpoint,
		RequestorRef:       adapterConfig.APIKey,
		UserAgent:          adapterConfig.UserAgent,
		SituationResultCap: adapterConfig.SituationResultCap,
		HTTPClient: &http.Client{
			Timeout: time.Duration(adapterConfig.TimeoutSeconds) * time.Second,
		},
	}

	if adapterConfig.TimeWindow != "" {
		window, err := iso8601.ParseISO8601(adapterConfig.TimeWindow)
		if err != nil {
			return vdv431.Source{}, fmt.Errorf("invalid time window %q: %w", adapterConfig.TimeWindow, err)
		}

		// xs:duration does not allow a trailing time designator
		vdv431Source.TimeWindow = strings.TrimSuffix(trias.Interval(window), "T")
	}

	if cfg.App.DatalogEnabled {
		datalogWriter, err := datalog.New(cfg.App.DatalogDirectory, vdv431.AdapterTag)
		if err != nil {
			return vdv431.Source{}, err
		}

		vdv431Source.Datalog = datalogWriter

		log.Info().Str("directory", cfg.App.DatalogDirectory).Msg("Datalog enabled")
	}

	log.Info().
		Str("endpoint", vdv431Source.Endpoint).
		Int("situationresultcap", vdv431Source.SituationResultCap).
		Str("timewindow", vdv431Source.TimeWindow).
		Msg("Registered VDV431 adapter")

	return vdv431Source, nil
}
