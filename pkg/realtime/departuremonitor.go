package realtime

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source"
	"github.com/travigo/stopmonitor/pkg/trias"
)

const (
	MaxLiveResults         = 50
	DefaultRefreshInterval = 30 * time.Second
)

// ErrSubscriberGone is returned by a Publisher once the subscriber has disconnected
var ErrSubscriberGone = errors.New("subscriber disconnected")

type DeparturesFinder interface {
	FindDepartures(ctx context.Context, stopID string, numResults int, orderType string, offsetSeconds int) (*ctdf.DeparturesResult, error)
}

type Publisher interface {
	Publish(ctx context.Context, result *ctdf.DeparturesResult) error
}

type Subscription struct {
	StopRef    string `validate:"required"`
	NumResults int    `validate:"gte=1,lte=50"`
	OrderType  string `validate:"oneof=estimated_time planned_time"`
}

var subscriptionValidator = validator.New()

// NewSubscription normalises a live departure subscription: unknown order types fall back to
// estimated time and result counts are capped at MaxLiveResults.
func NewSubscription(stopRef string, numResults int, orderType string) (Subscription, error) {
	subscription := Subscription{
		StopRef:    strings.TrimSpace(stopRef),
		NumResults: numResults,
		OrderType:  orderType,
	}

	if subscription.OrderType != trias.OrderPlannedTime && subscription.OrderType != trias.OrderEstimatedTime {
		subscription.OrderType = trias.OrderEstimatedTime
	}

	if subscription.NumResults > MaxLiveResults {
		subscription.NumResults = MaxLiveResults
	}

	if err := subscriptionValidator.Struct(subscription); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return Subscription{}, &source.ValidationError{
				Field:   validationErrors[0].Field(),
				Message: "failed " + validationErrors[0].Tag(),
			}
		}

		return Subscription{}, err
	}

	return subscription, nil
}

// DepartureMonitor pushes a full departure snapshot to a subscriber on a fixed interval
type DepartureMonitor struct {
	Source   DeparturesFinder
	Interval time.Duration
}

// Run publishes snapshots until the context ends or the subscriber goes away, both of which
// return nil. A failed lookup ends the loop with its error.
func (m DepartureMonitor) Run(ctx context.Context, subscription Subscription, publisher Publisher) error {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	sessionLogger := log.With().
		Str("session", uuid.NewString()).
		Str("stop", subscription.StopRef).
		Int("results", subscription.NumResults).
		Str("order", subscription.OrderType).
		Logger()

	sessionLogger.Info().Msg("Live departures subscribed")
	defer sessionLogger.Info().Msg("Live departures ended")

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		result, err := m.Source.FindDepartures(ctx, subscription.StopRef, subscription.NumResults, subscription.OrderType, 0)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			sessionLogger.Error().Err(err).Msg("Failed to load departures")
			return err
		}

		if err := publisher.Publish(ctx, result); err != nil {
			if errors.Is(err, ErrSubscriberGone) || ctx.Err() != nil {
				return nil
			}

			return err
		}

		sessionLogger.Debug().Int("departures", len(result.Departures)).Msg("Published departures")

		timer.Reset(interval)

		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}
