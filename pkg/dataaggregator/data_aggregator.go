package dataaggregator

import (
	"context"
	"errors"
	"reflect"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/query"
)

var NoMatchingSourceError = errors.New("failed to find a matching data source for type")

type Aggregator struct {
	Sources []DataSource
}

func (a *Aggregator) RegisterSource(source DataSource) {
	a.Sources = append(a.Sources, source)

	log.Debug().Str("name", source.GetName()).Msg("Registering new Data Source")
}

// Lookup asks the first source supporting T to answer the query
func Lookup[T any](ctx context.Context, a *Aggregator, query any) (T, error) {
	var empty T

	lookupType := reflect.TypeOf(*new(T))
	if lookupType.Kind() == reflect.Pointer {
		lookupType = lookupType.Elem()
	}

	for _, source := range a.Sources {
		matches := false

		for _, supportedType := range source.Supports() {
			if lookupType == supportedType {
				matches = true
				break
			}
		}

		if matches {
			returnValue, returnError := source.Lookup(ctx, query)

			if returnValue == nil {
				return empty, returnError
			}

			return returnValue.(T), returnError
		}
	}

	return empty, NoMatchingSourceError
}

func (a *Aggregator) FindStops(ctx context.Context, lookupName string) (*ctdf.StopsResult, error) {
	return Lookup[*ctdf.StopsResult](ctx, a, query.Stops{LookupName: lookupName})
}

func (a *Aggregator) FindDepartures(ctx context.Context, stopID string, numResults int, orderType string, offsetSeconds int) (*ctdf.DeparturesResult, error) {
	return Lookup[*ctdf.DeparturesResult](ctx, a, query.Departures{
		StopID:        stopID,
		Count:         numResults,
		OrderType:     orderType,
		OffsetSeconds: offsetSeconds,
	})
}

func (a *Aggregator) FindSituations(ctx context.Context, stopID string, orderType string, offsetSeconds int) (*ctdf.SituationsResult, error) {
	return Lookup[*ctdf.SituationsResult](ctx, a, query.Situations{
		StopID:        stopID,
		OrderType:     orderType,
		OffsetSeconds: offsetSeconds,
	})
}
