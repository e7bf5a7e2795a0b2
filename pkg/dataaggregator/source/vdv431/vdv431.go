package vdv431

import (
	"context"
	"net/http"
	"reflect"
	"time"

	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/query"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source"
	"github.com/travigo/stopmonitor/pkg/datalog"
)

const (
	AdapterTag = "Vdv431Adapter"

	DefaultUserAgent          = "TripMonitorServer/1"
	DefaultSituationResultCap = 100
	DefaultTimeout            = 30 * time.Second
)

// Source answers stop, departure and situation queries from a TRIAS endpoint
type Source struct {
	Endpoint     string
	RequestorRef string
	UserAgent    string

	// TimeWindow optionally restricts stop event requests, as an ISO-8601 duration
	TimeWindow string

	// SituationResultCap is the number of stop events requested to collect situations
	SituationResultCap int

	HTTPClient *http.Client
	Datalog    *datalog.Datalog
}

func (s Source) GetName() string {
	return "VDV431 TRIAS"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.StopsResult{}),
		reflect.TypeOf(ctdf.DeparturesResult{}),
		reflect.TypeOf(ctdf.SituationsResult{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.Stops:
		return s.FindStops(ctx, q.LookupName)
	case query.Departures:
		return s.FindDepartures(ctx, q.StopID, q.Count, q.OrderType, q.OffsetSeconds)
	case query.Situations:
		return s.FindSituations(ctx, q.StopID, q.OrderType, q.OffsetSeconds)
	default:
		return nil, source.UnsupportedSourceError
	}
}

func (s Source) userAgent() string {
	if s.UserAgent == "" {
		return DefaultUserAgent
	}

	return s.UserAgent
}

func (s Source) situationResultCap() int {
	if s.SituationResultCap < 1 {
		return DefaultSituationResultCap
	}

	return s.SituationResultCap
}

func (s Source) httpClient() *http.Client {
	if s.HTTPClient == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}

	return s.HTTPClient
}

func (s Source) fail(operation string, err error) error {
	return &source.AdapterError{
		Adapter:   AdapterTag,
		Operation: operation,
		Err:       err,
	}
}
