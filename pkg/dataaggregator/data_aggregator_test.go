package dataaggregator

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/query"
)

type stopsOnlySource struct {
	lookups []any
}

func (s *stopsOnlySource) GetName() string {
	return "Stops only"
}

func (s *stopsOnlySource) Supports() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(ctdf.StopsResult{})}
}

func (s *stopsOnlySource) Lookup(ctx context.Context, q any) (interface{}, error) {
	s.lookups = append(s.lookups, q)

	stopsQuery := q.(query.Stops)
	if stopsQuery.LookupName == "fail" {
		return (*ctdf.StopsResult)(nil), errors.New("lookup failed")
	}

	return &ctdf.StopsResult{Stops: []*ctdf.Stop{{ID: "de:08231:11", Name: stopsQuery.LookupName}}}, nil
}

func TestLookupDispatch(t *testing.T) {
	source := &stopsOnlySource{}

	aggregator := &Aggregator{}
	aggregator.RegisterSource(source)

	result, err := aggregator.FindStops(context.Background(), "Pforzheim")
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Stops) != 1 || result.Stops[0].Name != "Pforzheim" {
		t.Errorf("unexpected result %v", result.Stops)
	}

	if len(source.lookups) != 1 || source.lookups[0] != (query.Stops{LookupName: "Pforzheim"}) {
		t.Errorf("unexpected lookups %v", source.lookups)
	}

	if _, err := aggregator.FindStops(context.Background(), "fail"); err == nil {
		t.Error("expected the source error")
	}
}

func TestLookupNoMatchingSource(t *testing.T) {
	aggregator := &Aggregator{}
	aggregator.RegisterSource(&stopsOnlySource{})

	_, err := aggregator.FindDepartures(context.Background(), "de:08231:11", 10, "estimated_time", 0)
	if !errors.Is(err, NoMatchingSourceError) {
		t.Errorf("expected NoMatchingSourceError, got %v", err)
	}

	_, err = aggregator.FindSituations(context.Background(), "de:08231:11", "priority", 0)
	if !errors.Is(err, NoMatchingSourceError) {
		t.Errorf("expected NoMatchingSourceError, got %v", err)
	}
}
