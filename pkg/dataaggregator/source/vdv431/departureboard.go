package vdv431

import (
	"context"
	"strings"

	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source"
	"github.com/travigo/stopmonitor/pkg/trias"
)

func (s Source) FindDepartures(ctx context.Context, stopID string, numResults int, orderType string, offsetSeconds int) (*ctdf.DeparturesResult, error) {
	stopID = strings.TrimSpace(stopID)
	if stopID == "" {
		return nil, &source.ValidationError{Field: "stop id", Message: "must not be blank"}
	}
	if numResults < 1 {
		return nil, &source.ValidationError{Field: "number of results", Message: "must be at least 1"}
	}

	response, err := s.stopEvents(ctx, stopID, numResults, orderType, offsetSeconds)
	if err != nil {
		return nil, s.fail("find departures", err)
	}

	return &ctdf.DeparturesResult{Departures: response.Departures}, nil
}

func (s Source) stopEvents(ctx context.Context, stopID string, numResults int, orderType string, offsetSeconds int) (*trias.StopEventResponse, error) {
	request := trias.NewStopEventRequest(s.RequestorRef, stopID, trias.Timestamp(offsetSeconds), numResults)
	if s.TimeWindow != "" {
		request.WithTimeWindow(s.TimeWindow)
	}

	body, err := s.exchange(ctx, request)
	if err != nil {
		return nil, err
	}

	return trias.ParseStopEventResponse(body, orderType)
}
