package vdv431

import (
	"context"
	"strings"

	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source"
	"github.com/travigo/stopmonitor/pkg/trias"
)

func (s Source) FindStops(ctx context.Context, lookupName string) (*ctdf.StopsResult, error) {
	lookupName = strings.TrimSpace(lookupName)
	if lookupName == "" {
		return nil, &source.ValidationError{Field: "lookup name", Message: "must not be blank"}
	}

	request := trias.NewLocationInformationRequest(s.RequestorRef, lookupName)

	body, err := s.exchange(ctx, request)
	if err != nil {
		return nil, s.fail("find stops", err)
	}

	response, err := trias.ParseLocationInformationResponse(body)
	if err != nil {
		return nil, s.fail("find stops", err)
	}

	return &ctdf.StopsResult{Stops: response.Stops}, nil
}
