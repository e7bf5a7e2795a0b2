package vdv431

import (
	"context"
	"strings"

	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source"
	"github.com/travigo/stopmonitor/pkg/trias"
	"golang.org/x/exp/slices"
)

// FindSituations collects the situations delivered alongside a large stop event query and
// keeps those relevant to stopID. Order "priority" sorts them by ascending priority value.
func (s Source) FindSituations(ctx context.Context, stopID string, orderType string, offsetSeconds int) (*ctdf.SituationsResult, error) {
	stopID = strings.TrimSpace(stopID)
	if stopID == "" {
		return nil, &source.ValidationError{Field: "stop id", Message: "must not be blank"}
	}

	response, err := s.stopEvents(ctx, stopID, s.situationResultCap(), orderType, offsetSeconds)
	if err != nil {
		return nil, s.fail("find situations", err)
	}

	situations := response.SituationsForStop(stopID)

	if orderType == trias.OrderPriority {
		slices.SortStableFunc(situations, func(a, b *ctdf.Situation) int {
			return a.Priority - b.Priority
		})
	}

	return &ctdf.SituationsResult{Situations: situations}, nil
}
