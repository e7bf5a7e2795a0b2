package routes

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/stopmonitor/pkg/realtime"
	"github.com/travigo/stopmonitor/pkg/trias"
)

const defaultDepartureCount = 10

func (h *Handlers) DeparturesRouter(router fiber.Router) {
	router.Get("/departures.json", h.listDepartures)
}

func (h *Handlers) listDepartures(c *fiber.Ctx) error {
	stopID := strings.TrimSpace(c.Query("s"))
	if stopID == "" {
		return sendError(c, fiber.StatusBadRequest, "Parameter s must not be blank")
	}

	count, err := strconv.Atoi(c.Query("n", strconv.Itoa(defaultDepartureCount)))
	if err != nil || count < 1 {
		return sendError(c, fiber.StatusBadRequest, "Parameter n should be a positive integer")
	}
	if count > realtime.MaxLiveResults {
		count = realtime.MaxLiveResults
	}

	orderType := c.Query("o", trias.OrderEstimatedTime)
	if orderType != trias.OrderPlannedTime {
		orderType = trias.OrderEstimatedTime
	}

	offsetSeconds, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offsetSeconds < 0 {
		return sendError(c, fiber.StatusBadRequest, "Parameter offset should be a non-negative integer")
	}

	return h.sendResult(c, func(ctx context.Context) (any, error) {
		return h.Aggregator.FindDepartures(ctx, stopID, count, orderType, offsetSeconds)
	})
}
