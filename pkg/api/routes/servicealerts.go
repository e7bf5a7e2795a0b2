package routes

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/stopmonitor/pkg/trias"
)

func (h *Handlers) SituationsRouter(router fiber.Router) {
	router.Get("/situations.json", h.listSituations)
}

func (h *Handlers) listSituations(c *fiber.Ctx) error {
	stopID := strings.TrimSpace(c.Query("s"))
	if stopID == "" {
		return sendError(c, fiber.StatusBadRequest, "Parameter s must not be blank")
	}

	orderType := c.Query("o", trias.OrderPriority)

	offsetSeconds, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offsetSeconds < 0 {
		return sendError(c, fiber.StatusBadRequest, "Parameter offset should be a non-negative integer")
	}

	return h.sendResult(c, func(ctx context.Context) (any, error) {
		return h.Aggregator.FindSituations(ctx, stopID, orderType, offsetSeconds)
	})
}
