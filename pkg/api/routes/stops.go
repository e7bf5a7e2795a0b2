package routes

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (h *Handlers) StopsRouter(router fiber.Router) {
	router.Get("/stops.json", h.listStops)
}

func (h *Handlers) listStops(c *fiber.Ctx) error {
	lookupName := strings.TrimSpace(c.Query("q"))

	if lookupName == "" {
		return sendError(c, fiber.StatusBadRequest, "Parameter q must not be blank")
	}

	return h.sendResult(c, func(ctx context.Context) (any, error) {
		return h.Aggregator.FindStops(ctx, lookupName)
	})
}
