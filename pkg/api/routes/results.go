package routes

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmonitor/pkg/dataaggregator"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source/cachedresults"
)

// Handlers carries what the JSON and live routes need to answer requests
type Handlers struct {
	Aggregator *dataaggregator.Aggregator
	Cache      *cachedresults.Cache

	LiveMonitor LiveMonitor

	// BaseContext bounds live streams, which outlive the request handler
	BaseContext context.Context
}

func reduce(result any) ([]byte, error) {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, result)
	if err != nil {
		return nil, err
	}

	return json.Marshal(reduced)
}

func sendError(c *fiber.Ctx, status int, message string) error {
	c.Status(status)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

// sendResult answers from the cache when possible and otherwise runs lookup, caching its JSON
func (h *Handlers) sendResult(c *fiber.Ctx, lookup func(ctx context.Context) (any, error)) error {
	cacheKey := c.OriginalURL()

	if cached, ok := h.Cache.Get(c.UserContext(), cacheKey); ok {
		log.Debug().Str("key", cacheKey).Msg("Returning cached response")

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	result, err := lookup(c.UserContext())
	if err != nil {
		var validationError *source.ValidationError
		if errors.As(err, &validationError) {
			return sendError(c, fiber.StatusBadRequest, validationError.Error())
		}

		log.Error().Err(err).Str("path", c.Path()).Msg("Lookup failed")
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	body, err := reduce(result)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sheriff could not reduce result")
	}

	h.Cache.Set(c.UserContext(), cacheKey, string(body))

	log.Debug().Str("path", c.Path()).Msg("Returning response from remote server")

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
