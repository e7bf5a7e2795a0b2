package routes

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source"
	"github.com/travigo/stopmonitor/pkg/realtime"
)

type LiveMonitor interface {
	Run(ctx context.Context, subscription realtime.Subscription, publisher realtime.Publisher) error
}

func (h *Handlers) LiveRouter(router fiber.Router) {
	router.Get("/:ordertype/:numresults/:stopref", h.streamDepartures)
}

// streamPublisher writes each snapshot as a server-sent event
type streamPublisher struct {
	w *bufio.Writer
}

func (p streamPublisher) Publish(ctx context.Context, result *ctdf.DeparturesResult) error {
	body, err := reduce(result)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(p.w, "data: %s\n\n", body); err != nil {
		return realtime.ErrSubscriberGone
	}

	if err := p.w.Flush(); err != nil {
		return realtime.ErrSubscriberGone
	}

	return nil
}

// parseSubscription reads a live subscription from the route parameters
func parseSubscription(c *fiber.Ctx) (realtime.Subscription, *source.ValidationError, error) {
	numResults, err := strconv.Atoi(c.Params("numresults"))
	if err != nil {
		return realtime.Subscription{}, &source.ValidationError{Field: "numresults", Message: "should be an integer"}, nil
	}

	subscription, err := realtime.NewSubscription(c.Params("stopref"), numResults, c.Params("ordertype"))
	if err != nil {
		var validationError *source.ValidationError
		if errors.As(err, &validationError) {
			return realtime.Subscription{}, validationError, nil
		}

		return realtime.Subscription{}, nil, err
	}

	return subscription, nil, nil
}

func (h *Handlers) baseContext() context.Context {
	if h.BaseContext == nil {
		return context.Background()
	}

	return h.BaseContext
}

func (h *Handlers) streamDepartures(c *fiber.Ctx) error {
	subscription, validationError, err := parseSubscription(c)
	if err != nil {
		return err
	}
	if validationError != nil {
		return sendError(c, fiber.StatusBadRequest, validationError.Error())
	}

	baseContext := h.baseContext()
	monitor := h.LiveMonitor

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(baseContext)
		defer cancel()

		if err := monitor.Run(ctx, subscription, streamPublisher{w: w}); err != nil {
			log.Error().Err(err).Str("stop", subscription.StopRef).Msg("Live departures failed")

			fmt.Fprintf(w, "event: error\ndata: %s\n\n", err.Error())
			w.Flush()
		}
	})

	return nil
}
