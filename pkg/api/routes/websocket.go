package routes

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/realtime"
)

const subscriptionLocal = "subscription"

func (h *Handlers) WebsocketRouter(router fiber.Router) {
	router.Get("/:ordertype/:numresults/:stopref", h.upgradeDepartures, websocket.New(h.websocketDepartures))
}

// upgradeDepartures validates the subscription before the connection is upgraded
func (h *Handlers) upgradeDepartures(c *fiber.Ctx) error {
	subscription, validationError, err := parseSubscription(c)
	if err != nil {
		return err
	}
	if validationError != nil {
		return sendError(c, fiber.StatusBadRequest, validationError.Error())
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	c.Locals(subscriptionLocal, subscription)

	return c.Next()
}

type websocketPublisher struct {
	conn *websocket.Conn
}

func (p websocketPublisher) Publish(ctx context.Context, result *ctdf.DeparturesResult) error {
	body, err := reduce(result)
	if err != nil {
		return err
	}

	if err := p.conn.WriteMessage(websocket.TextMessage, body); err != nil {
		return realtime.ErrSubscriberGone
	}

	return nil
}

func (h *Handlers) websocketDepartures(conn *websocket.Conn) {
	subscription := conn.Locals(subscriptionLocal).(realtime.Subscription)

	ctx, cancel := context.WithCancel(h.baseContext())
	defer cancel()

	// Clients never send anything, reading only notices the disconnect
	go func() {
		defer cancel()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.LiveMonitor.Run(ctx, subscription, websocketPublisher{conn: conn}); err != nil {
		log.Error().Err(err).Str("stop", subscription.StopRef).Msg("Live departures failed")

		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()))
	}
}
