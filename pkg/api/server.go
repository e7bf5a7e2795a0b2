package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/stopmonitor/pkg/api/routes"
	"github.com/travigo/stopmonitor/pkg/dataaggregator"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/stopmonitor/pkg/realtime"
)

type Server struct {
	Aggregator *dataaggregator.Aggregator
	Cache      *cachedresults.Cache

	LiveInterval time.Duration
	BaseContext  context.Context
}

func (s *Server) App() *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	handlers := &routes.Handlers{
		Aggregator: s.Aggregator,
		Cache:      s.Cache,
		LiveMonitor: realtime.DepartureMonitor{
			Source:   s.Aggregator,
			Interval: s.LiveInterval,
		},
		BaseContext: s.BaseContext,
	}

	webApp.Get("version", routes.APIVersion)

	jsonGroup := webApp.Group("/json")
	handlers.StopsRouter(jsonGroup)
	handlers.DeparturesRouter(jsonGroup)
	handlers.SituationsRouter(jsonGroup)

	handlers.LiveRouter(webApp.Group("/live"))
	handlers.WebsocketRouter(webApp.Group("/ws"))

	return webApp
}

// SetupServer serves the API until ctx is cancelled
func (s *Server) SetupServer(ctx context.Context, listen string) error {
	if s.BaseContext == nil {
		s.BaseContext = ctx
	}

	webApp := s.App()

	go func() {
		<-ctx.Done()
		webApp.ShutdownWithTimeout(5 * time.Second)
	}()

	return webApp.Listen(listen)
}
