package vdv431

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmonitor/pkg/dataaggregator/source"
	"github.com/travigo/stopmonitor/pkg/trias"
)

// exchange posts a request document and returns the raw response body. Both bodies go
// to the datalog; a request that never got a response only leaves the request entry.
func (s Source) exchange(ctx context.Context, request *trias.Request) ([]byte, error) {
	requestBody, err := request.XML()
	if err != nil {
		return nil, err
	}

	if _, err := s.Datalog.Write(request.Name(), requestBody); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return nil, &source.TransportError{Endpoint: s.Endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("User-Agent", s.userAgent())

	startTime := time.Now()

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return nil, &source.TransportError{Endpoint: s.Endpoint, Err: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &source.TransportError{Endpoint: s.Endpoint, Err: err}
	}

	log.Debug().
		Str("request", request.Name()).
		Int("status", resp.StatusCode).
		Int("bytes", len(responseBody)).
		Str("latency", time.Since(startTime).String()).
		Msg("TRIAS exchange")

	if _, err := s.Datalog.Write(request.ResponseName(), responseBody); err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &source.TransportError{Endpoint: s.Endpoint, StatusCode: resp.StatusCode}
	}

	return responseBody, nil
}
