// Package iplookup resolves a best-effort public IP address through a
// primary endpoint with a single fallback. Both endpoints answer {"ip": "..."}.
package iplookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
)

// Unknown is returned when neither endpoint produced an address
const Unknown = "unknown"

const (
	sourcePrimary  = "primary"
	sourceFallback = "fallback"
)

var lookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "whisperbox_ip_lookup_total",
		Help: "IP lookup attempts by source and result",
	},
	[]string{"source", "result"},
)

var errEmptyIP = errors.New("empty ip in response")

// Resolver queries the primary endpoint, then the fallback exactly once on failure
type Resolver struct {
	client      *http.Client
	primaryURL  string
	fallbackURL string
	timeout     time.Duration
}

// NewResolver creates a Resolver. timeout bounds each attempt; a nil client uses a default one.
func NewResolver(primaryURL, fallbackURL string, timeout time.Duration, client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{
		client:      client,
		primaryURL:  primaryURL,
		fallbackURL: fallbackURL,
		timeout:     timeout,
	}
}

// Resolve returns the public IP or Unknown. It never fails.
func (r *Resolver) Resolve(ctx context.Context) string {
	ip, err := r.lookup(ctx, sourcePrimary, r.primaryURL)
	if err == nil {
		return ip
	}
	pkglogger.GetLogger().Debug().Err(err).Str("source", sourcePrimary).Msg("ip lookup failed")

	ip, err = r.lookup(ctx, sourceFallback, r.fallbackURL)
	if err == nil {
		return ip
	}
	pkglogger.GetLogger().Warn().Err(err).Msg("ip lookup failed on both endpoints")

	return Unknown
}

func (r *Resolver) lookup(ctx context.Context, source, url string) (ip string, err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		lookupsTotal.WithLabelValues(source, result).Inc()
	}()

	if url == "" {
		return "", fmt.Errorf("%s endpoint not configured", source)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%s endpoint returned %d", source, resp.StatusCode)
	}

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode %s response: %w", source, err)
	}
	if body.IP == "" {
		return "", errEmptyIP
	}
	return body.IP, nil
}
