// Package app is the composition root: it builds the store, the backend
// client with its instrumented transport, and the engine, and owns
// their lifecycle from init-on-start to teardown-on-shutdown.
package app

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/backend"
	"github.com/xenking/storefront/internal/shop"
	"github.com/xenking/storefront/internal/store"
	"github.com/xenking/storefront/pkg/httpclient"
)

// New wires the full client stack. The returned Engine owns the session
// expiry timer; call Close on shutdown.
func New(lg *zap.Logger, cfg *Config) (*shop.Engine, error) {
	st := store.New()

	transport := httpclient.Wrap(
		otelhttp.NewTransport(http.DefaultTransport),
		httpclient.RequestID(),
		httpclient.LogRequests(),
	)
	hc := &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: transport,
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:    cfg.BaseURL,
		AuthURL:    cfg.AuthURL,
		APIKey:     cfg.APIKey,
		HTTPClient: hc,
	}, st)
	if err != nil {
		return nil, errors.Wrap(err, "create backend client")
	}

	return shop.NewEngine(st, client, shop.Config{
		Logger:      lg,
		FilterOwned: cfg.FilterOwned,
	}), nil
}
