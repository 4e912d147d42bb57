// Package httpclient provides composable http.RoundTripper middleware
// for outgoing requests: request ID injection and structured request
// logging.
package httpclient

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware wraps an http.RoundTripper with additional behavior.
type Middleware func(http.RoundTripper) http.RoundTripper

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Wrap applies middlewares to rt so that the first middleware is the
// outermost: Wrap(rt, a, b) runs a, then b, then rt.
func Wrap(rt http.RoundTripper, mw ...Middleware) http.RoundTripper {
	for i := len(mw) - 1; i >= 0; i-- {
		rt = mw[i](rt)
	}
	return rt
}

// RequestID returns a middleware that stamps every outgoing request with
// a unique X-Request-ID header. An ID already present on the request is
// kept. The request is cloned before modification, as RoundTrippers must
// not mutate their input.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("X-Request-ID") != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set("X-Request-ID", uuid.New().String())
			return next.RoundTrip(r)
		})
	}
}

// LogRequests returns a middleware that logs every outgoing request with
// its method, URL, status, and duration using the logger carried in the
// request context.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			lg := zctx.From(r.Context())
			start := time.Now()

			resp, err := next.RoundTrip(r)
			if err != nil {
				lg.Warn("Request failed",
					zap.String("method", r.Method),
					zap.String("url", r.URL.Redacted()),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err),
				)
				return nil, err
			}

			lg.Debug("Request completed",
				zap.String("method", r.Method),
				zap.String("url", r.URL.Redacted()),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", time.Since(start)),
			)
			return resp, nil
		})
	}
}
