package websvc

import (
	"context"
	"net/http"

	"github.com/AdguardTeam/golibs/httphdr"
	"github.com/google/uuid"
)

// middleware is a wrapper function signature.
type middleware func(h http.Handler) (wrapped http.Handler)

// withMiddlewares consequently wraps h with all the middlewares, so that the
// last one is the outermost.
func withMiddlewares(h http.Handler, middlewares ...middleware) (wrapped http.Handler) {
	wrapped = h

	for _, mw := range middlewares {
		wrapped = mw(wrapped)
	}

	return wrapped
}

// jsonMw sets the content type of the response to application/json.
func jsonMw(h http.Handler) (wrapped http.HandlerFunc) {
	f := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(httphdr.ContentType, hdrValApplicationJSON)

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(f)
}

// hdrNameXRequestID is the name of the header carrying the request ID.
const hdrNameXRequestID = "X-Request-Id"

// ctxKey is the type for context keys.
type ctxKey int

// Context key values.
const (
	ctxKeyRequestID ctxKey = iota
)

// requestIDMw assigns a new request ID to every request, puts it into the
// request context, and sets the response header.  A request ID sent by the
// client is replaced.
func requestIDMw(h http.Handler) (wrapped http.Handler) {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.NewV7()
		if err != nil {
			// Only happens when the random source fails, so fall back to the
			// version 4 UUID, which panics in that case.
			id = uuid.New()
		}

		idStr := id.String()
		w.Header().Set(hdrNameXRequestID, idStr)

		ctx := context.WithValue(r.Context(), ctxKeyRequestID, idStr)
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestIDFromContext returns the request ID set by [requestIDMw], if any.
func requestIDFromContext(ctx context.Context) (id string) {
	id, _ = ctx.Value(ctxKeyRequestID).(string)

	return id
}

// limitRequestBody wraps h making its request's body Read method limited by
// the configured size.
func (svc *Service) limitRequestBody(h http.Handler) (limited http.Handler) {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, int64(svc.maxBodySize.Bytes()))

		h.ServeHTTP(w, r)
	})
}
