package websvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AdguardTeam/golibs/httphdr"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/ShopCraft/CatalogAdmin/internal/version"
)

// hdrValApplicationJSON is the value of the Content-Type header for JSON.
const hdrValApplicationJSON = "application/json"

// userAgent returns the ID of the service as a User-Agent string.  It is used
// as the value of the Server HTTP header.
func userAgent() (ua string) {
	return fmt.Sprintf("CatalogAdmin/%s", version.Version())
}

// writeJSONOKResponse writes headers with the code 200 OK, encodes v into w,
// and logs any errors it encounters.
func writeJSONOKResponse(
	ctx context.Context,
	l *slog.Logger,
	w http.ResponseWriter,
	r *http.Request,
	v any,
) {
	h := w.Header()
	h.Set(httphdr.ContentType, hdrValApplicationJSON)
	h.Set(httphdr.Server, userAgent())

	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		l.ErrorContext(
			ctx,
			"writing json response",
			"method", r.Method,
			"path", r.URL.Path,
			slogutil.KeyError, err,
		)
	}
}

// writeError writes the formatted message to w with the code and also logs it
// along with the request ID and remote address.
func writeError(
	ctx context.Context,
	l *slog.Logger,
	w http.ResponseWriter,
	r *http.Request,
	code int,
	format string,
	args ...any,
) {
	text := fmt.Sprintf(format, args...)

	lvl := slog.LevelInfo
	if code >= http.StatusInternalServerError {
		lvl = slog.LevelError
	}

	l.Log(
		ctx,
		lvl,
		"http error",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"request_id", requestIDFromContext(ctx),
		"code", code,
		"msg", text,
	)

	http.Error(w, text, code)
}
