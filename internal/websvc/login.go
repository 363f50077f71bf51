package websvc

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/httphdr"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/netutil"
	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
	"github.com/ShopCraft/CatalogAdmin/internal/auth"
)

// reqPostLogin is the request to the POST /control/login HTTP API.
type reqPostLogin struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// handlePostLogin is the handler for the POST /control/login HTTP API.
func (svc *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := &reqPostLogin{}
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		writeError(ctx, svc.logger, w, r, http.StatusBadRequest, "json decode: %s", err)

		return
	}

	// Only the address of the immediate peer is used for rate limiting, since
	// the proxy headers can be forged.
	remoteIP, err := netutil.SplitHost(r.RemoteAddr)
	if err != nil {
		writeError(ctx, svc.logger, w, r, http.StatusBadRequest, "getting remote address: %s", err)

		return
	}

	t, s, err := svc.auth.Login(ctx, adminuser.Login(req.Name), req.Password, remoteIP)
	if err != nil {
		svc.writeLoginError(w, r, err)

		return
	}

	svc.logger.InfoContext(ctx, "successful login", "user", req.Name, "ip", remoteIP)

	http.SetCookie(w, auth.NewCookie(t, s.Expires, svc.secureCookie))

	h := w.Header()
	h.Set(httphdr.CacheControl, "no-store, no-cache, must-revalidate, proxy-revalidate")
	h.Set(httphdr.Pragma, "no-cache")
	h.Set(httphdr.Expires, "0")

	_, err = io.WriteString(w, "OK\n")
	if err != nil {
		svc.logger.DebugContext(ctx, "writing login response", slogutil.KeyError, err)
	}
}

// writeLoginError writes the response for a failed login attempt.
func (svc *Service) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var blockedErr *auth.BlockedError
	switch {
	case errors.As(err, &blockedErr):
		retryAfter := max(int(blockedErr.Left.Seconds()), 1)
		w.Header().Set(httphdr.RetryAfter, strconv.Itoa(retryAfter))

		writeError(ctx, svc.logger, w, r, http.StatusTooManyRequests, "auth: %s", err)
	case errors.Is(err, auth.ErrInvalidLogin):
		writeError(ctx, svc.logger, w, r, http.StatusForbidden, "%s", err)
	default:
		writeError(ctx, svc.logger, w, r, http.StatusInternalServerError, "auth: %s", err)
	}
}

// handleGetLogout is the handler for the GET /control/logout HTTP API.
func (svc *Service) handleGetLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	respHdr := w.Header()
	t, ok := auth.TokenFromRequest(r)
	if !ok {
		// The user is already logged out.
		respHdr.Set(httphdr.Location, pathLoginPage)
		w.WriteHeader(http.StatusFound)

		return
	}

	svc.auth.Logout(ctx, t)

	respHdr.Set(httphdr.Location, pathLoginPage)
	respHdr.Set(httphdr.SetCookie, auth.NewExpiredCookie(svc.secureCookie).String())
	w.WriteHeader(http.StatusFound)
}
