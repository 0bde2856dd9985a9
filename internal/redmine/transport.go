package redmine

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spiffcs/rdm/internal/constants"
	"github.com/spiffcs/rdm/internal/log"
)

// apiKeyTransport authenticates every request and tags it with an id so
// request and response lines can be matched in debug output.
type apiKeyTransport struct {
	base http.RoundTripper
	// Never logged.
	key string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	out := req.Clone(req.Context())
	out.Header.Set(constants.APIKeyHeader, t.key)
	out.Header.Set("Content-Type", "application/json")
	out.Header.Set("Accept", "application/json")

	id := uuid.NewString()
	start := time.Now()
	log.Debug("request", "id", id, "method", out.Method, "url", out.URL.String())

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		log.Debug("request failed", "id", id, "error", err, "elapsed", time.Since(start))
		return nil, err
	}

	log.Debug("response", "id", id, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}
