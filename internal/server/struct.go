package server

import (
	"time"

	"github.com/sampstat/sampstat/internal/query"
)

// Server holds the dependencies and configuration required to handle
// HTTP requests.
type Server struct {
	// svc resolves query targets to server records, live or synthetic.
	svc *query.Service

	// allowedOrigins is a set of hashed CORS origins (using xxhash)
	// permitted to call the API from a browser.
	allowedOrigins map[uint64]struct{}

	// limitWindow is the time window for the per-IP rate limiter.
	limitWindow time.Duration

	// limitCount is the maximum number of requests allowed per IP
	// address within limitWindow.
	limitCount int

	// allowAnyOrigin short-circuits the origin check when the
	// configured list contains "*".
	allowAnyOrigin bool

	// trustProxy indicates whether headers like X-Forwarded-For are
	// trusted when determining the client's real IP address.
	trustProxy bool
}
