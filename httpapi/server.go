package httpapi

import (
	"net/http"
	"strings"
	"time"
)

const shutdownTimeout = 5 * time.Second

// DefaultControlPath is the path of the control endpoint.
const DefaultControlPath = "/argv"

// NewHandler mounts control at path and wraps it with request logging.
// Every other path answers 404.
func NewHandler(path string, control http.Handler) http.Handler {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultControlPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	mux := http.NewServeMux()
	mux.Handle(path, control)
	return withRequestLogging(mux)
}
