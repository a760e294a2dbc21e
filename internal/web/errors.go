package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vbonduro/wishlist/internal/domain"
)

// writeError maps a service error onto a generic HTTP response. Not found
// and forbidden carry no detail about the place; anything unexpected is
// logged with attrs and reported as a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrNotVisited):
		http.Error(w, "place has not been visited", http.StatusConflict)
	default:
		s.logger.Error(msg, append(attrs, "error", err)...)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
