package web

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/wishlist/internal/auth"
	"github.com/vbonduro/wishlist/internal/domain"
	"github.com/vbonduro/wishlist/internal/metrics"
	"github.com/vbonduro/wishlist/internal/service"
)

type Server struct {
	places        *service.PlaceService
	accounts      *service.AccountService
	sessions      *auth.Sessions
	gate          *auth.Gate
	templates     fs.FS
	maxPhotoBytes int64
	mux           *http.ServeMux
	tmplFuncs     template.FuncMap
	logger        *slog.Logger
}

func NewServer(
	places *service.PlaceService,
	accounts *service.AccountService,
	sessions *auth.Sessions,
	tmpl fs.FS,
	maxPhotoBytes int64,
	logger *slog.Logger,
) *Server {
	s := &Server{
		places:        places,
		accounts:      accounts,
		sessions:      sessions,
		gate:          auth.NewGate(sessions, accounts, logger),
		templates:     tmpl,
		maxPhotoBytes: maxPhotoBytes,
		mux:           http.NewServeMux(),
		logger:        logger,
		tmplFuncs: template.FuncMap{
			"stars": stars,
			"date":  formatDate,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("GET /register", s.handleRegisterPage)
	s.mux.HandleFunc("POST /register", s.handleRegister)
	s.mux.HandleFunc("POST /logout", s.handleLogout)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Handle("GET /metrics", metrics.Handler())

	s.handleAuthed("GET /{$}", s.handleListUnvisited)
	s.handleAuthed("POST /{$}", s.handleCreatePlace)
	s.handleAuthed("GET /visited", s.handleListVisited)
	s.handleAuthed("POST /visited", s.handleMarkVisited)
	s.handleAuthed("GET /places/{id}", s.handleGetPlace)
	s.handleAuthed("POST /places/{id}", s.handleSubmitReview)
	s.handleAuthed("POST /places/{id}/delete", s.handleDeletePlace)
	s.handleAuthed("GET /places/{id}/photo", s.handleGetPhoto)
}

// userHandler serves a request on behalf of an authenticated user.
type userHandler func(w http.ResponseWriter, r *http.Request, user *domain.User)

// handleAuthed registers h behind the auth gate.
func (s *Server) handleAuthed(pattern string, h userHandler) {
	s.mux.Handle(pattern, s.gate.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
			return
		}
		h(w, r, user)
	})))
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"form-action 'self'; "+
				"frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, metrics.InstrumentHandler(securityHeaders(s.mux))).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses a full-page template set and writes it with status.
// The page is rendered into a buffer first so a template failure never
// leaves a half-written response.
func (s *Server) renderPage(w http.ResponseWriter, status int, data map[string]any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, append([]string{"base.html"}, files...)...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// page collects the data shared by every page: the signed-in user and any
// pending flash notice.
func (s *Server) page(w http.ResponseWriter, r *http.Request, user *domain.User, nav string) map[string]any {
	return map[string]any{
		"User":      user,
		"Flash":     popFlash(w, r),
		"ActiveNav": nav,
	}
}

// stars renders a rating as filled and empty stars.
func stars(rating *int) string {
	if rating == nil {
		return ""
	}
	n := min(max(*rating, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
