package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/vbonduro/wishlist/internal/domain"
)

const LoginPath = "/login"

type contextKey struct{}

// userLoader is the subset of the account service the gate requires.
type userLoader interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// Gate rejects requests that do not carry a valid session. Rejected
// requests are redirected to the login page; accepted ones carry the
// authenticated user in their context.
type Gate struct {
	sessions *Sessions
	users    userLoader
	logger   *slog.Logger
}

func NewGate(sessions *Sessions, users userLoader, logger *slog.Logger) *Gate {
	return &Gate{sessions: sessions, users: users, logger: logger}
}

func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := g.sessions.UserID(r)
		if err != nil {
			g.redirectToLogin(w, r)
			return
		}

		user, err := g.users.GetUser(r.Context(), userID)
		if errors.Is(err, domain.ErrNotFound) {
			g.sessions.End(w)
			g.redirectToLogin(w, r)
			return
		}
		if err != nil {
			g.logger.Error("load session user failed", "user_id", userID, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// redirectToLogin sends the client to the login page. Only GET requests are
// remembered as the post-login destination.
func (g *Gate) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if r.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*domain.User)
	return user, ok && user != nil
}

// SafeNext returns next if it is a local path, otherwise "/".
func SafeNext(next string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return next
}
