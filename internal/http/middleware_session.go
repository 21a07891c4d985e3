package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/target/trash-classifier/internal/domain/session"
)

// SessionEnsurer loads or creates the session behind a cookie value.
type SessionEnsurer interface {
	Ensure(ctx context.Context, id string) (session.Session, error)
}

// SessionCookieConfig configures the SessionCookie middleware.
type SessionCookieConfig struct {
	Name    string
	Domain  string
	Secure  bool
	Ensurer SessionEnsurer
	// OnError renders a failure to load or create the session.
	OnError func(http.ResponseWriter, *http.Request, error)
	Logger  *slog.Logger
}

// SessionCookie resolves the browser session from its cookie, creating a fresh one for
// new or expired cookies, and stores it in the request context. The cookie is
// (re)issued whenever the session ID changes.
func SessionCookie(cfg SessionCookieConfig) (func(http.Handler) http.Handler, error) {
	if cfg.Ensurer == nil {
		return nil, errors.New("session ensurer is required")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultSessionCookie
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.OnError == nil {
		cfg.OnError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := cookieValue(r, cfg.Name)
			sess, err := cfg.Ensurer.Ensure(r.Context(), current)
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "session unavailable",
					"request_id", RequestID(r.Context()), "error", err)
				cfg.OnError(w, r, err)
				return
			}
			if sess.ID != current {
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.Name,
					Value:    sess.ID,
					Path:     "/",
					Domain:   cfg.Domain,
					HttpOnly: true,
					Secure:   cfg.Secure || isSecureRequest(r),
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}, nil
}
