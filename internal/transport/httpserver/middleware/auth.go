package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"campus-market-go/internal/domain/person"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	"campus-market-go/pkg/logger"
)

type contextKey int

const (
	personKey contextKey = iota
)

type SessionParser interface {
	Parse(token string) (string, error)
}

type PersonLookup interface {
	GetByEmail(ctx context.Context, email string) (*person.Person, error)
}

// SessionAuth resolves the signed-in person from the session cookie or a bearer token.
type SessionAuth struct {
	sessions   SessionParser
	people     PersonLookup
	cookieName string
	log        logger.Logger
}

func NewSessionAuth(sessions SessionParser, people PersonLookup, cookieName string, log logger.Logger) *SessionAuth {
	return &SessionAuth{
		sessions:   sessions,
		people:     people,
		cookieName: cookieName,
		log:        log,
	}
}

// Required rejects requests without a valid session.
func (a *SessionAuth) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current, err := a.authenticate(r)
		if err != nil {
			if !errors.Is(err, errNoCredentials) {
				a.log.BusinessError("auth: session rejected", err, "path", r.URL.Path)
			}
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPerson(r.Context(), *current)))
	})
}

// Optional attaches the person when the session is valid and lets anonymous requests through.
func (a *SessionAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current, err := a.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPerson(r.Context(), *current)))
	})
}

var errNoCredentials = errors.New("no credentials")

func (a *SessionAuth) authenticate(r *http.Request) (*person.Person, error) {
	token, ok := a.token(r)
	if !ok {
		return nil, errNoCredentials
	}

	email, err := a.sessions.Parse(token)
	if err != nil {
		return nil, err
	}

	current, err := a.people.GetByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, person.ErrPersonNotFound) {
			a.log.InternalError("auth: load person failed", err, "email", email)
		}
		return nil, err
	}
	return current, nil
}

func (a *SessionAuth) token(r *http.Request) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	if a.cookieName == "" {
		return "", false
	}
	cookie, err := r.Cookie(a.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
}

func WithPerson(ctx context.Context, current person.Person) context.Context {
	return context.WithValue(ctx, personKey, current)
}

func PersonFromContext(ctx context.Context) (person.Person, bool) {
	current, ok := ctx.Value(personKey).(person.Person)
	if !ok || current.ID == 0 {
		return person.Person{}, false
	}
	return current, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}
