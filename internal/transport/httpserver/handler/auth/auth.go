package auth

import (
	"errors"
	"net/http"
	"strings"

	persondomain "campus-market-go/internal/domain/person"
	"campus-market-go/internal/identity"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
)

type googleSignInRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type debugSignInRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=100"`
}

func (h *Handlers) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := commonhandler.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", commonhandler.ValidationMessage(err))
		return
	}

	verified, err := h.Verifier.Verify(r.Context(), req.Credential)
	if err != nil {
		h.writeIdentityError(w, "auth.google", err)
		return
	}
	h.startSession(w, r, verified, "auth.google")
}

func (h *Handlers) DebugSignIn(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.DebugSignIn {
		writeError(w, http.StatusNotFound, "not_found", "not found")
		return
	}

	var req debugSignInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := commonhandler.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", commonhandler.ValidationMessage(err))
		return
	}

	h.startSession(w, r, persondomain.Identity{Email: req.Email, Name: req.Name}, "auth.debug")
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, h.cfg.CookieName)
	w.WriteHeader(http.StatusNoContent)
}

// GoogleStart redirects to Google's consent screen and remembers the state in a short-lived cookie.
func (h *Handlers) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil || !h.OAuth.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "auth_not_configured", "google sign-in is not configured")
		return
	}

	url, state, err := h.OAuth.AuthCodeURL()
	if err != nil {
		h.log.InternalError("auth.google_start: build consent url failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handlers) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil || !h.OAuth.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "auth_not_configured", "google sign-in is not configured")
		return
	}

	query := r.URL.Query()
	if reason := query.Get("error"); reason != "" {
		h.log.BusinessError("auth.google_callback: consent denied", errors.New(reason))
		writeError(w, http.StatusUnauthorized, "invalid_credential", "sign-in was cancelled")
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		writeError(w, http.StatusBadRequest, "invalid_state", "sign-in state mismatch")
		return
	}
	h.clearCookie(w, stateCookieName)

	code := strings.TrimSpace(query.Get("code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	verified, err := h.OAuth.Exchange(r.Context(), code)
	if err != nil {
		h.writeIdentityError(w, "auth.google_callback", err)
		return
	}

	current, _, err := h.People.SignIn(r.Context(), verified)
	if err != nil {
		h.writeSignInError(w, "auth.google_callback", err, verified.Email)
		return
	}

	token, expires, err := h.Sessions.Issue(current.Email)
	if err != nil {
		h.log.InternalError("auth.google_callback: issue session failed", err, "user_id", current.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	h.setSessionCookie(w, token, expires)
	http.Redirect(w, r, h.cfg.PostSignInRedirect, http.StatusFound)
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request, verified persondomain.Identity, op string) {
	current, created, err := h.People.SignIn(r.Context(), verified)
	if err != nil {
		h.writeSignInError(w, op, err, verified.Email)
		return
	}

	token, expires, err := h.Sessions.Issue(current.Email)
	if err != nil {
		h.log.InternalError(op+": issue session failed", err, "user_id", current.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if created {
		h.log.Info(op+": person created", "user_id", current.ID, "campus", current.Campus)
	}
	h.setSessionCookie(w, token, expires)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: expires,
		Created:   created,
		Person:    toPersonResponse(*current),
	})
}

func (h *Handlers) writeIdentityError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, identity.ErrNotConfigured):
		h.log.Warn(op + ": identity provider not configured")
		writeError(w, http.StatusServiceUnavailable, "auth_not_configured", "google sign-in is not configured")
	case errors.Is(err, identity.ErrEmailNotVerified):
		h.log.BusinessError(op+": email not verified", err)
		writeError(w, http.StatusUnauthorized, "email_not_verified", "email is not verified")
	default:
		h.log.BusinessError(op+": credential rejected", err)
		writeError(w, http.StatusUnauthorized, "invalid_credential", "invalid credential")
	}
}

func (h *Handlers) writeSignInError(w http.ResponseWriter, op string, err error, email string) {
	if errors.Is(err, persondomain.ErrEmailRequired) {
		h.log.BusinessError(op+": email missing", err)
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	h.log.InternalError(op+": sign in failed", err, "email", email)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
