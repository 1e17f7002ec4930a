package auth

import (
	"net/http"
	"time"

	persondomain "campus-market-go/internal/domain/person"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
)

const stateCookieName = "campus_market_oauth_state"

type personResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	Campus       string    `json:"campus"`
	CampusLabel  string    `json:"campus_label"`
	Hostel       *string   `json:"hostel"`
	Year         *int      `json:"year"`
	IsSubscribed bool      `json:"is_subscribed"`
	RegisteredAt time.Time `json:"registered_at"`
}

type sessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Created   bool           `json:"created"`
	Person    personResponse `json:"person"`
}

func toPersonResponse(p persondomain.Person) personResponse {
	var year *int
	if value, ok := p.Year(); ok {
		year = &value
	}
	return personResponse{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		Campus:       string(p.Campus),
		CampusLabel:  p.Campus.Label(),
		Hostel:       p.HostelName,
		Year:         year,
		IsSubscribed: p.IsSubscribed,
		RegisteredAt: p.RegisteredAt,
	}
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}
