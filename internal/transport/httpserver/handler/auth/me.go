package auth

import (
	"errors"
	"net/http"

	persondomain "campus-market-go/internal/domain/person"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	"campus-market-go/internal/transport/httpserver/middleware"
)

type updateMeRequest struct {
	Phone  *string `json:"phone" validate:"omitempty,max=20"`
	Hostel *string `json:"hostel" validate:"omitempty,max=100"`
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
		return
	}
	writeJSON(w, http.StatusOK, toPersonResponse(current))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
		return
	}

	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := commonhandler.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", commonhandler.ValidationMessage(err))
		return
	}

	updated, err := h.People.UpdateContact(r.Context(), current.ID, persondomain.ContactUpdate{
		Phone:  req.Phone,
		Hostel: req.Hostel,
	})
	if err != nil {
		switch {
		case errors.Is(err, persondomain.ErrHostelNotFound):
			h.log.BusinessError("auth.update_me: hostel not found", err, "user_id", current.ID)
			writeError(w, http.StatusBadRequest, "hostel_not_found", "hostel not found")
		case errors.Is(err, persondomain.ErrPersonNotFound):
			h.log.BusinessError("auth.update_me: person not found", err, "user_id", current.ID)
			writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
		default:
			h.log.InternalError("auth.update_me: update contact failed", err, "user_id", current.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPersonResponse(*updated))
}
