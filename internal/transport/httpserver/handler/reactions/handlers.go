package reactions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	reactiondomain "campus-market-go/internal/domain/reaction"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	"campus-market-go/internal/transport/httpserver/middleware"
	"campus-market-go/pkg/logger"
)

type Reactions interface {
	React(ctx context.Context, itemID, personID uint, emoji string) (*reactiondomain.Summary, error)
	Summarize(ctx context.Context, itemID, viewerID uint) (*reactiondomain.Summary, error)
}

type Handlers struct {
	Reactions Reactions
	log       logger.Logger
}

func New(reactions Reactions, log logger.Logger) *Handlers {
	return &Handlers{
		Reactions: reactions,
		log:       log,
	}
}

type reactRequest struct {
	Emoji string `json:"emoji"`
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
		return
	}
	itemID, err := commonhandler.URLParamID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid item id")
		return
	}

	summary, err := h.Reactions.Summarize(r.Context(), itemID, current.ID)
	if err != nil {
		h.writeReactionError(w, "reactions.list", err, current.ID, itemID)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// React toggles the caller's reaction. The emoji arrives as JSON or as a form field.
func (h *Handlers) React(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
		return
	}
	itemID, err := commonhandler.URLParamID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid item id")
		return
	}

	var emoji string
	if commonhandler.IsJSON(r) {
		var req reactRequest
		if err := commonhandler.DecodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
		emoji = req.Emoji
	} else {
		emoji = r.FormValue("emoji")
	}

	summary, err := h.Reactions.React(r.Context(), itemID, current.ID, strings.TrimSpace(emoji))
	if err != nil {
		h.writeReactionError(w, "reactions.react", err, current.ID, itemID)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) writeReactionError(w http.ResponseWriter, op string, err error, personID, itemID uint) {
	switch {
	case errors.Is(err, reactiondomain.ErrItemNotFound):
		h.log.BusinessError(op+": item not found", err, "user_id", personID, "item_id", itemID)
		writeError(w, http.StatusNotFound, "item_not_found", "item not found")
	case errors.Is(err, reactiondomain.ErrEmojiRequired):
		h.log.BusinessError(op+": emoji missing", err, "user_id", personID, "item_id", itemID)
		writeError(w, http.StatusBadRequest, "emoji_required", "emoji is required")
	case errors.Is(err, reactiondomain.ErrEmojiTooLong):
		h.log.BusinessError(op+": emoji too long", err, "user_id", personID, "item_id", itemID)
		writeError(w, http.StatusBadRequest, "invalid_request", "emoji is too long")
	default:
		h.log.InternalError(op+": failed", err, "user_id", personID, "item_id", itemID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}
