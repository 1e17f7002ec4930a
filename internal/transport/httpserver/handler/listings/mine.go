package listings

import (
	"net/http"
	"time"

	listingdomain "campus-market-go/internal/domain/listing"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	"campus-market-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type bulkRequest struct {
	ItemIDs []uint `json:"item_ids"`
}

func (h *Handlers) MyListings(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
		return
	}

	items, err := h.Listings.MyListings(r.Context(), current.ID)
	if err != nil {
		h.writeServiceError(w, "listings.mine", err, "user_id", current.ID)
		return
	}
	writeJSON(w, http.StatusOK, itemListResponse{
		Items: toItemResponses(items, time.Now()),
		Total: len(items),
	})
}

// Bulk applies an action to the selected items. The selection comes either as
// a JSON body {"item_ids": [...]} or as repeated selected_items form values.
func (h *Handlers) Bulk(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
		return
	}

	action, err := listingdomain.ParseBulkAction(chi.URLParam(r, "action"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var ids []uint
	if commonhandler.IsJSON(r) {
		var req bulkRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
		ids = req.ItemIDs
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
			return
		}
		ids, err = commonhandler.ParseIDs(r.PostForm["selected_items"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid selected_items")
			return
		}
	}

	affected, err := h.Listings.Bulk(r.Context(), current.ID, action, ids)
	if err != nil {
		h.writeServiceError(w, "listings.bulk", err, "user_id", current.ID, "action", action)
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse{Action: string(action), Affected: affected})
}
