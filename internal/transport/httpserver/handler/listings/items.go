package listings

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	listingdomain "campus-market-go/internal/domain/listing"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	"campus-market-go/internal/transport/httpserver/middleware"
)

type itemForm struct {
	Name         string   `schema:"name" validate:"required,max=500"`
	Description  string   `schema:"description" validate:"max=5000"`
	Price        string   `schema:"price" validate:"required,max=20"`
	CategoryID   uint     `schema:"category" validate:"required"`
	Phone        *string  `schema:"phone" validate:"omitempty,max=20"`
	Hostel       *string  `schema:"hostel" validate:"omitempty,max=100"`
	KeepImageIDs []string `schema:"keep_image_ids"`
}

type itemSubmission struct {
	input  listingdomain.ItemInput
	keep   []uint
	closer func()
}

// parseItemForm reads a multipart (or urlencoded) item form. The returned
// closer releases uploaded files and must be called once the service is done.
func parseItemForm(r *http.Request) (*itemSubmission, string, error) {
	if err := r.ParseMultipartForm(commonhandler.MaxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, "invalid_request", fmt.Errorf("invalid form body")
	}
	if r.MultipartForm == nil {
		if err := r.ParseForm(); err != nil {
			return nil, "invalid_request", fmt.Errorf("invalid form body")
		}
	}

	values := r.PostForm
	if r.MultipartForm != nil {
		values = r.MultipartForm.Value
	}

	var form itemForm
	if err := commonhandler.DecodeForm(&form, values); err != nil {
		return nil, "invalid_request", fmt.Errorf("invalid form values")
	}
	if err := commonhandler.Validate(form); err != nil {
		return nil, "invalid_request", fmt.Errorf("%s", commonhandler.ValidationMessage(err))
	}

	price, err := listingdomain.ParsePrice(form.Price)
	if err != nil {
		return nil, "invalid_request", fmt.Errorf("price must be a number with at most two decimals")
	}

	keep, err := commonhandler.ParseIDs(form.KeepImageIDs)
	if err != nil {
		return nil, "invalid_request", fmt.Errorf("invalid keep_image_ids")
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["images"]
	}
	if len(headers) > listingdomain.MaxImages {
		return nil, "invalid_request", listingdomain.ErrTooManyImages
	}

	uploads := make([]listingdomain.Upload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	closer := func() {
		for _, file := range files {
			_ = file.Close()
		}
	}
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closer()
			return nil, "invalid_request", fmt.Errorf("unreadable image %s", header.Filename)
		}
		files = append(files, file)
		uploads = append(uploads, listingdomain.Upload{Filename: header.Filename, Content: file})
	}

	return &itemSubmission{
		input: listingdomain.ItemInput{
			Name:        form.Name,
			Description: form.Description,
			Price:       price,
			CategoryID:  form.CategoryID,
			Phone:       form.Phone,
			Hostel:      form.Hostel,
			Images:      uploads,
		},
		keep:   keep,
		closer: closer,
	}, "", nil
}

func (h *Handlers) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := commonhandler.URLParamID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid item id")
		return
	}

	var viewerID uint
	if current, ok := middleware.PersonFromContext(r.Context()); ok {
		viewerID = current.ID
	}

	detail, err := h.Listings.Detail(r.Context(), itemID, viewerID)
	if err != nil {
		h.writeServiceError(w, "listings.get_item", err, "item_id", itemID)
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, itemDetailResponse{
		Item:      toItemResponse(detail.Item, now),
		Similar:   toItemResponses(detail.Similar, now),
		Reactions: detail.Reactions,
	})
}

func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "auth_required", "sign in required")
		return
	}

	submission, code, err := parseItemForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}
	defer submission.closer()

	item, err := h.Listings.CreateItem(r.Context(), current.ID, submission.input)
	if err != nil {
		h.writeServiceError(w, "listings.create_item", err, "user_id", current.ID)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(*item, time.Now()))
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
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

	submission, code, err := parseItemForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}
	defer submission.closer()

	item, err := h.Listings.UpdateItem(r.Context(), current.ID, itemID, submission.input, submission.keep)
	if err != nil {
		h.writeServiceError(w, "listings.update_item", err, "user_id", current.ID, "item_id", itemID)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item, time.Now()))
}

func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Listings.DeleteItem(r.Context(), current.ID, itemID); err != nil {
		h.writeServiceError(w, "listings.delete_item", err, "user_id", current.ID, "item_id", itemID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MarkSold(w http.ResponseWriter, r *http.Request) {
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

	item, err := h.Listings.MarkSold(r.Context(), current.ID, itemID)
	if err != nil {
		h.writeServiceError(w, "listings.mark_sold", err, "user_id", current.ID, "item_id", itemID)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item, time.Now()))
}

func (h *Handlers) Repost(w http.ResponseWriter, r *http.Request) {
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

	item, err := h.Listings.Repost(r.Context(), current.ID, itemID)
	if err != nil {
		h.writeServiceError(w, "listings.repost", err, "user_id", current.ID, "item_id", itemID)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item, time.Now()))
}
