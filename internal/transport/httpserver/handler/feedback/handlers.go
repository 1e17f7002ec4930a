package feedback

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	feedbackdomain "campus-market-go/internal/domain/feedback"
	"campus-market-go/internal/storage"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	"campus-market-go/internal/transport/httpserver/middleware"
	"campus-market-go/pkg/logger"
)

type Feedback interface {
	Submit(ctx context.Context, personID *uint, message string, uploads []feedbackdomain.Upload) (*feedbackdomain.Feedback, error)
}

type Handlers struct {
	Feedback Feedback
	log      logger.Logger
}

func New(feedback Feedback, log logger.Logger) *Handlers {
	return &Handlers{
		Feedback: feedback,
		log:      log,
	}
}

type feedbackForm struct {
	Message string `schema:"message" validate:"required,max=5000"`
}

type feedbackResponse struct {
	ID      uint      `json:"id"`
	Images  int       `json:"images"`
	AddedAt time.Time `json:"added_at"`
}

// Submit stores feedback from anyone; a signed-in sender is recorded.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(commonhandler.MaxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
		return
	}

	values := r.PostForm
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		values = r.MultipartForm.Value
		headers = r.MultipartForm.File["images"]
	}

	var form feedbackForm
	if err := commonhandler.DecodeForm(&form, values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid form values")
		return
	}
	if err := commonhandler.Validate(form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", commonhandler.ValidationMessage(err))
		return
	}
	if len(headers) > feedbackdomain.MaxImages {
		writeError(w, http.StatusBadRequest, "invalid_request", "too many images")
		return
	}

	uploads := make([]feedbackdomain.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unreadable image")
			return
		}
		defer file.Close()
		uploads = append(uploads, feedbackdomain.Upload{Filename: header.Filename, Content: file})
	}

	var personID *uint
	if current, ok := middleware.PersonFromContext(r.Context()); ok {
		personID = &current.ID
	}

	stored, err := h.Feedback.Submit(r.Context(), personID, form.Message, uploads)
	if err != nil {
		switch {
		case errors.Is(err, feedbackdomain.ErrMessageRequired),
			errors.Is(err, feedbackdomain.ErrMessageTooLong),
			errors.Is(err, feedbackdomain.ErrTooManyImages):
			h.log.BusinessError("feedback.submit: rejected", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, storage.ErrUnsupportedImage):
			h.log.BusinessError("feedback.submit: bad image", err)
			writeError(w, http.StatusBadRequest, "invalid_image", "unsupported image")
		case errors.Is(err, feedbackdomain.ErrStorageUnavailable):
			h.log.Warn("feedback.submit: storage unavailable")
			writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "image uploads are disabled")
		default:
			h.log.InternalError("feedback.submit: store failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, feedbackResponse{
		ID:      stored.ID,
		Images:  len(stored.Images),
		AddedAt: stored.AddedAt,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}
