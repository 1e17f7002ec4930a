package listings

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	listingdomain "campus-market-go/internal/domain/listing"
	reactiondomain "campus-market-go/internal/domain/reaction"
	"campus-market-go/internal/storage"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	"github.com/dustin/go-humanize"
)

type categoryResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	IconClass *string `json:"icon_class"`
}

type categoryCountResponse struct {
	categoryResponse
	ItemCount int64 `json:"item_count"`
}

type sellerResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Campus string `json:"campus"`
}

type imageResponse struct {
	ID           uint   `json:"id"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
}

type itemResponse struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Price        listingdomain.Price   `json:"price"`
	PriceDisplay string                `json:"price_display"`
	IsSold       bool                  `json:"is_sold"`
	WhatsApp     *string               `json:"whatsapp"`
	Phone        *string               `json:"phone"`
	Hostel       *string               `json:"hostel"`
	Category     categoryResponse      `json:"category"`
	Seller       sellerResponse        `json:"seller"`
	Images       []imageResponse       `json:"images"`
	AddedAt      time.Time             `json:"added_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	ListedAgo    string                `json:"listed_ago"`
	Reactions    *reactiondomain.Badge `json:"reactions,omitempty"`
}

type feedResponse struct {
	Items          []itemResponse          `json:"items"`
	Page           listingdomain.Page      `json:"page"`
	SelectedCampus string                  `json:"selected_campus"`
	Categories     []categoryCountResponse `json:"categories"`
}

type itemDetailResponse struct {
	Item      itemResponse            `json:"item"`
	Similar   []itemResponse          `json:"similar"`
	Reactions *reactiondomain.Summary `json:"reactions"`
}

type itemListResponse struct {
	Items []itemResponse `json:"items"`
	Total int            `json:"total"`
}

type hostelResponse struct {
	Name   string `json:"name"`
	Campus string `json:"campus"`
}

type bulkResponse struct {
	Action   string `json:"action"`
	Affected int    `json:"affected"`
}

func toItemResponse(item listingdomain.Item, now time.Time) itemResponse {
	images := make([]imageResponse, 0, len(item.Images))
	for _, image := range item.Images {
		images = append(images, imageResponse{ID: image.ID, URL: image.URL, DisplayOrder: image.DisplayOrder})
	}

	return itemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		PriceDisplay: displayPrice(item.Price),
		IsSold:       item.IsSold,
		WhatsApp:     item.WhatsApp,
		Phone:        item.Phone,
		Hostel:       item.HostelName,
		Category:     toCategoryResponse(item.Category),
		Seller: sellerResponse{
			ID:     item.Seller.ID,
			Name:   item.Seller.Name,
			Campus: string(item.Seller.Campus),
		},
		Images:    images,
		AddedAt:   item.AddedAt,
		UpdatedAt: item.UpdatedAt,
		ListedAgo: humanize.RelTime(item.UpdatedAt, now, "ago", "from now"),
	}
}

// displayPrice groups whole rupees with commas and shows paise only when
// present: 250000 paise is "₹2,500", 123450 is "₹1,234.50".
func displayPrice(price listingdomain.Price) string {
	rupees, paise := price.Abs().Rupees()
	text := "₹" + humanize.Comma(rupees)
	if paise != 0 {
		text += fmt.Sprintf(".%02d", paise)
	}
	if price < 0 {
		text = "-" + text
	}
	return text
}

func toItemResponses(items []listingdomain.Item, now time.Time) []itemResponse {
	result := make([]itemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item, now))
	}
	return result
}

func toCategoryResponse(category listingdomain.Category) categoryResponse {
	return categoryResponse{ID: category.ID, Name: category.Name, IconClass: category.IconClass}
}

func toFeedResponse(feed *listingdomain.Feed, now time.Time) feedResponse {
	items := make([]itemResponse, 0, len(feed.Items))
	for _, entry := range feed.Items {
		resp := toItemResponse(entry.Item, now)
		badge := entry.Reactions
		resp.Reactions = &badge
		items = append(items, resp)
	}

	categories := make([]categoryCountResponse, 0, len(feed.Categories))
	for _, count := range feed.Categories {
		categories = append(categories, categoryCountResponse{
			categoryResponse: categoryResponse{ID: count.ID, Name: count.Name, IconClass: count.IconClass},
			ItemCount:        count.ItemCount,
		})
	}

	return feedResponse{
		Items:          items,
		Page:           feed.Page,
		SelectedCampus: feed.SelectedCampus,
		Categories:     categories,
	}
}

// writeServiceError maps listing errors to responses and logs them at the right level.
func (h *Handlers) writeServiceError(w http.ResponseWriter, op string, err error, args ...any) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, listingdomain.ErrItemNotFound):
		status, code = http.StatusNotFound, "item_not_found"
	case errors.Is(err, listingdomain.ErrCategoryNotFound):
		status, code = http.StatusBadRequest, "category_not_found"
	case errors.Is(err, listingdomain.ErrNotSeller):
		status, code = http.StatusForbidden, "not_seller"
	case errors.Is(err, listingdomain.ErrNameRequired),
		errors.Is(err, listingdomain.ErrPhoneRequired),
		errors.Is(err, listingdomain.ErrHostelRequired),
		errors.Is(err, listingdomain.ErrTooManyImages),
		errors.Is(err, listingdomain.ErrNoItemsSelected),
		errors.Is(err, listingdomain.ErrUnknownBulkAction):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, listingdomain.ErrInvalidSortKey):
		status, code = http.StatusBadRequest, "invalid_sort"
	case errors.Is(err, storage.ErrUnsupportedImage):
		status, code = http.StatusBadRequest, "invalid_image"
	case errors.Is(err, listingdomain.ErrStorageUnavailable):
		status, code = http.StatusServiceUnavailable, "storage_unavailable"
	}

	if status == http.StatusInternalServerError {
		h.log.InternalError(op+" failed", err, args...)
		writeError(w, status, code, "internal error")
		return
	}
	h.log.BusinessError(op+" rejected", err, args...)
	writeError(w, status, code, err.Error())
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
