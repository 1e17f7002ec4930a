package listings

import (
	"net/http"
	"time"

	listingdomain "campus-market-go/internal/domain/listing"
	persondomain "campus-market-go/internal/domain/person"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	"campus-market-go/internal/transport/httpserver/middleware"
)

type feedParams struct {
	Campus   string `schema:"campus"`
	Category string `schema:"c"`
	Query    string `schema:"q"`
	Sort     string `schema:"sort"`
	Page     string `schema:"page"`
	PerPage  string `schema:"per_page"`
}

func parseFeedQuery(r *http.Request) (listingdomain.FeedQuery, string, error) {
	var params feedParams
	if err := commonhandler.DecodeForm(&params, r.URL.Query()); err != nil {
		return listingdomain.FeedQuery{}, "invalid_request", err
	}

	categoryID, err := commonhandler.ParseOptionalID(params.Category)
	if err != nil {
		return listingdomain.FeedQuery{}, "invalid_request", err
	}
	sortKey, err := listingdomain.ParseSortKey(params.Sort)
	if err != nil {
		return listingdomain.FeedQuery{}, "invalid_sort", err
	}

	return listingdomain.FeedQuery{
		Campus:     params.Campus,
		CategoryID: categoryID,
		Query:      params.Query,
		Sort:       sortKey,
		Page:       params.Page,
		PerPage:    params.PerPage,
	}, "", nil
}

func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	query, code, err := parseFeedQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}

	var viewer *persondomain.Person
	if current, ok := middleware.PersonFromContext(r.Context()); ok {
		viewer = &current
	}

	feed, err := h.Listings.Feed(r.Context(), viewer, query)
	if err != nil {
		h.writeServiceError(w, "listings.feed", err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedResponse(feed, time.Now()))
}

func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Listings.Categories(r.Context())
	if err != nil {
		h.writeServiceError(w, "listings.categories", err)
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, toCategoryResponse(category))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) Hostels(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("campus")
	if filter == "" {
		if current, ok := middleware.PersonFromContext(r.Context()); ok {
			filter = string(current.Campus)
		}
	}

	hostels, err := h.Listings.Hostels(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, "listings.hostels", err)
		return
	}

	response := make([]hostelResponse, 0, len(hostels))
	for _, hostel := range hostels {
		response = append(response, hostelResponse{Name: hostel.Name, Campus: string(hostel.Campus)})
	}
	writeJSON(w, http.StatusOK, response)
}
