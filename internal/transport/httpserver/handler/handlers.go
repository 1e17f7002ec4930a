package handler

import (
	authhandler "campus-market-go/internal/transport/httpserver/handler/auth"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	feedbackhandler "campus-market-go/internal/transport/httpserver/handler/feedback"
	listingshandler "campus-market-go/internal/transport/httpserver/handler/listings"
	reactionshandler "campus-market-go/internal/transport/httpserver/handler/reactions"
)

type Handlers struct {
	Common    *commonhandler.Handlers
	Auth      *authhandler.Handlers
	Listings  *listingshandler.Handlers
	Reactions *reactionshandler.Handlers
	Feedback  *feedbackhandler.Handlers
}

func New(common *commonhandler.Handlers, auth *authhandler.Handlers, listings *listingshandler.Handlers, reactions *reactionshandler.Handlers, feedback *feedbackhandler.Handlers) *Handlers {
	return &Handlers{
		Common:    common,
		Auth:      auth,
		Listings:  listings,
		Reactions: reactions,
		Feedback:  feedback,
	}
}
