package listings

import (
	"context"

	listingdomain "campus-market-go/internal/domain/listing"
	persondomain "campus-market-go/internal/domain/person"
	"campus-market-go/pkg/logger"
)

// Listings is the listing service surface the handlers use.
type Listings interface {
	Feed(ctx context.Context, viewer *persondomain.Person, query listingdomain.FeedQuery) (*listingdomain.Feed, error)
	Categories(ctx context.Context) ([]listingdomain.Category, error)
	Hostels(ctx context.Context, campusFilter string) ([]listingdomain.Hostel, error)
	Detail(ctx context.Context, itemID, viewerID uint) (*listingdomain.ItemDetail, error)
	MyListings(ctx context.Context, sellerID uint) ([]listingdomain.Item, error)
	CreateItem(ctx context.Context, sellerID uint, input listingdomain.ItemInput) (*listingdomain.Item, error)
	UpdateItem(ctx context.Context, sellerID, itemID uint, input listingdomain.ItemInput, keepImageIDs []uint) (*listingdomain.Item, error)
	DeleteItem(ctx context.Context, sellerID, itemID uint) error
	MarkSold(ctx context.Context, sellerID, itemID uint) (*listingdomain.Item, error)
	Repost(ctx context.Context, sellerID, itemID uint) (*listingdomain.Item, error)
	Bulk(ctx context.Context, sellerID uint, action listingdomain.BulkAction, ids []uint) (int, error)
}

type Handlers struct {
	Listings Listings
	log      logger.Logger
}

func New(listings Listings, log logger.Logger) *Handlers {
	return &Handlers{
		Listings: listings,
		log:      log,
	}
}
