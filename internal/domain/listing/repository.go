package listing

import (
	"context"

	"campus-market-go/internal/domain/campus"
)

// FeedFilter narrows feed candidates. A nil Campus means every campus.
type FeedFilter struct {
	Campus     *campus.Code
	CategoryID *uint
	Query      string
}

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// ListCandidates returns matching items with seller and category loaded, unordered.
	ListCandidates(ctx context.Context, filter FeedFilter) ([]Item, error)
	// CategoryCounts returns every category with its item count under the campus filter only.
	CategoryCounts(ctx context.Context, campusFilter *campus.Code) ([]CategoryCount, error)
	ImagesForItems(ctx context.Context, itemIDs []uint) (map[uint][]Image, error)

	GetItem(ctx context.Context, id uint) (*Item, error)
	SimilarItems(ctx context.Context, categoryID, excludeID uint, limit int) ([]Item, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]Item, error)
	ListBySellerAndIDs(ctx context.Context, sellerID uint, ids []uint) ([]Item, error)

	CreateItem(ctx context.Context, item *Item) error
	SaveItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id uint) error

	ListImages(ctx context.Context, itemID uint) ([]Image, error)
	CreateImages(ctx context.Context, images []Image) error
	UpdateImageOrder(ctx context.Context, imageID uint, order int) error
	DeleteImages(ctx context.Context, imageIDs []uint) error

	ListCategories(ctx context.Context) ([]Category, error)
	CategoryExists(ctx context.Context, id uint) (bool, error)
	ListHostels(ctx context.Context, campusFilter *campus.Code) ([]Hostel, error)
}
