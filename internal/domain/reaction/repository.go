package reaction

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ItemExists(ctx context.Context, itemID uint) (bool, error)
	// GetForUpdate locks the (item, person) reaction row for the rest of the transaction.
	GetForUpdate(ctx context.Context, itemID, personID uint) (*Reaction, error)
	Create(ctx context.Context, reaction *Reaction) error
	UpdateType(ctx context.Context, id uint, emoji string) error
	Delete(ctx context.Context, id uint) error
	// ListByItem returns entries newest first.
	ListByItem(ctx context.Context, itemID uint) ([]Entry, error)
	// ListByItems returns entries grouped by item, newest first within an item.
	ListByItems(ctx context.Context, itemIDs []uint) ([]Entry, error)
}
