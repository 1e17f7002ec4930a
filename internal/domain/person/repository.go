package person

import (
	"context"

	"campus-market-go/internal/domain/campus"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id uint) (*Person, error)
	GetByEmail(ctx context.Context, email string) (*Person, error)
	Create(ctx context.Context, person *Person) error
	UpdateName(ctx context.Context, id uint, name string) error
	UpdateContact(ctx context.Context, id uint, phone, hostel *string) error
	UpdateCampus(ctx context.Context, id uint, code campus.Code) error
	HostelExists(ctx context.Context, name string) (bool, error)
}

// ContactRefresher re-derives the contact details of a seller's items after
// the seller's phone changes.
type ContactRefresher interface {
	RefreshSellerContacts(ctx context.Context, sellerID uint, phone *string) error
}
