package listing

import (
	"context"

	"campus-market-go/pkg/logger"
)

// ContactRefresher keeps the contact columns of a seller's items in step
// with the seller's phone. It only needs the repository, so the person
// service can depend on it without depending on Service.
type ContactRefresher struct {
	repo Repository
	log  logger.Logger
}

func NewContactRefresher(repo Repository, log logger.Logger) *ContactRefresher {
	if log == nil {
		log = logger.Nop()
	}
	return &ContactRefresher{repo: repo, log: log}
}

// RefreshSellerContacts re-derives phone and WhatsApp link for every item of
// sellerID. Items with their own phone keep it. UpdatedAt is not advanced.
func (r *ContactRefresher) RefreshSellerContacts(ctx context.Context, sellerID uint, phone *string) error {
	items, err := r.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return err
	}

	changed := 0
	err = r.repo.Transaction(ctx, func(tx Repository) error {
		for i := range items {
			item := &items[i]
			beforePhone, beforeLink := deref(item.Phone), deref(item.WhatsApp)
			applyContact(item, phone)
			if deref(item.Phone) == beforePhone && deref(item.WhatsApp) == beforeLink {
				continue
			}
			if err := tx.SaveItem(ctx, item); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if changed > 0 {
		r.log.Debug("listing.contacts: refreshed seller items", "user_id", sellerID, "count", changed)
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
