package listing

import (
	"context"
	"fmt"
)

type BulkAction string

const (
	BulkRepost     BulkAction = "repost"
	BulkToggleSold BulkAction = "toggle_sold"
	BulkDelete     BulkAction = "delete"
)

func ParseBulkAction(raw string) (BulkAction, error) {
	switch action := BulkAction(raw); action {
	case BulkRepost, BulkToggleSold, BulkDelete:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBulkAction, raw)
	}
}

// Bulk applies action to the seller's items among ids and returns how many
// were affected. Items of other sellers are skipped. None of the actions
// advance UpdatedAt.
func (s *Service) Bulk(ctx context.Context, sellerID uint, action BulkAction, ids []uint) (int, error) {
	switch action {
	case BulkRepost, BulkToggleSold, BulkDelete:
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBulkAction, action)
	}
	if len(ids) == 0 {
		return 0, ErrNoItemsSelected
	}

	items, err := s.repo.ListBySellerAndIDs(ctx, sellerID, ids)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, ErrNoItemsSelected
	}

	if action == BulkDelete {
		if err := s.deleteItems(ctx, items); err != nil {
			return 0, err
		}
		return len(items), nil
	}

	seller, err := s.sellers.GetByID(ctx, sellerID)
	if err != nil {
		return 0, err
	}

	var sold, unsold []Item
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for i := range items {
			item := &items[i]
			switch action {
			case BulkRepost:
				item.IsSold = false
				item.HostelName = seller.HostelName
			case BulkToggleSold:
				item.IsSold = !item.IsSold
			}
			applyContact(item, seller.Phone)
			if err := tx.SaveItem(ctx, item); err != nil {
				return err
			}
			if item.IsSold {
				sold = append(sold, *item)
			} else {
				unsold = append(unsold, *item)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("listing.bulk: items updated", "user_id", sellerID, "action", action, "count", len(items))
	if action == BulkRepost {
		s.publish(ctx, EventReposted, seller, unsold...)
	} else {
		if len(sold) > 0 {
			s.publish(ctx, EventSold, seller, sold...)
		}
		if len(unsold) > 0 {
			s.publish(ctx, EventUnsold, seller, unsold...)
		}
	}
	return len(items), nil
}

func (s *Service) deleteItems(ctx context.Context, items []Item) error {
	var images []Image
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		for _, item := range items {
			itemImages, err := tx.ListImages(ctx, item.ID)
			if err != nil {
				return err
			}
			images = append(images, itemImages...)
			if err := tx.DeleteItem(ctx, item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.removeObjects(ctx, images)
	for _, item := range items {
		s.log.Info("listing.delete: item deleted", "item_id", item.ID, "user_id", item.SellerID)
	}
	s.publish(ctx, EventDeleted, nil, items...)
	return nil
}
