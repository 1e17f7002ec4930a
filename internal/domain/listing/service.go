package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-market-go/internal/domain/contact"
	"campus-market-go/internal/domain/person"
	"campus-market-go/internal/domain/reaction"
	"campus-market-go/pkg/logger"
)

var ErrStorageUnavailable = errors.New("image storage is not configured")

// Sellers is the slice of the person service that listings depend on.
type Sellers interface {
	GetByID(ctx context.Context, id uint) (*person.Person, error)
	UpdateContact(ctx context.Context, personID uint, update person.ContactUpdate) (*person.Person, error)
}

// Reactions is satisfied by *reaction.Service.
type Reactions interface {
	Summarize(ctx context.Context, itemID, viewerID uint) (*reaction.Summary, error)
	SummarizeBatch(ctx context.Context, itemIDs []uint, viewerID uint) (map[uint]reaction.Badge, error)
}

type Service struct {
	repo      Repository
	sellers   Sellers
	reactions Reactions
	images    ImageStore
	events    EventPublisher
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, sellers Sellers, reactions Reactions, images ImageStore, events EventPublisher, log logger.Logger) *Service {
	if events == nil {
		events = NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		sellers:   sellers,
		reactions: reactions,
		images:    images,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) Hostels(ctx context.Context, campusFilter string) ([]Hostel, error) {
	code, _ := ResolveCampusFilter(campusFilter, nil)
	return s.repo.ListHostels(ctx, code)
}

// Detail returns an item, up to SimilarLimit newest items of the same
// category and the item's reaction summary for viewerID.
func (s *Service) Detail(ctx context.Context, itemID, viewerID uint) (*ItemDetail, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	similar, err := s.repo.SimilarItems(ctx, item.CategoryID, item.ID, SimilarLimit)
	if err != nil {
		return nil, err
	}

	detail := &ItemDetail{Item: *item, Similar: similar}
	if s.reactions != nil {
		summary, err := s.reactions.Summarize(ctx, item.ID, viewerID)
		if err != nil {
			return nil, err
		}
		detail.Reactions = summary
	}
	return detail, nil
}

// MyListings returns the seller's items, newest first with sold items last.
func (s *Service) MyListings(ctx context.Context, sellerID uint) ([]Item, error) {
	items, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return Rank(items, SortNewest), nil
}

// CreateItem stores a new listing for sellerID. The phone falls back to the
// seller's, the hostel always comes from the seller, and a phone or hostel in
// input is saved to the seller's profile first.
func (s *Service) CreateItem(ctx context.Context, sellerID uint, input ItemInput) (*Item, error) {
	if len(input.Images) > MaxImages {
		return nil, ErrTooManyImages
	}
	seller, err := s.prepareSeller(ctx, sellerID, input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := Item{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		SellerID:    seller.ID,
		CategoryID:  input.CategoryID,
		HostelName:  seller.HostelName,
		Phone:       nonEmpty(input.Phone),
		UpdatedAt:   now,
	}
	applyContact(&item, seller.Phone)

	uploaded, err := s.upload(ctx, input.Images, 0)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateItem(ctx, &item); err != nil {
			return err
		}
		if len(uploaded) == 0 {
			return nil
		}
		for i := range uploaded {
			uploaded[i].ItemID = item.ID
		}
		return tx.CreateImages(ctx, uploaded)
	})
	if err != nil {
		s.removeObjects(ctx, uploaded)
		return nil, err
	}

	item.Images = uploaded
	item.Seller = *seller
	s.log.Info("listing.create: item created", "item_id", item.ID, "user_id", seller.ID, "images", len(uploaded))
	s.publish(ctx, EventCreated, seller, item)
	return &item, nil
}

// UpdateItem edits a listing without advancing its UpdatedAt. keepImageIDs
// lists the images to keep in their new display order; other images are
// deleted and new uploads are appended up to MaxImages.
func (s *Service) UpdateItem(ctx context.Context, sellerID, itemID uint, input ItemInput, keepImageIDs []uint) (*Item, error) {
	item, err := s.ownedItem(ctx, sellerID, itemID)
	if err != nil {
		return nil, err
	}
	seller, err := s.prepareSeller(ctx, sellerID, input)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListImages(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	kept, removed := partitionImages(existing, keepImageIDs)

	newUploads := input.Images
	if room := MaxImages - len(kept); len(newUploads) > room {
		newUploads = newUploads[:max(room, 0)]
	}
	uploaded, err := s.upload(ctx, newUploads, len(kept))
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.Description = strings.TrimSpace(input.Description)
	item.Price = input.Price
	item.CategoryID = input.CategoryID
	item.HostelName = seller.HostelName
	item.Phone = nonEmpty(input.Phone)
	applyContact(item, seller.Phone)

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.SaveItem(ctx, item); err != nil {
			return err
		}
		if len(removed) > 0 {
			if err := tx.DeleteImages(ctx, imageIDs(removed)); err != nil {
				return err
			}
		}
		for order, image := range kept {
			if image.DisplayOrder == order {
				continue
			}
			if err := tx.UpdateImageOrder(ctx, image.ID, order); err != nil {
				return err
			}
		}
		if len(uploaded) == 0 {
			return nil
		}
		for i := range uploaded {
			uploaded[i].ItemID = item.ID
		}
		return tx.CreateImages(ctx, uploaded)
	})
	if err != nil {
		s.removeObjects(ctx, uploaded)
		return nil, err
	}
	s.removeObjects(ctx, removed)

	for i := range kept {
		kept[i].DisplayOrder = i
	}
	item.Images = append(kept, uploaded...)
	item.Seller = *seller
	s.publish(ctx, EventUpdated, seller, *item)
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, sellerID, itemID uint) error {
	item, err := s.ownedItem(ctx, sellerID, itemID)
	if err != nil {
		return err
	}
	return s.deleteItems(ctx, []Item{*item})
}

// MarkSold flags an item as sold. It does not count as a meaningful edit.
func (s *Service) MarkSold(ctx context.Context, sellerID, itemID uint) (*Item, error) {
	item, err := s.ownedItem(ctx, sellerID, itemID)
	if err != nil {
		return nil, err
	}
	item.IsSold = true
	applyContact(item, item.Seller.Phone)
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, EventSold, &item.Seller, *item)
	return item, nil
}

// Repost puts an item back on sale at the top of the feed, moving it to the
// seller's current hostel when they have one.
func (s *Service) Repost(ctx context.Context, sellerID, itemID uint) (*Item, error) {
	item, err := s.ownedItem(ctx, sellerID, itemID)
	if err != nil {
		return nil, err
	}
	item.IsSold = false
	if item.Seller.HostelName != nil {
		item.HostelName = item.Seller.HostelName
	}
	item.UpdatedAt = s.now()
	applyContact(item, item.Seller.Phone)
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, EventReposted, &item.Seller, *item)
	return item, nil
}

func (s *Service) ownedItem(ctx context.Context, sellerID, itemID uint) (*Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != sellerID {
		return nil, ErrNotSeller
	}
	return item, nil
}

// prepareSeller checks the listing form against the seller's profile and
// saves a supplied phone or hostel to it.
func (s *Service) prepareSeller(ctx context.Context, sellerID uint, input ItemInput) (*person.Person, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}

	seller, err := s.sellers.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	phone := nonEmpty(input.Phone)
	hostel := nonEmpty(input.Hostel)
	if seller.Phone == nil && phone == nil {
		return nil, ErrPhoneRequired
	}
	if seller.HostelName == nil && hostel == nil {
		return nil, ErrHostelRequired
	}

	exists, err := s.repo.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	if phone == nil && hostel == nil {
		return seller, nil
	}
	return s.sellers.UpdateContact(ctx, sellerID, person.ContactUpdate{Phone: phone, Hostel: hostel})
}

func (s *Service) upload(ctx context.Context, uploads []Upload, firstOrder int) ([]Image, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if s.images == nil {
		return nil, ErrStorageUnavailable
	}

	images := make([]Image, 0, len(uploads))
	for i, upload := range uploads {
		key, url, err := s.images.Put(ctx, "items", upload.Filename, upload.Content)
		if err != nil {
			s.removeObjects(ctx, images)
			return nil, fmt.Errorf("store image %q: %w", upload.Filename, err)
		}
		images = append(images, Image{ObjectKey: key, URL: url, DisplayOrder: firstOrder + i})
	}
	return images, nil
}

func (s *Service) removeObjects(ctx context.Context, images []Image) {
	if s.images == nil {
		return
	}
	for _, image := range images {
		if err := s.images.Delete(ctx, image.ObjectKey); err != nil {
			s.log.InternalError("listing.images: failed to delete object", err, "key", image.ObjectKey)
		}
	}
}

func (s *Service) publish(ctx context.Context, eventType EventType, seller *person.Person, items ...Item) {
	events := make([]Event, 0, len(items))
	for _, item := range items {
		event := Event{
			Type:       eventType,
			ItemID:     item.ID,
			SellerID:   item.SellerID,
			CategoryID: item.CategoryID,
			Name:       item.Name,
			Price:      item.Price,
			IsSold:     item.IsSold,
			OccurredAt: s.now().UTC(),
		}
		if seller != nil {
			event.Campus = seller.Campus
		}
		events = append(events, event)
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.log.InternalError("listing.events: publish failed", err, "type", eventType, "count", len(events))
	}
}

// applyContact derives the stored phone and WhatsApp link and keeps the price
// non-negative. An item without its own phone uses sellerPhone.
func applyContact(item *Item, sellerPhone *string) {
	phone := item.Phone
	if phone == nil {
		phone = sellerPhone
	}
	item.Phone = contact.NormalizePhonePtr(phone)
	item.WhatsApp = nil
	if item.Phone != nil {
		link := contact.WhatsAppLink(*item.Phone, fmt.Sprintf(inquiryTemplate, item.Name))
		item.WhatsApp = &link
	}
	item.Price = item.Price.Abs()
}

// partitionImages splits existing into the images named by keep, in keep's
// order, and the rest. IDs that do not belong to the item are ignored.
func partitionImages(existing []Image, keep []uint) (kept, removed []Image) {
	byID := make(map[uint]Image, len(existing))
	for _, image := range existing {
		byID[image.ID] = image
	}

	kept = make([]Image, 0, len(keep))
	used := make(map[uint]bool, len(keep))
	for _, id := range keep {
		image, ok := byID[id]
		if !ok || used[id] {
			continue
		}
		used[id] = true
		kept = append(kept, image)
	}
	if len(kept) > MaxImages {
		kept = kept[:MaxImages]
	}

	keptIDs := make(map[uint]bool, len(kept))
	for _, image := range kept {
		keptIDs[image.ID] = true
	}
	for _, image := range existing {
		if !keptIDs[image.ID] {
			removed = append(removed, image)
		}
	}
	return kept, removed
}

func imageIDs(images []Image) []uint {
	ids := make([]uint, 0, len(images))
	for _, image := range images {
		ids = append(ids, image.ID)
	}
	return ids
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
