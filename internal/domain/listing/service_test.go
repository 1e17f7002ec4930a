package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"campus-market-go/internal/domain/campus"
	"campus-market-go/internal/domain/person"
	"campus-market-go/internal/domain/reaction"
)

type fakeListingRepo struct {
	items      map[uint]*Item
	images     map[uint]*Image
	categories []Category
	hostels    []Hostel
	sellers    map[uint]*person.Person
	nextItem   uint
	nextImage  uint
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		items:  make(map[uint]*Item),
		images: make(map[uint]*Image),
		categories: []Category{
			{ID: 1, Name: "Cycles"},
			{ID: 2, Name: "Books"},
			{ID: 3, Name: "Electronics"},
		},
		hostels: []Hostel{
			{Name: "AH5", Campus: campus.Pilani},
			{Name: "CH2", Campus: campus.Goa},
		},
		sellers:   make(map[uint]*person.Person),
		nextItem:  1,
		nextImage: 1,
	}
}

func (r *fakeListingRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeListingRepo) hydrate(item Item) Item {
	if seller, ok := r.sellers[item.SellerID]; ok {
		item.Seller = *seller
	}
	for _, category := range r.categories {
		if category.ID == item.CategoryID {
			item.Category = category
		}
	}
	return item
}

func (r *fakeListingRepo) matchesCampus(item *Item, code *campus.Code) bool {
	if code == nil {
		return true
	}
	seller, ok := r.sellers[item.SellerID]
	return ok && seller.Campus == *code
}

func (r *fakeListingRepo) sortedItems() []*Item {
	result := make([]*Item, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeListingRepo) ListCandidates(ctx context.Context, filter FeedFilter) ([]Item, error) {
	result := make([]Item, 0)
	query := strings.ToLower(filter.Query)
	for _, item := range r.sortedItems() {
		if !r.matchesCampus(item, filter.Campus) {
			continue
		}
		if filter.CategoryID != nil && item.CategoryID != *filter.CategoryID {
			continue
		}
		hydrated := r.hydrate(*item)
		if query != "" {
			fields := []string{hydrated.Name, hydrated.Description, hydrated.Category.Name}
			if hydrated.HostelName != nil {
				fields = append(fields, *hydrated.HostelName)
			}
			found := false
			for _, field := range fields {
				if strings.Contains(strings.ToLower(field), query) {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, hydrated)
	}
	return result, nil
}

func (r *fakeListingRepo) CategoryCounts(ctx context.Context, code *campus.Code) ([]CategoryCount, error) {
	result := make([]CategoryCount, 0, len(r.categories))
	for _, category := range r.categories {
		count := CategoryCount{ID: category.ID, Name: category.Name}
		for _, item := range r.items {
			if item.CategoryID == category.ID && r.matchesCampus(item, code) {
				count.ItemCount++
			}
		}
		result = append(result, count)
	}
	return result, nil
}

func (r *fakeListingRepo) ImagesForItems(ctx context.Context, itemIDs []uint) (map[uint][]Image, error) {
	result := make(map[uint][]Image)
	for _, id := range itemIDs {
		images, _ := r.ListImages(ctx, id)
		if len(images) > 0 {
			result[id] = images
		}
	}
	return result, nil
}

func (r *fakeListingRepo) GetItem(ctx context.Context, id uint) (*Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	hydrated := r.hydrate(*item)
	hydrated.Images, _ = r.ListImages(ctx, id)
	return &hydrated, nil
}

func (r *fakeListingRepo) SimilarItems(ctx context.Context, categoryID, excludeID uint, limit int) ([]Item, error) {
	result := make([]Item, 0)
	for _, item := range r.sortedItems() {
		if item.CategoryID == categoryID && item.ID != excludeID {
			result = append(result, r.hydrate(*item))
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeListingRepo) ListBySeller(ctx context.Context, sellerID uint) ([]Item, error) {
	result := make([]Item, 0)
	for _, item := range r.sortedItems() {
		if item.SellerID == sellerID {
			result = append(result, r.hydrate(*item))
		}
	}
	return result, nil
}

func (r *fakeListingRepo) ListBySellerAndIDs(ctx context.Context, sellerID uint, ids []uint) ([]Item, error) {
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	result := make([]Item, 0)
	for _, item := range r.sortedItems() {
		if item.SellerID == sellerID && wanted[item.ID] {
			result = append(result, r.hydrate(*item))
		}
	}
	return result, nil
}

func (r *fakeListingRepo) CreateItem(ctx context.Context, item *Item) error {
	item.ID = r.nextItem
	r.nextItem++
	stored := *item
	stored.Seller, stored.Category, stored.Images = person.Person{}, Category{}, nil
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeListingRepo) SaveItem(ctx context.Context, item *Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	stored := *item
	stored.Seller, stored.Category, stored.Images = person.Person{}, Category{}, nil
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeListingRepo) DeleteItem(ctx context.Context, id uint) error {
	delete(r.items, id)
	for imageID, image := range r.images {
		if image.ItemID == id {
			delete(r.images, imageID)
		}
	}
	return nil
}

func (r *fakeListingRepo) ListImages(ctx context.Context, itemID uint) ([]Image, error) {
	result := make([]Image, 0)
	for _, image := range r.images {
		if image.ItemID == itemID {
			result = append(result, *image)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeListingRepo) CreateImages(ctx context.Context, images []Image) error {
	for i := range images {
		images[i].ID = r.nextImage
		r.nextImage++
		stored := images[i]
		r.images[stored.ID] = &stored
	}
	return nil
}

func (r *fakeListingRepo) UpdateImageOrder(ctx context.Context, imageID uint, order int) error {
	r.images[imageID].DisplayOrder = order
	return nil
}

func (r *fakeListingRepo) DeleteImages(ctx context.Context, imageIDs []uint) error {
	for _, id := range imageIDs {
		delete(r.images, id)
	}
	return nil
}

func (r *fakeListingRepo) ListCategories(ctx context.Context) ([]Category, error) {
	return r.categories, nil
}

func (r *fakeListingRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	for _, category := range r.categories {
		if category.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeListingRepo) ListHostels(ctx context.Context, code *campus.Code) ([]Hostel, error) {
	result := make([]Hostel, 0)
	for _, hostel := range r.hostels {
		if code == nil || hostel.Campus == *code {
			result = append(result, hostel)
		}
	}
	return result, nil
}

// fakeSellers mirrors the person service against the repo's seller table.
type fakeSellers struct {
	repo *fakeListingRepo
}

func (f *fakeSellers) GetByID(ctx context.Context, id uint) (*person.Person, error) {
	seller, ok := f.repo.sellers[id]
	if !ok {
		return nil, person.ErrPersonNotFound
	}
	clone := *seller
	return &clone, nil
}

func (f *fakeSellers) UpdateContact(ctx context.Context, id uint, update person.ContactUpdate) (*person.Person, error) {
	seller, ok := f.repo.sellers[id]
	if !ok {
		return nil, person.ErrPersonNotFound
	}
	if update.Phone != nil {
		seller.Phone = update.Phone
	}
	if update.Hostel != nil {
		seller.HostelName = update.Hostel
	}
	clone := *seller
	return &clone, nil
}

type fakeStore struct {
	puts    []string
	deleted []string
	fail    bool
}

func (s *fakeStore) Put(ctx context.Context, prefix, filename string, content io.Reader) (string, string, error) {
	if s.fail {
		return "", "", errors.New("bucket unavailable")
	}
	if _, err := io.ReadAll(content); err != nil {
		return "", "", err
	}
	key := fmt.Sprintf("%s/%d-%s", prefix, len(s.puts)+1, filename)
	s.puts = append(s.puts, key)
	return key, "https://cdn.example/" + key, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type fakeReactions struct {
	badges map[uint]reaction.Badge
}

func (f *fakeReactions) Summarize(ctx context.Context, itemID, viewerID uint) (*reaction.Summary, error) {
	return &reaction.Summary{Total: f.badges[itemID].Total}, nil
}

func (f *fakeReactions) SummarizeBatch(ctx context.Context, itemIDs []uint, viewerID uint) (map[uint]reaction.Badge, error) {
	result := make(map[uint]reaction.Badge, len(itemIDs))
	for _, id := range itemIDs {
		result[id] = f.badges[id]
	}
	return result, nil
}

type recordingPublisher struct {
	events []Event
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...Event) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []EventType {
	result := make([]EventType, 0, len(p.events))
	for _, event := range p.events {
		result = append(result, event.Type)
	}
	return result
}

type fixture struct {
	repo      *fakeListingRepo
	store     *fakeStore
	publisher *recordingPublisher
	service   *Service
	clock     time.Time
}

func newFixture() *fixture {
	repo := newFakeListingRepo()
	f := &fixture{
		repo:      repo,
		store:     &fakeStore{},
		publisher: &recordingPublisher{},
		clock:     time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewService(repo, &fakeSellers{repo: repo}, &fakeReactions{}, f.store, f.publisher, nil)
	f.service.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) addSeller(id uint, code campus.Code, phone, hostel string) {
	seller := &person.Person{ID: id, Name: fmt.Sprintf("seller-%d", id), Email: fmt.Sprintf("s%d@gmail.com", id), Campus: code}
	if phone != "" {
		seller.Phone = &phone
	}
	if hostel != "" {
		seller.HostelName = &hostel
	}
	f.repo.sellers[id] = seller
}

func (f *fixture) addItem(item Item) uint {
	_ = f.repo.CreateItem(context.Background(), &item)
	return item.ID
}

func strPtr(value string) *string { return &value }

func uintPtr(value uint) *uint { return &value }

func TestResolveCampusFilter(t *testing.T) {
	goaViewer := &person.Person{Campus: campus.Goa}
	otherViewer := &person.Person{Campus: campus.Others}

	cases := []struct {
		name      string
		requested string
		viewer    *person.Person
		filter    string
		selected  string
	}{
		{name: "explicit all", requested: "ALL", viewer: goaViewer, filter: "", selected: "ALL"},
		{name: "explicit campus", requested: "HYD", viewer: goaViewer, filter: "HYD", selected: "HYD"},
		{name: "missing uses viewer campus", requested: "", viewer: goaViewer, filter: "GOA", selected: "GOA"},
		{name: "invalid uses viewer campus", requested: "MARS", viewer: goaViewer, filter: "GOA", selected: "GOA"},
		{name: "OTH is not a filter", requested: "OTH", viewer: goaViewer, filter: "GOA", selected: "GOA"},
		{name: "viewer without real campus sees all", requested: "", viewer: otherViewer, filter: "", selected: "ALL"},
		{name: "anonymous sees all", requested: "", viewer: nil, filter: "", selected: "ALL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filter, selected := ResolveCampusFilter(tc.requested, tc.viewer)
			got := ""
			if filter != nil {
				got = string(*filter)
			}
			if got != tc.filter || selected != tc.selected {
				t.Fatalf("expected filter %q selected %q, got %q %q", tc.filter, tc.selected, got, selected)
			}
		})
	}
}

func TestFeedFiltersFacetsAndEnrichment(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "", "CH2")
	f.addSeller(2, campus.Pilani, "", "AH5")
	base := f.clock.Add(-time.Hour)

	cycle := f.addItem(Item{Name: "Hero Cycle", Price: 2500, SellerID: 1, CategoryID: 1, UpdatedAt: base.Add(3 * time.Minute)})
	book := f.addItem(Item{Name: "Calculus", Description: "Thomas cycle edition", Price: 300, SellerID: 1, CategoryID: 2, UpdatedAt: base.Add(2 * time.Minute)})
	sold := f.addItem(Item{Name: "Kettle", Price: 400, SellerID: 1, CategoryID: 3, IsSold: true, UpdatedAt: base.Add(5 * time.Minute)})
	f.addItem(Item{Name: "Pilani Cycle", Price: 1500, SellerID: 2, CategoryID: 1, UpdatedAt: base})
	_ = f.repo.CreateImages(context.Background(), []Image{{ItemID: cycle, URL: "u1"}})
	f.service.reactions = &fakeReactions{badges: map[uint]reaction.Badge{cycle: {Emojis: []string{"👍"}, Total: 1}}}

	viewer := &person.Person{ID: 9, Campus: campus.Goa}
	feed, err := f.service.Feed(context.Background(), viewer, FeedQuery{Query: "CYCLE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.SelectedCampus != "GOA" {
		t.Fatalf("expected viewer campus, got %s", feed.SelectedCampus)
	}
	if len(feed.Items) != 2 || feed.Items[0].Item.ID != cycle || feed.Items[1].Item.ID != book {
		t.Fatalf("expected goa cycle then book, got %+v", feed.Items)
	}
	if len(feed.Items[0].Item.Images) != 1 || feed.Items[0].Reactions.Total != 1 {
		t.Fatalf("expected page enrichment, got %+v", feed.Items[0])
	}
	if feed.Items[1].Reactions.Emojis == nil {
		t.Fatalf("expected empty emoji list rather than nil")
	}

	var facetTotal int64
	for i, count := range feed.Categories {
		facetTotal += count.ItemCount
		if i > 0 && feed.Categories[i-1].ItemCount < count.ItemCount {
			t.Fatalf("expected facets sorted by count desc, got %+v", feed.Categories)
		}
	}
	if facetTotal != 3 {
		t.Fatalf("expected facet counts to sum to the campus total 3, got %d", facetTotal)
	}

	all, err := f.service.Feed(context.Background(), viewer, FeedQuery{Campus: "ALL", Sort: SortPriceAsc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Items) != 4 || all.Items[3].Item.ID != sold {
		t.Fatalf("expected sold item last across campuses, got %+v", all.Items)
	}

	byCategory, err := f.service.Feed(context.Background(), viewer, FeedQuery{Campus: "ALL", CategoryID: uintPtr(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byCategory.Items) != 2 {
		t.Fatalf("expected two cycles, got %d", len(byCategory.Items))
	}
	var allTotal int64
	for _, count := range byCategory.Categories {
		allTotal += count.ItemCount
	}
	if allTotal != 4 {
		t.Fatalf("expected facets to ignore the category filter, got %d", allTotal)
	}
}

func TestFeedPagination(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Hyderabad, "", "")
	for i := 0; i < 20; i++ {
		f.addItem(Item{Name: fmt.Sprintf("item-%d", i), Price: Price(i), SellerID: 1, CategoryID: 2})
	}

	feed, err := f.service.Feed(context.Background(), nil, FeedQuery{Sort: SortPriceAsc, Page: "9999", PerPage: "8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.Page.Number != 3 || len(feed.Items) != 4 || feed.Items[0].Item.Price != 16 {
		t.Fatalf("expected last page with 4 items, got page %d with %d", feed.Page.Number, len(feed.Items))
	}

	feed, err = f.service.Feed(context.Background(), nil, FeedQuery{Page: "abc", PerPage: "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.Page.Number != 1 || feed.Page.Size != MinPageSize || len(feed.Items) != MinPageSize {
		t.Fatalf("expected first page of %d, got %+v", MinPageSize, feed.Page)
	}
}

func TestCreateItemUsesSellerDefaults(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "+919876543210", "CH2")

	item, err := f.service.CreateItem(context.Background(), 1, ItemInput{
		Name:       " Hero Cycle ",
		Price:      -2500,
		CategoryID: 1,
		Images: []Upload{
			{Filename: "a.jpg", Content: strings.NewReader("a")},
			{Filename: "b.jpg", Content: strings.NewReader("b")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Price != 2500 {
		t.Fatalf("expected absolute price, got %s", item.Price)
	}
	if item.Phone == nil || *item.Phone != "+919876543210" {
		t.Fatalf("expected seller phone fallback, got %v", item.Phone)
	}
	want := "https://wa.me/919876543210?text=Hello%2C%20I%20am%20interested%20in%20buying%20Hero%20Cycle.%20Is%20it%20available%3F"
	if item.WhatsApp == nil || *item.WhatsApp != want {
		t.Fatalf("expected link %s, got %v", want, item.WhatsApp)
	}
	if item.HostelName == nil || *item.HostelName != "CH2" {
		t.Fatalf("expected seller hostel, got %v", item.HostelName)
	}
	if !item.UpdatedAt.Equal(f.clock) {
		t.Fatalf("expected updated_at set on create")
	}
	images, _ := f.repo.ListImages(context.Background(), item.ID)
	if len(images) != 2 || images[0].DisplayOrder != 0 || images[1].DisplayOrder != 1 {
		t.Fatalf("expected two ordered images, got %+v", images)
	}
	if got := f.publisher.types(); len(got) != 1 || got[0] != EventCreated {
		t.Fatalf("expected created event, got %v", got)
	}
}

func TestCreateItemRequiresContactAndUpdatesSeller(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "", "")
	ctx := context.Background()

	if _, err := f.service.CreateItem(ctx, 1, ItemInput{Name: "Lamp", CategoryID: 1, Hostel: strPtr("CH2")}); !errors.Is(err, ErrPhoneRequired) {
		t.Fatalf("expected ErrPhoneRequired, got %v", err)
	}
	if _, err := f.service.CreateItem(ctx, 1, ItemInput{Name: "Lamp", CategoryID: 1, Phone: strPtr("9876543210")}); !errors.Is(err, ErrHostelRequired) {
		t.Fatalf("expected ErrHostelRequired, got %v", err)
	}
	if _, err := f.service.CreateItem(ctx, 1, ItemInput{Name: "Lamp", CategoryID: 42, Phone: strPtr("1"), Hostel: strPtr("CH2")}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := f.service.CreateItem(ctx, 1, ItemInput{Name: " ", CategoryID: 1}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}

	item, err := f.service.CreateItem(ctx, 1, ItemInput{Name: "Lamp", CategoryID: 1, Phone: strPtr("501234567"), Hostel: strPtr("CH2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *item.Phone != "+971501234567" || *item.HostelName != "CH2" {
		t.Fatalf("expected normalized phone and hostel, got %v %v", *item.Phone, *item.HostelName)
	}
	seller := f.repo.sellers[1]
	if seller.Phone == nil || seller.HostelName == nil || *seller.HostelName != "CH2" {
		t.Fatalf("expected seller profile updated, got %+v", seller)
	}

	tooMany := make([]Upload, MaxImages+1)
	if _, err := f.service.CreateItem(ctx, 1, ItemInput{Name: "Lamp", CategoryID: 1, Images: tooMany}); !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("expected ErrTooManyImages, got %v", err)
	}
}

func TestCreateItemStorageFailure(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "+919876543210", "CH2")
	f.store.fail = true

	_, err := f.service.CreateItem(context.Background(), 1, ItemInput{
		Name:       "Lamp",
		CategoryID: 1,
		Images:     []Upload{{Filename: "a.jpg", Content: strings.NewReader("a")}},
	})
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if len(f.repo.items) != 0 {
		t.Fatalf("expected no item stored when images fail")
	}
}

func TestUpdateItemKeepsTimeAndReordersImages(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "+919876543210", "CH2")
	f.addSeller(2, campus.Goa, "+919000000000", "CH2")
	ctx := context.Background()
	posted := f.clock.Add(-48 * time.Hour)

	id := f.addItem(Item{Name: "Desk", Price: 100, SellerID: 1, CategoryID: 1, UpdatedAt: posted})
	_ = f.repo.CreateImages(ctx, []Image{
		{ItemID: id, ObjectKey: "k1", DisplayOrder: 0},
		{ItemID: id, ObjectKey: "k2", DisplayOrder: 1},
		{ItemID: id, ObjectKey: "k3", DisplayOrder: 2},
	})

	input := ItemInput{
		Name:       "Study Desk",
		Price:      120,
		CategoryID: 2,
		Images: []Upload{
			{Filename: "n1.jpg", Content: strings.NewReader("1")},
			{Filename: "n2.jpg", Content: strings.NewReader("2")},
			{Filename: "n3.jpg", Content: strings.NewReader("3")},
			{Filename: "n4.jpg", Content: strings.NewReader("4")},
		},
	}
	item, err := f.service.UpdateItem(ctx, 1, id, input, []uint{3, 1, 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.UpdatedAt.Equal(posted) {
		t.Fatalf("expected updated_at unchanged, got %s", item.UpdatedAt)
	}
	if item.Name != "Study Desk" || item.CategoryID != 2 {
		t.Fatalf("expected fields updated, got %+v", item)
	}

	images, _ := f.repo.ListImages(ctx, id)
	if len(images) != MaxImages {
		t.Fatalf("expected %d images, got %d", MaxImages, len(images))
	}
	if images[0].ObjectKey != "k3" || images[1].ObjectKey != "k1" {
		t.Fatalf("expected kept images reordered, got %+v", images)
	}
	if len(f.store.deleted) != 1 || f.store.deleted[0] != "k2" {
		t.Fatalf("expected k2 removed from storage, got %v", f.store.deleted)
	}

	if _, err := f.service.UpdateItem(ctx, 2, id, input, nil); !errors.Is(err, ErrNotSeller) {
		t.Fatalf("expected ErrNotSeller, got %v", err)
	}
	if _, err := f.service.UpdateItem(ctx, 1, 404, input, nil); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestMarkSoldAndRepost(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "+919876543210", "CH2")
	ctx := context.Background()
	posted := f.clock.Add(-72 * time.Hour)
	id := f.addItem(Item{Name: "Desk", Price: 100, SellerID: 1, CategoryID: 1, HostelName: strPtr("OLD"), UpdatedAt: posted})

	item, err := f.service.MarkSold(ctx, 1, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.IsSold || !item.UpdatedAt.Equal(posted) {
		t.Fatalf("expected sold without time change, got %+v", item)
	}

	item, err = f.service.Repost(ctx, 1, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.IsSold || !item.UpdatedAt.Equal(f.clock) {
		t.Fatalf("expected unsold with advanced time, got %+v", item)
	}
	if *item.HostelName != "CH2" {
		t.Fatalf("expected seller hostel after repost, got %s", *item.HostelName)
	}

	f.repo.sellers[1].HostelName = nil
	f.repo.items[id].HostelName = strPtr("KEEP")
	item, _ = f.service.Repost(ctx, 1, id)
	if *item.HostelName != "KEEP" {
		t.Fatalf("expected item hostel kept when seller has none, got %s", *item.HostelName)
	}

	if got := f.publisher.types(); len(got) != 3 || got[0] != EventSold || got[1] != EventReposted {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestBulkActions(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "+919876543210", "CH2")
	f.addSeller(2, campus.Goa, "+919000000000", "CH2")
	ctx := context.Background()
	posted := f.clock.Add(-24 * time.Hour)

	a := f.addItem(Item{Name: "A", SellerID: 1, CategoryID: 1, IsSold: true, HostelName: strPtr("OLD"), UpdatedAt: posted})
	b := f.addItem(Item{Name: "B", SellerID: 1, CategoryID: 1, UpdatedAt: posted})
	foreign := f.addItem(Item{Name: "C", SellerID: 2, CategoryID: 1, IsSold: true, UpdatedAt: posted})

	count, err := f.service.Bulk(ctx, 1, BulkRepost, []uint{a, foreign})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only own items affected, got %d", count)
	}
	if f.repo.items[a].IsSold || *f.repo.items[a].HostelName != "CH2" || !f.repo.items[a].UpdatedAt.Equal(posted) {
		t.Fatalf("expected repost without time change, got %+v", f.repo.items[a])
	}
	if !f.repo.items[foreign].IsSold {
		t.Fatalf("expected foreign item untouched")
	}

	if _, err := f.service.Bulk(ctx, 1, BulkToggleSold, []uint{a, b}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.repo.items[a].IsSold || !f.repo.items[b].IsSold {
		t.Fatalf("expected both toggled to sold")
	}

	if _, err := f.service.Bulk(ctx, 1, BulkDelete, []uint{a}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.repo.items[a]; ok {
		t.Fatalf("expected item deleted")
	}

	if _, err := f.service.Bulk(ctx, 1, BulkDelete, []uint{foreign}); !errors.Is(err, ErrNoItemsSelected) {
		t.Fatalf("expected ErrNoItemsSelected, got %v", err)
	}
	if _, err := f.service.Bulk(ctx, 1, BulkRepost, nil); !errors.Is(err, ErrNoItemsSelected) {
		t.Fatalf("expected ErrNoItemsSelected for empty selection, got %v", err)
	}
	if _, err := ParseBulkAction("archive"); !errors.Is(err, ErrUnknownBulkAction) {
		t.Fatalf("expected ErrUnknownBulkAction, got %v", err)
	}
}

func TestDeleteItemRemovesImages(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "+919876543210", "CH2")
	ctx := context.Background()
	id := f.addItem(Item{Name: "Desk", SellerID: 1, CategoryID: 1})
	_ = f.repo.CreateImages(ctx, []Image{{ItemID: id, ObjectKey: "k1"}})

	if err := f.service.DeleteItem(ctx, 2, id); !errors.Is(err, ErrNotSeller) {
		t.Fatalf("expected ErrNotSeller, got %v", err)
	}
	if err := f.service.DeleteItem(ctx, 1, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.repo.items) != 0 || len(f.repo.images) != 0 {
		t.Fatalf("expected item and images removed")
	}
	if len(f.store.deleted) != 1 || f.store.deleted[0] != "k1" {
		t.Fatalf("expected stored object deleted, got %v", f.store.deleted)
	}
}

func TestDetailAndMyListings(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "+919876543210", "CH2")
	ctx := context.Background()
	base := f.clock.Add(-time.Hour)

	target := f.addItem(Item{Name: "target", SellerID: 1, CategoryID: 1, UpdatedAt: base})
	for i := 0; i < 8; i++ {
		f.addItem(Item{Name: fmt.Sprintf("similar-%d", i), SellerID: 1, CategoryID: 1, UpdatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	f.addItem(Item{Name: "other category", SellerID: 1, CategoryID: 2, IsSold: true, UpdatedAt: base.Add(time.Hour)})

	detail, err := f.service.Detail(ctx, target, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Similar) != SimilarLimit || detail.Similar[0].Name != "similar-7" {
		t.Fatalf("expected %d newest similar items, got %d", SimilarLimit, len(detail.Similar))
	}
	for _, item := range detail.Similar {
		if item.ID == target {
			t.Fatalf("expected the item itself excluded")
		}
	}
	if detail.Reactions == nil {
		t.Fatalf("expected reaction summary")
	}
	if _, err := f.service.Detail(ctx, 999, 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	mine, err := f.service.MyListings(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 10 || mine[0].Name != "similar-7" || mine[9].Name != "other category" {
		t.Fatalf("expected newest first with sold last, got first=%s last=%s", mine[0].Name, mine[len(mine)-1].Name)
	}
}

func TestRefreshSellerContacts(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "", "CH2")
	ctx := context.Background()
	posted := f.clock.Add(-time.Hour)
	own := f.addItem(Item{Name: "Own", SellerID: 1, CategoryID: 1, Phone: strPtr("+971501234567"), UpdatedAt: posted})
	fallback := f.addItem(Item{Name: "Fallback", SellerID: 1, CategoryID: 1, UpdatedAt: posted})

	refresher := NewContactRefresher(f.repo, nil)
	if err := refresher.RefreshSellerContacts(ctx, 1, strPtr("+919876543210")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *f.repo.items[own].Phone != "+971501234567" {
		t.Fatalf("expected own phone kept, got %s", *f.repo.items[own].Phone)
	}
	if f.repo.items[fallback].Phone == nil || *f.repo.items[fallback].Phone != "+919876543210" {
		t.Fatalf("expected seller phone applied")
	}
	if f.repo.items[fallback].WhatsApp == nil || !strings.HasPrefix(*f.repo.items[fallback].WhatsApp, "https://wa.me/919876543210?text=") {
		t.Fatalf("expected whatsapp link, got %v", f.repo.items[fallback].WhatsApp)
	}
	if !f.repo.items[fallback].UpdatedAt.Equal(posted) {
		t.Fatalf("expected updated_at untouched")
	}
}

func TestHostelsAndCategories(t *testing.T) {
	f := newFixture()
	hostels, err := f.service.Hostels(context.Background(), "PIL")
	if err != nil || len(hostels) != 1 || hostels[0].Name != "AH5" {
		t.Fatalf("expected Pilani hostels, got %v %v", hostels, err)
	}
	hostels, _ = f.service.Hostels(context.Background(), "")
	if len(hostels) != 2 {
		t.Fatalf("expected all hostels without a campus, got %d", len(hostels))
	}
	categories, _ := f.service.Categories(context.Background())
	if len(categories) != 3 {
		t.Fatalf("expected three categories, got %d", len(categories))
	}
}

func facetSum(feed *Feed) int {
	var total int64
	for _, count := range feed.Categories {
		total += count.ItemCount
	}
	return int(total)
}

func TestFeedFacetsFollowCampusReassignment(t *testing.T) {
	f := newFixture()
	f.addSeller(1, campus.Goa, "9876543210", "CH2")
	f.addSeller(2, campus.Others, "9876543211", "")
	f.addItem(Item{Name: "Lamp", Price: 100, SellerID: 1, CategoryID: 1, UpdatedAt: f.clock})
	f.addItem(Item{Name: "Kettle", Price: 300, SellerID: 2, CategoryID: 3, UpdatedAt: f.clock})

	viewer := &person.Person{ID: 9, Campus: campus.Goa}
	before, err := f.service.Feed(context.Background(), viewer, FeedQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.Page.Count != 1 || facetSum(before) != 1 {
		t.Fatalf("expected one goa item, got count %d facet sum %d", before.Page.Count, facetSum(before))
	}

	// Geolocation moved seller 2 from OTH to GOA; no listing changed.
	f.repo.sellers[2].Campus = campus.Goa

	after, err := f.service.Feed(context.Background(), viewer, FeedQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.Page.Count != 2 {
		t.Fatalf("expected both items under goa, got %d", after.Page.Count)
	}
	if facetSum(after) != after.Page.Count {
		t.Fatalf("expected facet sum %d, got %d", after.Page.Count, facetSum(after))
	}
}
