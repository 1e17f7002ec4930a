package listing

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"campus-market-go/internal/domain/campus"
	"campus-market-go/internal/domain/person"
	"campus-market-go/internal/domain/reaction"
)

type FeedQuery struct {
	// Campus is a campus code, campus.All, or anything else for the viewer's default.
	Campus     string
	CategoryID *uint
	Query      string
	Sort       SortKey
	Page       string
	PerPage    string
}

type FeedItem struct {
	Item      Item
	Reactions reaction.Badge
}

type Feed struct {
	Items          []FeedItem
	Page           Page
	SelectedCampus string
	Categories     []CategoryCount
}

// ResolveCampusFilter returns the campus filter for a feed request and the
// tab to show as selected. A nil filter means all campuses.
func ResolveCampusFilter(requested string, viewer *person.Person) (*campus.Code, string) {
	if requested == campus.All {
		return nil, campus.All
	}
	if code, ok := campus.ParseReal(requested); ok {
		return &code, string(code)
	}
	if viewer != nil && viewer.Campus.IsReal() {
		code := viewer.Campus
		return &code, string(code)
	}
	return nil, campus.All
}

// Feed filters, ranks and paginates listings and enriches the returned page
// with images and reaction badges.
func (s *Service) Feed(ctx context.Context, viewer *person.Person, query FeedQuery) (*Feed, error) {
	campusFilter, selected := ResolveCampusFilter(query.Campus, viewer)
	filter := FeedFilter{
		Campus:     campusFilter,
		CategoryID: query.CategoryID,
		Query:      strings.TrimSpace(query.Query),
	}

	var (
		candidates []Item
		counts     []CategoryCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = s.repo.ListCandidates(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.CategoryCounts(gctx, campusFilter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].ItemCount > counts[j].ItemCount })

	ranked := Rank(candidates, query.Sort)
	page := Paginate(len(ranked), query.Page, query.PerPage)
	pageItems := ranked[page.Start:page.End]

	var viewerID uint
	if viewer != nil {
		viewerID = viewer.ID
	}
	items, err := s.enrich(ctx, pageItems, viewerID)
	if err != nil {
		return nil, err
	}

	return &Feed{
		Items:          items,
		Page:           page,
		SelectedCampus: selected,
		Categories:     counts,
	}, nil
}

// enrich loads images and reaction badges for a page of items.
func (s *Service) enrich(ctx context.Context, items []Item, viewerID uint) ([]FeedItem, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	var (
		images map[uint][]Image
		badges map[uint]reaction.Badge
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		images, err = s.repo.ImagesForItems(gctx, ids)
		return err
	})
	g.Go(func() error {
		if s.reactions == nil {
			return nil
		}
		var err error
		badges, err = s.reactions.SummarizeBatch(gctx, ids, viewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]FeedItem, 0, len(items))
	for _, item := range items {
		item.Images = images[item.ID]
		badge := badges[item.ID]
		if badge.Emojis == nil {
			badge.Emojis = []string{}
		}
		result = append(result, FeedItem{Item: item, Reactions: badge})
	}
	return result, nil
}
