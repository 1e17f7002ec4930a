package listing

import (
	"fmt"
	"sort"
	"strings"
)

type SortKey int

const (
	SortNewest SortKey = iota
	SortPriceAsc
	SortPriceDesc
)

func (k SortKey) Valid() bool {
	return k >= SortNewest && k <= SortPriceDesc
}

// ParseSortKey accepts "0", "1" or "2"; an empty value means SortNewest.
func ParseSortKey(raw string) (SortKey, error) {
	switch strings.TrimSpace(raw) {
	case "", "0":
		return SortNewest, nil
	case "1":
		return SortPriceAsc, nil
	case "2":
		return SortPriceDesc, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSortKey, raw)
	}
}

// Rank orders items by key, with every unsold item ahead of every sold one.
// The sort is stable inside each partition. An unknown key is a caller bug
// and panics; validate user input with ParseSortKey first.
func Rank(items []Item, key SortKey) []Item {
	var less func(a, b *Item) bool
	switch key {
	case SortNewest:
		less = func(a, b *Item) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	case SortPriceAsc:
		less = func(a, b *Item) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b *Item) bool { return a.Price > b.Price }
	default:
		panic(fmt.Sprintf("listing: unknown sort key %d", key))
	}

	unsold := make([]Item, 0, len(items))
	sold := make([]Item, 0)
	for _, item := range items {
		if item.IsSold {
			sold = append(sold, item)
		} else {
			unsold = append(unsold, item)
		}
	}

	sort.SliceStable(unsold, func(i, j int) bool { return less(&unsold[i], &unsold[j]) })
	sort.SliceStable(sold, func(i, j int) bool { return less(&sold[i], &sold[j]) })
	return append(unsold, sold...)
}
