package listing

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 48
	MinPageSize     = 8
	MaxPageSize     = 120
)

type Page struct {
	Number      int  `json:"number"`
	Size        int  `json:"size"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	Start       int  `json:"-"`
	End         int  `json:"-"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// PageSize parses a requested page size, falling back to the default when it
// is not a number and clamping it into [MinPageSize, MaxPageSize].
func PageSize(raw string) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageSize
	}
	return max(MinPageSize, min(size, MaxPageSize))
}

// Paginate never fails: a missing or non-numeric page is page 1 and any page
// outside [1, NumPages] is the last page. An empty result still has one page.
func Paginate(count int, pageRaw, perPageRaw string) Page {
	size := PageSize(perPageRaw)

	numPages := 1
	if count > 0 {
		numPages = (count + size - 1) / size
	}

	number, err := strconv.Atoi(strings.TrimSpace(pageRaw))
	switch {
	case err != nil:
		number = 1
	case number < 1 || number > numPages:
		number = numPages
	}

	start := (number - 1) * size
	end := min(start+size, count)
	if start > count {
		start = count
	}

	return Page{
		Number:      number,
		Size:        size,
		NumPages:    numPages,
		Count:       count,
		Start:       start,
		End:         end,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}
