// Package pagerange turns user page-range expressions such as "1-5, 8, 11-13"
// into concrete page selections.
package pagerange

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrEmptySelection = errors.New("page range selects no pages")

// Parse returns the ascending, duplicate-free pages in [1, maxPage] denoted by expr.
// Tokens that are not integers or integer pairs, and pages outside the bounds, are dropped.
func Parse(expr string, maxPage int) []int {
	seen := make(map[int]struct{})

	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if first, second, isRange := strings.Cut(token, "-"); isRange {
			start, errStart := strconv.Atoi(strings.TrimSpace(first))
			end, errEnd := strconv.Atoi(strings.TrimSpace(second))
			if errStart != nil || errEnd != nil {
				continue
			}
			if start > end {
				start, end = end, start
			}
			// clamp so a huge range does not iterate past the document
			start = max(start, 1)
			end = min(end, maxPage)
			for page := start; page <= end; page++ {
				seen[page] = struct{}{}
			}
			continue
		}

		page, err := strconv.Atoi(token)
		if err != nil || page < 1 || page > maxPage {
			continue
		}
		seen[page] = struct{}{}
	}

	pages := make([]int, 0, len(seen))
	for page := range seen {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

// All returns 1..pageCount.
func All(pageCount int) []int {
	pages := make([]int, 0, max(pageCount, 0))
	for page := 1; page <= pageCount; page++ {
		pages = append(pages, page)
	}
	return pages
}

// Select applies the selection policy: a blank expression means every page,
// and an expression that resolves to nothing is an ErrEmptySelection.
func Select(expr string, pageCount int) ([]int, error) {
	var pages []int
	if strings.TrimSpace(expr) == "" {
		pages = All(pageCount)
	} else {
		pages = Parse(expr, pageCount)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %q with %d pages", ErrEmptySelection, expr, pageCount)
	}
	return pages, nil
}
