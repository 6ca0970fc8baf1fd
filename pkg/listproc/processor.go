/*
File: processor.go
Description: Deterministic filter/search/pagination pipeline over cached
list documents. Applies the categorical filter, then the case-insensitive
substring search, then a fixed-size page slice, without re-fetching or
mutating the source document.
*/

package listproc

import (
	"strings"

	"github.com/xau-tools/xau/pkg/jsondoc"
)

// DefaultPageSize is the page size of every list view.
const DefaultPageSize = 50

// searchMinLength is the minimum search string length that takes effect.
// Shorter non-empty strings are ignored so the list does not thrash while
// the user is still typing.
const searchMinLength = 3

// Predicate decides whether a raw list element passes the categorical
// filter. A nil Predicate passes everything.
type Predicate func(jsondoc.Document) bool

// IncompleteGames passes titles that are not fully completed and actually
// have gamerscore to earn.
func IncompleteGames(doc jsondoc.Document) bool {
	achievement := doc.Object("achievement")
	return achievement.String("progressPercentage", "") != "100" &&
		achievement.String("totalGamerscore", "") != "0"
}

// UnlockedAchievements passes achieved entries.
func UnlockedAchievements(doc jsondoc.Document) bool {
	return doc.String("progressState", "") == "Achieved"
}

// LockedAchievements passes entries not yet achieved.
func LockedAchievements(doc jsondoc.Document) bool {
	return doc.String("progressState", "") != "Achieved"
}

// Result is one processed page plus the size of the whole filtered set.
type Result struct {
	Items      []jsondoc.Document
	TotalCount int
}

// Process runs the fixed pipeline over the raw elements:
// filter -> search (against nameField) -> count -> 1-based page slice.
// A page past the end yields an empty slice, never an error. searchText is
// assumed to already satisfy the length threshold; use Processor for the
// stateful threshold behavior.
func Process(items []jsondoc.Document, filter Predicate, searchText, nameField string, page, pageSize int) Result {
	filtered := make([]jsondoc.Document, 0, len(items))
	for _, item := range items {
		if filter != nil && !filter(item) {
			continue
		}
		filtered = append(filtered, item)
	}

	if searchText != "" {
		needle := strings.ToLower(searchText)
		matched := filtered[:0:len(filtered)]
		for _, item := range filtered {
			name := strings.ToLower(item.String(nameField, ""))
			if strings.Contains(name, needle) {
				matched = append(matched, item)
			}
		}
		filtered = matched
	}

	total := len(filtered)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	start := (page - 1) * pageSize
	if start >= total {
		return Result{Items: []jsondoc.Document{}, TotalCount: total}
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Result{Items: filtered[start:end], TotalCount: total}
}

// Processor carries the view state of one list page: the extracted raw
// elements, the active filter and search, and the current page index.
// Changing filter or search resets the page to 1; a 1-2 character search
// string is ignored and the previously displayed set is preserved.
type Processor struct {
	items     []jsondoc.Document
	nameField string
	pageSize  int

	filter Predicate
	search string
	page   int
}

// NewProcessor builds a processor over the elements under listKey of doc,
// searching against nameField.
func NewProcessor(doc jsondoc.Document, listKey, nameField string) *Processor {
	return &Processor{
		items:     doc.Array(listKey),
		nameField: nameField,
		pageSize:  DefaultPageSize,
		page:      1,
	}
}

// SetPageSize overrides the page size. Values below 1 keep the default.
func (p *Processor) SetPageSize(size int) {
	if size >= 1 {
		p.pageSize = size
	}
}

// SetFilter swaps the categorical filter and resets to the first page.
func (p *Processor) SetFilter(filter Predicate) {
	p.filter = filter
	p.page = 1
}

// SetSearch updates the search text. Length 0 clears the search; lengths
// 1-2 are ignored entirely (no page reset, no result change); length >= 3
// takes effect and resets to the first page.
func (p *Processor) SetSearch(text string) {
	if len(text) > 0 && len(text) < searchMinLength {
		return
	}
	if text == p.search {
		return
	}
	p.search = text
	p.page = 1
}

// SetPage moves to the given 1-based page index.
func (p *Processor) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page
}

// Page returns the current 1-based page index.
func (p *Processor) Page() int { return p.page }

// Process evaluates the pipeline for the current view state.
func (p *Processor) Process() Result {
	return Process(p.items, p.filter, p.search, p.nameField, p.page, p.pageSize)
}
