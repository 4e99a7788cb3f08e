// Package pagination parses the page/size/sort query parameters shared by
// every listing endpoint and renders them into LIMIT/OFFSET and ORDER BY
// fragments. Sort fields are validated against a per-query whitelist so user
// input never reaches SQL unchecked.
package pagination

import (
	"strconv"
	"strings"
)

const (
	defaultSize = 10
	maxSize     = 100
)

// Page is a parsed paging request. Number is zero-based.
type Page struct {
	Number   int
	Size     int
	SortBy   string
	SortDesc bool
}

// Parse builds a Page from raw query values, falling back to the defaults
// (first page, 10 elements, id ascending) on anything unparsable.
func Parse(page, size, sort string) Page {
	p := Page{Size: defaultSize, SortBy: "id"}
	if n, err := strconv.Atoi(page); err == nil && n >= 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(size); err == nil && n > 0 {
		if n > maxSize {
			n = maxSize
		}
		p.Size = n
	}
	if sort != "" {
		parts := strings.SplitN(sort, ",", 2)
		p.SortBy = strings.TrimSpace(parts[0])
		if len(parts) == 2 {
			dir := strings.TrimSpace(parts[1])
			p.SortDesc = !strings.EqualFold(dir, "asc") && !strings.EqualFold(dir, "ascending")
		}
	}
	return p
}

// LimitOffset returns the SQL limit and offset for the page.
func (p Page) LimitOffset() (limit, offset int) {
	return p.Size, p.Number * p.Size
}

// OrderBy renders an ORDER BY fragment using the allowed map to translate
// exposed sort names into column names. Unknown fields sort by id ascending.
func (p Page) OrderBy(allowed map[string]string) string {
	col, ok := allowed[p.SortBy]
	if !ok {
		return "id ASC"
	}
	if p.SortDesc {
		return col + " DESC"
	}
	return col + " ASC"
}

// Result is the wire shape of a paged listing.
type Result struct {
	Content       any   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int64 `json:"totalPages"`
}

// NewResult assembles a Result, deriving the page count from the total.
func NewResult(content any, p Page, total int64) Result {
	pages := total / int64(p.Size)
	if total%int64(p.Size) != 0 {
		pages++
	}
	return Result{Content: content, Page: p.Number, Size: p.Size, TotalElements: total, TotalPages: pages}
}
