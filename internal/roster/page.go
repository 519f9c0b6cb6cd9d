package roster

import (
	"wellness/internal/models"
)

// DefaultPageSize is the number of employee cards per page.
const DefaultPageSize = 8

// Page is one slice of a filtered employee list.
type Page struct {
	Items      []models.Employee `json:"items"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Total      int               `json:"total"`
}

// TotalPages returns ceil(n/size).
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate slices out the 1-based page of items. It does not clamp: a page
// outside 1..TotalPages yields no items.
func Paginate(items []models.Employee, page, size int) Page {
	out := Page{
		Items:      []models.Employee{},
		Page:       page,
		TotalPages: TotalPages(len(items), size),
		Total:      len(items),
	}
	if page < 1 || size <= 0 {
		return out
	}
	start := (page - 1) * size
	if start >= len(items) {
		return out
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out.Items = append(out.Items, items[start:end]...)
	return out
}

// View filters then paginates.
func View(employees []models.Employee, f Filters, page, size int) Page {
	return Paginate(Apply(employees, f), page, size)
}
