package roster

import (
	"sync"

	"wellness/internal/models"
)

// Browser holds the employee list screen state: the loaded collection, the
// active filters and the current page. Every mutation is applied under one
// lock and returns the resulting page, so callers never observe a half
// applied update.
type Browser struct {
	mu        sync.Mutex
	employees []models.Employee
	filters   Filters
	page      int
	size      int
}

// NewBrowser creates an empty browser; size <= 0 selects DefaultPageSize.
func NewBrowser(size int) *Browser {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Browser{page: 1, size: size}
}

// PageSize returns the fixed page size.
func (b *Browser) PageSize() int { return b.size }

// SetEmployees replaces the collection and keeps the current page in range.
func (b *Browser) SetEmployees(employees []models.Employee) Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.employees = append([]models.Employee(nil), employees...)
	return b.clampLocked()
}

// Employees returns a copy of the loaded collection.
func (b *Browser) Employees() []models.Employee {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Employee(nil), b.employees...)
}

// Filters returns the active filters.
func (b *Browser) Filters() Filters {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters
}

// SetFilters replaces every filter value and goes back to page 1.
func (b *Browser) SetFilters(f Filters) Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filters = f
	b.page = 1
	return b.viewLocked()
}

// Reset clears all filters and goes back to page 1.
func (b *Browser) Reset() Page {
	return b.SetFilters(Filters{})
}

// GoTo moves to page. Pages outside 1..TotalPages leave the state unchanged
// and report false.
func (b *Browser) GoTo(page int) (Page, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	filtered := Apply(b.employees, b.filters)
	if page < 1 || page > TotalPages(len(filtered), b.size) {
		return Paginate(filtered, b.page, b.size), false
	}
	b.page = page
	return Paginate(filtered, b.page, b.size), true
}

// Current returns the current page.
func (b *Browser) Current() Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// Filtered returns every employee matching the active filters.
func (b *Browser) Filtered() []models.Employee {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Apply(b.employees, b.filters)
}

// SetReviewed updates one employee's reviewed flag. A reviewed filter may
// shrink the result, so the current page is clamped afterwards.
func (b *Browser) SetReviewed(id string, reviewed bool) (models.Employee, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.employees {
		if b.employees[i].ID != id {
			continue
		}
		b.employees[i].Reviewed = reviewed
		b.clampLocked()
		return b.employees[i], true
	}
	return models.Employee{}, false
}

func (b *Browser) viewLocked() Page {
	return View(b.employees, b.filters, b.page, b.size)
}

func (b *Browser) clampLocked() Page {
	filtered := Apply(b.employees, b.filters)
	last := TotalPages(len(filtered), b.size)
	if last < 1 {
		last = 1
	}
	if b.page > last {
		b.page = last
	}
	if b.page < 1 {
		b.page = 1
	}
	return Paginate(filtered, b.page, b.size)
}
