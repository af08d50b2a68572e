package feed

import "github.com/jonathan/jobboard/internal/types"

// Page is one page of a filtered feed.
type Page struct {
	Items      []types.JobPosting `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	TotalCount int                `json:"total_count"`
	// Empty is set when no posting survived filtering. It is a normal
	// outcome, distinct from an error or an out-of-range page.
	Empty bool `json:"empty"`
}

// Paginate returns the 1-indexed page of posts. A page below 1 is treated as
// page 1; a size of zero or less falls back to DefaultPageSize. Pages past the
// end yield no items.
func Paginate(posts []types.JobPosting, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(posts)
	totalPages := 0
	if total > 0 {
		totalPages = (total-1)/size + 1
	}
	result := Page{
		Items:      []types.JobPosting{},
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalCount: total,
		Empty:      total == 0,
	}

	// Bounded before multiplying so huge page numbers cannot overflow.
	if page > totalPages {
		return result
	}
	start := (page - 1) * size
	end := start + min(size, total-start)
	result.Items = posts[start:end]
	return result
}

// View filters posts with the state's filters and dismissed set, then
// returns the state's current page.
func View(posts []types.JobPosting, state State, size int) Page {
	return Paginate(Filter(posts, state.Filters, state.Dismissed), state.Page, size)
}
