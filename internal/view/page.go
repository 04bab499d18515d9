package view

import "github.com/dshills/keygrid/internal/model"

// PageCount returns the number of pages of size for n rows. A size of zero
// or less disables paging and yields one page.
func PageCount(n, size int) int {
	if size <= 0 {
		return 1
	}
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage bounds page to [0, PageCount).
func ClampPage(page, n, size int) int {
	last := PageCount(n, size) - 1
	if page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Page returns the slice of v shown on page. Paging is disabled when size is
// zero or less.
func Page(v []int, page, size int) []int {
	if size <= 0 {
		return v
	}
	page = ClampPage(page, len(v), size)
	start := page * size
	end := min(start+size, len(v))
	return v[start:end]
}

// Materialize returns the rows referenced by v, in view order.
func Materialize(rows []model.Row, v []int) []model.Row {
	out := make([]model.Row, 0, len(v))
	for _, i := range v {
		if i >= 0 && i < len(rows) {
			out = append(out, rows[i])
		}
	}
	return out
}

// Position returns the view position of raw index i, or -1.
func Position(v []int, i int) int {
	for pos, idx := range v {
		if idx == i {
			return pos
		}
	}
	return -1
}
