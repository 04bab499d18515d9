package command

import "slices"

// recent is a most-recently-used list of command ids.
type recent struct {
	ids []string
	max int
}

func newRecent(max int) *recent {
	if max <= 0 {
		max = 50
	}
	return &recent{max: max}
}

func (r *recent) add(id string) {
	if i := slices.Index(r.ids, id); i >= 0 {
		r.ids = slices.Delete(r.ids, i, i+1)
	}
	r.ids = slices.Insert(r.ids, 0, id)
	if len(r.ids) > r.max {
		r.ids = r.ids[:r.max]
	}
}

// position returns 0 for the most recent id and -1 for unknown ids.
func (r *recent) position(id string) int { return slices.Index(r.ids, id) }

func (r *recent) list(limit int) []string {
	if limit <= 0 || limit > len(r.ids) {
		limit = len(r.ids)
	}
	return slices.Clone(r.ids[:limit])
}

func (r *recent) remove(id string) {
	if i := slices.Index(r.ids, id); i >= 0 {
		r.ids = slices.Delete(r.ids, i, i+1)
	}
}
