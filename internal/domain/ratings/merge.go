package ratings

import "github.com/corey/califica/internal/domain/names"

// Merge returns the canonical form of raw: per course, professor entries
// whose names share a key collapse into one entry. The first entry seen
// fixes the merged entry's display name and position; reviews of later
// entries are appended after it, each list keeping its order. Reviews
// without an id get one derived from their timestamp.
//
// A nil store merges to an empty store. Merge never modifies raw and is
// idempotent.
func Merge(raw *Store) *Store {
	out := NewStore()
	if raw == nil {
		return out
	}
	for _, rc := range raw.Courses {
		if rc == nil {
			continue
		}
		course := out.ensureCourse(rc.Name)
		byKey := make(map[string]*Professor, len(course.Professors)+len(rc.Professors))
		for _, p := range course.Professors {
			byKey[p.Key()] = p
		}
		for _, rp := range rc.Professors {
			if rp == nil {
				continue
			}
			display := names.Display(rp.Name)
			key := names.Key(display)
			p, ok := byKey[key]
			if !ok {
				p = &Professor{Name: display, Reviews: []Review{}}
				byKey[key] = p
				course.Professors = append(course.Professors, p)
			}
			for _, r := range rp.Reviews {
				r.ID = reviewID(r)
				p.Reviews = append(p.Reviews, r)
			}
		}
	}
	return out
}

// reviewID returns the review's id, falling back to its timestamp for
// legacy data that was stored without one.
func reviewID(r Review) string {
	if r.ID != "" {
		return r.ID
	}
	return FormatTimestamp(r.CreatedAt)
}
