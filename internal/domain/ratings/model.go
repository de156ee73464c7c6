// Package ratings holds the review store: courses, the professors rated in
// each course and their reviews, plus the pure operations over it (merge,
// seed reconciliation, mutations, statistics).
//
// Invariant of a canonical Store: within one course no two professors share
// a names.Key. Merge produces canonical stores and every mutation in this
// package preserves the invariant.
package ratings

import (
	"time"

	"github.com/corey/califica/internal/domain/names"
)

// Rating bounds. Ratings are integers in [MinRating, MaxRating].
const (
	MinRating = 1
	MaxRating = 10
)

// TimestampLayout is the ISO-8601 millisecond form used for review dates and
// for ids derived from them.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Review is a single rating of a professor. Reviews are never edited, only
// created or deleted.
type Review struct {
	ID        string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Professor is a rated professor within one course.
// Name is the display form; identity is names.Key(Name).
type Professor struct {
	Name    string
	Reviews []Review // newest first by convention
}

// Key returns the professor's comparison key.
func (p *Professor) Key() string {
	return names.Key(p.Name)
}

// Average returns the mean rating of the professor's reviews.
func (p *Professor) Average() float64 {
	return Average(p.Reviews)
}

// Course is a named course and the professors rated in it, in insertion order.
type Course struct {
	Name       string
	Professors []*Professor
}

// Professor finds a professor by name, comparing keys. Returns nil if absent.
func (c *Course) Professor(name string) *Professor {
	if i := c.indexOf(names.Key(name)); i >= 0 {
		return c.Professors[i]
	}
	return nil
}

// ProfessorNames returns display names in course order.
func (c *Course) ProfessorNames() []string {
	out := make([]string, 0, len(c.Professors))
	for _, p := range c.Professors {
		out = append(out, p.Name)
	}
	return out
}

// Reviews returns every review in the course, flattened in professor order.
func (c *Course) Reviews() []Review {
	var out []Review
	for _, p := range c.Professors {
		out = append(out, p.Reviews...)
	}
	return out
}

func (c *Course) indexOf(key string) int {
	for i, p := range c.Professors {
		if p.Key() == key {
			return i
		}
	}
	return -1
}

// Store maps course names to courses, in insertion order. Course names are
// compared by exact string equality.
type Store struct {
	Courses []*Course
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Course returns the course with exactly this name, or nil.
func (s *Store) Course(name string) *Course {
	for _, c := range s.Courses {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// CourseNames returns course names in store order.
func (s *Store) CourseNames() []string {
	out := make([]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		out = append(out, c.Name)
	}
	return out
}

// ensureCourse returns the named course, appending an empty one if missing.
func (s *Store) ensureCourse(name string) *Course {
	if c := s.Course(name); c != nil {
		return c
	}
	c := &Course{Name: name}
	s.Courses = append(s.Courses, c)
	return c
}

// Clone returns a deep copy of s. Mutating the copy never affects s.
func (s *Store) Clone() *Store {
	out := &Store{}
	if s.Courses != nil {
		out.Courses = make([]*Course, 0, len(s.Courses))
	}
	for _, c := range s.Courses {
		nc := &Course{Name: c.Name}
		if c.Professors != nil {
			nc.Professors = make([]*Professor, 0, len(c.Professors))
		}
		for _, p := range c.Professors {
			np := &Professor{Name: p.Name}
			if p.Reviews != nil {
				np.Reviews = make([]Review, len(p.Reviews))
				copy(np.Reviews, p.Reviews)
			}
			nc.Professors = append(nc.Professors, np)
		}
		out.Courses = append(out.Courses, nc)
	}
	return out
}
