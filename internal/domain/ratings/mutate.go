package ratings

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corey/califica/internal/apperr"
	"github.com/corey/califica/internal/domain/names"
)

// NewReviewID returns a fresh unique review id.
var NewReviewID = func() string {
	return uuid.NewString()
}

// ClampRating truncates x to an integer within [MinRating, MaxRating].
// NaN clamps to MinRating.
func ClampRating(x float64) int {
	if math.IsNaN(x) {
		return MinRating
	}
	x = math.Max(MinRating, math.Min(MaxRating, x))
	return int(math.Trunc(x))
}

// AddReview records a review and returns its id. The professor is matched by
// key against the course's existing professors, keeping the historical
// display name on a match; otherwise a new professor is created under
// names.Display(professor). The review is prepended. A missing course is
// created.
func (s *Store) AddReview(course, professor string, rating float64, comment string, now time.Time) (string, error) {
	if strings.TrimSpace(course) == "" {
		return "", apperr.NewValidationError("course name is required")
	}
	if strings.TrimSpace(professor) == "" {
		return "", apperr.NewValidationError("professor name is required")
	}

	c := s.ensureCourse(strings.TrimSpace(course))
	display := names.Display(professor)
	p := c.Professor(display)
	if p == nil {
		p = &Professor{Name: display}
		c.Professors = append(c.Professors, p)
	}

	r := Review{
		ID:        NewReviewID(),
		Rating:    ClampRating(rating),
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now.UTC(),
	}
	p.Reviews = append([]Review{r}, p.Reviews...)
	return r.ID, nil
}

// RemoveReview deletes the review with the given id. Missing course,
// professor or review is a no-op so repeated deletes are safe.
func (s *Store) RemoveReview(course, professor, id string) {
	c := s.Course(course)
	if c == nil {
		return
	}
	p := c.Professor(professor)
	if p == nil {
		return
	}
	kept := p.Reviews[:0:0]
	for _, r := range p.Reviews {
		if reviewID(r) != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(p.Reviews) {
		return
	}
	p.Reviews = kept
}

// DeleteProfessor removes a professor and all their reviews. No-op if absent.
func (s *Store) DeleteProfessor(course, professor string) {
	c := s.Course(course)
	if c == nil {
		return
	}
	i := c.indexOf(names.Key(professor))
	if i < 0 {
		return
	}
	c.Professors = append(c.Professors[:i:i], c.Professors[i+1:]...)
}

// EnsureCourse adds an empty course named strings.TrimSpace(name) unless it
// already exists.
func (s *Store) EnsureCourse(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.NewValidationError("course name is required")
	}
	s.ensureCourse(name)
	return nil
}
