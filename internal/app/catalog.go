package app

import (
	"github.com/rs/zerolog/log"

	"github.com/corey/califica/internal/apperr"
	"github.com/corey/califica/internal/domain/names"
	"github.com/corey/califica/internal/domain/ratings"
)

// Courses returns a summary of every course in store order.
func (a *App) Courses() []ratings.CourseSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ratings.CourseSummary, 0, len(a.ratings.Courses))
	for _, c := range a.ratings.Courses {
		out = append(out, ratings.Summary(c))
	}
	return out
}

// CourseNames returns the course list.
func (a *App) CourseNames() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ratings.CourseNames()
}

// Snapshot returns a deep copy of the live store.
func (a *App) Snapshot() *ratings.Store {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ratings.Clone()
}

// course looks up a course by exact name. Caller holds a.mu.
func (a *App) course(name string) (*ratings.Course, error) {
	c := a.ratings.Course(name)
	if c == nil {
		return nil, apperr.NewNotFoundError("course " + name + " not found")
	}
	return c, nil
}

// Professors lists the course's professors matching query, best first.
func (a *App) Professors(course, query string) ([]ratings.Ranked, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.course(course)
	if err != nil {
		return nil, err
	}
	return ratings.Listing(c, query), nil
}

// Professor returns one professor's profile. The name is matched by key.
func (a *App) Professor(course, name string) (ratings.ProfessorProfile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.course(course)
	if err != nil {
		return ratings.ProfessorProfile{}, err
	}
	p := c.Professor(name)
	if p == nil {
		return ratings.ProfessorProfile{}, apperr.NewNotFoundError("professor " + name + " not found in " + course)
	}
	return ratings.Profile(c.Name, p), nil
}

// Suggest autocompletes professor names within a course.
func (a *App) Suggest(course, query string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.course(course)
	if err != nil {
		return nil, err
	}
	out := names.Suggest(c.ProfessorNames(), query, names.DefaultSuggestLimit)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// Stats computes the course's statistics.
func (a *App) Stats(course string) (ratings.CourseStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.course(course)
	if err != nil {
		return ratings.CourseStats{}, err
	}
	return ratings.ComputeStats(c), nil
}

// updateStore clones the live store, applies fn, persists the result and
// only then swaps it in. A failure at any step leaves the live store as it
// was.
func (a *App) updateStore(op string, fn func(next *ratings.Store) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.ratings.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := a.Store.SaveStore(next); err != nil {
		return persistErr(op, err)
	}
	a.ratings = next
	return nil
}

// AddReview records a review and returns its id.
func (a *App) AddReview(course, professor string, rating float64, comment string) (string, error) {
	var id string
	err := a.updateStore("add review", func(next *ratings.Store) error {
		var err error
		id, err = next.AddReview(course, professor, rating, comment, a.now())
		return err
	})
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("course", course).
		Str("professor", professor).
		Str("review_id", id).
		Msg("review added")
	return id, nil
}

// RemoveReview deletes a review. Removing a missing review succeeds.
func (a *App) RemoveReview(course, professor, id string) error {
	err := a.updateStore("remove review", func(next *ratings.Store) error {
		next.RemoveReview(course, professor, id)
		return nil
	})
	if err == nil {
		log.Debug().
			Str("course", course).
			Str("professor", professor).
			Str("review_id", id).
			Msg("review removed")
	}
	return err
}

// DeleteProfessor removes a professor and their reviews. Deleting a missing
// professor succeeds.
func (a *App) DeleteProfessor(course, professor string) error {
	err := a.updateStore("delete professor", func(next *ratings.Store) error {
		next.DeleteProfessor(course, professor)
		return nil
	})
	if err == nil {
		log.Info().Str("course", course).Str("professor", professor).Msg("professor deleted")
	}
	return err
}

// AddCourse ensures a course exists.
func (a *App) AddCourse(name string) error {
	err := a.updateStore("add course", func(next *ratings.Store) error {
		return next.EnsureCourse(name)
	})
	if err == nil {
		log.Info().Str("course", name).Msg("course ensured")
	}
	return err
}
