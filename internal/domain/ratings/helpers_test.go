package ratings

import (
	"fmt"
	"time"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// prof builds a professor whose reviews carry the given ratings, newest first.
func prof(name string, ratings ...int) *Professor {
	p := &Professor{Name: name, Reviews: []Review{}}
	for i, r := range ratings {
		p.Reviews = append(p.Reviews, Review{
			ID:        fmt.Sprintf("%s-%d", name, i),
			Rating:    r,
			CreatedAt: baseTime.Add(-time.Duration(i) * time.Hour),
		})
	}
	return p
}

func course(name string, profs ...*Professor) *Course {
	return &Course{Name: name, Professors: profs}
}

func store(courses ...*Course) *Store {
	return &Store{Courses: courses}
}

func ratingsOf(p *Professor) []int {
	out := make([]int, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		out = append(out, r.Rating)
	}
	return out
}
